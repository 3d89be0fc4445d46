package handlers

import (
	"errors"
	"net/http"
	"net/mail"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/favorite_api/internal/hash"
	"github.com/Skotchmaster/favorite_api/internal/models"
	"github.com/Skotchmaster/favorite_api/internal/token"
)

type ClientHandler struct {
	DB *gorm.DB
}

func clientIDParam(c echo.Context) (uint, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid client id")
	}
	return uint(id), nil
}

func (h *ClientHandler) List(c echo.Context) error {
	var clients []models.Client
	if err := h.DB.Order("id ASC").Find(&clients).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, clients)
}

func (h *ClientHandler) Get(c echo.Context) error {
	id, err := clientIDParam(c)
	if err != nil {
		return err
	}

	var client models.Client
	if err := h.DB.First(&client, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "client not found")
	}
	return c.JSON(http.StatusOK, client)
}

func (h *ClientHandler) Create(c echo.Context) error {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}

	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid email")
	}
	if len(req.Password) < minPasswordLen {
		return echo.NewHTTPError(http.StatusBadRequest, "password must be at least 8 characters")
	}

	var existing models.Client
	if err := h.DB.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "email already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	client := models.Client{Name: req.Name, Email: req.Email, HashedPassword: pwHash}
	if err := h.DB.Create(&client).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "email already registered")
	}
	return c.JSON(http.StatusCreated, client)
}

func (h *ClientHandler) Update(c echo.Context) error {
	id, err := clientIDParam(c)
	if err != nil {
		return err
	}

	ident, ok := token.CurrentIdentity(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing identity")
	}
	if ident.ID != id {
		return echo.NewHTTPError(http.StatusForbidden, "cannot update another client")
	}

	var req struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}

	var client models.Client
	if err := h.DB.First(&client, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "client not found")
	}

	if req.Email != "" && req.Email != client.Email {
		if _, err := mail.ParseAddress(req.Email); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid email")
		}
		var other models.Client
		if err := h.DB.Where("email = ? AND id <> ?", req.Email, id).First(&other).Error; err == nil {
			return echo.NewHTTPError(http.StatusBadRequest, "email already in use by another client")
		}
		client.Email = req.Email
	}
	if req.Name != "" {
		client.Name = req.Name
	}

	if err := h.DB.Save(&client).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "could not update client")
	}
	return c.JSON(http.StatusOK, client)
}

func (h *ClientHandler) Delete(c echo.Context) error {
	id, err := clientIDParam(c)
	if err != nil {
		return err
	}

	ident, ok := token.CurrentIdentity(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing identity")
	}
	if ident.ID != id {
		return echo.NewHTTPError(http.StatusForbidden, "cannot delete another client")
	}

	var client models.Client
	if err := h.DB.First(&client, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "client not found")
	}

	// owned favorites go with the client, mirroring the FK cascade
	if err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("client_id = ?", id).Delete(&models.Favorite{}).Error; err != nil {
			return err
		}
		return tx.Delete(&client).Error
	}); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "client deleted",
		"id":      id,
	})
}
