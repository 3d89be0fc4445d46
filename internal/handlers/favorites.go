package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/favorite_api/internal/favorites"
	"github.com/Skotchmaster/favorite_api/internal/token"
	"github.com/Skotchmaster/favorite_api/internal/util"
)

type FavoriteHandler struct {
	Service *favorites.Service
}

func favoriteParams(c echo.Context) (*token.Identity, uint, error) {
	ident, ok := token.CurrentIdentity(c)
	if !ok {
		return nil, 0, echo.NewHTTPError(http.StatusUnauthorized, "missing identity")
	}
	clientID, err := strconv.Atoi(c.Param("client_id"))
	if err != nil || clientID < 1 {
		return nil, 0, echo.NewHTTPError(http.StatusBadRequest, "invalid client id")
	}
	return ident, uint(clientID), nil
}

func (h *FavoriteHandler) List(c echo.Context) error {
	ident, clientID, err := favoriteParams(c)
	if err != nil {
		return err
	}

	limit := util.ParseIntDefault(c.QueryParam("limit"), util.DefaultLimit)
	offset := util.ParseIntDefault(c.QueryParam("offset"), 0)
	limit, offset = util.ClampLimitOffset(limit, offset)

	out, err := h.Service.List(c.Request().Context(), ident, clientID, limit, offset)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *FavoriteHandler) Create(c echo.Context) error {
	ident, clientID, err := favoriteParams(c)
	if err != nil {
		return err
	}

	var req struct {
		ProductID int `json:"product_id"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	if req.ProductID < 1 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	favorite, err := h.Service.CreateSync(c.Request().Context(), ident, clientID, req.ProductID)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, favorite)
}

func (h *FavoriteHandler) Delete(c echo.Context) error {
	ident, clientID, err := favoriteParams(c)
	if err != nil {
		return err
	}

	productID, err := strconv.Atoi(c.Param("product_id"))
	if err != nil || productID < 1 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	if err := h.Service.Remove(c.Request().Context(), ident, clientID, uint(productID)); err != nil {
		return serviceError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message":    "favorite removed",
		"client_id":  clientID,
		"product_id": productID,
	})
}
