package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/favorite_api/internal/favorites"
)

// FavoriteQueueHandler is the queued variant of favorite creation: identical
// validation, but the request is published and persisted out-of-band.
type FavoriteQueueHandler struct {
	Service *favorites.Service
}

func (h *FavoriteQueueHandler) Create(c echo.Context) error {
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

	if err := h.Service.CreateAsync(c.Request().Context(), ident, clientID, req.ProductID); err != nil {
		return serviceError(err)
	}

	return c.JSON(http.StatusAccepted, echo.Map{
		"message":    "favorite accepted for processing",
		"client_id":  clientID,
		"product_id": req.ProductID,
	})
}
