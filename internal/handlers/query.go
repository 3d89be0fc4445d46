package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/favorite_api/internal/favorites"
	"github.com/Skotchmaster/favorite_api/internal/util"
)

// QueryHandler exposes the read-only favorites projection.
type QueryHandler struct {
	Service *favorites.Service
}

func (h *QueryHandler) Favorites(c echo.Context) error {
	clientID, err := strconv.Atoi(c.QueryParam("client_id"))
	if err != nil || clientID < 1 {
		return echo.NewHTTPError(http.StatusBadRequest, "client_id query parameter is required")
	}

	limit := util.ParseIntDefault(c.QueryParam("limit"), util.DefaultLimit)
	offset := util.ParseIntDefault(c.QueryParam("offset"), 0)
	limit, offset = util.ClampLimitOffset(limit, offset)

	out, err := h.Service.Project(c.Request().Context(), uint(clientID), limit, offset)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, out)
}
