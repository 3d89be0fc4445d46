package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/favorite_api/internal/favorites"
)

func serviceError(err error) error {
	switch {
	case errors.Is(err, favorites.ErrClientNotFound),
		errors.Is(err, favorites.ErrProductNotFound),
		errors.Is(err, favorites.ErrFavoriteNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, favorites.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, favorites.ErrDuplicate):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
}
