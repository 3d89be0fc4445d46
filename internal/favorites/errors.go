package favorites

import "errors"

var (
	ErrClientNotFound   = errors.New("client not found")
	ErrProductNotFound  = errors.New("product not found")
	ErrFavoriteNotFound = errors.New("favorite not found")
	ErrForbidden        = errors.New("clients may only manage their own favorites")
	ErrDuplicate        = errors.New("product already in favorites")
)
