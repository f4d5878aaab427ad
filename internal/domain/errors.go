package domain

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrForbidden          = errors.New("admin access required")
	ErrUnavailable        = errors.New("service unavailable")

	ErrMalformedFeed = errors.New("malformed feed")
	ErrFeedExhausted = errors.New("product feed unavailable")

	ErrSizeRequired     = errors.New("por favor selecciona una talla")
	ErrInvalidSize      = errors.New("talla no disponible")
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrProductNotFound  = errors.New("product not found")
	ErrEmptyCart        = errors.New("cart is empty")

	ErrImageNotFound = errors.New("image not found")
)
