package catalog

import "errors"

var (
	// ErrProductNotFound is returned when a product id has no catalog entry
	ErrProductNotFound = errors.New("product not found")
)
