package marketplace

import "errors"

var (
	// ErrEmptyID is returned when a URL builder receives an empty identifier.
	ErrEmptyID = errors.New("identifier is empty")

	// ErrInvalidID is returned when an identifier contains URL delimiters.
	ErrInvalidID = errors.New("identifier contains invalid characters")

	// ErrShopNotResolved is returned when the shop-detail lookup yields no shop id.
	ErrShopNotResolved = errors.New("shop id could not be resolved")

	// ErrNilDependency is returned when a required dependency is nil.
	ErrNilDependency = errors.New("required dependency is nil")
)
