package directory

import (
	"errors"
	"fmt"
)

var (
	// ErrProviderNotFound is returned when no dentist matches an id or slug
	ErrProviderNotFound = errors.New("dentist not found")

	// ErrMissingID is returned when a catalog record has no id
	ErrMissingID = errors.New("dentist id is required")

	// ErrInvalidProvider wraps structural problems in catalog records
	ErrInvalidProvider = errors.New("invalid dentist record")

	// ErrDuplicateProvider is returned when two records share an id or slug
	ErrDuplicateProvider = errors.New("duplicate dentist record")

	// ErrUnsupportedFormat is returned for catalog files that are neither JSON nor YAML
	ErrUnsupportedFormat = errors.New("unsupported catalog format")
)

func invalidProvider(id, reason string) error {
	return fmt.Errorf("%w %q: %s", ErrInvalidProvider, id, reason)
}
