package repository

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("product not found")
	ErrDuplicateCode = errors.New("duplicate product code")
	ErrInvalidValue  = errors.New("invalid value")
)

// ParseError reports a catalog file that exists but cannot be read as a product list.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse catalog %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
