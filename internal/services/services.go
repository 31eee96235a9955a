package services

import "errors"

var (
	errMissing     = errors.New("required field is empty")
	errInvalidEnum = errors.New("value is not one of the allowed set")
)
