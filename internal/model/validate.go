package model

import "github.com/go-playground/validator/v10"

// validate is shared by every record type; validator caches struct metadata
// so a single instance is cheaper than one per call.
var validate = validator.New(validator.WithRequiredStructEnabled())

func validateStruct(v any) error {
	return validate.Struct(v)
}
