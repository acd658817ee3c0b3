// Package validation provides input validation for flatkit configuration
// and command-line input.
//
// It supports struct tag validation (using the validator library) and
// programmatic validation with error collection. Both return
// *errors.AppError values with code INVALID_INPUT and a "fields" detail.
//
// # Struct Tag Validation
//
//	type Settings struct {
//	    Mode string `validate:"required,oneof=forward backward"`
//	}
//	err := validation.Validate(settings)
//
// # Programmatic Validation
//
//	v := validation.New()
//	v.Custom(len(args) <= 1, "args", "accepts at most one input file")
//	err := v.Validate()
package validation
