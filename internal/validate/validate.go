// Package validate checks provider configs declared with validator/v10 tags
// and reports failures as *provider.ConfigError.
package validate

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	pr "github.com/unkn0wn-root/cachebox/provider"
)

var v = newValidator()

func newValidator() *validator.Validate {
	vv := validator.New(validator.WithRequiredStructEnabled())
	// report json names ("host") instead of Go field names ("Host")
	vv.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return vv
}

// Struct validates cfg. Every failing field is listed in the returned error.
func Struct(provider string, cfg any) error {
	err := v.Struct(cfg)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &pr.ConfigError{Provider: provider, Err: err}
	}
	fields := make([]pr.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, pr.FieldError{
			Field: fe.Field(),
			Rule:  fe.Tag(),
			Param: fe.Param(),
		})
	}
	return &pr.ConfigError{Provider: provider, Fields: fields}
}
