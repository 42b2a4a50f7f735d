package config

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperr "github.com/apecglobal/logofield/pkg/errors"
	"github.com/apecglobal/logofield/pkg/placement"
)

// validate holds the field rules of [Config]. Besides the built-in tags it
// knows tenant, httpurl and logourl (the checks of pkg/errors) and finite.
var validate = newValidator()

// domainChecks maps the custom string tags to their validators.
var domainChecks = map[string]func(string) error{
	"tenant":  apperr.ValidateTenantName,
	"httpurl": apperr.ValidateURL,
	"logourl": apperr.ValidateLogoURL,
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("toml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	for tag, check := range domainChecks {
		v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return check(fl.Field().String()) == nil
		})
	}
	v.RegisterValidation("finite", func(fl validator.FieldLevel) bool {
		f := fl.Field().Float()
		return !math.IsNaN(f) && !math.IsInf(f, 0)
	})

	zone := "gte=0,lte=100"
	v.RegisterStructValidationMapRules(map[string]string{
		"Left": zone, "Right": zone, "Top": zone, "Bottom": zone,
	}, placement.SafeZone{})
	return v
}

// validationError turns the first failed rule into an INVALID_CONFIG error
// naming the offending key.
func validationError(err error) error {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return apperr.Wrap(apperr.ErrCodeInvalidConfig, err, "validate config")
	}
	return apperr.New(apperr.ErrCodeInvalidConfig, "%s", describe(ve[0]))
}

func describe(fe validator.FieldError) string {
	key := fe.Namespace()
	if _, rest, ok := strings.Cut(key, "."); ok {
		key = rest
	}
	switch fe.Tag() {
	case "required":
		return key + " is required"
	case "required_if":
		return fmt.Sprintf("%s is required when %s", key, strings.Replace(fe.Param(), " ", " is ", 1))
	case "oneof":
		return fmt.Sprintf("%s %q must be one of: %s", key, fe.Value(), strings.ReplaceAll(fe.Param(), " ", ", "))
	case "unique":
		return fmt.Sprintf("%s: duplicate %s", key, strings.ToLower(fe.Param()))
	case "finite":
		return fmt.Sprintf("%s must be a finite number, got %v", key, fe.Value())
	}
	if check, ok := domainChecks[fe.Tag()]; ok {
		return fmt.Sprintf("%s: %v", key, check(fmt.Sprint(fe.Value())))
	}
	return fmt.Sprintf("%s must satisfy %s=%s, got %v", key, fe.Tag(), fe.Param(), fe.Value())
}
