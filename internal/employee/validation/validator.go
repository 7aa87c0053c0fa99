package validation

import (
	"context"
	"reflect"
	"regexp"
	"strings"

	"github.com/emsvc/employee-service/pkg/errors"
	"github.com/emsvc/employee-service/pkg/i18n"
	"github.com/go-playground/validator/v10"
)

var (
	personNameRe = regexp.MustCompile(`^[a-zA-Zа-яА-ЯёЁ\s\-]+$`)
	phoneRe      = regexp.MustCompile(`^\+?[\d\s\-().]*\d[\d\s\-().]*$`)
)

// Validator checks request payloads before they reach storage
type Validator struct {
	validate *validator.Validate
}

// New returns a Validator with the employee-specific tags registered
func New() *Validator {
	v := validator.New()

	// Report fields by their JSON names so details match the request body
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("personname", func(fl validator.FieldLevel) bool {
		return personNameRe.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phoneRe.MatchString(fl.Field().String())
	})

	return &Validator{validate: v}
}

// Struct validates v and returns an errors.Validation with one entry per
// failed field, keyed by its dotted JSON path (e.g. "passport.number").
func (v *Validator) Struct(ctx context.Context, s any) error {
	err := v.validate.StructCtx(ctx, s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return errors.InvalidArgument("request payload is not a struct")
	}

	details := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		details[fieldPath(fe)] = message(ctx, fe)
	}
	return errors.Validation(details)
}

// fieldPath strips the top-level struct name from the namespace
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(ctx context.Context, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "min", "max", "gte", "alphanum", "personname", "phone":
		return i18n.TFromContext(ctx, "validation."+fe.Tag(), map[string]string{"param": fe.Param()})
	default:
		return i18n.TFromContext(ctx, "validation.invalid")
	}
}
