package validator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	playground "github.com/go-playground/validator/v10"

	apperrors "github.com/jwalitptl/dental-console/pkg/errors"
)

var (
	clock12Pattern = regexp.MustCompile(`^(0?[1-9]|1[0-2]):[0-5]\d\s?([AaPp][Mm])$`)
	clock24Pattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
	emailPattern   = regexp.MustCompile(`\S+@\S+\.\S+`)
)

// Validator provides validation functionality
type Validator interface {
	Validate(interface{}) error
}

type validator struct {
	v *playground.Validate
}

// New returns a validator that reports failures as a validation AppError keyed by json field name.
func New() Validator {
	v := playground.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	mustRegister(v, "clock12", func(fl playground.FieldLevel) bool {
		return clock12Pattern.MatchString(strings.TrimSpace(fl.Field().String()))
	})
	mustRegister(v, "clock24", func(fl playground.FieldLevel) bool {
		return clock24Pattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "isodate", func(fl playground.FieldLevel) bool {
		_, err := time.Parse("2006-01-02", fl.Field().String())
		return err == nil
	})
	mustRegister(v, "weekdays", weekdays)
	mustRegister(v, "loginemail", func(fl playground.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	return &validator{v: v}
}

// weekdays accepts a slice of structs whose Day fields name every day of the week exactly once.
func weekdays(fl playground.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.Slice || field.Len() != 7 {
		return false
	}
	seen := make(map[string]bool, 7)
	for i := 0; i < field.Len(); i++ {
		el := reflect.Indirect(field.Index(i))
		if el.Kind() != reflect.Struct {
			return false
		}
		day := el.FieldByName("Day")
		if !day.IsValid() || day.Kind() != reflect.String {
			return false
		}
		seen[day.String()] = true
	}
	for d := time.Sunday; d <= time.Saturday; d++ {
		if !seen[d.String()] {
			return false
		}
	}
	return true
}

func mustRegister(v *playground.Validate, tag string, fn playground.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

func (v *validator) Validate(obj interface{}) error {
	err := v.v.Struct(obj)
	if err == nil {
		return nil
	}

	var verrs playground.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.BadRequest("invalid input", err)
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		key := fieldKey(fe)
		if _, seen := fields[key]; seen {
			continue
		}
		fields[key] = message(obj, fe)
	}
	return apperrors.NewValidation(fields)
}

// fieldKey strips the top-level struct name from the namespace: "LoginRequest.email" -> "email".
func fieldKey(fe playground.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(obj interface{}, fe playground.FieldError) string {
	label := labelFor(obj, fe.StructField())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", label)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", label, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", label, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must not exceed %s characters", label, fe.Param())
		}
		return fmt.Sprintf("%s must not exceed %s", label, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", label, fe.Param())
	case "weekdays":
		return fmt.Sprintf("%s must list each day of the week once", label)
	case "len":
		return fmt.Sprintf("%s must have %s entries", label, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", label)
	}
}

// labelFor reads the `label` struct tag of a top-level field, falling back to the field name.
func labelFor(obj interface{}, field string) string {
	t := reflect.TypeOf(obj)
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t != nil && t.Kind() == reflect.Struct {
		if sf, ok := t.FieldByName(field); ok {
			if label := sf.Tag.Get("label"); label != "" {
				return label
			}
		}
	}
	return field
}
