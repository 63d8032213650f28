package validator

import (
	"errors"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()

	// Use JSON tag names in error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	registerCustomValidations()
}

// MaxMoney is the largest amount a NUMERIC(10,2) column holds
const MaxMoney = 99999999.99

var (
	signupRoles     = []string{"client", "photographer"}
	bookingStatuses = []string{"PENDING", "CONFIRMED", "COMPLETED", "DECLINED", "CANCELLED"}
)

func oneOf(values []string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		v := fl.Field().String()
		for _, allowed := range values {
			if v == allowed {
				return true
			}
		}
		return false
	}
}

func registerCustomValidations() {
	validate.RegisterValidation("role", oneOf(signupRoles))
	validate.RegisterValidation("booking_status", oneOf(bookingStatuses))

	// notblank rejects whitespace-only strings
	validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	validate.RegisterValidation("money", func(fl validator.FieldLevel) bool {
		return IsMoney(fl.Field().Float())
	})
}

// IsMoney reports whether v is a non-negative amount with at most two
// decimals that fits a NUMERIC(10,2) column.
func IsMoney(v float64) bool {
	if math.IsNaN(v) || v < 0 || v > MaxMoney {
		return false
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if i := strings.IndexByte(s, '.'); i >= 0 {
		return len(s)-i-1 <= 2
	}
	return true
}

// Validate validates a struct and returns a map of field errors
func Validate(s interface{}) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"_": err.Error()}
	}

	result := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		result[fe.Field()] = message(fe)
	}
	return result
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "uuid", "uuid4":
		return "Must be a valid UUID"
	case "min":
		return "Value is too short (min: " + fe.Param() + ")"
	case "max":
		return "Value is too long (max: " + fe.Param() + ")"
	case "gte":
		return "Value must be at least " + fe.Param()
	case "lte":
		return "Value must be at most " + fe.Param()
	case "gtfield":
		return "Must be after " + fe.Param()
	case "url":
		return "Invalid URL format"
	case "role":
		return "Invalid role. Must be: client or photographer"
	case "money":
		return "Must be a non-negative amount with at most 2 decimals (max 99999999.99)"
	case "booking_status":
		return "Invalid status. Must be one of: " + strings.Join(bookingStatuses, ", ")
	default:
		return "Invalid value"
	}
}

// ValidateVar validates a single variable
func ValidateVar(field interface{}, tag string) error {
	return validate.Var(field, tag)
}
