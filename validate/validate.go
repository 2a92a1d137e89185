package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"cinebook/model"
	"github.com/go-playground/validator/v10"
)

var (
	validate = newValidator()
	now      = time.Now
)

// FieldError is a single problem with a form field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError blocks a submission before any request is made.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return "invalid input"
	}
	messages := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		messages = append(messages, f.Message)
	}
	return strings.Join(messages, "; ")
}

// For returns the message for field, or "".
func (e *ValidationError) For(field string) string {
	if e == nil {
		return ""
	}
	for _, f := range e.Fields {
		if f.Field == field {
			return f.Message
		}
	}
	return ""
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

type LoginForm struct {
	Email    string `label:"Email" validate:"required,email"`
	Password string `label:"Password" validate:"required"`
}

type RegisterForm struct {
	Name        string     `label:"Name" validate:"required,max=100"`
	Email       string     `label:"Email" validate:"required,email"`
	Password    string     `label:"Password" validate:"required,min=6"`
	Role        model.Role `label:"Role" validate:"required,oneof=user owner"`
	TheatreName string     `label:"Theatre name" validate:"required_if=Role owner,max=120"`
}

type ProfileForm struct {
	Name     string `label:"Name" validate:"required,max=100"`
	Email    string `label:"Email" validate:"required,email"`
	Phone    string `label:"Phone" validate:"omitempty,phone"`
	Location string `label:"Location" validate:"max=100"`
	Bio      string `label:"Bio" validate:"max=500"`
}

type CardForm struct {
	Holder string `label:"Cardholder name" validate:"required,max=100"`
	Number string `label:"Card number" validate:"required,credit_card"`
	Expiry string `label:"Expiry" validate:"required,expiry"`
	CVV    string `label:"CVV" validate:"required,numeric,min=3,max=4"`
}

func Login(form LoginForm) error {
	form.Email = strings.TrimSpace(form.Email)
	return check(form)
}

func Register(form RegisterForm) error {
	form.Name = strings.TrimSpace(form.Name)
	form.Email = strings.TrimSpace(form.Email)
	form.TheatreName = strings.TrimSpace(form.TheatreName)
	return check(form)
}

func Profile(form ProfileForm) error {
	form.Name = strings.TrimSpace(form.Name)
	form.Email = strings.TrimSpace(form.Email)
	form.Phone = strings.TrimSpace(form.Phone)
	return check(form)
}

func Card(form CardForm) error {
	form.Number = strings.TrimSpace(form.Number)
	form.Expiry = strings.TrimSpace(form.Expiry)
	form.CVV = strings.TrimSpace(form.CVV)
	return check(form)
}

func check(form any) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &ValidationError{}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{Field: fe.StructField(), Message: message(fe)})
	}
	return out
}

func message(fe validator.FieldError) string {
	label := fe.Field()
	switch fe.Tag() {
	case "required", "required_if":
		return fmt.Sprintf("%s is required", label)
	case "email":
		return "Enter a valid email address"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", label, fe.Param())
		}
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", label, fe.Param())
		}
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label, fe.Param())
	case "credit_card":
		return "Card number is invalid"
	case "expiry":
		return "Expiry must be a future MM/YY date"
	case "numeric":
		return fmt.Sprintf("%s must contain only digits", label)
	case "phone":
		return "Enter a valid phone number"
	}
	return fmt.Sprintf("%s is invalid", label)
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		if label := field.Tag.Get("label"); label != "" {
			return label
		}
		return field.Name
	})
	_ = v.RegisterValidation("expiry", validateExpiry)
	_ = v.RegisterValidation("phone", validatePhone)
	return v
}

// validateExpiry accepts MM/YY for the current month or later.
func validateExpiry(fl validator.FieldLevel) bool {
	month, year, ok := parseExpiry(fl.Field().String())
	if !ok {
		return false
	}
	current := now()
	if year != current.Year() {
		return year > current.Year()
	}
	return month >= int(current.Month())
}

func parseExpiry(value string) (int, int, bool) {
	parts := strings.Split(strings.TrimSpace(value), "/")
	if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 2 {
		return 0, 0, false
	}
	month, err := strconv.Atoi(parts[0])
	if err != nil || month < 1 || month > 12 {
		return 0, 0, false
	}
	year, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, false
	}
	return month, 2000 + year, true
}

// validatePhone accepts digits with optional leading + and common separators.
func validatePhone(fl validator.FieldLevel) bool {
	digits := 0
	for i, r := range fl.Field().String() {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '+' && i == 0:
		case r == ' ' || r == '-' || r == '(' || r == ')':
		default:
			return false
		}
	}
	return digits >= 7 && digits <= 15
}
