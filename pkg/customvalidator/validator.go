// Файл: pkg/customvalidator/validator.go

package customvalidator

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/aarondl/null/v8"
	"github.com/go-playground/validator/v10"

	"support-desk/pkg/constants"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// RegisterCustomValidations "собирает" все наши кастомные правила валидации
// и регистрирует их в переданном экземпляре валидатора.
func RegisterCustomValidations(v *validator.Validate) error {
	registerNullTypes(v)

	// В ошибках показываем json-имена полей, их видит клиент
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	if err := v.RegisterValidation("email", isGoodEmailFormat); err != nil {
		return err
	}
	if err := v.RegisterValidation("ticket_status", isTicketStatus); err != nil {
		return err
	}
	if err := v.RegisterValidation("ticket_priority", isTicketPriority); err != nil {
		return err
	}
	return nil
}

func IsEmail(s string) bool {
	return emailRegex.MatchString(s)
}

func isGoodEmailFormat(fl validator.FieldLevel) bool {
	return IsEmail(fl.Field().String())
}

// Принимает и старые названия статусов (pending, in-progress).
func isTicketStatus(fl validator.FieldLevel) bool {
	return constants.IsKnownStatus(constants.NormalizeStatus(fl.Field().String()))
}

func isTicketPriority(fl validator.FieldLevel) bool {
	return constants.IsKnownPriority(fl.Field().String())
}

// registerNullTypes учит валидатор "смотреть внутрь" null.String, null.Float64 и null.Time.
// Невалидное значение превращается в nil, чтобы сработал `omitempty`.
func registerNullTypes(v *validator.Validate) {
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if val, ok := field.Interface().(null.String); ok && val.Valid {
			return val.String
		}
		return nil
	}, null.String{})

	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if val, ok := field.Interface().(null.Float64); ok && val.Valid {
			return val.Float64
		}
		return nil
	}, null.Float64{})

	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if val, ok := field.Interface().(null.Time); ok && val.Valid {
			return val.Time
		}
		return nil
	}, null.Time{})
}
