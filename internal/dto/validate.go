package dto

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"funkosrest/internal/apperr"
)

// messages holds the user-facing text per "field.tag". Unlisted pairs fall
// back to tagMessages.
var messages = map[string]string{
	"type.notblank":           "El tipo no puede estar vacío",
	"active.required":         "active no puede ser nulo",
	"name.notblank":           "El nombre no puede estar vacío",
	"price.required":          "price no puede ser nulo",
	"price.gte":               "El precio no puede estar en negativo",
	"quantity.required":       "quantity no puede ser nulo",
	"quantity.gte":            "La cantidad no puede estar en negativo",
	"image.notblank":          "La imagen no puede estar vacía",
	"categoryId.required":     "La categoría no puede estar vacía",
	"surname.notblank":        "Surname no puede estar vacío",
	"username.notblank":       "Username no puede estar vacío",
	"email.notblank":          "Email no puede estar vacío",
	"email.email":             "El Email debe de seguir el formato adecuado",
	"password.notblank":       "Password no puede estar vacío",
	"password.min":            "Password debe tener al menos 5 caracteres",
	"passwordRepeat.notblank": "La repetición de Password no puede estar vacía",
	"passwordRepeat.min":      "La repetición de Password debe tener al menos 5 caracteres",
}

var tagMessages = map[string]string{
	"required": "no puede ser nulo",
	"notblank": "no puede estar vacío",
	"gte":      "no puede ser negativo",
	"min":      "es demasiado corto",
	"email":    "no tiene un formato válido",
	"oneof":    "no es un valor permitido",
}

var (
	once     sync.Once
	validate *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
	})
	return validate
}

// Validate checks v's struct tags and returns an apperr validation error
// keyed by json field name.
func Validate(v any) error {
	err := instance().Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.Internal(err)
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		if _, seen := fields[field]; seen {
			continue
		}
		fields[field] = message(field, fe.Tag())
	}
	return apperr.Validation(fields)
}

func message(field, tag string) string {
	if m, ok := messages[field+"."+tag]; ok {
		return m
	}
	if m, ok := tagMessages[tag]; ok {
		return field + " " + m
	}
	return field + " no es válido"
}
