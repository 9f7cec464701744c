// Package validation holds the custom validator rules and the translation
// of validator errors into per-field form messages.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// NonField is the key for errors that belong to the whole form.
const NonField = "__all__"

var (
	slugRe     = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	usernameRe = regexp.MustCompile(`^[\p{L}\p{N}_.@+-]+$`)
)

// Register installs the custom rules on v and reports field names by their
// form (or json) tag.
func Register(v *validator.Validate) error {
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, key := range []string{"form", "json"} {
			name := strings.SplitN(f.Tag.Get(key), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return f.Name
	})
	if err := v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return IsSlug(fl.Field().String())
	}); err != nil {
		return err
	}
	return v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernameRe.MatchString(fl.Field().String())
	})
}

// IsSlug reports whether s is a non-empty run of ASCII letters, digits,
// hyphens and underscores.
func IsSlug(s string) bool {
	return slugRe.MatchString(s)
}

// Errors maps a binding error to one message per field. Errors that are not
// validation failures land under NonField.
func Errors(err error) map[string]string {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{NonField: "Некорректные данные формы."}
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		if _, seen := out[fe.Field()]; !seen {
			out[fe.Field()] = Message(fe)
		}
	}
	return out
}

// Message renders a single validation failure for humans.
func Message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Обязательное поле."
	case "max":
		return fmt.Sprintf("Не более %s символов.", fe.Param())
	case "min":
		return fmt.Sprintf("Не менее %s символов.", fe.Param())
	case "email":
		return "Введите правильный адрес электронной почты."
	case "datetime":
		return "Введите правильную дату и время."
	case "eqfield":
		return "Введённые пароли не совпадают."
	case "slug":
		return "Допустимы только латинские буквы, цифры, дефис и знак подчёркивания."
	case "username":
		return "Допустимы только буквы, цифры и символы @/./+/-/_."
	}
	return "Некорректное значение."
}
