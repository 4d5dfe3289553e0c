package handlers

import (
	"errors"
	"reflect"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

const msgInvalidBody = "Invalid request body"

// BindJSON decodes and validates the body. On failure it writes a 400 whose
// message names the first offending field, e.g. "Email is required".
func BindJSON(ctx *gin.Context, out interface{}) bool {
	err := ctx.ShouldBindJSON(out)

	if err != nil {
		RespondBadRequest(ctx, bindErrorMessage(err, out))

		return false
	}

	return true
}

func bindErrorMessage(err error, out interface{}) string {
	var validatorError validator.ValidationErrors

	// validator reports fields in declaration order, the first one wins
	if errors.As(err, &validatorError) && len(validatorError) > 0 {
		fieldError := validatorError[0]
		return fieldLabel(baseStructType(out), fieldError.StructField()) + " " + validationMessage(fieldError.Tag(), fieldError.Param())
	}

	return msgInvalidBody
}

func baseStructType(v interface{}) reflect.Type {
	t := reflect.TypeOf(v)

	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if t != nil && t.Kind() == reflect.Struct {
		return t
	}

	return nil
}

// json name of the field, capitalised: Email, Name, Token
func fieldLabel(rootType reflect.Type, structField string) string {
	name := structField

	if rootType != nil {
		if sf, ok := rootType.FieldByName(structField); ok {
			if tag, _, _ := strings.Cut(sf.Tag.Get("json"), ","); tag != "" && tag != "-" {
				name = tag
			}
		}
	}

	if name == "" {
		return name
	}

	r := []rune(name)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

func validationMessage(rule, param string) string {
	switch rule {
	case "required":
		return "is required"
	case "email":
		return "is invalid"
	case "min":
		return "must be at least " + param + " characters"
	case "max":
		return "must be at most " + param + " characters"
	default:
		return "is invalid"
	}
}
