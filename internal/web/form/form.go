// Package form defines the typed input structs for the HTML endpoints and
// validates them with go-playground/validator before any service call.
package form

import (
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report the form field name instead of the Go struct field name.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// FieldErrors maps a form field name to a human-readable message.
type FieldErrors map[string]string

func (fe FieldErrors) Any() bool {
	return len(fe) > 0
}

// First returns an arbitrary single message, for surfaces that only show one.
func (fe FieldErrors) First() string {
	for _, msg := range fe {
		return msg
	}
	return ""
}

// Validate runs the struct validations and translates failures into
// per-field messages.
func Validate(v any) FieldErrors {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return FieldErrors{"form": "invalid input"}
	}

	fieldErrs := make(FieldErrors, len(errs))
	for _, fe := range errs {
		fieldErrs[fe.Field()] = messageFor(fe)
	}
	return fieldErrs
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		if fe.Type().Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		if fe.Type().Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "len":
		return fmt.Sprintf("%s must be exactly %s characters", fe.Field(), fe.Param())
	case "eqfield":
		return "passwords do not match"
	case "numeric":
		return fmt.Sprintf("%s must contain only digits", fe.Field())
	case "alphanum":
		return fmt.Sprintf("%s must contain only letters and digits", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

// Login is the POST /login body.
type Login struct {
	Identity string `form:"identity" validate:"required"`
	Password string `form:"password" validate:"required"`
	Next     string `form:"next"`
}

// Register is the POST /register body.
type Register struct {
	Username        string `form:"username" validate:"required,min=3,max=20"`
	Phone           string `form:"phone" validate:"required"`
	Code            string `form:"code" validate:"required,len=6,numeric"`
	Password        string `form:"password" validate:"required,min=6,max=72"`
	PasswordConfirm string `form:"password_confirm" validate:"required,eqfield=Password"`
}

// RateGame is the POST /games/{slug}/rate body.
type RateGame struct {
	Score int `form:"score" validate:"required,min=1,max=5"`
}

// UploadGame is the POST /admin/games multipart body, minus the asset file.
type UploadGame struct {
	Title        string `form:"title" validate:"required,max=120"`
	Slug         string `form:"slug" validate:"omitempty,max=80"`
	Description  string `form:"description" validate:"max=2000"`
	Instructions string `form:"instructions" validate:"max=2000"`
}

// ParseLogin decodes and validates the login form.
func ParseLogin(r *http.Request) (Login, FieldErrors) {
	f := Login{
		Identity: strings.TrimSpace(r.PostFormValue("identity")),
		Password: r.PostFormValue("password"),
		Next:     r.PostFormValue("next"),
	}
	return f, Validate(&f)
}

// ParseRegister decodes and validates the registration form.
func ParseRegister(r *http.Request) (Register, FieldErrors) {
	f := Register{
		Username:        strings.TrimSpace(r.PostFormValue("username")),
		Phone:           strings.TrimSpace(r.PostFormValue("phone")),
		Code:            strings.TrimSpace(r.PostFormValue("code")),
		Password:        r.PostFormValue("password"),
		PasswordConfirm: r.PostFormValue("password_confirm"),
	}
	return f, Validate(&f)
}

// ParseRateGame decodes and validates the rating form.
func ParseRateGame(r *http.Request) (RateGame, FieldErrors) {
	score, err := strconv.Atoi(strings.TrimSpace(r.PostFormValue("score")))
	if err != nil {
		return RateGame{}, FieldErrors{"score": "score must be a number"}
	}
	f := RateGame{Score: score}
	return f, Validate(&f)
}

// ParseUploadGame decodes and validates the metadata fields of the upload
// form. The caller handles the multipart asset file separately.
func ParseUploadGame(r *http.Request) (UploadGame, FieldErrors) {
	f := UploadGame{
		Title:        strings.TrimSpace(r.PostFormValue("title")),
		Slug:         strings.TrimSpace(r.PostFormValue("slug")),
		Description:  strings.TrimSpace(r.PostFormValue("description")),
		Instructions: strings.TrimSpace(r.PostFormValue("instructions")),
	}
	return f, Validate(&f)
}
