package validator

import (
	"errors"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	govalidator "github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/stemsi/student-records/internal/apperror"
)

// trans is the singleton English translator for validation errors.
var trans ut.Translator

// Setup registers the validator with English translations on Gin's binding engine.
// Call once during application startup.
func Setup() {
	if v, ok := binding.Validator.Engine().(*govalidator.Validate); ok {
		// Error field names come from the json tag, falling back to the form tag.
		v.RegisterTagNameFunc(tagName)

		enLocale := en.New()
		uni := ut.New(enLocale, enLocale)
		trans, _ = uni.GetTranslator("en")
		_ = en_translations.RegisterDefaultTranslations(v, trans)
	}
}

func tagName(fld reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return fld.Name
}

// TranslateErrors takes a binding/validation error and returns a map of
// field name → human-readable error message. If the error is not a
// validation error, it returns a single-key map with "detail".
func TranslateErrors(err error) map[string]string {
	fields := make(map[string]string)

	var ve govalidator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			if trans != nil {
				fields[fe.Field()] = fe.Translate(trans)
			} else {
				fields[fe.Field()] = fe.Error()
			}
		}
		return fields
	}

	// Not a validation error (e.g., JSON syntax error).
	fields["detail"] = err.Error()
	return fields
}

// IsValidation reports whether err came from struct tag validation rather than decoding.
func IsValidation(err error) bool {
	var ve govalidator.ValidationErrors
	return errors.As(err, &ve)
}

// Bind binds and validates a JSON request body into dst.
// Tag validation failures come back as an *apperror.ValidationError and
// undecodable bodies as an *apperror.PayloadError.
func Bind(c *gin.Context, dst interface{}) error {
	return bindError(c.ShouldBindJSON(dst))
}

// BindForm is Bind for a form-encoded or JSON body, chosen by Content-Type.
func BindForm(c *gin.Context, dst interface{}) error {
	return bindError(c.ShouldBind(dst))
}

func bindError(err error) error {
	switch {
	case err == nil:
		return nil
	case IsValidation(err):
		return apperror.NewValidationError(TranslateErrors(err))
	}
	return apperror.NewPayloadError(err)
}

// IsJSON reports whether the request body is JSON.
func IsJSON(c *gin.Context) bool {
	return c.ContentType() == binding.MIMEJSON
}
