package validator

import (
	"errors"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	govalidator "github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// trans is the singleton English translator for validation errors.
var trans ut.Translator

// Setup registers the validator with English translations on Gin's binding engine.
// Call once during application startup.
func Setup() {
	if v, ok := binding.Validator.Engine().(*govalidator.Validate); ok {
		// Use JSON tag name for field names in error messages.
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		// Register English translations.
		enLocale := en.New()
		uni := ut.New(enLocale, enLocale)
		trans, _ = uni.GetTranslator("en")
		en_translations.RegisterDefaultTranslations(v, trans)

		for _, r := range customRules {
			registerCustom(v, r.tag, r.fn, r.message)
		}
	}
}

// customRules are the domain formats request structs refer to by tag.
var customRules = []struct {
	tag     string
	fn      govalidator.Func
	message string
}{
	{"exam_period", validateExamPeriod, "{0} must look like NOV/DEC 2024"},
	{"academic_year", validateAcademicYear, "{0} must be two consecutive years, e.g. 2024-2025"},
	{"course_code", validateCourseCode, "{0} must be 2-4 capital letters followed by 3-4 digits, e.g. CS3301"},
}

var (
	examPeriodPattern = regexp.MustCompile(`^[A-Za-z]{3}/[A-Za-z]{3} \d{4}$`)
	courseCodePattern = regexp.MustCompile(`^[A-Z]{2,4}\d{3,4}$`)
)

// validateExamPeriod accepts the printed examination session, e.g. "NOV/DEC 2024".
func validateExamPeriod(fl govalidator.FieldLevel) bool {
	return examPeriodPattern.MatchString(fl.Field().String())
}

// validateAcademicYear accepts "YYYY-YYYY" where the second year follows the first.
func validateAcademicYear(fl govalidator.FieldLevel) bool {
	from, to, ok := strings.Cut(fl.Field().String(), "-")
	if !ok || len(from) != 4 || len(to) != 4 {
		return false
	}
	a, err1 := strconv.Atoi(from)
	b, err2 := strconv.Atoi(to)
	return err1 == nil && err2 == nil && b == a+1
}

func validateCourseCode(fl govalidator.FieldLevel) bool {
	return courseCodePattern.MatchString(fl.Field().String())
}

func registerCustom(v *govalidator.Validate, tag string, fn govalidator.Func, message string) {
	_ = v.RegisterValidation(tag, fn)
	_ = v.RegisterTranslation(tag, trans,
		func(ut ut.Translator) error { return ut.Add(tag, message, true) },
		func(ut ut.Translator, fe govalidator.FieldError) string {
			t, _ := ut.T(tag, fe.Field())
			return t
		},
	)
}

// TranslateErrors takes a binding/validation error and returns a map of
// field name to human-readable error message. If the error is not a
// validation error, it returns a single-key map with "detail".
func TranslateErrors(err error) map[string]string {
	fields := make(map[string]string)

	var ve govalidator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			fields[fe.Field()] = fe.Translate(trans)
		}
		return fields
	}

	// Not a validation error (e.g., JSON syntax error).
	fields["detail"] = err.Error()
	return fields
}

// BindQuery binds and validates the query string into dst.
func BindQuery(c *gin.Context, dst interface{}) map[string]string {
	if err := c.ShouldBindQuery(dst); err != nil {
		return TranslateErrors(err)
	}
	return nil
}

// Bind binds and validates the request body into dst.
// Returns nil on success or a translated field error map on failure.
func Bind(c *gin.Context, dst interface{}) map[string]string {
	if err := c.ShouldBindJSON(dst); err != nil {
		return TranslateErrors(err)
	}
	return nil
}
