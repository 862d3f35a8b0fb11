package application

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/example/homework-scheduler/internal/scheduler"
)

const (
	subjectTag   = "subject"
	subjectText  = "{0} must be one of: Web, Java, Spring, Database, Git, UX/UI, Deployment"
	dateTag      = "date"
	dateText     = "{0} must be a date (YYYY-MM-DD) or RFC 3339 timestamp"
	requiredTag  = "required"
	requiredText = "{0} is required"
)

// inputValidator checks caller supplied drafts and renders English messages
// keyed by JSON field name.
type inputValidator struct {
	validate   *validator.Validate
	translator ut.Translator
}

func newInputValidator() *inputValidator {
	english := en.New()
	translator, _ := ut.New(english, english).GetTranslator("en")

	validate := validator.New()
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation(subjectTag, func(fl validator.FieldLevel) bool {
		_, err := scheduler.ParseSubject(fl.Field().String())
		return err == nil
	})
	_ = validate.RegisterValidation(dateTag, func(fl validator.FieldLevel) bool {
		_, err := scheduler.ParseDate(fl.Field().String())
		return err == nil
	})

	registerTranslation(validate, translator, subjectTag, subjectText, false)
	registerTranslation(validate, translator, dateTag, dateText, false)
	registerTranslation(validate, translator, requiredTag, requiredText, true)

	return &inputValidator{validate: validate, translator: translator}
}

func registerTranslation(validate *validator.Validate, translator ut.Translator, tag, text string, override bool) {
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, override) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// check validates input and returns nil when it is acceptable.
func (v *inputValidator) check(input HomeworkInput) *ValidationError {
	err := v.validate.Struct(input)
	if err == nil {
		return nil
	}

	vErr := &ValidationError{}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			vErr.add(fe.Field(), fe.Translate(v.translator))
		}
		return vErr
	}
	vErr.add("input", err.Error())
	return vErr
}

// normalizeInput trims surrounding whitespace from free text fields.
func normalizeInput(input HomeworkInput) HomeworkInput {
	input.Subject = strings.TrimSpace(input.Subject)
	input.Title = strings.TrimSpace(input.Title)
	input.AssignedDate = strings.TrimSpace(input.AssignedDate)
	input.DueDate = strings.TrimSpace(input.DueDate)
	input.CreatedBy = strings.TrimSpace(input.CreatedBy)
	return input
}
