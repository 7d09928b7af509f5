package validator

import (
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// BusinessValidator handles business rule validation
type BusinessValidator struct {
	validate *validator.Validate
}

// NewBusinessValidator creates a new business validator
func NewBusinessValidator() *BusinessValidator {
	validate := validator.New()
	validate.RegisterTagNameFunc(formFieldName)

	bv := &BusinessValidator{validate: validate}
	bv.registerBusinessRules()

	return bv
}

// Validate validates business rules for any struct
func (bv *BusinessValidator) Validate(s interface{}) ValidationErrors {
	err := bv.validate.Struct(s)
	if err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

// ValidateLogin checks that both credentials were supplied
func (bv *BusinessValidator) ValidateLogin(req *LoginRequest) ValidationErrors {
	req.Normalize()
	return bv.Validate(req)
}

// ValidateJobPosting validates the posting form before any store round-trip
func (bv *BusinessValidator) ValidateJobPosting(req *JobPostingRequest) ValidationErrors {
	req.Normalize()
	return bv.Validate(req)
}

// ValidateNote validates note text after trimming
func (bv *BusinessValidator) ValidateNote(req *NoteRequest) ValidationErrors {
	req.Normalize()
	return bv.Validate(req)
}

func (bv *BusinessValidator) registerBusinessRules() {
	// Non-whitespace content
	bv.validate.RegisterValidation("not_blank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	// Calendar date from an HTML date input
	bv.validate.RegisterValidation("job_date", func(fl validator.FieldLevel) bool {
		_, err := parseDate(fl.Field().String())
		return err == nil
	})

	// Note text length counted in characters, not bytes
	bv.validate.RegisterValidation("note_text", func(fl validator.FieldLevel) bool {
		text := strings.TrimSpace(fl.Field().String())
		n := utf8.RuneCountInString(text)
		return n >= 1 && n <= MaxNoteLength
	})
}

func formFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
	if name == "" || name == "-" {
		return fld.Name
	}
	return name
}
