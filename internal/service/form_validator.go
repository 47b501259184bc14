package service

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/model"
	pkgerrors "github.com/t3ch-N/mAGICAL-clone-sub001/pkg/errors"
)

const (
	maxFormFields    = 200
	maxFormFieldName = 64
)

// requiredFields per module. The submission store never looks inside
// form_data; this is the only place that knows module schemas.
var requiredFields = map[model.ModuleType][]string{
	model.ModuleVolunteers:  {"first_name", "last_name", "email", "phone", "consent_given"},
	model.ModuleVendors:     {"company_name", "contact_person", "email", "phone"},
	model.ModuleMedia:       {"full_name", "organization", "email"},
	model.ModuleProAm:       {"full_name", "email", "handicap"},
	model.ModuleProcurement: {"company_name", "email", "tender_category"},
	model.ModuleJobs:        {"full_name", "email", "position_applied"},
}

var phoneReplacer = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")

// FormValidator checks applicant form_data before it reaches the store.
type FormValidator struct {
	validate *validator.Validate
}

// NewFormValidator creates a FormValidator.
func NewFormValidator() *FormValidator {
	return &FormValidator{validate: validator.New()}
}

// Validate returns a *errors.ValidationError listing every problem, or nil.
func (v *FormValidator) Validate(module model.ModuleType, form model.FormData) error {
	verr := pkgerrors.NewValidationError()

	if len(form) == 0 {
		verr.Add("form_data", "must not be empty")
		return verr
	}
	if len(form) > maxFormFields {
		verr.Add("form_data", fmt.Sprintf("must not have more than %d fields", maxFormFields))
	}
	for _, f := range form {
		switch {
		case strings.TrimSpace(f.Name) == "":
			verr.Add("form_data", "field names must not be blank")
		case len(f.Name) > maxFormFieldName:
			verr.Add(f.Name, fmt.Sprintf("field name longer than %d characters", maxFormFieldName))
		}
	}

	for _, name := range requiredFields[module] {
		if form.String(name) == "" {
			verr.Add(name, "is required")
		}
	}

	if email := form.String("email"); email != "" {
		if err := v.validate.Var(email, "required,email"); err != nil {
			verr.Add("email", "must be a valid e-mail address")
		}
	}
	if phone := phoneReplacer.Replace(form.String("phone")); phone != "" {
		tag := "numeric,min=7,max=15"
		if strings.HasPrefix(phone, "+") {
			tag = "e164"
		}
		if err := v.validate.Var(phone, tag); err != nil {
			verr.Add("phone", "must be a valid phone number")
		}
	}
	if handicap := form.String("handicap"); handicap != "" {
		if err := v.validate.Var(handicap, "numeric"); err != nil {
			verr.Add("handicap", "must be a number")
		}
	}
	if module == model.ModuleVolunteers {
		if _, ok := form.Get("consent_given"); ok && !truthy(form, "consent_given") {
			verr.Add("consent_given", "must be accepted")
		}
	}

	return verr.OrNil()
}

func truthy(form model.FormData, name string) bool {
	v, _ := form.Get(name)
	switch t := v.(type) {
	case bool:
		return t
	case string:
		s := strings.ToLower(strings.TrimSpace(t))
		return s == "true" || s == "yes" || s == "1"
	default:
		return form.String(name) == "1"
	}
}
