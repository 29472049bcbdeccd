package lead

// validation.go enforces the lead field rules shared by interactive
// create, partial update, and bulk import. Full payloads are validated
// with validator struct tags; partial updates validate each submitted
// field against the same rule set, then check the cross-field invariants
// on the merged record.

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var phoneRegex = regexp.MustCompile(`^\d{10,15}$`)

// validate is the shared validator instance. Configured once at package
// init; validator.Validate is safe for concurrent use.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report json field names instead of Go struct names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phoneRegex.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}

	v.RegisterStructValidation(inputCrossChecks, Input{})

	return v
}

// bhkRequired reports whether the bhk field is mandatory for a property
// type. It is forbidden for every other type.
func bhkRequired(propertyType string) bool {
	return propertyType == "Apartment" || propertyType == "Villa"
}

// inputCrossChecks enforces the invariants that span multiple fields:
// bhk presence tied to property type, and budgetMax >= budgetMin.
func inputCrossChecks(sl validator.StructLevel) {
	in := sl.Current().Interface().(Input)

	if bhkRequired(in.PropertyType) {
		if in.BHK == "" {
			sl.ReportError(in.BHK, "bhk", "BHK", "bhk_required", "")
		}
	} else if in.BHK != "" {
		sl.ReportError(in.BHK, "bhk", "BHK", "bhk_forbidden", "")
	}

	if in.BudgetMin != nil && in.BudgetMax != nil && *in.BudgetMax < *in.BudgetMin {
		sl.ReportError(in.BudgetMax, "budgetMax", "BudgetMax", "budget_range", "")
	}
}

// ValidateInput checks a full payload against the lead schema and returns
// every violated rule. A nil return means the payload is valid.
func ValidateInput(in Input) ValidationErrors {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return ValidationErrors{{Message: err.Error()}}
	}

	out := make(ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, ValidationError{
			Field:   fe.Field(),
			Message: ruleMessage(fe.Tag(), fe.Param()),
		})
	}
	return out
}

// updateRules are the per-field rules applied to submitted update fields.
// Requiredness is deliberately absent: a field not submitted is simply
// left untouched, and bhk requiredness depends on the merged record.
var updateRules = []struct {
	name string
	rule string
	get  func(u Update) *string
}{
	{"fullName", "min=2,max=80", func(u Update) *string { return u.FullName }},
	{"email", "omitempty,email", func(u Update) *string { return u.Email }},
	{"phone", "phone", func(u Update) *string { return u.Phone }},
	{"city", "oneof=Chandigarh Mohali Zirakpur Panchkula Other", func(u Update) *string { return u.City }},
	{"propertyType", "oneof=Apartment Villa Plot Office Retail", func(u Update) *string { return u.PropertyType }},
	{"bhk", "omitempty,oneof=1 2 3 4 Studio", func(u Update) *string { return u.BHK }},
	{"purpose", "oneof=Buy Rent", func(u Update) *string { return u.Purpose }},
	{"timeline", "oneof=0-3m 3-6m >6m Exploring", func(u Update) *string { return u.Timeline }},
	{"source", "oneof=Website Referral Walk-in Call Other", func(u Update) *string { return u.Source }},
	{"notes", "omitempty,max=1000", func(u Update) *string { return u.Notes }},
	{"status", "oneof=New Qualified Contacted Visited Negotiation Converted Dropped", func(u Update) *string { return u.Status }},
}

// Validate checks a partial update against the stored record it would be
// applied to. Submitted fields are validated individually; the
// cross-field invariants are evaluated on the merged result so that, for
// example, changing propertyType to Plot while bhk remains set is
// rejected.
func (u Update) Validate(current Lead) ValidationErrors {
	var out ValidationErrors

	for _, r := range updateRules {
		val := r.get(u)
		if val == nil {
			continue
		}
		if err := validate.Var(*val, r.rule); err != nil {
			fieldErrs, ok := err.(validator.ValidationErrors)
			if !ok || len(fieldErrs) == 0 {
				out = append(out, ValidationError{Field: r.name, Message: err.Error()})
				continue
			}
			out = append(out, ValidationError{
				Field:   r.name,
				Message: ruleMessage(fieldErrs[0].Tag(), fieldErrs[0].Param()),
			})
		}
	}

	if u.BudgetMin != nil && *u.BudgetMin < 0 {
		out = append(out, ValidationError{Field: "budgetMin", Message: ruleMessage("gte", "0")})
	}
	if u.BudgetMax != nil && *u.BudgetMax < 0 {
		out = append(out, ValidationError{Field: "budgetMax", Message: ruleMessage("gte", "0")})
	}

	merged := u.ApplyTo(current)

	if bhkRequired(merged.PropertyType) {
		if merged.BHK == "" {
			out = append(out, ValidationError{Field: "bhk", Message: ruleMessage("bhk_required", "")})
		}
	} else if merged.BHK != "" {
		out = append(out, ValidationError{Field: "bhk", Message: ruleMessage("bhk_forbidden", "")})
	}

	if merged.BudgetMin != nil && merged.BudgetMax != nil && *merged.BudgetMax < *merged.BudgetMin {
		out = append(out, ValidationError{Field: "budgetMax", Message: ruleMessage("budget_range", "")})
	}

	return out
}

// ruleMessage maps a validator tag to a human-readable message.
// Unknown tags fall back to the tag name so new rules degrade gracefully.
func ruleMessage(tag, param string) string {
	switch tag {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + param + " characters"
	case "max":
		return "must be at most " + param + " characters"
	case "email":
		return "must be a valid email address"
	case "phone":
		return "must be 10-15 digits"
	case "oneof":
		return "must be one of: " + strings.Join(strings.Fields(param), ", ")
	case "gte":
		return "must be non-negative"
	case "bhk_required":
		return "is required for Apartment and Villa properties"
	case "bhk_forbidden":
		return "must be empty unless property type is Apartment or Villa"
	case "budget_range":
		return "must be greater than or equal to budgetMin"
	default:
		return "failed rule: " + tag
	}
}
