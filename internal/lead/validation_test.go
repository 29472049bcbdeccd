package lead

import (
	"strings"
	"testing"
)

func validInput() Input {
	return Input{
		FullName:     "Asha Verma",
		Email:        "asha@example.com",
		Phone:        "9876543210",
		City:         "Mohali",
		PropertyType: "Apartment",
		BHK:          "2",
		Purpose:      "Buy",
		BudgetMin:    intPtr(4000000),
		BudgetMax:    intPtr(6000000),
		Timeline:     "0-3m",
		Source:       "Website",
		Notes:        "prefers top floor",
		Tags:         "hot,callback",
	}
}

func fieldsOf(errs ValidationErrors) map[string]bool {
	out := make(map[string]bool, len(errs))
	for _, e := range errs {
		out[e.Field] = true
	}
	return out
}

// ----------------------------------------------------------------------------
// ValidateInput Tests
// ----------------------------------------------------------------------------

func TestValidateInput_Valid(t *testing.T) {
	if errs := ValidateInput(validInput()); len(errs) != 0 {
		t.Errorf("ValidateInput() = %v, want no errors", errs)
	}
}

func TestValidateInput_FieldRules(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Input)
		wantField string
	}{
		{"missing name", func(in *Input) { in.FullName = "" }, "fullName"},
		{"name too short", func(in *Input) { in.FullName = "A" }, "fullName"},
		{"name too long", func(in *Input) { in.FullName = strings.Repeat("x", 81) }, "fullName"},
		{"bad email", func(in *Input) { in.Email = "not-an-email" }, "email"},
		{"phone too short", func(in *Input) { in.Phone = "12345" }, "phone"},
		{"phone non-numeric", func(in *Input) { in.Phone = "98765abcde" }, "phone"},
		{"unknown city", func(in *Input) { in.City = "Delhi" }, "city"},
		{"unknown property type", func(in *Input) { in.PropertyType = "Farmhouse" }, "propertyType"},
		{"unknown bhk", func(in *Input) { in.BHK = "5" }, "bhk"},
		{"unknown purpose", func(in *Input) { in.Purpose = "Lease" }, "purpose"},
		{"negative budget", func(in *Input) { in.BudgetMin = intPtr(-1) }, "budgetMin"},
		{"unknown timeline", func(in *Input) { in.Timeline = "someday" }, "timeline"},
		{"unknown source", func(in *Input) { in.Source = "Billboard" }, "source"},
		{"notes too long", func(in *Input) { in.Notes = strings.Repeat("x", 1001) }, "notes"},
		{"unknown status", func(in *Input) { in.Status = "Archived" }, "status"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)

			errs := ValidateInput(in)
			if len(errs) == 0 {
				t.Fatal("ValidateInput() = no errors, want a violation")
			}
			if !fieldsOf(errs)[tt.wantField] {
				t.Errorf("ValidateInput() errors %v, want one on %q", errs, tt.wantField)
			}
		})
	}
}

func TestValidateInput_OptionalFieldsMayBeEmpty(t *testing.T) {
	in := validInput()
	in.Email = ""
	in.BudgetMin = nil
	in.BudgetMax = nil
	in.Notes = ""
	in.Tags = ""
	in.Status = ""

	if errs := ValidateInput(in); len(errs) != 0 {
		t.Errorf("ValidateInput() = %v, want no errors", errs)
	}
}

func TestValidateInput_ReportsEveryViolation(t *testing.T) {
	in := validInput()
	in.FullName = ""
	in.Phone = "abc"
	in.City = "Delhi"

	errs := ValidateInput(in)
	if len(errs) < 3 {
		t.Fatalf("ValidateInput() = %d errors, want all 3: %v", len(errs), errs)
	}

	fields := fieldsOf(errs)
	for _, f := range []string{"fullName", "phone", "city"} {
		if !fields[f] {
			t.Errorf("ValidateInput() missing error for %q: %v", f, errs)
		}
	}
}

// ----------------------------------------------------------------------------
// Cross-field invariants
// ----------------------------------------------------------------------------

func TestValidateInput_BHKRequiredForApartmentAndVilla(t *testing.T) {
	for _, pt := range []string{"Apartment", "Villa"} {
		in := validInput()
		in.PropertyType = pt
		in.BHK = ""

		errs := ValidateInput(in)
		if !fieldsOf(errs)["bhk"] {
			t.Errorf("%s without bhk: errors %v, want one on bhk", pt, errs)
		}
	}
}

func TestValidateInput_BHKForbiddenOtherwise(t *testing.T) {
	for _, pt := range []string{"Plot", "Office", "Retail"} {
		in := validInput()
		in.PropertyType = pt
		in.BHK = "2"

		errs := ValidateInput(in)
		if !fieldsOf(errs)["bhk"] {
			t.Errorf("%s with bhk: errors %v, want one on bhk", pt, errs)
		}

		in.BHK = ""
		if errs := ValidateInput(in); len(errs) != 0 {
			t.Errorf("%s without bhk: errors %v, want none", pt, errs)
		}
	}
}

func TestValidateInput_BudgetRange(t *testing.T) {
	in := validInput()
	in.BudgetMin = intPtr(5000000)
	in.BudgetMax = intPtr(4000000)

	errs := ValidateInput(in)
	if !fieldsOf(errs)["budgetMax"] {
		t.Errorf("inverted budgets: errors %v, want one on budgetMax", errs)
	}

	// One side missing is fine.
	in.BudgetMax = nil
	if errs := ValidateInput(in); len(errs) != 0 {
		t.Errorf("open-ended budget: errors %v, want none", errs)
	}
}

// ----------------------------------------------------------------------------
// Update.Validate Tests
// ----------------------------------------------------------------------------

func TestUpdateValidate_Valid(t *testing.T) {
	u := Update{Status: strPtr("Qualified"), Notes: strPtr("site visit booked")}
	if errs := u.Validate(storedLead()); len(errs) != 0 {
		t.Errorf("Validate() = %v, want no errors", errs)
	}
}

func TestUpdateValidate_UnsubmittedFieldsIgnored(t *testing.T) {
	// An update touching nothing is valid regardless of the stored record.
	if errs := (Update{}).Validate(storedLead()); len(errs) != 0 {
		t.Errorf("Validate() = %v, want no errors", errs)
	}
}

func TestUpdateValidate_SubmittedFieldRules(t *testing.T) {
	tests := []struct {
		name      string
		update    Update
		wantField string
	}{
		{"short name", Update{FullName: strPtr("A")}, "fullName"},
		{"bad phone", Update{Phone: strPtr("12")}, "phone"},
		{"unknown status", Update{Status: strPtr("Archived")}, "status"},
		{"negative budget", Update{BudgetMin: intPtr(-5)}, "budgetMin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := tt.update.Validate(storedLead())
			if !fieldsOf(errs)[tt.wantField] {
				t.Errorf("Validate() = %v, want error on %q", errs, tt.wantField)
			}
		})
	}
}

func TestUpdateValidate_CrossFieldOnMergedRecord(t *testing.T) {
	// Stored lead is an Apartment with bhk "2". Switching the type to Plot
	// without clearing bhk violates the merged record.
	errs := (Update{PropertyType: strPtr("Plot")}).Validate(storedLead())
	if !fieldsOf(errs)["bhk"] {
		t.Errorf("propertyType -> Plot with stored bhk: errors %v, want one on bhk", errs)
	}

	// Clearing bhk in the same update makes it valid.
	errs = (Update{PropertyType: strPtr("Plot"), BHK: strPtr("")}).Validate(storedLead())
	if len(errs) != 0 {
		t.Errorf("propertyType -> Plot with cleared bhk: errors %v, want none", errs)
	}

	// Raising budgetMin above the stored budgetMax violates the range.
	errs = (Update{BudgetMin: intPtr(9000000)}).Validate(storedLead())
	if !fieldsOf(errs)["budgetMax"] {
		t.Errorf("budgetMin above stored budgetMax: errors %v, want one on budgetMax", errs)
	}
}
