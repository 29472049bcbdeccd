package lead

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func storedLead() Lead {
	return Lead{
		ID:           uuid.New(),
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
		Tags:         []string{"hot", "callback"},
		Status:       "New",
		OwnerID:      uuid.New(),
		UpdatedAt:    time.Now(),
	}
}

// ----------------------------------------------------------------------------
// Diff Tests
// ----------------------------------------------------------------------------

func TestDiff_NoFieldsSubmitted(t *testing.T) {
	diff := Diff(storedLead(), Update{})
	if len(diff) != 0 {
		t.Errorf("Diff() with empty update = %v, want empty", diff)
	}
}

func TestDiff_SameValuesProduceNoEntries(t *testing.T) {
	old := storedLead()
	u := Update{
		FullName:  strPtr(old.FullName),
		City:      strPtr(old.City),
		BudgetMin: intPtr(*old.BudgetMin),
		Tags:      strPtr("hot,callback"),
	}

	diff := Diff(old, u)
	if len(diff) != 0 {
		t.Errorf("Diff() with unchanged values = %v, want empty", diff)
	}
}

func TestDiff_ChangedFields(t *testing.T) {
	old := storedLead()
	u := Update{
		Status:    strPtr("Qualified"),
		BudgetMax: intPtr(7000000),
		FullName:  strPtr(old.FullName), // unchanged, must not appear
	}

	diff := Diff(old, u)

	if len(diff) != 2 {
		t.Fatalf("Diff() produced %d entries, want 2: %v", len(diff), diff)
	}

	status, ok := diff["status"]
	if !ok {
		t.Fatal("Diff() missing status entry")
	}
	if status.Old != "New" || status.New != "Qualified" {
		t.Errorf("status change = %v -> %v, want New -> Qualified", status.Old, status.New)
	}

	budget, ok := diff["budgetMax"]
	if !ok {
		t.Fatal("Diff() missing budgetMax entry")
	}
	if budget.Old != 6000000 || budget.New != 7000000 {
		t.Errorf("budgetMax change = %v -> %v, want 6000000 -> 7000000", budget.Old, budget.New)
	}
}

func TestDiff_BudgetNilToValue(t *testing.T) {
	old := storedLead()
	old.BudgetMin = nil

	diff := Diff(old, Update{BudgetMin: intPtr(1000000)})

	entry, ok := diff["budgetMin"]
	if !ok {
		t.Fatal("Diff() missing budgetMin entry")
	}
	if entry.Old != nil {
		t.Errorf("budgetMin old = %v, want nil", entry.Old)
	}
	if entry.New != 1000000 {
		t.Errorf("budgetMin new = %v, want 1000000", entry.New)
	}
}

func TestDiff_TagsCompareBySequence(t *testing.T) {
	old := storedLead()

	// Same members, different order: still a change.
	diff := Diff(old, Update{Tags: strPtr("callback,hot")})
	if _, ok := diff["tags"]; !ok {
		t.Error("Diff() should record reordered tags as a change")
	}

	// Whitespace and empty entries normalize away.
	diff = Diff(old, Update{Tags: strPtr(" hot , callback ,")})
	if len(diff) != 0 {
		t.Errorf("Diff() with normalized-equal tags = %v, want empty", diff)
	}
}

// ----------------------------------------------------------------------------
// ApplyTo / ToLead Tests
// ----------------------------------------------------------------------------

func TestApplyTo_LeavesIdentityAlone(t *testing.T) {
	old := storedLead()
	u := Update{FullName: strPtr("Renamed"), Status: strPtr("Contacted")}

	merged := u.ApplyTo(old)

	if merged.ID != old.ID {
		t.Error("ApplyTo() must not change ID")
	}
	if merged.OwnerID != old.OwnerID {
		t.Error("ApplyTo() must not change OwnerID")
	}
	if merged.FullName != "Renamed" {
		t.Errorf("FullName = %q, want %q", merged.FullName, "Renamed")
	}
	if merged.Status != "Contacted" {
		t.Errorf("Status = %q, want %q", merged.Status, "Contacted")
	}
	// Unsubmitted fields untouched
	if merged.Phone != old.Phone {
		t.Errorf("Phone = %q, want %q", merged.Phone, old.Phone)
	}
}

func TestApplyTo_CopiesBudgetValues(t *testing.T) {
	old := storedLead()
	v := 123
	u := Update{BudgetMin: &v}

	merged := u.ApplyTo(old)
	v = 999

	if *merged.BudgetMin != 123 {
		t.Errorf("BudgetMin = %d, want 123 (must not alias the update's pointer)", *merged.BudgetMin)
	}
}

func TestToLead_Defaults(t *testing.T) {
	owner := uuid.New()
	ts := time.Now().UTC()

	in := Input{
		FullName:     "Dev Gupta",
		Phone:        "9876501234",
		City:         "Chandigarh",
		PropertyType: "Plot",
		Purpose:      "Buy",
		Timeline:     "Exploring",
		Source:       "Referral",
		Tags:         "nri, plot-only",
	}

	l := in.ToLead(owner, ts)

	if l.ID == uuid.Nil {
		t.Error("ToLead() must assign an id")
	}
	if l.Status != StatusNew {
		t.Errorf("Status = %q, want %q", l.Status, StatusNew)
	}
	if l.OwnerID != owner {
		t.Errorf("OwnerID = %v, want %v", l.OwnerID, owner)
	}
	if !l.UpdatedAt.Equal(ts) {
		t.Errorf("UpdatedAt = %v, want %v", l.UpdatedAt, ts)
	}
	if len(l.Tags) != 2 || l.Tags[0] != "nri" || l.Tags[1] != "plot-only" {
		t.Errorf("Tags = %v, want [nri plot-only]", l.Tags)
	}
}

func TestToLead_KeepsExplicitStatus(t *testing.T) {
	in := Input{FullName: "X", Status: "Qualified"}
	l := in.ToLead(uuid.New(), time.Now())
	if l.Status != "Qualified" {
		t.Errorf("Status = %q, want Qualified", l.Status)
	}
}

// ----------------------------------------------------------------------------
// Tag helpers
// ----------------------------------------------------------------------------

func TestSplitTags(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", []string{}},
		{"single", "hot", []string{"hot"}},
		{"trims and drops empties", " a ,, b ,", []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitTags(tt.in)
			if len(got) != len(tt.want) {
				t.Fatalf("SplitTags(%q) = %v, want %v", tt.in, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("SplitTags(%q)[%d] = %q, want %q", tt.in, i, got[i], tt.want[i])
				}
			}
		})
	}
}
