package lead

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// Diff computes the field-level delta between a stored record and a
// proposed partial update. Only fields present in the update participate;
// comparison is by value, and fields whose submitted value equals the
// stored value are excluded. An empty result means the update is a no-op
// and callers must not write a history entry for it.
func Diff(old Lead, u Update) ChangeSet {
	diff := ChangeSet{}

	strField := func(name string, oldVal string, newVal *string) {
		if newVal != nil && *newVal != oldVal {
			diff[name] = FieldChange{Old: oldVal, New: *newVal}
		}
	}

	strField("fullName", old.FullName, u.FullName)
	strField("email", old.Email, u.Email)
	strField("phone", old.Phone, u.Phone)
	strField("city", old.City, u.City)
	strField("propertyType", old.PropertyType, u.PropertyType)
	strField("bhk", old.BHK, u.BHK)
	strField("purpose", old.Purpose, u.Purpose)
	strField("timeline", old.Timeline, u.Timeline)
	strField("source", old.Source, u.Source)
	strField("notes", old.Notes, u.Notes)
	strField("status", old.Status, u.Status)

	if u.BudgetMin != nil && !intPtrEqual(old.BudgetMin, u.BudgetMin) {
		diff["budgetMin"] = FieldChange{Old: intPtrValue(old.BudgetMin), New: *u.BudgetMin}
	}
	if u.BudgetMax != nil && !intPtrEqual(old.BudgetMax, u.BudgetMax) {
		diff["budgetMax"] = FieldChange{Old: intPtrValue(old.BudgetMax), New: *u.BudgetMax}
	}

	if u.Tags != nil {
		newTags := SplitTags(*u.Tags)
		if !slices.Equal(old.Tags, newTags) {
			diff["tags"] = FieldChange{Old: old.Tags, New: newTags}
		}
	}

	return diff
}

// ApplyTo returns a copy of the stored record with every submitted field
// applied. OwnerID and ID are never touched; UpdatedAt is assigned by the
// service at persist time.
func (u Update) ApplyTo(l Lead) Lead {
	if u.FullName != nil {
		l.FullName = *u.FullName
	}
	if u.Email != nil {
		l.Email = *u.Email
	}
	if u.Phone != nil {
		l.Phone = *u.Phone
	}
	if u.City != nil {
		l.City = *u.City
	}
	if u.PropertyType != nil {
		l.PropertyType = *u.PropertyType
	}
	if u.BHK != nil {
		l.BHK = *u.BHK
	}
	if u.Purpose != nil {
		l.Purpose = *u.Purpose
	}
	if u.BudgetMin != nil {
		v := *u.BudgetMin
		l.BudgetMin = &v
	}
	if u.BudgetMax != nil {
		v := *u.BudgetMax
		l.BudgetMax = &v
	}
	if u.Timeline != nil {
		l.Timeline = *u.Timeline
	}
	if u.Source != nil {
		l.Source = *u.Source
	}
	if u.Notes != nil {
		l.Notes = *u.Notes
	}
	if u.Tags != nil {
		l.Tags = SplitTags(*u.Tags)
	}
	if u.Status != nil {
		l.Status = *u.Status
	}
	return l
}

// ToLead materializes a validated full payload into a Lead owned by the
// given user, with tags normalized and the default status applied.
func (in Input) ToLead(owner uuid.UUID, now time.Time) Lead {
	status := in.Status
	if status == "" {
		status = StatusNew
	}
	return Lead{
		ID:           uuid.New(),
		FullName:     in.FullName,
		Email:        in.Email,
		Phone:        in.Phone,
		City:         in.City,
		PropertyType: in.PropertyType,
		BHK:          in.BHK,
		Purpose:      in.Purpose,
		BudgetMin:    in.BudgetMin,
		BudgetMax:    in.BudgetMax,
		Timeline:     in.Timeline,
		Source:       in.Source,
		Notes:        in.Notes,
		Tags:         SplitTags(in.Tags),
		Status:       status,
		OwnerID:      owner,
		UpdatedAt:    now,
	}
}

func intPtrEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// intPtrValue unwraps an optional int for JSON diff storage, keeping nil
// for absent values.
func intPtrValue(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}
