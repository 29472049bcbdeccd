package lead

// convert.go holds the pgtype conversion helpers and row scanning shared
// by the service, query, and import code paths.

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// leadColumns is the canonical column list for SELECTs against leads.
// Order must match scanLead.
const leadColumns = "id, full_name, email, phone, city, property_type, bhk, purpose, " +
	"budget_min, budget_max, timeline, source, notes, tags, status, owner_id, updated_at"

// toPgText converts a string to pgtype.Text, mapping empty to NULL.
func toPgText(s string) pgtype.Text {
	s = strings.TrimSpace(s)
	if s == "" {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: s, Valid: true}
}

// textString unwraps a nullable text column, mapping NULL to "".
func textString(t pgtype.Text) string {
	if !t.Valid {
		return ""
	}
	return t.String
}

// toPgInt4 converts an optional int to pgtype.Int4, mapping nil to NULL.
func toPgInt4(p *int) pgtype.Int4 {
	if p == nil {
		return pgtype.Int4{Valid: false}
	}
	return pgtype.Int4{Int32: int32(*p), Valid: true}
}

// int4Ptr unwraps a nullable int4 column, mapping NULL to nil.
func int4Ptr(v pgtype.Int4) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int32)
	return &i
}

// toPgUUID converts a uuid.UUID to its pgtype representation.
func toPgUUID(id uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: id, Valid: true}
}

// fromPgUUID converts a pgtype.UUID back to uuid.UUID. NULL becomes the
// zero UUID.
func fromPgUUID(v pgtype.UUID) uuid.UUID {
	if !v.Valid {
		return uuid.UUID{}
	}
	return uuid.UUID(v.Bytes)
}

// pgRow is the common scan surface of pgx.Row and pgx.Rows.
type pgRow interface {
	Scan(dest ...any) error
}

// scanLead reads one leads row in leadColumns order.
func scanLead(row pgRow) (*Lead, error) {
	var (
		id        pgtype.UUID
		fullName  string
		email     pgtype.Text
		phone     string
		city      string
		propType  string
		bhk       pgtype.Text
		purpose   string
		budgetMin pgtype.Int4
		budgetMax pgtype.Int4
		timeline  string
		source    string
		notes     pgtype.Text
		tags      []string
		status    string
		ownerID   pgtype.UUID
		updatedAt pgtype.Timestamptz
	)

	err := row.Scan(
		&id, &fullName, &email, &phone, &city, &propType, &bhk, &purpose,
		&budgetMin, &budgetMax, &timeline, &source, &notes, &tags, &status,
		&ownerID, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if tags == nil {
		tags = []string{}
	}

	return &Lead{
		ID:           fromPgUUID(id),
		FullName:     fullName,
		Email:        textString(email),
		Phone:        phone,
		City:         city,
		PropertyType: propType,
		BHK:          textString(bhk),
		Purpose:      purpose,
		BudgetMin:    int4Ptr(budgetMin),
		BudgetMax:    int4Ptr(budgetMax),
		Timeline:     timeline,
		Source:       source,
		Notes:        textString(notes),
		Tags:         tags,
		Status:       status,
		OwnerID:      fromPgUUID(ownerID),
		UpdatedAt:    updatedAt.Time,
	}, nil
}

// leadInsertArgs builds the argument list for an INSERT in leadColumns
// order.
func leadInsertArgs(l Lead) []any {
	return []any{
		toPgUUID(l.ID),
		l.FullName,
		toPgText(l.Email),
		l.Phone,
		l.City,
		l.PropertyType,
		toPgText(l.BHK),
		l.Purpose,
		toPgInt4(l.BudgetMin),
		toPgInt4(l.BudgetMax),
		l.Timeline,
		l.Source,
		toPgText(l.Notes),
		l.Tags,
		l.Status,
		toPgUUID(l.OwnerID),
		pgtype.Timestamptz{Time: l.UpdatedAt, Valid: true},
	}
}

// now returns the current time in UTC truncated to microseconds, matching
// Postgres timestamp precision so round-tripped values compare equal.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
