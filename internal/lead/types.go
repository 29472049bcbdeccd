// Package lead implements the buyer lead lifecycle: ownership-enforced
// mutation with a field-level audit trail, filtered and paginated queries,
// and bulk CSV import/export. It has no HTTP dependencies and is used by
// the web layer.
package lead

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the interface for database operations.
// Satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Enumerated field values. Validation rejects anything outside these sets.
var (
	Cities        = []string{"Chandigarh", "Mohali", "Zirakpur", "Panchkula", "Other"}
	PropertyTypes = []string{"Apartment", "Villa", "Plot", "Office", "Retail"}
	BHKValues     = []string{"1", "2", "3", "4", "Studio"}
	Purposes      = []string{"Buy", "Rent"}
	Timelines     = []string{"0-3m", "3-6m", ">6m", "Exploring"}
	Sources       = []string{"Website", "Referral", "Walk-in", "Call", "Other"}
	Statuses      = []string{"New", "Qualified", "Contacted", "Visited", "Negotiation", "Converted", "Dropped"}
)

// StatusNew is the default workflow state for new leads.
const StatusNew = "New"

// Lead is a prospective buyer record.
//
// OwnerID is immutable after creation; UpdatedAt is server-assigned on
// every successful mutation.
type Lead struct {
	ID           uuid.UUID `json:"id"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	City         string    `json:"city"`
	PropertyType string    `json:"propertyType"`
	BHK          string    `json:"bhk"`
	Purpose      string    `json:"purpose"`
	BudgetMin    *int      `json:"budgetMin"`
	BudgetMax    *int      `json:"budgetMax"`
	Timeline     string    `json:"timeline"`
	Source       string    `json:"source"`
	Notes        string    `json:"notes"`
	Tags         []string  `json:"tags"`
	Status       string    `json:"status"`
	OwnerID      uuid.UUID `json:"ownerId"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// User identifies the acting user for an operation. The identity is
// supplied by the session layer; the service never authenticates
// credentials itself.
type User struct {
	ID uuid.UUID `json:"id"`
}

// FieldChange records one field's old and new value inside a history diff.
type FieldChange struct {
	Old any `json:"old"`
	New any `json:"new"`
}

// ChangeSet maps changed field names to their old/new value pairs.
type ChangeSet map[string]FieldChange

// HistoryEntry is an immutable audit record of one successful mutation.
// Entries are append-only: never updated, never deleted.
type HistoryEntry struct {
	ID        uuid.UUID `json:"id"`
	LeadID    uuid.UUID `json:"leadId"`
	ChangedBy uuid.UUID `json:"changedBy"`
	ChangedAt time.Time `json:"changedAt"`
	Diff      ChangeSet `json:"diff"`
}

// Input is a full lead payload as submitted by interactive create or a
// bulk import row. Tags is the raw comma-separated form; Normalize splits
// it into the stored sequence.
type Input struct {
	FullName     string `json:"fullName" csv:"fullName" validate:"required,min=2,max=80"`
	Email        string `json:"email" csv:"email" validate:"omitempty,email"`
	Phone        string `json:"phone" csv:"phone" validate:"required,phone"`
	City         string `json:"city" csv:"city" validate:"required,oneof=Chandigarh Mohali Zirakpur Panchkula Other"`
	PropertyType string `json:"propertyType" csv:"propertyType" validate:"required,oneof=Apartment Villa Plot Office Retail"`
	BHK          string `json:"bhk" csv:"bhk" validate:"omitempty,oneof=1 2 3 4 Studio"`
	Purpose      string `json:"purpose" csv:"purpose" validate:"required,oneof=Buy Rent"`
	BudgetMin    *int   `json:"budgetMin" csv:"budgetMin" validate:"omitempty,gte=0"`
	BudgetMax    *int   `json:"budgetMax" csv:"budgetMax" validate:"omitempty,gte=0"`
	Timeline     string `json:"timeline" csv:"timeline" validate:"required,oneof=0-3m 3-6m >6m Exploring"`
	Source       string `json:"source" csv:"source" validate:"required,oneof=Website Referral Walk-in Call Other"`
	Notes        string `json:"notes" csv:"notes" validate:"omitempty,max=1000"`
	Tags         string `json:"tags" csv:"tags"`
	Status       string `json:"status" csv:"status" validate:"omitempty,oneof=New Qualified Contacted Visited Negotiation Converted Dropped"`
}

// Update is a partial lead payload for PATCH-style mutation. A nil field
// was not submitted and is left untouched; only submitted fields
// participate in validation and diffing.
type Update struct {
	FullName     *string `json:"fullName"`
	Email        *string `json:"email"`
	Phone        *string `json:"phone"`
	City         *string `json:"city"`
	PropertyType *string `json:"propertyType"`
	BHK          *string `json:"bhk"`
	Purpose      *string `json:"purpose"`
	BudgetMin    *int    `json:"budgetMin"`
	BudgetMax    *int    `json:"budgetMax"`
	Timeline     *string `json:"timeline"`
	Source       *string `json:"source"`
	Notes        *string `json:"notes"`
	Tags         *string `json:"tags"`
	Status       *string `json:"status"`
}

// SplitTags converts a comma-separated tag string into the stored
// sequence, trimming whitespace and dropping empty entries. Order is
// preserved.
func SplitTags(raw string) []string {
	tags := []string{}
	for _, p := range strings.Split(raw, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}

// JoinTags renders a tag sequence back to its comma-separated input form.
func JoinTags(tags []string) string {
	return strings.Join(tags, ",")
}
