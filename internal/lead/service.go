package lead

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DefaultHistoryLimit is the number of history entries returned when the
// caller does not specify one.
const DefaultHistoryLimit = 5

const insertLeadSQL = `INSERT INTO leads (` + leadColumns + `) VALUES ` +
	`($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`

// Service provides the lead lifecycle operations: ownership-enforced
// mutation with an audit trail, queries, and bulk import/export.
type Service struct {
	pool          *pgxpool.Pool
	defaultOwner  uuid.UUID
	maxImportRows int
}

// NewService creates a Service. defaultOwner is assigned to leads created
// by bulk import; maxImportRows caps a single import payload.
func NewService(pool *pgxpool.Pool, defaultOwner uuid.UUID, maxImportRows int) *Service {
	if maxImportRows <= 0 {
		maxImportRows = 200
	}
	return &Service{
		pool:          pool,
		defaultOwner:  defaultOwner,
		maxImportRows: maxImportRows,
	}
}

// Create validates a full payload and persists a new lead owned by the
// acting user. Validation reports every violated rule and persists
// nothing on failure.
func (s *Service) Create(ctx context.Context, in Input, actor *User) (*Lead, error) {
	if actor == nil {
		return nil, ErrUnauthorized
	}

	if verrs := ValidateInput(in); len(verrs) > 0 {
		return nil, verrs
	}

	l := in.ToLead(actor.ID, now())

	if _, err := s.pool.Exec(ctx, insertLeadSQL, leadInsertArgs(l)...); err != nil {
		return nil, &PersistenceError{Op: "insert lead", Err: err}
	}

	return &l, nil
}

// Get returns a single lead by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Lead, error) {
	row := s.pool.QueryRow(ctx,
		"SELECT "+leadColumns+" FROM leads WHERE id = $1", toPgUUID(id))

	l, err := scanLead(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, &PersistenceError{Op: "select lead", Err: err}
	}
	return l, nil
}

// Update applies a partial payload to a lead after checking that the
// acting user owns it, and appends a history entry when at least one
// submitted field actually changed value.
//
// The row is locked with SELECT ... FOR UPDATE for the duration of the
// transaction, so concurrent updates to the same lead are serialized and
// each diff reflects the snapshot it actually overwrote. The UPDATE and
// the history INSERT commit or roll back together.
func (s *Service) Update(ctx context.Context, id uuid.UUID, u Update, actor *User) (*Lead, error) {
	if actor == nil {
		return nil, ErrUnauthorized
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, &PersistenceError{Op: "begin update", Err: err}
	}
	defer tx.Rollback(ctx) // No-op if already committed

	row := tx.QueryRow(ctx,
		"SELECT "+leadColumns+" FROM leads WHERE id = $1 FOR UPDATE", toPgUUID(id))
	current, err := scanLead(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, &PersistenceError{Op: "lock lead", Err: err}
	}

	if current.OwnerID != actor.ID {
		return nil, ErrForbidden
	}

	if verrs := u.Validate(*current); len(verrs) > 0 {
		return nil, verrs
	}

	// Diff against the submitted fields only: a field the caller did not
	// send never produces a history entry, even if its stored value moved
	// since the caller last read the record.
	diff := Diff(*current, u)

	updated := u.ApplyTo(*current)
	updated.UpdatedAt = now()

	_, err = tx.Exec(ctx, `UPDATE leads SET
		full_name = $1, email = $2, phone = $3, city = $4, property_type = $5,
		bhk = $6, purpose = $7, budget_min = $8, budget_max = $9, timeline = $10,
		source = $11, notes = $12, tags = $13, status = $14, updated_at = $15
		WHERE id = $16`,
		updated.FullName,
		toPgText(updated.Email),
		updated.Phone,
		updated.City,
		updated.PropertyType,
		toPgText(updated.BHK),
		updated.Purpose,
		toPgInt4(updated.BudgetMin),
		toPgInt4(updated.BudgetMax),
		updated.Timeline,
		updated.Source,
		toPgText(updated.Notes),
		updated.Tags,
		updated.Status,
		updated.UpdatedAt,
		toPgUUID(updated.ID),
	)
	if err != nil {
		return nil, &PersistenceError{Op: "update lead", Err: err}
	}

	if len(diff) > 0 {
		if err := appendHistory(ctx, tx, updated.ID, actor.ID, diff, updated.UpdatedAt); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, &PersistenceError{Op: "commit update", Err: err}
	}

	return &updated, nil
}

// appendHistory inserts one immutable audit entry inside the caller's
// transaction.
func appendHistory(ctx context.Context, db DBTX, leadID, changedBy uuid.UUID, diff ChangeSet, at time.Time) error {
	diffJSON, err := json.Marshal(diff)
	if err != nil {
		return fmt.Errorf("encode diff: %w", err)
	}

	_, err = db.Exec(ctx,
		`INSERT INTO lead_history (id, lead_id, changed_by, changed_at, diff)
		 VALUES ($1, $2, $3, $4, $5)`,
		toPgUUID(uuid.New()), toPgUUID(leadID), toPgUUID(changedBy), at, diffJSON)
	if err != nil {
		return &PersistenceError{Op: "append history", Err: err}
	}
	return nil
}

// History returns the most recent limit entries for a lead, newest
// first. Entries sharing a timestamp are ordered by insertion order so
// results are deterministic. A lead with no history yields an empty
// slice, not an error.
func (s *Service) History(ctx context.Context, leadID uuid.UUID, limit int) ([]HistoryEntry, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	rows, err := s.pool.Query(ctx,
		`SELECT id, lead_id, changed_by, changed_at, diff FROM lead_history
		 WHERE lead_id = $1 ORDER BY changed_at DESC, seq DESC LIMIT $2`,
		toPgUUID(leadID), limit)
	if err != nil {
		return nil, &PersistenceError{Op: "select history", Err: err}
	}
	defer rows.Close()

	entries := make([]HistoryEntry, 0, limit)
	for rows.Next() {
		var (
			id        pgtype.UUID
			lid       pgtype.UUID
			changedBy pgtype.UUID
			changedAt pgtype.Timestamptz
			diffJSON  []byte
		)
		if err := rows.Scan(&id, &lid, &changedBy, &changedAt, &diffJSON); err != nil {
			return nil, &PersistenceError{Op: "scan history", Err: err}
		}

		entry := HistoryEntry{
			ID:        fromPgUUID(id),
			LeadID:    fromPgUUID(lid),
			ChangedBy: fromPgUUID(changedBy),
			ChangedAt: changedAt.Time,
		}
		if err := json.Unmarshal(diffJSON, &entry.Diff); err != nil {
			return nil, fmt.Errorf("decode diff: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, &PersistenceError{Op: "iterate history", Err: err}
	}

	return entries, nil
}
