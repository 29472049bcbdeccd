package lead

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// RowError reports why one import row was rejected. Row is the
// 1-based line number in the uploaded file, counting the header as
// line 1, so the first data row is row 2.
type RowError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

// ImportResult summarizes a bulk import: valid rows are inserted even
// when other rows fail, and every rejected row is reported.
type ImportResult struct {
	Inserted int        `json:"inserted"`
	Errors   []RowError `json:"errors"`
}

// ImportCSV parses the uploaded CSV, validates each row independently,
// and inserts all valid rows in a single transaction. Invalid rows are
// reported per row number without blocking the rest of the batch.
//
// A file with more data rows than the configured cap, or one that does
// not parse as CSV at all, is rejected wholesale before any row is
// validated or inserted.
func (s *Service) ImportCSV(ctx context.Context, r io.Reader, actor *User) (*ImportResult, error) {
	if actor == nil {
		return nil, ErrUnauthorized
	}

	owner := actor.ID
	if owner == uuid.Nil {
		owner = s.defaultOwner
	}

	leads, rowErrs, err := parseLeadsCSV(r, owner, s.maxImportRows, now())
	if err != nil {
		return nil, err
	}

	result := &ImportResult{Errors: rowErrs}
	if result.Errors == nil {
		result.Errors = []RowError{}
	}
	if len(leads) == 0 {
		return result, nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, &PersistenceError{Op: "begin import", Err: err}
	}
	defer tx.Rollback(ctx) // No-op if already committed

	batch := &pgx.Batch{}
	for _, l := range leads {
		batch.Queue(insertLeadSQL, leadInsertArgs(l)...)
	}

	br := tx.SendBatch(ctx, batch)
	for range leads {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return nil, &PersistenceError{Op: "insert import batch", Err: err}
		}
	}
	if err := br.Close(); err != nil {
		return nil, &PersistenceError{Op: "close import batch", Err: err}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, &PersistenceError{Op: "commit import", Err: err}
	}

	result.Inserted = len(leads)
	return result, nil
}

// parseLeadsCSV reads the whole file, maps columns by header name, and
// validates each data row. Rows that are entirely blank are skipped
// without counting against the row cap or producing an error.
func parseLeadsCSV(r io.Reader, owner uuid.UUID, maxRows int, ts time.Time) ([]Lead, []RowError, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, &MalformedInputError{Reason: "file is not valid CSV: " + err.Error()}
	}
	if len(records) == 0 {
		return nil, nil, &MalformedInputError{Reason: "file is empty"}
	}

	header := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		header[strings.ToLower(strings.TrimSpace(name))] = i
	}

	dataRows := records[1:]
	if len(dataRows) > maxRows {
		return nil, nil, &MalformedInputError{
			Reason: fmt.Sprintf("too many rows: %d exceeds the limit of %d", len(dataRows), maxRows),
		}
	}

	var (
		leads   []Lead
		rowErrs []RowError
	)
	for i, record := range dataRows {
		rowNum := i + 2 // header is line 1
		if blankRow(record) {
			continue
		}

		in, verr := inputFromRow(header, record)
		if verr != nil {
			rowErrs = append(rowErrs, RowError{Row: rowNum, Error: verr.Message})
			continue
		}

		if verrs := ValidateInput(in); len(verrs) > 0 {
			rowErrs = append(rowErrs, RowError{Row: rowNum, Error: verrs.First()})
			continue
		}

		leads = append(leads, in.ToLead(owner, ts))
	}

	return leads, rowErrs, nil
}

// blankRow reports whether every cell in the record is empty or
// whitespace.
func blankRow(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// inputFromRow assembles an Input from one CSV record using the header
// index. Missing columns read as empty strings; budget fields that are
// present but not whole numbers fail the row immediately.
func inputFromRow(header map[string]int, record []string) (Input, *ValidationError) {
	cell := func(name string) string {
		idx, ok := header[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	in := Input{
		FullName:     cell("fullname"),
		Email:        cell("email"),
		Phone:        cell("phone"),
		City:         cell("city"),
		PropertyType: cell("propertytype"),
		BHK:          cell("bhk"),
		Purpose:      cell("purpose"),
		Timeline:     cell("timeline"),
		Source:       cell("source"),
		Notes:        cell("notes"),
		Tags:         cell("tags"),
		Status:       cell("status"),
	}

	var verr *ValidationError
	if in.BudgetMin, verr = parseBudget("budgetMin", cell("budgetmin")); verr != nil {
		return in, verr
	}
	if in.BudgetMax, verr = parseBudget("budgetMax", cell("budgetmax")); verr != nil {
		return in, verr
	}

	return in, nil
}

// parseBudget converts an optional budget cell to an int pointer. Empty
// means the field was not provided.
func parseBudget(field, raw string) (*int, *ValidationError) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, &ValidationError{Field: field, Message: field + " must be a whole number"}
	}
	return &v, nil
}
