package lead

import (
	"context"
	"strconv"
)

// PageSize is the fixed page size for lead listings.
const PageSize = 10

// Filter holds the optional query predicates. Equality filters are ANDed
// together; Search matches case-insensitively across fullName, email, and
// phone and is ANDed with the rest as one OR group.
type Filter struct {
	City         string
	PropertyType string
	Status       string
	Timeline     string
	Search       string
}

// where builds the shared WHERE clause used by both List and Matching so
// counts, pages, and exports can never disagree about which rows match.
func (f Filter) where() *whereBuilder {
	wb := newWhereBuilder()
	wb.Add("city", f.City)
	wb.Add("property_type", f.PropertyType)
	wb.Add("status", f.Status)
	wb.Add("timeline", f.Timeline)
	wb.AddSearch(f.Search, "full_name", "email", "phone")
	return wb
}

// ListResult is one page of matching leads plus the pagination totals
// computed from the same predicate.
type ListResult struct {
	Leads      []Lead `json:"leads"`
	Total      int64  `json:"total"`
	Page       int    `json:"page"`
	PageSize   int    `json:"pageSize"`
	TotalPages int    `json:"totalPages"`
}

// List returns one page of leads matching the filter, ordered by
// updatedAt descending. Pages beyond the last return an empty slice with
// the correct totals rather than an error.
func (s *Service) List(ctx context.Context, f Filter, page int) (*ListResult, error) {
	if page < 1 {
		page = 1
	}

	wb := f.where()
	whereClause, args := wb.Build()

	var total int64
	if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM leads"+whereClause, args...).Scan(&total); err != nil {
		return nil, &PersistenceError{Op: "count leads", Err: err}
	}

	totalPages := int((total + PageSize - 1) / PageSize)
	offset := (page - 1) * PageSize

	argIndex := wb.NextArgIndex()
	query := "SELECT " + leadColumns + " FROM leads" + whereClause +
		" ORDER BY updated_at DESC LIMIT $" + strconv.Itoa(argIndex) + " OFFSET $" + strconv.Itoa(argIndex+1)
	args = append(args, PageSize, offset)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, &PersistenceError{Op: "select leads", Err: err}
	}
	defer rows.Close()

	leads := make([]Lead, 0, PageSize)
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, &PersistenceError{Op: "scan lead", Err: err}
		}
		leads = append(leads, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, &PersistenceError{Op: "iterate leads", Err: err}
	}

	return &ListResult{
		Leads:      leads,
		Total:      total,
		Page:       page,
		PageSize:   PageSize,
		TotalPages: totalPages,
	}, nil
}

// Matching returns every lead matching the filter, unpaginated, ordered
// by updatedAt descending. Used by the export pipeline.
func (s *Service) Matching(ctx context.Context, f Filter) ([]Lead, error) {
	whereClause, args := f.where().Build()

	rows, err := s.pool.Query(ctx,
		"SELECT "+leadColumns+" FROM leads"+whereClause+" ORDER BY updated_at DESC", args...)
	if err != nil {
		return nil, &PersistenceError{Op: "select leads", Err: err}
	}
	defer rows.Close()

	var leads []Lead
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, &PersistenceError{Op: "scan lead", Err: err}
		}
		leads = append(leads, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, &PersistenceError{Op: "iterate leads", Err: err}
	}

	return leads, nil
}
