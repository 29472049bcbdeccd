package lead

import (
	"context"
	"io"
	"strconv"
	"strings"
	"time"
)

// exportHeader is the column order for CSV export. It mirrors the JSON
// field names so an exported file round-trips through import.
var exportHeader = []string{
	"id", "fullName", "email", "phone", "city", "propertyType", "bhk",
	"purpose", "budgetMin", "budgetMax", "timeline", "source", "notes",
	"tags", "status", "ownerId", "updatedAt",
}

// WriteCSV renders leads as CSV. The header row is plain; every data
// value is quoted with internal quotes doubled, so commas and newlines
// in free-text fields survive. An empty result set writes nothing at
// all, not even the header.
func WriteCSV(w io.Writer, leads []Lead) error {
	if len(leads) == 0 {
		return nil
	}

	var b strings.Builder
	b.WriteString(strings.Join(exportHeader, ","))
	b.WriteByte('\n')

	for _, l := range leads {
		values := []string{
			l.ID.String(),
			l.FullName,
			l.Email,
			l.Phone,
			l.City,
			l.PropertyType,
			l.BHK,
			l.Purpose,
			optionalInt(l.BudgetMin),
			optionalInt(l.BudgetMax),
			l.Timeline,
			l.Source,
			l.Notes,
			JoinTags(l.Tags),
			l.Status,
			l.OwnerID.String(),
			l.UpdatedAt.Format(time.RFC3339Nano),
		}
		for i, v := range values {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteByte('"')
			b.WriteString(strings.ReplaceAll(v, `"`, `""`))
			b.WriteByte('"')
		}
		b.WriteByte('\n')
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// optionalInt renders an optional budget for export; absent values
// become empty cells.
func optionalInt(p *int) string {
	if p == nil {
		return ""
	}
	return strconv.Itoa(*p)
}

// ExportCSV streams every lead matching the filter, in the same order
// the list view shows them.
func (s *Service) ExportCSV(ctx context.Context, f Filter, w io.Writer) error {
	leads, err := s.Matching(ctx, f)
	if err != nil {
		return err
	}
	return WriteCSV(w, leads)
}
