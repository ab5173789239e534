package roster

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/profedug/GabaritaIF/internal/portal"
)

// ImportColumns is the header a student CSV must carry. Extra columns are
// ignored; name, email, pin and classId are required.
var ImportColumns = []string{"name", "email", "pin", "classId", "whatsapp", "parentName", "parentPhone"}

// ParseStudentsCSV reads one StudentInput per row.
func ParseStudentsCSV(r io.Reader) ([]StudentInput, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1 // trailing optional columns may be left off
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx := map[string]int{}
	for i, h := range header {
		idx[strings.TrimSpace(h)] = i
	}
	for _, c := range ImportColumns[:4] {
		if _, ok := idx[c]; !ok {
			return nil, fmt.Errorf("missing column %q", c)
		}
	}
	var out []StudentInput
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		get := func(col string) string {
			if i, ok := idx[col]; ok && i < len(rec) {
				return strings.TrimSpace(rec[i])
			}
			return ""
		}
		out = append(out, StudentInput{
			Name:        get("name"),
			Email:       get("email"),
			PIN:         get("pin"),
			ClassID:     get("classId"),
			WhatsApp:    get("whatsapp"),
			ParentName:  get("parentName"),
			ParentPhone: get("parentPhone"),
		})
	}
	return out, nil
}

type ImportResult struct {
	Inserted int           `json:"inserted"`
	Updated  int           `json:"updated"`
	Rejected []RejectedRow `json:"rejected,omitempty"`
}

type RejectedRow struct {
	Row   int    `json:"row"` // 1-based, header excluded
	Email string `json:"email"`
	Error string `json:"error"`
}

// ImportStudents adds new students and updates those whose email is already
// registered. Invalid rows are reported and skipped. Persistence failures
// do not stop the import; they are joined and returned after the last row.
func (s *Service) ImportStudents(ctx context.Context, rows []StudentInput) (ImportResult, error) {
	var (
		res      ImportResult
		unstored []error
	)
	for i, in := range rows {
		in.Email = strings.TrimSpace(in.Email)
		if err := s.validate.Struct(in, RequiredFieldsMessage); err != nil {
			res.Rejected = append(res.Rejected, RejectedRow{Row: i + 1, Email: in.Email, Error: err.Error()})
			continue
		}
		var err error
		if existing, ok := s.state.StudentByEmail(in.Email); ok {
			if in.PhotoURL == "" {
				in.PhotoURL = existing.PhotoURL
			}
			err = s.state.UpdateStudent(ctx, in.student(existing.ID))
			if err == nil || errors.Is(err, portal.ErrNotPersisted) {
				res.Updated++
			}
		} else {
			err = s.state.AddStudent(ctx, in.student(portal.NewID()))
			if err == nil || errors.Is(err, portal.ErrNotPersisted) {
				res.Inserted++
			}
		}
		switch {
		case err == nil:
		case errors.Is(err, portal.ErrNotPersisted):
			unstored = append(unstored, err)
		default:
			res.Rejected = append(res.Rejected, RejectedRow{Row: i + 1, Email: in.Email, Error: err.Error()})
		}
	}
	return res, errors.Join(unstored...)
}
