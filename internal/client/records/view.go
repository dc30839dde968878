package records

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/petcare/internal/client/client"
)

const emptyCell = "-"

type Cell struct {
	Field string
	Text  string
	Due   bool
}

type Row struct {
	ID        string
	CreatedAt time.Time
	Cells     []Cell
	// URL is the attachment URL for blob-backed kinds.
	URL string
}

// Due reports whether any cell of the row is due.
func (r Row) Due() bool {
	for _, c := range r.Cells {
		if c.Due {
			return true
		}
	}
	return false
}

// View is what the view binder renders for one kind.
type View struct {
	Kind    string
	Columns []string
	Rows    []Row
	// Total sums the Summed fields over Rows; HasTotal is false for kinds
	// without one.
	Total    float64
	HasTotal bool
}

// BuildView turns records into rows in the order given. today decides which
// Due cells are flagged: a date on or before today's date is due.
func BuildView(kind Kind, recs []client.Record, today time.Time) View {
	v := View{Kind: kind.Name, Columns: kind.Columns(), Rows: make([]Row, 0, len(recs))}
	day := civilDate(today)

	for _, f := range kind.Fields {
		if f.Summed {
			v.HasTotal = true
		}
	}

	for _, rec := range recs {
		row := Row{ID: rec.ID, CreatedAt: rec.CreatedAt, Cells: make([]Cell, 0, len(kind.Fields))}
		for _, f := range kind.Fields {
			val := rec.Fields[f.Name]
			cell := Cell{Field: f.Name, Text: cellText(f, val)}

			switch {
			case f.Due:
				cell.Due = isDue(val, day)
			case f.Summed:
				if n, ok := number(val); ok {
					v.Total += n
				}
			case f.Type == FieldAttachment:
				row.URL, _ = val.(string)
			}
			row.Cells = append(row.Cells, cell)
		}
		v.Rows = append(v.Rows, row)
	}
	return v
}

func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func isDue(val any, today time.Time) bool {
	s, ok := val.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return false
	}
	due, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return false
	}
	return !due.After(today)
}

func cellText(f Field, val any) string {
	if f.Type == FieldAmount {
		if n, ok := number(val); ok {
			return strconv.FormatFloat(n, 'f', 2, 64)
		}
	}
	switch x := val.(type) {
	case nil:
		return emptyCell
	case string:
		if strings.TrimSpace(x) == "" {
			return emptyCell
		}
		return x
	default:
		return fmt.Sprint(x)
	}
}

func number(val any) (float64, bool) {
	switch x := val.(type) {
	case float64:
		return x, true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case json.Number:
		n, err := x.Float64()
		return n, err == nil
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return n, err == nil
	default:
		return 0, false
	}
}
