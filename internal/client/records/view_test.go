package records

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/petcare/internal/client/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t.Add(15 * time.Hour)
}

func TestBuildView_VaccineDue(t *testing.T) {
	recs := []client.Record{{
		ID:     "v1",
		Fields: map[string]any{"name": "Rabies", "given": "2024-01-01", "next": "2024-06-01", "notes": ""},
	}}

	tests := []struct {
		today string
		due   bool
	}{
		{"2024-05-31", false},
		{"2024-06-01", true},
		{"2024-06-02", true},
	}
	for _, tt := range tests {
		t.Run(tt.today, func(t *testing.T) {
			v := BuildView(Vaccine, recs, day(tt.today))
			require.Len(t, v.Rows, 1)
			row := v.Rows[0]
			assert.Equal(t, tt.due, row.Due())
			assert.Equal(t, tt.due, row.Cells[2].Due)
			assert.False(t, row.Cells[1].Due, "given is never due")
			assert.Equal(t, "-", row.Cells[3].Text)
		})
	}
}

func TestBuildView_NoNextIsNotDue(t *testing.T) {
	recs := []client.Record{
		{ID: "a", Fields: map[string]any{"name": "Lepto", "given": "2024-01-01", "next": ""}},
		{ID: "b", Fields: map[string]any{"name": "Lepto", "given": "2024-01-01", "next": "soon"}},
	}
	v := BuildView(Vaccine, recs, day("2030-01-01"))
	for _, r := range v.Rows {
		assert.False(t, r.Due(), r.ID)
	}
}

func TestBuildView_ExpenseTotal(t *testing.T) {
	recs := []client.Record{
		{ID: "e2", Fields: map[string]any{"title": "Vet", "category": "health", "amount": 40.0, "date": "2024-02-02"}},
		{ID: "e1", Fields: map[string]any{"title": "Food", "category": "food", "amount": 12.5, "date": "2024-02-01"}},
	}
	v := BuildView(Expense, recs, day("2024-03-01"))

	assert.True(t, v.HasTotal)
	assert.InDelta(t, 52.5, v.Total, 1e-9)
	assert.Equal(t, []string{"e2", "e1"}, []string{v.Rows[0].ID, v.Rows[1].ID})
	assert.Equal(t, "12.50", v.Rows[1].Cells[2].Text)
	assert.Equal(t, []string{"Title", "Category", "Amount", "Date"}, v.Columns)
}

func TestBuildView_PhotoURL(t *testing.T) {
	recs := []client.Record{{ID: "p1", Fields: map[string]any{"url": "http://x/p.jpg", "caption": "nap"}}}
	v := BuildView(Photo, recs, day("2024-03-01"))

	assert.False(t, v.HasTotal)
	assert.Equal(t, "http://x/p.jpg", v.Rows[0].URL)
	assert.Equal(t, "-", v.Rows[0].Cells[1].Text)
	assert.Equal(t, "nap", v.Rows[0].Cells[2].Text)
}

func TestBuildView_Empty(t *testing.T) {
	v := BuildView(Diet, nil, time.Now())
	assert.Empty(t, v.Rows)
	assert.NotNil(t, v.Rows)
}

func TestKindByName(t *testing.T) {
	k, ok := KindByName("Expense")
	assert.True(t, ok)
	assert.Equal(t, "expenses", k.Collection)
	assert.True(t, Photo.HasAttachment())
	assert.False(t, Vet.HasAttachment())

	_, ok = KindByName("toy")
	assert.False(t, ok)
}
