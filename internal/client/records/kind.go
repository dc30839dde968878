package records

import "strings"

type FieldType int

const (
	FieldText FieldType = iota
	// FieldDate holds a YYYY-MM-DD calendar date.
	FieldDate
	// FieldAmount holds a positive number, stored as float64.
	FieldAmount
	// FieldAttachment is filled from the form's attachment: the bytes go to
	// the blob store and the field stores the returned URL.
	FieldAttachment
)

const DateLayout = "2006-01-02"

type Field struct {
	Name     string
	Label    string
	Type     FieldType
	Required bool
	// Due marks a date field that is highlighted once it is on or before today.
	Due bool
	// Summed marks an amount field totalled over the listed rows.
	Summed bool
	// Multiline marks free text that may span several lines.
	Multiline bool
}

// Kind is the schema of one record kind.
type Kind struct {
	Name       string
	Collection string
	// Noun is used in user prompts, e.g. "Delete this vaccine?".
	Noun   string
	Fields []Field
}

var (
	Vaccine = Kind{
		Name:       "vaccine",
		Collection: "vaccines",
		Noun:       "vaccine",
		Fields: []Field{
			{Name: "name", Label: "Vaccine", Type: FieldText, Required: true},
			{Name: "given", Label: "Given", Type: FieldDate, Required: true},
			{Name: "next", Label: "Next due", Type: FieldDate, Due: true},
			{Name: "notes", Label: "Notes", Type: FieldText},
		},
	}

	Vet = Kind{
		Name:       "vet",
		Collection: "vets",
		Noun:       "vet contact",
		Fields: []Field{
			{Name: "name", Label: "Name", Type: FieldText, Required: true},
			{Name: "phone", Label: "Phone", Type: FieldText, Required: true},
		},
	}

	Diet = Kind{
		Name:       "diet",
		Collection: "diet",
		Noun:       "diet note",
		Fields: []Field{
			{Name: "text", Label: "Note", Type: FieldText, Required: true, Multiline: true},
		},
	}

	Expense = Kind{
		Name:       "expense",
		Collection: "expenses",
		Noun:       "expense",
		Fields: []Field{
			{Name: "title", Label: "Title", Type: FieldText, Required: true},
			{Name: "category", Label: "Category", Type: FieldText, Required: true},
			{Name: "amount", Label: "Amount", Type: FieldAmount, Required: true, Summed: true},
			{Name: "date", Label: "Date", Type: FieldDate, Required: true},
		},
	}

	Photo = Kind{
		Name:       "photo",
		Collection: "photos",
		Noun:       "photo",
		Fields: []Field{
			{Name: "url", Label: "Photo", Type: FieldAttachment, Required: true},
			{Name: "month", Label: "Month", Type: FieldText},
			{Name: "caption", Label: "Caption", Type: FieldText},
		},
	}
)

func Kinds() []Kind {
	return []Kind{Vaccine, Vet, Diet, Expense, Photo}
}

func KindByName(name string) (Kind, bool) {
	for _, k := range Kinds() {
		if strings.EqualFold(k.Name, name) {
			return k, true
		}
	}
	return Kind{}, false
}

// Field returns the schema field called name.
func (k Kind) Field(name string) (Field, bool) {
	for _, f := range k.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// HasAttachment reports whether creating a record of this kind uploads a blob.
func (k Kind) HasAttachment() bool {
	for _, f := range k.Fields {
		if f.Type == FieldAttachment {
			return true
		}
	}
	return false
}

func (k Kind) Columns() []string {
	cols := make([]string, len(k.Fields))
	for i, f := range k.Fields {
		cols[i] = f.Label
	}
	return cols
}
