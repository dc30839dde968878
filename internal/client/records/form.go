package records

import (
	"fmt"
	"math"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/petcare/internal/common"
)

// Attachment is a file picked for upload.
type Attachment struct {
	Name string
	Data []byte
}

// Form is the user input for one new record. It stays populated after a
// failed create and is reset after a successful one.
type Form struct {
	Values     map[string]string
	Attachment *Attachment
}

func NewForm() *Form {
	return &Form{Values: map[string]string{}}
}

func (f *Form) Set(name, value string) {
	if f.Values == nil {
		f.Values = map[string]string{}
	}
	f.Values[name] = value
}

func (f *Form) Get(name string) string {
	return f.Values[name]
}

func (f *Form) Reset() {
	f.Values = map[string]string{}
	f.Attachment = nil
}

func (f *Form) Empty() bool {
	for _, v := range f.Values {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return f.Attachment == nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", common.ErrInvalidInput, fmt.Sprintf(format, args...))
}

// Validate checks form against the kind schema and returns the fields to
// store. Attachment fields are left out; the controller fills them with the
// uploaded blob's URL.
func Validate(kind Kind, form *Form) (map[string]any, error) {
	if form == nil {
		form = NewForm()
	}
	out := make(map[string]any, len(kind.Fields))

	for _, f := range kind.Fields {
		if f.Type == FieldAttachment {
			if f.Required && (form.Attachment == nil || len(form.Attachment.Data) == 0) {
				return nil, invalid("select a file")
			}
			if form.Attachment != nil && attachmentName(form.Attachment.Name) == "" {
				return nil, invalid("the file has no name")
			}
			continue
		}

		raw := strings.TrimSpace(form.Get(f.Name))
		if raw == "" {
			if f.Required {
				return nil, invalid("%s is required", f.Label)
			}
			out[f.Name] = ""
			continue
		}

		switch f.Type {
		case FieldDate:
			if _, err := time.Parse(DateLayout, raw); err != nil {
				return nil, invalid("%s must be a date like 2024-01-31", f.Label)
			}
			out[f.Name] = raw
		case FieldAmount:
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
				return nil, invalid("%s must be a positive number", f.Label)
			}
			out[f.Name] = v
		default:
			out[f.Name] = raw
		}
	}
	return out, nil
}

// attachmentName keeps only the last path element of a picked file name.
func attachmentName(name string) string {
	name = strings.TrimSpace(strings.ReplaceAll(name, "\\", "/"))
	if name == "" {
		return ""
	}
	base := path.Base(name)
	if base == "." || base == "/" {
		return ""
	}
	return base
}
