package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"text/tabwriter"

	"github.com/dmitrijs2005/petcare/internal/client/records"
	"github.com/dmitrijs2005/petcare/internal/client/session"
	"github.com/dmitrijs2005/petcare/internal/common"
)

const dueMarker = " !"

// Screen is the terminal view binder. It tracks the open page, prints record
// views as tables and shows notifications.
type Screen struct {
	mu   sync.Mutex
	out  io.Writer
	page session.Page
}

func NewScreen(out io.Writer) *Screen {
	return &Screen{out: out, page: session.EntryPage}
}

func (s *Screen) Page() session.Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page
}

// Navigate switches the open page.
func (s *Screen) Navigate(_ context.Context, p session.Page) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.page != p {
		fmt.Fprintf(s.out, "-> %s\n", p)
	}
	s.page = p
}

// Render replaces the shown list with v.
func (s *Screen) Render(_ context.Context, v records.View) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(v.Rows) == 0 {
		fmt.Fprintf(s.out, "No %s records yet.\n", v.Kind)
		return
	}

	tw := tabwriter.NewWriter(s.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\t"+strings.Join(v.Columns, "\t"))
	for _, row := range v.Rows {
		cells := make([]string, 0, len(row.Cells)+1)
		cells = append(cells, row.ID)
		for _, c := range row.Cells {
			text := c.Text
			if c.Due {
				text += dueMarker
			}
			cells = append(cells, text)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	_ = tw.Flush()

	if v.HasTotal {
		fmt.Fprintf(s.out, "Total: %.2f\n", v.Total)
	}
}

// Notify shows err as a blocking notification naming its category.
func (s *Screen) Notify(err error) {
	if err == nil {
		return
	}
	s.Println("! " + common.UserMessage(err))
}

func (s *Screen) Println(a ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintln(s.out, a...)
}
