package documents

import (
	"fmt"
	"strings"
)

// Renderer turns an assembled document into a transportable payload.
type Renderer interface {
	Render(doc Document) (payload []byte, contentType string, err error)
}

// TextRenderer produces a plain-text invoice suitable for receipt printers
// and previews.
type TextRenderer struct{}

func (TextRenderer) Render(doc Document) ([]byte, string, error) {
	var b strings.Builder

	if doc.Company.Name != "" {
		fmt.Fprintln(&b, doc.Company.Name)
		if doc.Company.Address != "" {
			fmt.Fprintln(&b, doc.Company.Address)
		}
		if doc.Company.Phone != "" {
			fmt.Fprintln(&b, doc.Company.Phone)
		}
		if doc.Company.TaxID != "" {
			fmt.Fprintf(&b, "Tax ID: %s\n", doc.Company.TaxID)
		}
		fmt.Fprintln(&b)
	}

	fmt.Fprintf(&b, "Invoice %s\n", doc.Serial)
	if doc.DisplayDate != "" {
		fmt.Fprintf(&b, "Date: %s\n", doc.DisplayDate)
	}
	fmt.Fprintln(&b, strings.Repeat("-", 40))

	for _, line := range doc.Lines {
		fmt.Fprintf(&b, "%-24s %3d x %8s = %10s\n",
			line.Name, line.Quantity, line.UnitValue.StringFixed(2), line.Total.StringFixed(2))
	}

	fmt.Fprintln(&b, strings.Repeat("-", 40))
	fmt.Fprintf(&b, "TOTAL %34s\n", doc.GrandTotal.StringFixed(2))

	return []byte(b.String()), "text/plain; charset=utf-8", nil
}
