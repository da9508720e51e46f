package output

import (
	"encoding/json"
	"io"

	"escrow-charge/core/charge"
	"escrow-charge/core/types"
)

// JSONFormatter renders the external JSON shapes
type JSONFormatter struct {
	Indent string
}

func (f *JSONFormatter) Format() Format {
	return FormatJSON
}

func (f *JSONFormatter) encode(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", f.Indent)
	return enc.Encode(v)
}

func (f *JSONFormatter) RenderBreakdown(w io.Writer, currency types.Currency, b charge.Breakdown) error {
	return f.encode(w, NewBreakdownView(currency, b))
}

func (f *JSONFormatter) RenderTiers(w io.Writer, table *charge.Table) error {
	return f.encode(w, NewTierViews(table))
}

func (f *JSONFormatter) RenderProjects(w io.Writer, quotes []*charge.ProjectQuote) error {
	views := make([]ProjectView, len(quotes))
	for i, q := range quotes {
		views[i] = NewProjectView(q)
	}
	return f.encode(w, views)
}
