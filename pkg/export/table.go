package export

import "fmt"

// Table defines tabular export content. Rows are keyed by header.
type Table struct {
	Headers []string
	Rows    []map[string]string
}

// Validate reports tables that cannot be rendered.
func (t Table) Validate() error {
	if len(t.Headers) == 0 {
		return fmt.Errorf("export requires at least one header")
	}
	return nil
}

// Content types of the rendered formats.
const (
	ContentTypeCSV     = "text/csv; charset=utf-8"
	ContentTypePDF     = "application/pdf"
	ContentTypeParquet = "application/vnd.apache.parquet"
)
