package export

import (
	"bytes"
	"fmt"

	"github.com/parquet-go/parquet-go"
)

// RenderParquet encodes typed rows as a single parquet file. The schema is
// derived from T's `parquet` struct tags.
func RenderParquet[T any](rows []T) ([]byte, error) {
	buf := &bytes.Buffer{}
	writer := parquet.NewGenericWriter[T](buf)
	if len(rows) > 0 {
		if _, err := writer.Write(rows); err != nil {
			_ = writer.Close()
			return nil, fmt.Errorf("write parquet rows: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close parquet writer: %w", err)
	}
	return buf.Bytes(), nil
}
