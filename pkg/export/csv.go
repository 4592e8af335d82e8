package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

// ErrNoColumns is returned when a table is rendered without a header row.
var ErrNoColumns = errors.New("csv table requires at least one column")

// Table is tabular export content keyed by column name.
type Table struct {
	Columns []string
	Rows    []map[string]string
}

// AddRow appends one record. Columns missing from row render as empty cells.
func (t *Table) AddRow(row map[string]string) {
	t.Rows = append(t.Rows, row)
}

// WriteCSV streams the table to w with a header line followed by one line per row.
func WriteCSV(w io.Writer, table Table) error {
	if len(table.Columns) == 0 {
		return ErrNoColumns
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(table.Columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	record := make([]string, len(table.Columns))
	for _, row := range table.Rows {
		for i, column := range table.Columns {
			record[i] = row[column]
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// RenderCSV returns the table encoded as CSV bytes.
func RenderCSV(table Table) ([]byte, error) {
	buf := &bytes.Buffer{}
	if err := WriteCSV(buf, table); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
