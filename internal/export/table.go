package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"slices"
)

// Table is the interchange form of any tabular result: a header of field
// names followed by rows of string cells in header order.
type Table struct {
	Header []string
	Rows   [][]string
}

// Len returns the number of data rows.
func (t Table) Len() int { return len(t.Rows) }

// Column returns the index of name in the header, or -1.
func (t Table) Column(name string) int {
	return slices.Index(t.Header, name)
}

// Encode writes the table as comma-separated lines, header first. Cells that
// contain commas, quotes or line breaks are quoted. Output is LF-terminated so
// the same table always encodes to the same bytes.
func (t Table) Encode(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, row := range t.Rows {
		if len(row) != len(t.Header) {
			return fmt.Errorf("row %d has %d cells, header has %d", i+1, len(row), len(t.Header))
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}
	return nil
}

// Marshal returns the encoded table.
func (t Table) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	if err := t.Encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Parse reads a table written by Encode. The first record is the header.
func Parse(r io.Reader) (Table, error) {
	cr := csv.NewReader(r)
	records, err := cr.ReadAll()
	if err != nil {
		return Table{}, fmt.Errorf("reading csv: %w", err)
	}
	if len(records) == 0 {
		return Table{}, fmt.Errorf("reading csv: missing header")
	}
	return Table{Header: records[0], Rows: nonNilRows(records[1:])}, nil
}

// Unmarshal parses an encoded table held in memory.
func Unmarshal(data []byte) (Table, error) {
	return Parse(bytes.NewReader(data))
}

func nonNilRows(rows [][]string) [][]string {
	if rows == nil {
		return [][]string{}
	}
	return rows
}
