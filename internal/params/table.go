package params

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/crypto/sha3"
)

// Source supplies the decimal-string constants for a state width.
type Source interface {
	Row(width int) (*Row, error)
}

// Table is an in-memory constants table indexed by width.
type Table struct {
	rows map[int]*Row
}

// tableJSON is the on-disk form of a Table.
type tableJSON struct {
	Fingerprint string `json:"fingerprint"`
	Rows        []*Row `json:"rows"`
}

// NewTable indexes rows by width. A later row replaces an earlier one of the
// same width.
func NewTable(rows ...*Row) *Table {
	t := &Table{rows: make(map[int]*Row, len(rows))}
	for _, r := range rows {
		t.rows[r.Width] = r
	}
	return t
}

// ExportTable collects the rows src yields for widths.
func ExportTable(src Source, widths ...int) (*Table, error) {
	t := NewTable()
	for _, w := range widths {
		r, err := src.Row(w)
		if err != nil {
			return nil, err
		}
		t.rows[w] = r
	}
	return t, nil
}

// Row implements Source.
func (t *Table) Row(width int) (*Row, error) {
	r, ok := t.rows[width]
	if !ok {
		return nil, fmt.Errorf("poseidon254: width %d: %w", width, ErrUnsupportedWidth)
	}
	return r, nil
}

// Widths lists the tabulated widths in ascending order.
func (t *Table) Widths() []int {
	out := make([]int, 0, len(t.rows))
	for w := range t.rows {
		out = append(out, w)
	}
	slices.Sort(out)
	return out
}

// Fingerprint is the hex SHA3-256 digest of the table contents, independent of
// JSON formatting.
func (t *Table) Fingerprint() string {
	h := sha3.New256()
	for _, w := range t.Widths() {
		r := t.rows[w]
		io.WriteString(h, "width:"+strconv.Itoa(w)+"\n")
		for _, mdsRow := range r.MDS {
			io.WriteString(h, "m:"+strings.Join(mdsRow, ",")+"\n")
		}
		io.WriteString(h, "c:"+strings.Join(r.RoundConstants, ",")+"\n")
	}
	return hex.EncodeToString(h.Sum(nil))
}

// WriteTo encodes the table as indented JSON.
func (t *Table) WriteTo(w io.Writer) (int64, error) {
	doc := tableJSON{Fingerprint: t.Fingerprint()}
	for _, width := range t.Widths() {
		doc.Rows = append(doc.Rows, t.rows[width])
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return 0, err
	}
	n, err := w.Write(append(data, '\n'))
	return int64(n), err
}

// LoadTable decodes a JSON table and verifies its fingerprint.
func LoadTable(r io.Reader) (*Table, error) {
	var doc tableJSON
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("poseidon254: decode table: %w", err)
	}
	for i, row := range doc.Rows {
		if row == nil {
			return nil, fmt.Errorf("poseidon254: table row %d is null", i)
		}
	}
	t := NewTable(doc.Rows...)
	if len(t.rows) != len(doc.Rows) {
		return nil, fmt.Errorf("poseidon254: table has duplicate widths")
	}
	if got := t.Fingerprint(); got != doc.Fingerprint {
		return nil, fmt.Errorf("poseidon254: table fingerprint mismatch (have %s, computed %s)", doc.Fingerprint, got)
	}
	return t, nil
}

// LoadTableFile is LoadTable on a file path.
func LoadTableFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadTable(f)
}
