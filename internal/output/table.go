// Package output writes and reads the per-language provision tables.
package output

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dgallion1/regsplit/internal/provision"
)

// Header is the exact column contract of a provision table.
var Header = []string{"ID", "Type", "Label", "Title", "Text"}

// DefaultPrefix names tables when no prefix is configured.
const DefaultPrefix = "provisions"

// Path returns <dir>/<prefix>_<lang>.csv.
func Path(dir, prefix, lang string) string {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return filepath.Join(dir, prefix+"_"+lang+".csv")
}

// Write emits the header and one record per provision.
func Write(w io.Writer, rows []provision.Provision) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, p := range rows {
		if err := cw.Write([]string{p.ID, string(p.Type), p.Label, p.Title, p.Text}); err != nil {
			return fmt.Errorf("write row %s: %w", p.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile writes rows to path through a temp file in the same directory,
// so readers never see a half-written table.
func WriteFile(path string, rows []provision.Provision) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".regsplit-*.csv")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if err := Write(tmp, rows); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}

// ErrNoHeader is returned by ReadTable for an empty input.
var ErrNoHeader = errors.New("table has no header row")

// Table is a CSV read back by column name. Columns absent from the file read
// as empty strings.
type Table struct {
	Columns []string
	Rows    [][]string
	index   map[string]int
}

// ReadTable parses a CSV whose first record is the header. Extra columns such
// as Related_Recitals or External_Links are kept.
func ReadTable(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrNoHeader
	}

	t := &Table{index: make(map[string]int)}
	for i, col := range records[0] {
		col = strings.TrimSpace(strings.TrimPrefix(col, "\ufeff"))
		t.Columns = append(t.Columns, col)
		if _, dup := t.index[col]; !dup {
			t.index[col] = i
		}
	}
	for _, rec := range records[1:] {
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}
		t.Rows = append(t.Rows, rec)
	}
	return t, nil
}

// ReadFile opens and parses the table at path.
func ReadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open table: %w", err)
	}
	defer f.Close()
	t, err := ReadTable(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Has reports whether the header names col.
func (t *Table) Has(col string) bool {
	_, ok := t.index[col]
	return ok
}

// Get returns the value of col in row i, or "" when either is missing.
func (t *Table) Get(i int, col string) string {
	if i < 0 || i >= len(t.Rows) {
		return ""
	}
	j, ok := t.index[col]
	if !ok || j >= len(t.Rows[i]) {
		return ""
	}
	return t.Rows[i][j]
}

// Provisions converts the table back into provisions.
func (t *Table) Provisions() []provision.Provision {
	out := make([]provision.Provision, 0, len(t.Rows))
	for i := range t.Rows {
		out = append(out, provision.Provision{
			ID:    t.Get(i, "ID"),
			Type:  provision.Type(t.Get(i, "Type")),
			Label: t.Get(i, "Label"),
			Title: t.Get(i, "Title"),
			Text:  t.Get(i, "Text"),
		})
	}
	return out
}
