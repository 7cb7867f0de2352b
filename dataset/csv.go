package dataset

import (
	"bufio"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// DefaultDelimiter separates fields in persisted feature tables.
const DefaultDelimiter = ','

// Reader loads a table from storage.
type Reader interface {
	Read(path string, delimiter rune) (Table, error)
}

// Writer persists a table to storage, replacing anything already there.
type Writer interface {
	Write(table Table, path string) error
}

// CSV reads and writes delimiter-separated files with a header row.
type CSV struct{}

// Read loads the file at path. The first record is the header.
func (CSV) Read(path string, delimiter rune) (Table, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return Table{}, errors.Wrap(ErrNotFound, path)
	} else if err != nil {
		return Table{}, errors.Wrapf(ErrIO, "%s: %v", path, err)
	}
	defer f.Close()
	t, err := Decode(bufio.NewReader(f), delimiter)
	if err != nil {
		return Table{}, errors.Wrap(err, path)
	}
	return t, nil
}

// Write stores the table at path with DefaultDelimiter. The file is written next to
// its destination and renamed into place, so readers never observe a partial table.
func (CSV) Write(table Table, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0777); err != nil {
		return errors.Wrapf(ErrIO, "%s: %v", dir, err)
	}

	tmp := filepath.Join(dir, "."+filepath.Base(path)+"."+uuid.New().String()+".tmp")
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0664)
	if err != nil {
		return errors.Wrapf(ErrIO, "%s: %v", tmp, err)
	}

	w := bufio.NewWriter(f)
	err = Encode(w, table, DefaultDelimiter)
	if err == nil {
		err = w.Flush()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(tmp)
		return errors.Wrapf(ErrIO, "%s: %v", path, err)
	}

	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return errors.Wrapf(ErrIO, "%s: %v", path, err)
	}
	return nil
}

// Decode parses a delimiter-separated table with a header row.
func Decode(r io.Reader, delimiter rune) (Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = delimiter
	// Raw texts may carry stray quotes inside unquoted fields.
	cr.LazyQuotes = true
	records, err := cr.ReadAll()
	if err != nil {
		if _, ok := err.(*csv.ParseError); ok {
			return Table{}, errors.Wrap(ErrMalformedInput, err.Error())
		}
		return Table{}, errors.Wrap(ErrIO, err.Error())
	}
	if len(records) == 0 {
		return Table{}, errors.Wrap(ErrMalformedInput, "missing header")
	}
	return Table{Columns: records[0], Rows: records[1:]}, nil
}

// Encode writes a table with a header row.
func Encode(w io.Writer, table Table, delimiter rune) error {
	cw := csv.NewWriter(w)
	cw.Comma = delimiter
	if err := cw.Write(table.Columns); err != nil {
		return err
	}
	if err := cw.WriteAll(table.Rows); err != nil {
		return err
	}
	return cw.Error()
}
