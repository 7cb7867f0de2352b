package dataset

import (
	"bytes"
	"io"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"
)

// Record is the typed view of the base columns of one row.
type Record struct {
	ID         string `csv:"_id"`
	Dataset    string `csv:"dataset"`
	OriginalID string `csv:"of_id"`
	Sexist     string `csv:"sexist"`
	Text       string `csv:"text"`
}

// tableReader replays a table, header first, for gocsv.
type tableReader struct {
	t   Table
	pos int
}

func (r *tableReader) Read() ([]string, error) {
	if r.pos == 0 {
		r.pos++
		return r.t.Columns, nil
	}
	if r.pos > len(r.t.Rows) {
		return nil, io.EOF
	}
	row := r.t.Rows[r.pos-1]
	r.pos++
	return row, nil
}

func (r *tableReader) ReadAll() ([][]string, error) {
	var all [][]string
	for {
		row, err := r.Read()
		if err == io.EOF {
			return all, nil
		}
		all = append(all, row)
	}
}

// Records decodes the base columns of every row.
func (t Table) Records() ([]Record, error) {
	if err := t.Require(BaseColumns...); err != nil {
		return nil, err
	}
	var records []Record
	if t.Len() == 0 {
		return records, nil
	}
	if err := gocsv.UnmarshalCSV(&tableReader{t: t}, &records); err != nil {
		return nil, errors.Wrap(ErrMalformedInput, err.Error())
	}
	return records, nil
}

// FromRecords builds a raw table with the base columns.
func FromRecords(records []Record) (Table, error) {
	if len(records) == 0 {
		return Table{Columns: append([]string(nil), BaseColumns...)}, nil
	}
	s, err := gocsv.MarshalString(&records)
	if err != nil {
		return Table{}, err
	}
	return Decode(bytes.NewBufferString(s), DefaultDelimiter)
}
