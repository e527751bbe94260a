package datasets

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/san-kum/survlab/internal/lifetime"
)

var ErrBadHeader = errors.New("datasets: header must start with time,event,entry")

// ParseError reports a malformed CSV line.
type ParseError struct {
	Line   int
	Column string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d, column %s: %v", e.Line, e.Column, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// LoadCSV reads a lifetime data set. The header must start with
// time,event,entry; any further columns are read as float covariates.
func LoadCSV(r io.Reader) (lifetime.Records, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return lifetime.Records{}, fmt.Errorf("read header: %w", err)
	}
	if len(header) < 3 ||
		!strings.EqualFold(header[0], "time") ||
		!strings.EqualFold(header[1], "event") ||
		!strings.EqualFold(header[2], "entry") {
		return lifetime.Records{}, ErrBadHeader
	}
	cr.FieldsPerRecord = len(header)

	var rec lifetime.Records
	for _, name := range header[3:] {
		rec.Covariates = append(rec.Covariates, lifetime.Covariate{Name: name})
	}

	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return lifetime.Records{}, err
		}

		t, err := strconv.ParseFloat(row[0], 64)
		if err != nil {
			return lifetime.Records{}, &ParseError{Line: line, Column: header[0], Err: err}
		}
		ev, err := parseEvent(row[1])
		if err != nil {
			return lifetime.Records{}, &ParseError{Line: line, Column: header[1], Err: err}
		}
		a, err := strconv.ParseFloat(row[2], 64)
		if err != nil {
			return lifetime.Records{}, &ParseError{Line: line, Column: header[2], Err: err}
		}

		rec.Time = append(rec.Time, t)
		rec.Event = append(rec.Event, ev)
		rec.Entry = append(rec.Entry, a)

		for j := 3; j < len(row); j++ {
			v, err := strconv.ParseFloat(row[j], 64)
			if err != nil {
				return lifetime.Records{}, &ParseError{Line: line, Column: header[j], Err: err}
			}
			rec.Covariates[j-3].Values = append(rec.Covariates[j-3].Values, v)
		}
	}

	if err := rec.Validate(); err != nil {
		return lifetime.Records{}, err
	}
	return rec, nil
}

func LoadFile(path string) (lifetime.Records, error) {
	f, err := os.Open(path)
	if err != nil {
		return lifetime.Records{}, err
	}
	defer f.Close()
	return LoadCSV(f)
}

// FileDataset declares a catalog entry backed by a CSV file on disk. The file
// is read on every load.
func FileDataset(name, path string) Dataset {
	return Dataset{
		Name:        name,
		Description: path,
		Load:        func() (lifetime.Records, error) { return LoadFile(path) },
	}
}

func parseEvent(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "t", "yes":
		return true, nil
	case "0", "false", "f", "no":
		return false, nil
	}
	return false, fmt.Errorf("invalid event flag %q", s)
}
