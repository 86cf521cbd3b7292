// Package report writes the audit's CSV report files.
package report

import (
	"encoding/csv"
	"fmt"
	"os"
)

// CSVSink writes rows to a single CSV file. The file is created fresh
// (truncated) on open, the header is written exactly once, and every row
// is flushed as it is appended so partial output survives an interrupted
// run.
type CSVSink struct {
	path string
	file *os.File
	w    *csv.Writer
	rows int
}

// NewCSVSink creates or truncates the file at path and writes the header.
func NewCSVSink(path string, header []string) (*CSVSink, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("error creating report file %s: %w", path, err)
	}

	w := csv.NewWriter(file)
	w.Write(header)
	w.Flush()
	if err := w.Error(); err != nil {
		file.Close()
		return nil, fmt.Errorf("error writing header to %s: %w", path, err)
	}

	return &CSVSink{path: path, file: file, w: w}, nil
}

// Append writes one row and flushes it to disk.
func (s *CSVSink) Append(row []string) error {
	s.w.Write(row)
	s.w.Flush()
	if err := s.w.Error(); err != nil {
		return fmt.Errorf("error writing row to %s: %w", s.path, err)
	}

	s.rows++
	return nil
}

// Rows returns the number of data rows appended, excluding the header.
func (s *CSVSink) Rows() int {
	return s.rows
}

// Path returns the file path the sink writes to.
func (s *CSVSink) Path() string {
	return s.path
}

// Close flushes and closes the underlying file.
func (s *CSVSink) Close() error {
	s.w.Flush()
	if err := s.w.Error(); err != nil {
		s.file.Close()
		return fmt.Errorf("error flushing %s: %w", s.path, err)
	}

	return s.file.Close()
}
