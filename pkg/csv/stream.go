package csv

import (
	"errors"
	"io"
)

// Scanner provides a streaming interface for reading records one at a time.
// Records are tokenized as Scan is called, so memory use does not grow
// with the input.
//
// Example usage:
//
//	file, _ := os.Open("data.csv")
//	defer file.Close()
//
//	scanner := csv.NewScanner(file).SetHasHeaders(true)
//	for scanner.Scan() {
//	    record := scanner.Record()
//	    name, _ := record.GetByName("name")
//	    fmt.Println(name)
//	}
//	if err := scanner.Err(); err != nil {
//	    // handle error
//	}
type Scanner struct {
	reader          *Reader
	hasHeaders      bool
	reuseRecord     bool
	headerConverter HeaderConverter
	headers         []string
	current         []string
	started         bool
	err             error
	lastRecord      Record // reused when reuseRecord is true
}

// NewScanner creates a Scanner that reads from reader with the default configuration.
// By default the scanner assumes no headers.
func NewScanner(reader io.Reader) *Scanner {
	return NewScannerWithOptions(reader, DefaultReaderOptions())
}

// NewScannerWithOptions creates a Scanner with custom reader options.
func NewScannerWithOptions(reader io.Reader, opts ReaderOptions) *Scanner {
	return NewScannerFromReader(NewReaderWithOptions(reader, opts))
}

// NewScannerFromReader creates a Scanner over an existing Reader.
func NewScannerFromReader(r *Reader) *Scanner {
	return &Scanner{reader: r}
}

// SetHasHeaders sets whether the first record holds column names.
// Returns the Scanner for method chaining.
func (s *Scanner) SetHasHeaders(hasHeaders bool) *Scanner {
	s.hasHeaders = hasHeaders
	return s
}

// SetHeaderConverter sets a function applied to each header name.
// Returns the Scanner for method chaining.
//
// Example:
//
//	scanner := csv.NewScanner(reader).
//	    SetHasHeaders(true).
//	    SetHeaderConverter(csv.SnakeCaseHeader)
func (s *Scanner) SetHeaderConverter(fn HeaderConverter) *Scanner {
	s.headerConverter = fn
	return s
}

// SetReuseRecord sets whether the scanner should reuse the Record struct.
// When true, successive calls to Record() may return the same Record struct
// with updated field values.
// Returns the Scanner for method chaining.
func (s *Scanner) SetReuseRecord(reuse bool) *Scanner {
	s.reuseRecord = reuse
	return s
}

// Scan advances the scanner to the next record.
// It returns false at end of input or on error; Err reports the error.
func (s *Scanner) Scan() bool {
	if s.err != nil {
		return false
	}

	if !s.started {
		s.started = true
		if s.hasHeaders {
			headers, ok := s.next()
			if !ok {
				return false
			}
			if s.headerConverter != nil {
				for i, h := range headers {
					headers[i] = s.headerConverter(h)
				}
			}
			s.headers = headers
		}
	}

	fields, ok := s.next()
	if !ok {
		s.current = nil
		return false
	}
	s.current = fields
	return true
}

func (s *Scanner) next() ([]string, bool) {
	fields, err := s.reader.ReadNext()
	if err != nil {
		if !errors.Is(err, io.EOF) {
			s.err = err
		}
		return nil, false
	}
	return fields, true
}

// Record returns the current record.
// This should only be called after Scan() returns true.
//
// When ReuseRecord is enabled, the returned Record may share memory with
// previous calls. Copy the Record if you need to retain its values.
func (s *Scanner) Record() Record {
	if s.current == nil {
		return Record{fields: []string{}, headers: s.headers}
	}

	if s.reuseRecord {
		s.lastRecord.fields = s.current
		s.lastRecord.headers = s.headers
		return s.lastRecord
	}

	return Record{
		fields:  s.current,
		headers: s.headers,
	}
}

// Err returns the error, if any, that was encountered during scanning.
// It returns nil at end of input.
func (s *Scanner) Err() error {
	return s.err
}

// Headers returns the column headers if SetHasHeaders(true) was called.
// This is available after the first call to Scan().
func (s *Scanner) Headers() []string {
	return s.headers
}

// Close closes the underlying Reader.
func (s *Scanner) Close() error {
	return s.reader.Close()
}
