package csv

import (
	"errors"
	"io"
	"iter"
	"log/slog"

	"github.com/shapestone/shape-simplecsv/internal/parser"
	"github.com/shapestone/shape-simplecsv/internal/tokenizer"
)

// LineSource supplies physical lines without their terminators.
// NextLine returns io.EOF when there are no more lines.
type LineSource = parser.LineSource

// Reader reads records from a stream of physical lines. A record whose
// quoted field is still open at the end of a line continues on the next
// line; the lines are joined with "\n".
//
// A Reader is not safe for concurrent use.
//
// Example:
//
//	r := csv.NewReader(file)
//	defer r.Close()
//	for {
//	    record, err := r.ReadNext()
//	    if err == io.EOF {
//	        break
//	    }
//	    if err != nil {
//	        // handle error
//	    }
//	    fmt.Println(record)
//	}
type Reader struct {
	sr      *parser.SpanningReader
	opts    ReaderOptions
	logger  *slog.Logger
	closer  io.Closer
	started bool
	closed  bool
}

// NewReader creates a Reader with the default configuration.
func NewReader(r io.Reader) *Reader {
	return NewReaderWithOptions(r, DefaultReaderOptions())
}

// NewReaderWithOptions creates a Reader with custom options.
// Lines end at \n, \r\n or a lone \r.
func NewReaderWithOptions(r io.Reader, opts ReaderOptions) *Reader {
	rd := NewLineSourceReader(tokenizer.NewLineScannerFromReader(r), opts)
	if c, ok := r.(io.Closer); ok {
		rd.closer = c
	}
	return rd
}

// OpenFile creates a Reader over a memory-mapped file. Close releases the
// mapping.
func OpenFile(path string, opts ReaderOptions) (*Reader, error) {
	fs, err := tokenizer.OpenFile(path)
	if err != nil {
		return nil, err
	}
	rd := NewLineSourceReader(fs, opts)
	rd.closer = fs
	return rd, nil
}

// NewLineSourceReader creates a Reader over an arbitrary line source.
func NewLineSourceReader(src LineSource, opts ReaderOptions) *Reader {
	opts.Config = orDefault(opts.Config)
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	sr := parser.NewSpanningReader(parser.NewParser(opts.Config.opts), src, parser.ReaderOptions{
		MaxRecordLines: opts.MaxRecordLines,
		Logger:         logger,
	})
	return &Reader{sr: sr, opts: opts, logger: logger}
}

// ReadNext returns the next record. It returns nil, io.EOF when the source
// has no more records.
//
// A record that cannot be tokenized is returned as a *ParseError unless
// OnBadLine says to skip it. I/O errors from the source are returned as is.
func (r *Reader) ReadNext() ([]string, error) {
	if r.closed {
		return nil, ErrClosed
	}
	if !r.started {
		r.started = true
		if r.opts.SkipLines > 0 {
			if err := r.sr.Skip(r.opts.SkipLines); err != nil {
				return nil, err
			}
			r.logger.Debug("skipped leading lines", "count", r.sr.Line())
		}
	}

	for {
		fields, err := r.sr.Next()
		if err == nil {
			return fields, nil
		}
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}

		err = toParseError(err)
		var perr *ParseError
		if !errors.As(err, &perr) {
			return nil, err
		}

		switch r.opts.OnBadLine {
		case BadLineModeWarn:
			r.logger.Warn("skipping bad record", "line", perr.StartLine, "error", perr.Err)
			if r.opts.WarningCallback != nil {
				r.opts.WarningCallback(perr.StartLine, perr.Error())
			}
		case BadLineModeSkip:
			r.logger.Debug("skipping bad record", "line", perr.StartLine, "error", perr.Err)
		default:
			return nil, perr
		}
	}
}

// ReadAll reads the remaining records. Reaching the end of input is not an
// error; the records read before a failure are returned with it.
func (r *Reader) ReadAll() ([][]string, error) {
	var records [][]string
	for {
		record, err := r.ReadNext()
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return records, err
		}
		records = append(records, record)
	}
}

// All returns an iterator over the remaining records. Iteration stops
// after the first error is yielded.
//
// Example:
//
//	for record, err := range r.All() {
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Println(record)
//	}
func (r *Reader) All() iter.Seq2[[]string, error] {
	return func(yield func([]string, error) bool) {
		for {
			record, err := r.ReadNext()
			if errors.Is(err, io.EOF) {
				return
			}
			if !yield(record, err) || err != nil {
				return
			}
		}
	}
}

// LineNumber returns the number of physical lines consumed so far.
func (r *Reader) LineNumber() int {
	return r.sr.Line()
}

// Config returns the configuration the reader tokenizes with.
func (r *Reader) Config() *Config {
	return r.opts.Config
}

// Close releases the reader. When the reader was created from an
// io.Reader that is also an io.Closer, that reader is closed.
// Subsequent reads return ErrClosed.
func (r *Reader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	if r.closer != nil {
		return r.closer.Close()
	}
	return nil
}
