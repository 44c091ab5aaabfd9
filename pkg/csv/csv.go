// Package csv tokenizes delimited text with a configurable quoting dialect.
//
// Lines are split into fields on a separator character. Separator, quote and
// escape characters are configurable, and flags control strict quoting,
// whitespace trimming, unbalanced quotes, outer quote retention, escape
// retention and output quoting. Every quote character that is not escaped
// toggles the quoted state, so doubled quotes are kept as data rather than
// collapsed. A quoted field may span physical lines.
//
// # Thread Safety
//
// Config and LineParser are immutable and safe for concurrent use. Reader
// and Scanner hold per-stream state and must not be shared between
// goroutines.
//
//	// Safe: Concurrent tokenizing with one config
//	lp := csv.NewLineParser(cfg)
//	go func() { lp.ParseLine(line1) }()
//	go func() { lp.ParseLine(line2) }()
//
// # Parsing APIs
//
//   - ParseLine(string) - Tokenizes one line with the default dialect
//   - NewLineParser(*Config).ParseLine - Tokenizes one line with a custom dialect
//   - NewReader(io.Reader) - Streams records, joining lines inside quoted fields
//   - Parse(string) / ParseReader(io.Reader) - Builds an AST of all records
//
// # Example usage with ParseLine:
//
//	fields, err := csv.ParseLine(`a,"b,c",d`)
//	// fields == []string{"a", "b,c", "d"}
//
// # Example usage with a custom dialect:
//
//	cfg, err := csv.NewConfigBuilder().
//	    Separator('|').
//	    RetainOuterQuotes(true).
//	    Build()
//	if err != nil {
//	    // handle error
//	}
//	fields, err := csv.NewLineParser(cfg).ParseLine(`a|"b"`)
//	// fields == []string{"a", `"b"`}
package csv

import (
	"errors"
	"io"
	"strings"

	"github.com/shapestone/shape-core/pkg/ast"
	"github.com/shapestone/shape-simplecsv/internal/parser"
	"github.com/shapestone/shape-simplecsv/internal/tokenizer"
)

// LineParser tokenizes single lines with a fixed Config.
type LineParser struct {
	cfg    *Config
	parser *parser.Parser
}

// NewLineParser creates a LineParser. A nil or zero cfg means DefaultConfig().
func NewLineParser(cfg *Config) *LineParser {
	cfg = orDefault(cfg)
	return &LineParser{cfg: cfg, parser: parser.NewParser(cfg.opts)}
}

// Config returns the parser's configuration.
func (lp *LineParser) Config() *Config {
	return lp.cfg
}

// ParseLine splits line into fields. It returns ErrUnterminatedQuote when
// the line ends inside a quoted field and AllowUnbalancedQuotes is off.
func (lp *LineParser) ParseLine(line string) ([]string, error) {
	return lp.parser.ParseLine(line)
}

// ParseLinePtr is ParseLine for an optional line: a nil line yields nil
// fields and no error.
func (lp *LineParser) ParseLinePtr(line *string) ([]string, error) {
	if line == nil {
		return nil, nil
	}
	return lp.ParseLine(*line)
}

// ParseLine splits line into fields with the default configuration.
//
// Example:
//
//	fields, err := csv.ParseLine(`1997,Ford,"Super, ""luxurious"" truck"`)
//	// fields[2] == `Super, ""luxurious"" truck`
func ParseLine(line string) ([]string, error) {
	return NewLineParser(nil).ParseLine(line)
}

// Parse parses CSV text into an AST with the default configuration.
//
// Returns an ast.ArrayDataNode representing the parsed records:
//   - *ast.ArrayDataNode for the input (array of records)
//   - Each record is an *ast.ArrayDataNode of fields
//   - Each field is an *ast.LiteralNode containing a string value
//
// Example:
//
//	node, err := csv.Parse("name,age\nAlice,30\nBob,25")
//	arrayNode := node.(*ast.ArrayDataNode)
//	records := arrayNode.Elements()
//	// records[0] is the header row
func Parse(input string) (ast.SchemaNode, error) {
	return ParseWithConfig(input, DefaultConfig())
}

// ParseWithConfig parses CSV text into an AST with a custom configuration.
func ParseWithConfig(input string, cfg *Config) (ast.SchemaNode, error) {
	return buildAST(NewLineSourceReader(tokenizer.NewLineScannerFromString(input), ReaderOptions{Config: cfg}))
}

// ParseReader parses CSV from an io.Reader into an AST with the default configuration.
//
// Example parsing from a file:
//
//	file, err := os.Open("data.csv")
//	if err != nil {
//	    // handle error
//	}
//	defer file.Close()
//
//	node, err := csv.ParseReader(file)
func ParseReader(reader io.Reader) (ast.SchemaNode, error) {
	return ParseReaderWithConfig(reader, DefaultConfig())
}

// ParseReaderWithConfig parses CSV from an io.Reader into an AST with a custom configuration.
func ParseReaderWithConfig(reader io.Reader, cfg *Config) (ast.SchemaNode, error) {
	return buildAST(NewLineSourceReader(tokenizer.NewLineScannerFromReader(reader), ReaderOptions{Config: cfg}))
}

// buildAST drains r into an array of records. Record positions carry the
// physical line the record starts on.
func buildAST(r *Reader) (ast.SchemaNode, error) {
	records := make([]ast.SchemaNode, 0, 16)
	for {
		startLine := r.LineNumber() + 1
		fields, err := r.ReadNext()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		fieldNodes := make([]ast.SchemaNode, len(fields))
		for i, f := range fields {
			fieldNodes[i] = ast.NewLiteralNode(f, ast.NewPosition(0, startLine, 1))
		}
		records = append(records, ast.NewArrayDataNode(fieldNodes, ast.NewPosition(0, startLine, 1)))
	}
	return ast.NewArrayDataNode(records, ast.ZeroPosition()), nil
}

// Format returns the format identifier for this parser.
func Format() string {
	return "CSV"
}

// Validate checks that every record of input tokenizes with the default configuration.
//
//	if err := csv.Validate(input); err != nil {
//	    fmt.Println("Invalid CSV:", err)
//	}
func Validate(input string) error {
	return ValidateReaderWithConfig(strings.NewReader(input), DefaultConfig())
}

// ValidateReader checks that every record from reader tokenizes with the default configuration.
func ValidateReader(reader io.Reader) error {
	return ValidateReaderWithConfig(reader, DefaultConfig())
}

// ValidateReaderWithConfig checks that every record from reader tokenizes with cfg.
// It returns the first error found.
func ValidateReaderWithConfig(reader io.Reader, cfg *Config) error {
	r := NewLineSourceReader(tokenizer.NewLineScannerFromReader(reader), ReaderOptions{Config: cfg})
	for {
		if _, err := r.ReadNext(); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}
