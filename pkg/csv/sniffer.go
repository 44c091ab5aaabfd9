// Package csv provides dialect detection and header sniffing.
package csv

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	candidateDelimiters = []rune{',', '\t', ';', '|'}
	candidateQuotes     = []rune{'"', '\''}
)

// Sniffer detects the dialect of a sample: separator, quote character and
// whether the first row is a header.
type Sniffer struct {
	sample    string
	lines     []string
	delimiter rune
	quote     rune
	hasHeader bool
	analyzed  bool
}

// NewSniffer creates a new Sniffer with a sample of CSV data.
// For best results, provide at least 2-3 lines of data.
func NewSniffer(sample string) *Sniffer {
	return &Sniffer{sample: sample}
}

// analyze performs dialect detection on the sample.
func (s *Sniffer) analyze() {
	if s.analyzed {
		return
	}
	s.lines = sampleLines(s.sample)
	s.quote = s.detectQuote()
	s.delimiter = s.detectDelimiter()
	s.hasHeader = s.detectHeader()
	s.analyzed = true
}

func sampleLines(sample string) []string {
	var lines []string
	for _, line := range strings.Split(sample, "\n") {
		lines = append(lines, strings.TrimSuffix(line, "\r"))
	}
	return lines
}

// DetectDelimiter returns the detected field delimiter.
// Common delimiters checked: comma, tab, semicolon, pipe.
func (s *Sniffer) DetectDelimiter() rune {
	s.analyze()
	return s.delimiter
}

// DetectQuoteChar returns the detected quote character: '"' or '\''.
func (s *Sniffer) DetectQuoteChar() rune {
	s.analyze()
	return s.quote
}

// HasHeader returns true if the first row appears to be a header.
func (s *Sniffer) HasHeader() bool {
	s.analyze()
	return s.hasHeader
}

// Config returns a configuration for the detected separator and quote
// character, with every other setting at its default.
func (s *Sniffer) Config() (*Config, error) {
	s.analyze()
	return NewConfigBuilder().
		Separator(s.delimiter).
		QuoteChar(s.quote).
		Build()
}

// detectQuote counts candidate quotes that sit on a field boundary: at the
// start or end of a line, or next to a candidate delimiter.
func (s *Sniffer) detectQuote() rune {
	best := DefaultQuoteChar
	bestScore := 0
	for _, q := range candidateQuotes {
		score := 0
		for _, line := range s.lines {
			score += boundaryQuotes(line, q)
		}
		if score > bestScore {
			best = q
			bestScore = score
		}
	}
	return best
}

func boundaryQuotes(line string, quote rune) int {
	runes := []rune(strings.TrimSpace(line))
	count := 0
	for i, r := range runes {
		if r != quote {
			continue
		}
		if i == 0 || i == len(runes)-1 || isCandidateDelimiter(runes[i-1]) || isCandidateDelimiter(runes[i+1]) {
			count++
		}
	}
	return count
}

func isCandidateDelimiter(r rune) bool {
	for _, d := range candidateDelimiters {
		if r == d {
			return true
		}
	}
	return false
}

// detectDelimiter scores each candidate by how consistently it splits the lines.
func (s *Sniffer) detectDelimiter() rune {
	scores := make(map[rune]int)

	for _, delim := range candidateDelimiters {
		counts := make([]int, 0, len(s.lines))
		for _, line := range s.lines {
			if line == "" {
				continue
			}
			counts = append(counts, countDelimiter(line, delim, s.quote))
		}

		// Score based on consistency across lines
		if len(counts) > 0 && counts[0] > 0 {
			consistent := true
			for i := 1; i < len(counts); i++ {
				if counts[i] != counts[0] {
					consistent = false
					break
				}
			}
			if consistent {
				scores[delim] = counts[0] * 10 // Bonus for consistency
			} else {
				scores[delim] = counts[0]
			}
		}
	}

	// Ties go to the earlier candidate.
	best := DefaultSeparator
	bestScore := 0
	for _, delim := range candidateDelimiters {
		if scores[delim] > bestScore {
			best = delim
			bestScore = scores[delim]
		}
	}

	return best
}

// countDelimiter counts occurrences of a delimiter, ignoring quoted sections.
func countDelimiter(line string, delim, quote rune) int {
	count := 0
	inQuotes := false

	for _, ch := range line {
		if ch == quote {
			inQuotes = !inQuotes
		} else if ch == delim && !inQuotes {
			count++
		}
	}

	return count
}

// detectHeader uses heuristics to determine if first row is a header.
func (s *Sniffer) detectHeader() bool {
	if len(s.lines) < 2 {
		return false // Need at least 2 lines to compare
	}

	secondLine := ""
	for _, line := range s.lines[1:] {
		if line != "" {
			secondLine = line
			break
		}
	}
	if secondLine == "" {
		return false
	}

	cfg, err := NewConfigBuilder().
		Separator(s.delimiter).
		QuoteChar(s.quote).
		AllowUnbalancedQuotes(true).
		Build()
	if err != nil {
		return false
	}
	firstFields, err := NewLineParser(cfg).ParseLine(s.lines[0])
	if err != nil || len(firstFields) == 0 {
		return false
	}

	// Heuristics:
	// 1. Headers are typically non-numeric
	// 2. Headers often contain underscores or are camelCase
	// 3. Headers don't usually contain special characters like @ or #
	headerScore := 0
	dataScore := 0

	for _, field := range firstFields {
		field = strings.TrimSpace(field)
		if isLikelyHeader(field) {
			headerScore++
		}
		if isLikelyData(field) {
			dataScore++
		}
	}

	return headerScore > dataScore
}

var (
	headerPatterns = []*regexp.Regexp{
		regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`),      // snake_case or identifier
		regexp.MustCompile(`^[a-zA-Z]+[A-Z][a-zA-Z]*$`),     // camelCase
		regexp.MustCompile(`^[A-Z][a-z]+([ ][A-Z][a-z]+)*$`), // Title Case
	}
	datePatterns = []*regexp.Regexp{
		regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`),
		regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`),
	}
)

// isLikelyHeader checks if a field looks like a header name.
func isLikelyHeader(s string) bool {
	if s == "" || isNumeric(s) {
		return false
	}
	for _, pattern := range headerPatterns {
		if pattern.MatchString(s) {
			return true
		}
	}
	return false
}

// isLikelyData checks if a field looks like data rather than a header.
func isLikelyData(s string) bool {
	if s == "" {
		return false
	}
	if isNumeric(s) || strings.Contains(s, "@") {
		return true
	}
	for _, pattern := range datePatterns {
		if pattern.MatchString(s) {
			return true
		}
	}
	return false
}

// isNumeric checks if a string represents a number.
func isNumeric(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}

	// Allow leading minus for negative numbers
	if s[0] == '-' {
		s = s[1:]
	}

	hasDot := false
	hasDigit := false
	for _, ch := range s {
		if ch == '.' {
			if hasDot {
				return false
			}
			hasDot = true
		} else if !unicode.IsDigit(ch) {
			return false
		} else {
			hasDigit = true
		}
	}

	return hasDigit
}

// HeaderConverter is a function that transforms header names.
type HeaderConverter func(string) string

// LowercaseHeader converts headers to lowercase.
func LowercaseHeader(s string) string {
	return strings.ToLower(s)
}

// UppercaseHeader converts headers to uppercase.
func UppercaseHeader(s string) string {
	return strings.ToUpper(s)
}

// SnakeCaseHeader converts headers to snake_case.
func SnakeCaseHeader(s string) string {
	var result strings.Builder
	prevWasSpace := false
	for i, ch := range s {
		if ch == ' ' {
			if result.Len() > 0 && !prevWasSpace {
				result.WriteRune('_')
			}
			prevWasSpace = true
			continue
		}
		if unicode.IsUpper(ch) && i > 0 && !prevWasSpace {
			result.WriteRune('_')
		}
		result.WriteRune(unicode.ToLower(ch))
		prevWasSpace = false
	}
	return result.String()
}

// ColumnSelector specifies which columns to include.
type ColumnSelector struct {
	// UseCols selects columns by name.
	UseCols []string
	// UseColIndexes selects columns by index (0-based).
	UseColIndexes []int
}

// ShouldInclude checks if a column should be included.
func (c *ColumnSelector) ShouldInclude(name string, index int) bool {
	if len(c.UseCols) == 0 && len(c.UseColIndexes) == 0 {
		return true
	}
	for _, col := range c.UseCols {
		if col == name {
			return true
		}
	}
	for _, idx := range c.UseColIndexes {
		if idx == index {
			return true
		}
	}
	return false
}

// Select returns the selected fields of a record, in their original order.
// headers names the columns for name-based selection and may be nil.
func (c *ColumnSelector) Select(headers, fields []string) []string {
	selected := make([]string, 0, len(fields))
	for i, f := range fields {
		name := ""
		if i < len(headers) {
			name = headers[i]
		}
		if c.ShouldInclude(name, i) {
			selected = append(selected, f)
		}
	}
	return selected
}
