package parser

// NullCharacter disables quote or escape handling when used as QuoteChar or EscapeChar.
const NullCharacter rune = 0

// Default dialect characters.
const (
	DefaultSeparator  = ','
	DefaultQuoteChar  = '"'
	DefaultEscapeChar = '\\'
)

// Options configures field tokenizing. Validation is the caller's job;
// the parser assumes the characters are pairwise distinct where it matters.
type Options struct {
	// Separator ends a field when it appears outside a quoted region.
	Separator rune
	// QuoteChar opens and closes quoted regions. NullCharacter disables quoting.
	QuoteChar rune
	// EscapeChar makes the next character literal. NullCharacter disables escaping.
	EscapeChar rune
	// StrictQuotes keeps only characters inside quoted regions.
	StrictQuotes bool
	// TrimWhitespace trims leading and trailing whitespace from every field.
	TrimWhitespace bool
	// AllowUnbalancedQuotes closes an open quoted region at end of line
	// instead of continuing the field on the next line.
	AllowUnbalancedQuotes bool
	// RetainOuterQuotes keeps a quoted field's outer quotes.
	RetainOuterQuotes bool
	// RetainEscapeChars keeps escape characters in the output.
	RetainEscapeChars bool
	// AlwaysQuoteOutput wraps every non-empty field in the quote character.
	AlwaysQuoteOutput bool
}

// DefaultOptions returns the default dialect: comma separated, double quoted,
// backslash escaped, escape characters retained.
func DefaultOptions() Options {
	return Options{
		Separator:         DefaultSeparator,
		QuoteChar:         DefaultQuoteChar,
		EscapeChar:        DefaultEscapeChar,
		RetainEscapeChars: true,
	}
}

// policy is the flag combination reduced to the decisions the scanner makes
// per character and per field.
type policy struct {
	quoting  bool // quote character recognized
	escaping bool // escape character recognized
	strict   bool // only quoted content is data

	// keepOuter keeps a quoted field's outer quotes; in strict mode it
	// wraps fields that opened a quoted region.
	keepOuter bool
	// wrapUnquoted wraps non-empty unquoted fields in the quote character.
	wrapUnquoted bool
	// flushLeading re-attaches buffered leading whitespace when a field starts.
	flushLeading bool

	trim          bool
	decodeEscapes bool // drop the escape and decode \n \r \t
	closeAtEOL    bool // an open quoted region ends with the line
}

func newPolicy(o Options) policy {
	return policy{
		quoting:       o.QuoteChar != NullCharacter,
		escaping:      o.EscapeChar != NullCharacter,
		strict:        o.StrictQuotes,
		keepOuter:     o.RetainOuterQuotes || o.AlwaysQuoteOutput,
		wrapUnquoted:  o.AlwaysQuoteOutput,
		flushLeading:  !o.StrictQuotes && !o.TrimWhitespace,
		trim:          o.TrimWhitespace,
		decodeEscapes: !o.RetainEscapeChars,
		closeAtEOL:    o.AllowUnbalancedQuotes,
	}
}
