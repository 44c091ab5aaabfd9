// Package csv provides configurable options for CSV parsing.
package csv

import (
	"errors"
	"log/slog"
	"unicode/utf8"

	"github.com/shapestone/shape-simplecsv/internal/parser"
)

// NullCharacter disables quote or escape handling when passed to
// ConfigBuilder.QuoteChar or ConfigBuilder.EscapeChar.
const NullCharacter = parser.NullCharacter

// Default dialect characters.
const (
	DefaultSeparator  = parser.DefaultSeparator
	DefaultQuoteChar  = parser.DefaultQuoteChar
	DefaultEscapeChar = parser.DefaultEscapeChar
)

// ErrInvalidConfig is matched by every *ConfigError.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is a validated, immutable tokenizer configuration.
// A *Config is safe to share between goroutines and readers.
//
// Only Build and DefaultConfig produce a usable Config. Parsers and readers
// given a zero Config, which Build can never return, use DefaultConfig.
type Config struct {
	opts parser.Options
}

// orDefault returns cfg, or DefaultConfig when cfg is nil or zero.
func orDefault(cfg *Config) *Config {
	if cfg == nil || cfg.opts.Separator == NullCharacter {
		return DefaultConfig()
	}
	return cfg
}

// DefaultConfig returns the default dialect: ',' separator, '"' quote,
// '\\' escape, escape characters retained and every other flag off.
func DefaultConfig() *Config {
	return &Config{opts: parser.DefaultOptions()}
}

// Separator returns the field separator.
func (c *Config) Separator() rune { return c.opts.Separator }

// QuoteChar returns the quote character, or NullCharacter when quoting is disabled.
func (c *Config) QuoteChar() rune { return c.opts.QuoteChar }

// EscapeChar returns the escape character, or NullCharacter when escaping is disabled.
func (c *Config) EscapeChar() rune { return c.opts.EscapeChar }

// StrictQuotes reports whether only characters inside quotes are kept.
func (c *Config) StrictQuotes() bool { return c.opts.StrictQuotes }

// TrimWhitespace reports whether fields are trimmed.
func (c *Config) TrimWhitespace() bool { return c.opts.TrimWhitespace }

// AllowUnbalancedQuotes reports whether an open quote closes at end of line.
func (c *Config) AllowUnbalancedQuotes() bool { return c.opts.AllowUnbalancedQuotes }

// RetainOuterQuotes reports whether quoted fields keep their outer quotes.
func (c *Config) RetainOuterQuotes() bool { return c.opts.RetainOuterQuotes }

// RetainEscapeChars reports whether escape characters are kept in output.
func (c *Config) RetainEscapeChars() bool { return c.opts.RetainEscapeChars }

// AlwaysQuoteOutput reports whether every non-empty field is quoted on output.
func (c *Config) AlwaysQuoteOutput() bool { return c.opts.AlwaysQuoteOutput }

// Builder returns a ConfigBuilder preloaded with c's settings.
func (c *Config) Builder() *ConfigBuilder {
	return &ConfigBuilder{opts: c.opts}
}

// LogValue implements slog.LogValuer.
func (c *Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("separator", string(c.opts.Separator)),
		slog.String("quote", printableChar(c.opts.QuoteChar)),
		slog.String("escape", printableChar(c.opts.EscapeChar)),
		slog.Bool("strict_quotes", c.opts.StrictQuotes),
		slog.Bool("trim_whitespace", c.opts.TrimWhitespace),
		slog.Bool("allow_unbalanced_quotes", c.opts.AllowUnbalancedQuotes),
		slog.Bool("retain_outer_quotes", c.opts.RetainOuterQuotes),
		slog.Bool("retain_escape_chars", c.opts.RetainEscapeChars),
		slog.Bool("always_quote_output", c.opts.AlwaysQuoteOutput),
	)
}

func printableChar(r rune) string {
	if r == NullCharacter {
		return "none"
	}
	return string(r)
}

// ConfigBuilder assembles a Config. Setters return the builder for chaining;
// nothing is checked until Build.
//
// Example:
//
//	cfg, err := csv.NewConfigBuilder().
//		Separator(';').
//		QuoteChar('\'').
//		TrimWhitespace(true).
//		Build()
type ConfigBuilder struct {
	opts parser.Options
}

// NewConfigBuilder returns a builder starting from the default dialect.
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{opts: parser.DefaultOptions()}
}

// Separator sets the field separator.
func (b *ConfigBuilder) Separator(r rune) *ConfigBuilder {
	b.opts.Separator = r
	return b
}

// QuoteChar sets the quote character. NullCharacter disables quoting.
func (b *ConfigBuilder) QuoteChar(r rune) *ConfigBuilder {
	b.opts.QuoteChar = r
	return b
}

// EscapeChar sets the escape character. NullCharacter disables escaping.
func (b *ConfigBuilder) EscapeChar(r rune) *ConfigBuilder {
	b.opts.EscapeChar = r
	return b
}

// StrictQuotes keeps only characters inside quoted regions.
func (b *ConfigBuilder) StrictQuotes(v bool) *ConfigBuilder {
	b.opts.StrictQuotes = v
	return b
}

// TrimWhitespace trims leading and trailing whitespace from fields.
func (b *ConfigBuilder) TrimWhitespace(v bool) *ConfigBuilder {
	b.opts.TrimWhitespace = v
	return b
}

// AllowUnbalancedQuotes closes an open quoted region at end of line
// instead of continuing the record on the next line.
func (b *ConfigBuilder) AllowUnbalancedQuotes(v bool) *ConfigBuilder {
	b.opts.AllowUnbalancedQuotes = v
	return b
}

// RetainOuterQuotes keeps the outer quotes of quoted fields.
func (b *ConfigBuilder) RetainOuterQuotes(v bool) *ConfigBuilder {
	b.opts.RetainOuterQuotes = v
	return b
}

// RetainEscapeChars keeps escape characters in output. When false the escape
// is dropped and \n, \r and \t decode to newline, carriage return and tab.
func (b *ConfigBuilder) RetainEscapeChars(v bool) *ConfigBuilder {
	b.opts.RetainEscapeChars = v
	return b
}

// AlwaysQuoteOutput wraps every non-empty field in the quote character.
func (b *ConfigBuilder) AlwaysQuoteOutput(v bool) *ConfigBuilder {
	b.opts.AlwaysQuoteOutput = v
	return b
}

// Build validates the settings and returns an immutable Config.
// It returns a *ConfigError describing the first violated rule.
func (b *ConfigBuilder) Build() (*Config, error) {
	o := b.opts
	switch {
	case o.Separator == NullCharacter:
		return nil, &ConfigError{Field: "Separator", Message: "must not be the null character"}
	case !validDelim(o.Separator):
		return nil, &ConfigError{Field: "Separator", Message: "invalid delimiter"}
	case o.QuoteChar != NullCharacter && !validChar(o.QuoteChar):
		return nil, &ConfigError{Field: "QuoteChar", Message: "invalid character"}
	case o.EscapeChar != NullCharacter && !validChar(o.EscapeChar):
		return nil, &ConfigError{Field: "EscapeChar", Message: "invalid character"}
	case o.QuoteChar != NullCharacter && o.QuoteChar == o.EscapeChar:
		return nil, &ConfigError{Field: "EscapeChar", Message: "same as quote character"}
	case o.Separator == o.EscapeChar:
		return nil, &ConfigError{Field: "EscapeChar", Message: "same as separator"}
	case o.Separator == o.QuoteChar:
		return nil, &ConfigError{Field: "QuoteChar", Message: "same as separator"}
	case o.QuoteChar == NullCharacter && o.AlwaysQuoteOutput:
		return nil, &ConfigError{Field: "AlwaysQuoteOutput", Message: "requires a quote character"}
	}
	return &Config{opts: o}, nil
}

// validDelim reports whether r can separate fields on a physical line.
func validDelim(r rune) bool {
	return r != '\r' && r != '\n' && validChar(r)
}

// validChar reports whether r is a Unicode character other than the
// replacement character, which also stands for undecodable bytes.
func validChar(r rune) bool {
	return utf8.ValidRune(r) && r != utf8.RuneError
}

// ConfigError represents an invalid configuration.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "csv: invalid " + e.Field + ": " + e.Message
}

// Unwrap makes errors.Is(err, ErrInvalidConfig) hold for every ConfigError.
func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}

// ReaderOptions configures a Reader.
type ReaderOptions struct {
	// Config is the tokenizer configuration. Default: DefaultConfig()
	Config *Config

	// SkipLines is the number of physical lines to discard before the first record.
	// Default: 0
	SkipLines int

	// MaxRecordLines caps the physical lines one record may span.
	// 0 means no limit. Default: 0
	MaxRecordLines int

	// OnBadLine specifies how records that fail to tokenize are handled.
	// Default: BadLineModeError
	OnBadLine BadLineMode

	// WarningCallback is invoked for skipped records when OnBadLine is BadLineModeWarn.
	WarningCallback WarningHandler

	// Logger receives debug and warning records. Default: discard
	Logger *slog.Logger
}

// DefaultReaderOptions returns the default reader configuration.
func DefaultReaderOptions() ReaderOptions {
	return ReaderOptions{
		Config:    DefaultConfig(),
		OnBadLine: BadLineModeError,
	}
}
