package csv_test

import (
	"errors"
	"testing"

	"github.com/shapestone/shape-simplecsv/pkg/csv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := csv.DefaultConfig()
	assert.Equal(t, ',', cfg.Separator())
	assert.Equal(t, '"', cfg.QuoteChar())
	assert.Equal(t, '\\', cfg.EscapeChar())
	assert.False(t, cfg.StrictQuotes())
	assert.False(t, cfg.TrimWhitespace())
	assert.False(t, cfg.AllowUnbalancedQuotes())
	assert.False(t, cfg.RetainOuterQuotes())
	assert.True(t, cfg.RetainEscapeChars())
	assert.False(t, cfg.AlwaysQuoteOutput())

	built, err := csv.NewConfigBuilder().Build()
	require.NoError(t, err)
	assert.Equal(t, cfg, built)
}

func TestConfigBuilder_Build(t *testing.T) {
	cfg, err := csv.NewConfigBuilder().
		Separator(';').
		QuoteChar('\'').
		EscapeChar('^').
		StrictQuotes(true).
		TrimWhitespace(true).
		AllowUnbalancedQuotes(true).
		RetainOuterQuotes(true).
		RetainEscapeChars(false).
		AlwaysQuoteOutput(true).
		Build()
	require.NoError(t, err)

	assert.Equal(t, ';', cfg.Separator())
	assert.Equal(t, '\'', cfg.QuoteChar())
	assert.Equal(t, '^', cfg.EscapeChar())
	assert.True(t, cfg.StrictQuotes())
	assert.True(t, cfg.TrimWhitespace())
	assert.True(t, cfg.AllowUnbalancedQuotes())
	assert.True(t, cfg.RetainOuterQuotes())
	assert.False(t, cfg.RetainEscapeChars())
	assert.True(t, cfg.AlwaysQuoteOutput())
}

func TestConfigBuilder_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		builder *csv.ConfigBuilder
		field   string
	}{
		{"null separator", csv.NewConfigBuilder().Separator(csv.NullCharacter), "Separator"},
		{"newline separator", csv.NewConfigBuilder().Separator('\n'), "Separator"},
		{"carriage return separator", csv.NewConfigBuilder().Separator('\r'), "Separator"},
		{"quote equals escape", csv.NewConfigBuilder().QuoteChar('"').EscapeChar('"'), "EscapeChar"},
		{"separator equals escape", csv.NewConfigBuilder().EscapeChar(','), "EscapeChar"},
		{"separator equals quote", csv.NewConfigBuilder().QuoteChar(','), "QuoteChar"},
		{"always quote without quote", csv.NewConfigBuilder().QuoteChar(csv.NullCharacter).AlwaysQuoteOutput(true), "AlwaysQuoteOutput"},
		{"replacement character quote", csv.NewConfigBuilder().QuoteChar('\uFFFD'), "QuoteChar"},
		{"surrogate escape", csv.NewConfigBuilder().EscapeChar(0xD800), "EscapeChar"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := tt.builder.Build()
			require.Error(t, err)
			assert.Nil(t, cfg)

			var cerr *csv.ConfigError
			require.True(t, errors.As(err, &cerr))
			assert.Equal(t, tt.field, cerr.Field)
			assert.ErrorIs(t, err, csv.ErrInvalidConfig)
		})
	}
}

func TestConfigBuilder_NullCharacters(t *testing.T) {
	tests := []struct {
		name    string
		builder *csv.ConfigBuilder
	}{
		{"no quote", csv.NewConfigBuilder().QuoteChar(csv.NullCharacter)},
		{"no escape", csv.NewConfigBuilder().EscapeChar(csv.NullCharacter)},
		{"neither", csv.NewConfigBuilder().QuoteChar(csv.NullCharacter).EscapeChar(csv.NullCharacter)},
		{"tab separator", csv.NewConfigBuilder().Separator('\t')},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.builder.Build()
			assert.NoError(t, err)
		})
	}
}

func TestConfig_Builder(t *testing.T) {
	base, err := csv.NewConfigBuilder().Separator('|').Build()
	require.NoError(t, err)

	derived, err := base.Builder().TrimWhitespace(true).Build()
	require.NoError(t, err)

	assert.Equal(t, '|', derived.Separator())
	assert.True(t, derived.TrimWhitespace())
	assert.False(t, base.TrimWhitespace(), "deriving must not change the original")
}

func TestConfigError_Error(t *testing.T) {
	err := &csv.ConfigError{Field: "Separator", Message: "must not be the null character"}
	assert.Equal(t, "csv: invalid Separator: must not be the null character", err.Error())
}
