package parser

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sliceSource serves lines from memory.
type sliceSource struct {
	lines []string
	err   error // returned instead of io.EOF when set
}

func (s *sliceSource) NextLine() (string, error) {
	if len(s.lines) == 0 {
		if s.err != nil {
			return "", s.err
		}
		return "", io.EOF
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	return line, nil
}

func readAll(t *testing.T, r *SpanningReader) [][]string {
	t.Helper()
	var records [][]string
	for {
		rec, err := r.Next()
		if errors.Is(err, io.EOF) {
			return records
		}
		require.NoError(t, err)
		records = append(records, rec)
	}
}

func TestSpanningReader_JoinsLines(t *testing.T) {
	src := &sliceSource{lines: []string{"a,b", `c,"d`, "e", `f",g`, "h"}}
	r := NewSpanningReader(NewParser(DefaultOptions()), src, ReaderOptions{})

	rec, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, rec)
	assert.Equal(t, 1, r.Line())

	rec, err = r.Next()
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "d\ne\nf", "g"}, rec)
	assert.Equal(t, 4, r.Line())

	rec, err = r.Next()
	require.NoError(t, err)
	assert.Equal(t, []string{"h"}, rec)

	for i := 0; i < 2; i++ {
		_, err = r.Next()
		require.ErrorIs(t, err, io.EOF)
	}
}

func TestSpanningReader_BlankLines(t *testing.T) {
	src := &sliceSource{lines: []string{"", `"x`, "", `y"`, ""}}
	r := NewSpanningReader(NewParser(DefaultOptions()), src, ReaderOptions{})
	assert.Equal(t, [][]string{{""}, {"x\n\ny"}, {""}}, readAll(t, r))
}

func TestSpanningReader_Unterminated(t *testing.T) {
	src := &sliceSource{lines: []string{"x", `y,"z`, "w"}}
	r := NewSpanningReader(NewParser(DefaultOptions()), src, ReaderOptions{})

	rec, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, rec)

	_, err = r.Next()
	require.ErrorIs(t, err, ErrUnterminatedQuote)
	var lerr *LineError
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, 2, lerr.StartLine)
	assert.Equal(t, 3, lerr.Line)
	assert.Equal(t, 3, lerr.Column)

	_, err = r.Next()
	require.ErrorIs(t, err, io.EOF)
}

func TestSpanningReader_UnbalancedNeverSpans(t *testing.T) {
	opts := DefaultOptions()
	opts.AllowUnbalancedQuotes = true
	src := &sliceSource{lines: []string{`a,"b`, `c"`}}
	r := NewSpanningReader(NewParser(opts), src, ReaderOptions{})
	assert.Equal(t, [][]string{{"a", "b"}, {`c"`}}, readAll(t, r))
}

func TestSpanningReader_MaxRecordLines(t *testing.T) {
	src := &sliceSource{lines: []string{`"a`, "b", "c", "d,e"}}
	r := NewSpanningReader(NewParser(DefaultOptions()), src, ReaderOptions{MaxRecordLines: 2})

	_, err := r.Next()
	require.ErrorIs(t, err, ErrRecordTooLong)
	var lerr *LineError
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, 1, lerr.StartLine)
	assert.Equal(t, 2, lerr.Line)
	assert.Equal(t, 1, lerr.Column)

	assert.Equal(t, [][]string{{"c"}, {"d", "e"}}, readAll(t, r))
}

func TestSpanningReader_MaxRecordLinesAllowsExactFit(t *testing.T) {
	src := &sliceSource{lines: []string{`"a`, `b"`}}
	r := NewSpanningReader(NewParser(DefaultOptions()), src, ReaderOptions{MaxRecordLines: 2})
	assert.Equal(t, [][]string{{"a\nb"}}, readAll(t, r))
}

func TestSpanningReader_Skip(t *testing.T) {
	src := &sliceSource{lines: []string{"# header", "# more", "a,b"}}
	r := NewSpanningReader(NewParser(DefaultOptions()), src, ReaderOptions{})
	require.NoError(t, r.Skip(2))
	assert.Equal(t, 2, r.Line())
	assert.Equal(t, [][]string{{"a", "b"}}, readAll(t, r))

	require.NoError(t, r.Skip(5))
}

func TestSpanningReader_SourceError(t *testing.T) {
	boom := errors.New("boom")
	src := &sliceSource{lines: []string{`"open`}, err: boom}
	r := NewSpanningReader(NewParser(DefaultOptions()), src, ReaderOptions{})
	_, err := r.Next()
	require.ErrorIs(t, err, boom)
}

func TestLineError_Error(t *testing.T) {
	err := &LineError{StartLine: 2, Line: 5, Column: 7, Err: ErrUnterminatedQuote}
	assert.Equal(t, "line 5 (started line 2), column 7: unterminated quoted field", err.Error())
	assert.True(t, errors.Is(err, ErrUnterminatedQuote))
}

// TestSpanningReader_Fixture reads a seven-record fixture covering
// quoted separators, empty fields, escaped newlines and quote runs, in
// default and strict mode.
func TestSpanningReader_Fixture(t *testing.T) {
	fixture := func(glen string) []string {
		return []string{
			`a,b,c`,
			`a,"b,b,b",c`,
			`,,`,
			`a,"PO Box 123,\nKippax,ACT. 2615.\nAustralia",d.`,
			glen + `,Athlete,Developer`,
			`"""""","test"`,
			`"a\nb",b,"\nd",e`,
		}
	}

	tests := []struct {
		name  string
		opts  Options
		lines []string
		want  [][]string
	}{
		{
			name:  "default",
			opts:  withOptions(),
			lines: fixture(`"Glen ""The Man"" Smith"`),
			want: [][]string{
				{"a", "b", "c"},
				{"a", "b,b,b", "c"},
				{"", "", ""},
				{"a", `PO Box 123,\nKippax,ACT. 2615.\nAustralia`, "d."},
				{`Glen ""The Man"" Smith`, "Athlete", "Developer"},
				{`""""`, "test"},
				{`a\nb`, "b", `\nd`, "e"},
			},
		},
		{
			// Escapes inside quotes are retained in strict mode, so the
			// escaped quotes of record 5 stay as \".
			name:  "strict",
			opts:  withOptions(strict),
			lines: fixture(`"Glen \"The Man\" Smith"`),
			want: [][]string{
				{"", "", ""},
				{"", "b,b,b", ""},
				{"", "", ""},
				{"", `PO Box 123,\nKippax,ACT. 2615.\nAustralia`, ""},
				{`Glen \"The Man\" Smith`, "", ""},
				{"", "test"},
				{`a\nb`, "", `\nd`, ""},
			},
		},
		{
			name:  "strict with escapes consumed",
			opts:  withOptions(strict, dropEscapes),
			lines: fixture(`"Glen \"The Man\" Smith"`),
			want: [][]string{
				{"", "", ""},
				{"", "b,b,b", ""},
				{"", "", ""},
				{"", "PO Box 123,\nKippax,ACT. 2615.\nAustralia", ""},
				{`Glen "The Man" Smith`, "", ""},
				{"", "test"},
				{"a\nb", "", "\nd", ""},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &sliceSource{lines: tt.lines}
			r := NewSpanningReader(NewParser(tt.opts), src, ReaderOptions{})
			assert.Equal(t, tt.want, readAll(t, r))
			assert.Equal(t, 7, r.Line())
		})
	}
}
