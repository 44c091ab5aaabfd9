//go:build go1.18
// +build go1.18

package tokenizer

import (
	"errors"
	"io"
	"strings"
	"testing"
	"unicode/utf8"
)

// FuzzLineScanner checks that splitting never panics and that no content is lost.
// Run with: go test -fuzz=FuzzLineScanner -fuzztime=30s ./internal/tokenizer
func FuzzLineScanner(f *testing.F) {
	seeds := []string{
		"",
		"a",
		"\n",
		"\r\n",
		"\r",
		"a,b,c\nd,e,f",
		"\"a\nb\"",
		"\n\n\n",
		"x\r\r\ny",
	}
	for _, s := range seeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, input string) {
		if !utf8.ValidString(input) {
			t.Skip()
		}
		s := NewLineScannerFromString(input)
		var content strings.Builder
		for {
			line, err := s.NextLine()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				t.Fatalf("NextLine() error = %v", err)
			}
			if strings.ContainsAny(line, "\r\n") {
				t.Fatalf("line %q contains a terminator", line)
			}
			content.WriteString(line)
		}

		stripped := strings.NewReplacer("\r", "", "\n", "").Replace(input)
		if content.String() != stripped {
			t.Fatalf("content = %q, want %q", content.String(), stripped)
		}
	})
}
