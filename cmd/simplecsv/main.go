// Command simplecsv tokenizes delimited text from a file or stdin and prints
// the records as a table, JSON, YAML or one quoted record per line.
package main

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/jessevdk/go-flags"
	"github.com/samber/lo"

	"github.com/shapestone/shape-simplecsv/pkg/csv"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// sniffSampleSize bounds the input inspected by --sniff.
const sniffSampleSize = 64 * 1024

type options struct {
	Separator      string   `long:"separator" short:"s" default:"," description:"Field separator character. \\t is accepted for tab."`
	Quote          string   `long:"quote" short:"q" default:"\"" description:"Quote character. An empty value disables quoting."`
	Escape         string   `long:"escape" short:"e" default:"\\" description:"Escape character. An empty value disables escaping."`
	StrictQuotes   bool     `long:"strict-quotes" description:"Keep only characters inside quotes."`
	Trim           bool     `long:"trim" short:"t" description:"Trim whitespace around fields."`
	Unbalanced     bool     `long:"allow-unbalanced-quotes" description:"Close an open quote at end of line instead of reading the next line."`
	RetainOuter    bool     `long:"retain-outer-quotes" description:"Keep the outer quotes of quoted fields."`
	DecodeEscapes  bool     `long:"decode-escapes" description:"Drop escape characters and decode \\n, \\r and \\t."`
	AlwaysQuote    bool     `long:"always-quote" description:"Wrap every non-empty field in the quote character."`
	Sniff          bool     `long:"sniff" description:"Detect separator, quote character and header row from the input. Explicit flags win."`
	Header         bool     `long:"header" short:"H" description:"Treat the first record as column names."`
	Columns        []string `long:"column" short:"c" description:"Print only this column, by header name or 1-based number. Repeatable."`
	SkipLines      int      `long:"skip-lines" description:"Discard this many physical lines before the first record."`
	MaxRecordLines int      `long:"max-record-lines" description:"Fail records spanning more physical lines than this. 0 means no limit."`
	OnBadLine      string   `long:"on-bad-line" default:"error" description:"What to do with records that fail to tokenize." choice:"error" choice:"warn" choice:"skip"`
	Format         string   `long:"format" short:"f" default:"table" description:"Output format." choice:"table" choice:"json" choice:"yaml" choice:"lines"`
	Verbose        bool     `long:"verbose" short:"v" description:"Log debug output to stderr."`
	Args           struct {
		File string `positional-arg-name:"FILE" description:"Input file. Reads stdin when omitted or -."`
	} `positional-args:"yes"`
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var opts options
	parser := flags.NewParser(&opts, flags.HelpFlag|flags.PassDoubleDash)
	parser.Name = "simplecsv"
	parser.Usage = "[OPTIONS] [FILE]"

	if _, err := parser.ParseArgs(args); flags.WroteHelp(err) {
		fmt.Fprintln(stdout, err)
		return exitOK
	} else if err != nil {
		printError(stderr, err)
		return exitUsage
	}

	logger := newLogger(stderr, opts.Verbose)

	fromStdin := opts.Args.File == "" || opts.Args.File == "-"
	// The Reader closes inputs that are io.Closers; stdin stays open.
	var in io.Reader = struct{ io.Reader }{stdin}

	var sniffed *csv.Sniffer
	if opts.Sniff {
		var sample string
		if fromStdin {
			br := bufio.NewReaderSize(in, sniffSampleSize)
			sample = sniffSample(br)
			in = br
		} else {
			var err error
			if sample, err = fileSample(opts.Args.File); err != nil {
				printError(stderr, err)
				return exitError
			}
		}
		sniffed = csv.NewSniffer(sample)
		logger.Debug("sniffed dialect",
			"separator", string(sniffed.DetectDelimiter()),
			"quote", string(sniffed.DetectQuoteChar()),
			"header", sniffed.HasHeader())
	}

	cfg, err := opts.config(parser, sniffed)
	if err != nil {
		printError(stderr, err)
		return exitUsage
	}
	logger.Debug("tokenizer config", "config", cfg)

	mode, err := csv.ParseBadLineMode(opts.OnBadLine)
	if err != nil {
		printError(stderr, err)
		return exitUsage
	}

	ropts := csv.ReaderOptions{
		Config:         cfg,
		SkipLines:      opts.SkipLines,
		MaxRecordLines: opts.MaxRecordLines,
		OnBadLine:      mode,
		Logger:         logger,
	}
	var r *csv.Reader
	if fromStdin {
		r = csv.NewReaderWithOptions(in, ropts)
	} else if r, err = csv.OpenFile(opts.Args.File, ropts); err != nil {
		printError(stderr, err)
		return exitError
	}
	defer r.Close()

	records, err := r.ReadAll()
	if err != nil {
		printError(stderr, err)
		return exitError
	}
	logger.Debug("read records", "count", len(records), "lines", r.LineNumber())

	var headers []string
	if opts.Header || (sniffed != nil && sniffed.HasHeader()) {
		if len(records) > 0 {
			headers, records = records[0], records[1:]
		}
	}

	if len(opts.Columns) > 0 {
		sel := columnSelector(opts.Columns)
		names := headers
		records = lo.Map(records, func(rec []string, _ int) []string {
			return sel.Select(names, rec)
		})
		if headers != nil {
			headers = sel.Select(names, headers)
		}
	}

	if err := writeRecords(stdout, opts.Format, headers, records); err != nil {
		printError(stderr, err)
		return exitError
	}
	return exitOK
}

// config maps the flags onto a ConfigBuilder. Sniffed values fill in the
// separator and quote character when those flags were not given.
func (o *options) config(parser *flags.Parser, sniffed *csv.Sniffer) (*csv.Config, error) {
	sep, err := flagChar("separator", o.Separator)
	if err != nil {
		return nil, err
	}
	quote, err := flagChar("quote", o.Quote)
	if err != nil {
		return nil, err
	}
	escape, err := flagChar("escape", o.Escape)
	if err != nil {
		return nil, err
	}

	if sniffed != nil {
		if !parser.FindOptionByLongName("separator").IsSet() {
			sep = sniffed.DetectDelimiter()
		}
		if !parser.FindOptionByLongName("quote").IsSet() {
			quote = sniffed.DetectQuoteChar()
		}
	}

	return csv.NewConfigBuilder().
		Separator(sep).
		QuoteChar(quote).
		EscapeChar(escape).
		StrictQuotes(o.StrictQuotes).
		TrimWhitespace(o.Trim).
		AllowUnbalancedQuotes(o.Unbalanced).
		RetainOuterQuotes(o.RetainOuter).
		RetainEscapeChars(!o.DecodeEscapes).
		AlwaysQuoteOutput(o.AlwaysQuote).
		Build()
}

// flagChar converts a single-character flag value. An empty value is the
// null character.
func flagChar(name, value string) (rune, error) {
	switch value {
	case "":
		return csv.NullCharacter, nil
	case `\t`:
		return '\t', nil
	}
	if utf8.RuneCountInString(value) != 1 {
		return 0, fmt.Errorf("--%s must be a single character, got %q", name, value)
	}
	r, _ := utf8.DecodeRuneInString(value)
	return r, nil
}

// columnSelector treats positive integers as 1-based column numbers and
// everything else as header names.
func columnSelector(columns []string) *csv.ColumnSelector {
	return &csv.ColumnSelector{
		UseColIndexes: lo.FilterMap(columns, func(c string, _ int) (int, bool) {
			n, err := strconv.Atoi(c)
			return n - 1, err == nil && n > 0
		}),
		UseCols: lo.Filter(columns, func(c string, _ int) bool {
			n, err := strconv.Atoi(c)
			return err != nil || n <= 0
		}),
	}
}

// sniffSample returns the buffered head of the input, cut at the last
// complete line when the buffer is full.
func sniffSample(br *bufio.Reader) string {
	sample, _ := br.Peek(sniffSampleSize)
	if len(sample) == sniffSampleSize {
		if i := bytes.LastIndexByte(sample, '\n'); i >= 0 {
			sample = sample[:i]
		}
	}
	return string(sample)
}

// fileSample reads the head of a file for sniffing.
func fileSample(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return sniffSample(bufio.NewReaderSize(f, sniffSampleSize)), nil
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: lo.Ternary(verbose, slog.LevelDebug, slog.LevelInfo),
	}))
}

func printError(w io.Writer, err error) {
	color.New(color.FgRed, color.Bold).Fprint(w, "simplecsv: ")
	fmt.Fprintln(w, err)
}
