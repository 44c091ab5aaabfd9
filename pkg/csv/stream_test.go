package csv_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shapestone/shape-simplecsv/pkg/csv"
)

// TestScannerRecords tests streaming records one at a time
func TestScannerRecords(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		hasHeaders  bool
		wantHeaders []string
		want        [][]string
	}{
		{
			name:        "simple CSV with headers",
			input:       "name,age\nAlice,30\nBob,25\n",
			hasHeaders:  true,
			wantHeaders: []string{"name", "age"},
			want:        [][]string{{"Alice", "30"}, {"Bob", "25"}},
		},
		{
			name:  "without headers",
			input: "Alice,30\nBob,25\n",
			want:  [][]string{{"Alice", "30"}, {"Bob", "25"}},
		},
		{
			name:  "empty input",
			input: "",
		},
		{
			name:        "header only",
			input:       "name,age\n",
			hasHeaders:  true,
			wantHeaders: []string{"name", "age"},
		},
		{
			name:        "quoted field spans lines",
			input:       "id,comment\n1,\"first\nsecond\"\n2,done",
			hasHeaders:  true,
			wantHeaders: []string{"id", "comment"},
			want:        [][]string{{"1", "first\nsecond"}, {"2", "done"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scanner := csv.NewScanner(strings.NewReader(tt.input)).SetHasHeaders(tt.hasHeaders)

			var got [][]string
			for scanner.Scan() {
				got = append(got, scanner.Record().Fields())
			}
			if err := scanner.Err(); err != nil {
				t.Fatalf("Scanner.Err() = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("records mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantHeaders, scanner.Headers()); diff != "" {
				t.Errorf("Headers() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestScannerGetByName(t *testing.T) {
	scanner := csv.NewScanner(strings.NewReader("First Name,Age\nAlice,30\n")).
		SetHasHeaders(true).
		SetHeaderConverter(csv.SnakeCaseHeader)

	if !scanner.Scan() {
		t.Fatalf("Scan() = false, err = %v", scanner.Err())
	}
	record := scanner.Record()

	if got, ok := record.GetByName("first_name"); !ok || got != "Alice" {
		t.Errorf("GetByName(\"first_name\") = %q, %v, want \"Alice\", true", got, ok)
	}
	if got, ok := record.GetByName("age"); !ok || got != "30" {
		t.Errorf("GetByName(\"age\") = %q, %v, want \"30\", true", got, ok)
	}
	if _, ok := record.GetByName("First Name"); ok {
		t.Error("GetByName() should not match the unconverted header")
	}
}

func TestScannerError(t *testing.T) {
	scanner := csv.NewScanner(strings.NewReader("name,age\nAlice,\"30\nBob,25")).SetHasHeaders(true)

	count := 0
	for scanner.Scan() {
		count++
	}

	if count != 0 {
		t.Errorf("Scanner counted %d records, want 0", count)
	}
	err := scanner.Err()
	if !errors.Is(err, csv.ErrUnterminatedQuote) {
		t.Fatalf("Scanner.Err() = %v, want ErrUnterminatedQuote", err)
	}
	if scanner.Scan() {
		t.Error("Scan() should keep returning false after an error")
	}
}

func TestScannerWithOptions(t *testing.T) {
	cfg, err := csv.NewConfigBuilder().Separator('|').TrimWhitespace(true).Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	opts := csv.DefaultReaderOptions()
	opts.Config = cfg
	opts.SkipLines = 1

	scanner := csv.NewScannerWithOptions(strings.NewReader("exported 2024-01-01\n a | b \n c | d "), opts)
	defer scanner.Close()

	var got [][]string
	for scanner.Scan() {
		got = append(got, scanner.Record().Fields())
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("Scanner.Err() = %v", err)
	}
	want := [][]string{{"a", "b"}, {"c", "d"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestScannerFromReader(t *testing.T) {
	r := csv.NewReader(strings.NewReader("h\n1\n2"))
	scanner := csv.NewScannerFromReader(r).SetHasHeaders(true)

	count := 0
	for scanner.Scan() {
		count++
	}
	if count != 2 {
		t.Errorf("Scanner counted %d records, want 2", count)
	}
	if r.LineNumber() != 3 {
		t.Errorf("LineNumber() = %d, want 3", r.LineNumber())
	}
}

func TestScannerEOF(t *testing.T) {
	scanner := csv.NewScanner(strings.NewReader("name,age\nAlice,30\n")).SetHasHeaders(true)

	if !scanner.Scan() {
		t.Fatal("Scanner.Scan() returned false for first record")
	}
	if scanner.Scan() {
		t.Error("Scanner.Scan() should return false at EOF")
	}
	if scanner.Scan() {
		t.Error("Scanner.Scan() should return false after EOF")
	}
	if err := scanner.Err(); err != nil {
		t.Errorf("Scanner.Err() = %v at EOF, want nil", err)
	}
}

func TestScannerLargeInput(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("id,name,value\n")
	for i := 0; i < 1000; i++ {
		sb.WriteString("1,\"test\",value\n")
	}

	scanner := csv.NewScanner(strings.NewReader(sb.String())).SetHasHeaders(true)
	count := 0
	for scanner.Scan() {
		count++
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("Scanner.Err() = %v", err)
	}
	if count != 1000 {
		t.Errorf("Scanner counted %d records, want 1000", count)
	}
}

func TestScannerSetReuseRecord(t *testing.T) {
	scanner := csv.NewScanner(strings.NewReader("name,age\nAlice,30\nBob,25\nCarol,35\n")).
		SetHasHeaders(true).
		SetReuseRecord(true)

	var names []string
	for scanner.Scan() {
		name, _ := scanner.Record().GetByName("name")
		names = append(names, name)
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("Scanner.Err() = %v", err)
	}
	if diff := cmp.Diff([]string{"Alice", "Bob", "Carol"}, names); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestScannerRecordBeforeScan(t *testing.T) {
	scanner := csv.NewScanner(strings.NewReader("name,age\nAlice,30\n")).SetHasHeaders(true)

	if record := scanner.Record(); record.Len() != 0 {
		t.Errorf("Record() before Scan() should return empty record, got len=%d", record.Len())
	}
}
