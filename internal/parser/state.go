package parser

// field is the scan state of the field being read.
type field struct {
	buf     []byte
	leading []byte // whitespace seen before the field started

	started  bool
	quoted   bool // first non-whitespace character was the quote character
	inQuotes bool
	inEscape bool
	region   bool // at least one quoted region was opened

	openAt     int // offset in buf of the opening quote, -1 if none
	lastToggle int // offset in buf of the latest toggling quote, -1 if none

	line   int // 0-based physical line within the record where the field began
	column int // 1-based column where the field began, 0 before its first character
}

func (f *field) reset() {
	f.buf = f.buf[:0]
	f.leading = f.leading[:0]
	f.started = false
	f.quoted = false
	f.inQuotes = false
	f.inEscape = false
	f.region = false
	f.openAt = -1
	f.lastToggle = -1
	f.line = 0
	f.column = 0
}

// Pending is a record whose last field is still inside a quoted region at
// the end of a physical line.
type Pending struct {
	fields []string
	field  field
	lines  int
}

func newPending() *Pending {
	st := &Pending{fields: make([]string, 0, 8), lines: 1}
	st.field.buf = getBytes()
	st.field.leading = getBytes()
	st.field.reset()
	return st
}

// Fields returns a copy of the fields completed so far.
func (p *Pending) Fields() []string {
	return append([]string(nil), p.fields...)
}

// Lines returns the number of physical lines consumed by the record so far.
func (p *Pending) Lines() int {
	return p.lines
}

// FieldLine returns the 0-based line, relative to the record's first line,
// where the open field began.
func (p *Pending) FieldLine() int {
	return p.field.line
}

// Column returns the 1-based column where the open field began.
func (p *Pending) Column() int {
	return p.field.column
}

// release returns the buffers to the pool. The Pending must not be used afterwards.
func (p *Pending) release() {
	putBytes(p.field.buf)
	putBytes(p.field.leading)
	p.field.buf = nil
	p.field.leading = nil
}
