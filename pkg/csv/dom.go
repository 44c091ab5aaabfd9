// Package csv provides a user-friendly DOM API over tokenized records.
//
// # Document Type
//
// Document holds optional headers and data records:
//
//	doc := csv.NewDocument().
//		SetHeaders([]string{"name", "age"}).
//		AddRecord([]string{"Alice", "30"}).
//		AddRecord([]string{"Bob", "25"})
//
// # Record Type
//
// Record provides access to one row:
//
//	record, _ := doc.GetRecord(0)
//	name, _ := record.Get(0)           // Get by index
//	age, _ := record.GetByName("age")  // Get by header name
package csv

import (
	"fmt"
	"strings"

	"github.com/shapestone/shape-core/pkg/ast"
)

// Document represents tokenized records with a fluent API.
// All setter methods return *Document to enable method chaining.
type Document struct {
	headers []string
	records [][]string
}

// Record represents a single row.
// It provides access to field values by index or by header name.
type Record struct {
	fields  []string
	headers []string // Reference to document headers for name-based access
}

// NewDocument creates a new empty Document.
func NewDocument() *Document {
	return &Document{
		headers: []string{},
		records: make([][]string, 0),
	}
}

// ParseDocument tokenizes input with the default configuration.
// All rows are data records; use SetHeaders to name the columns.
//
// Example:
//
//	doc, err := csv.ParseDocument("name,age\nAlice,30\nBob,25")
//	if err != nil {
//	    // handle error
//	}
func ParseDocument(input string) (*Document, error) {
	return ParseDocumentWithConfig(input, DefaultConfig())
}

// ParseDocumentWithConfig tokenizes input with cfg.
func ParseDocumentWithConfig(input string, cfg *Config) (*Document, error) {
	return ReadDocument(NewReaderWithOptions(strings.NewReader(input), ReaderOptions{Config: cfg}), false)
}

// ReadDocument drains r into a Document. When hasHeaders is true the first
// record becomes the headers.
func ReadDocument(r *Reader, hasHeaders bool) (*Document, error) {
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	doc := NewDocument()
	if hasHeaders && len(records) > 0 {
		doc.SetHeaders(records[0])
		records = records[1:]
	}
	for _, record := range records {
		doc.AddRecord(record)
	}
	return doc, nil
}

// SetHeaders sets the column headers used by Record.GetByName().
// Returns the Document for method chaining.
func (d *Document) SetHeaders(headers []string) *Document {
	d.headers = headers
	return d
}

// AddRecord adds a data record (row) to the document.
// Returns the Document for method chaining.
func (d *Document) AddRecord(fields []string) *Document {
	d.records = append(d.records, fields)
	return d
}

// Headers returns the column headers.
// Returns an empty slice if no headers have been set.
func (d *Document) Headers() []string {
	return d.headers
}

// Records returns all data records.
func (d *Document) Records() []Record {
	records := make([]Record, len(d.records))
	for i, fields := range d.records {
		records[i] = Record{
			fields:  fields,
			headers: d.headers,
		}
	}
	return records
}

// RecordCount returns the number of data records, not counting headers.
func (d *Document) RecordCount() int {
	return len(d.records)
}

// GetRecord returns the record at the specified index.
// Returns (Record, false) if the index is out of bounds.
func (d *Document) GetRecord(index int) (Record, bool) {
	if index < 0 || index >= len(d.records) {
		return Record{}, false
	}

	return Record{
		fields:  d.records[index],
		headers: d.headers,
	}, true
}

// Get gets the field value at the specified index.
// Returns (value, false) if the index is out of bounds.
func (r Record) Get(index int) (string, bool) {
	if index < 0 || index >= len(r.fields) {
		return "", false
	}
	return r.fields[index], true
}

// GetByName gets the field value by header name.
// Returns (value, false) if the header name is not found or if no headers are set.
func (r Record) GetByName(name string) (string, bool) {
	for i, header := range r.headers {
		if header == name {
			return r.Get(i)
		}
	}
	return "", false
}

// Fields returns a copy of the field values.
func (r Record) Fields() []string {
	fields := make([]string, len(r.fields))
	copy(fields, r.fields)
	return fields
}

// Len returns the number of fields in the record.
func (r Record) Len() int {
	return len(r.fields)
}

// Headers returns the header names the record resolves GetByName against.
func (r Record) Headers() []string {
	return r.headers
}

// ToAST converts the Document to an AST ArrayDataNode, headers first.
func (d *Document) ToAST() (*ast.ArrayDataNode, error) {
	allRecords := make([]ast.SchemaNode, 0, len(d.records)+1)

	if len(d.headers) > 0 {
		allRecords = append(allRecords, recordNode(d.headers))
	}
	for _, record := range d.records {
		allRecords = append(allRecords, recordNode(record))
	}

	return ast.NewArrayDataNode(allRecords, ast.ZeroPosition()), nil
}

func recordNode(fields []string) *ast.ArrayDataNode {
	nodes := make([]ast.SchemaNode, len(fields))
	for i, f := range fields {
		nodes[i] = ast.NewLiteralNode(f, ast.ZeroPosition())
	}
	return ast.NewArrayDataNode(nodes, ast.ZeroPosition())
}

// FromAST creates a Document from an AST produced by Parse or ToAST.
func FromAST(node ast.SchemaNode) (*Document, error) {
	arrayNode, ok := node.(*ast.ArrayDataNode)
	if !ok {
		return nil, fmt.Errorf("expected *ast.ArrayDataNode, got %T", node)
	}

	doc := NewDocument()
	for _, elem := range arrayNode.Elements() {
		rec, ok := elem.(*ast.ArrayDataNode)
		if !ok {
			return nil, fmt.Errorf("expected record to be *ast.ArrayDataNode, got %T", elem)
		}

		fields := make([]string, 0, rec.Len())
		for _, fieldNode := range rec.Elements() {
			literalNode, ok := fieldNode.(*ast.LiteralNode)
			if !ok {
				return nil, fmt.Errorf("expected field to be *ast.LiteralNode, got %T", fieldNode)
			}
			value, ok := literalNode.Value().(string)
			if !ok {
				return nil, fmt.Errorf("expected field value to be string, got %T", literalNode.Value())
			}
			fields = append(fields, value)
		}
		doc.AddRecord(fields)
	}

	return doc, nil
}
