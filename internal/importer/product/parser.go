package product

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Kesavaawalakbari/konek/internal/catalog"
	enc "github.com/Kesavaawalakbari/konek/internal/encoding"
)

var ErrNoHeader = errors.New("no product header found: expected nama/name, kategori/category, harga/price and stok/stock columns")

// RowError is a data row that could not be turned into a product.
type RowError struct {
	Line int
	Err  error
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

// RowErrors lists every rejected row of an upload.
type RowErrors []RowError

func (e RowErrors) Error() string {
	msgs := make([]string, len(e))
	for i, re := range e {
		msgs[i] = re.Error()
	}

	return strings.Join(msgs, "; ")
}

func (e RowErrors) Is(target error) bool {
	return target == catalog.ErrInvalidInput
}

// Parser reads product spreadsheets exported as CSV. The delimiter (';' or
// ',') and the header row are detected, so title lines above the header
// are tolerated.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

type record struct {
	line  int
	cells []string
}

func (p *Parser) Parse(r io.Reader) ([]catalog.ProductParams, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	data, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}

	for _, comma := range []rune{';', ','} {
		records, err := readRecords(data, comma)
		if err != nil {
			continue
		}

		cols, headerIdx := detectHeader(records)
		if cols == nil {
			continue
		}

		return parseRows(cols, records[headerIdx+1:])
	}

	return nil, ErrNoHeader
}

func readRecords(data []byte, comma rune) ([]record, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var records []record

	for {
		cells, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return records, nil
		}

		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}

		line, _ := reader.FieldPos(0)
		records = append(records, record{line: line, cells: cells})
	}
}

// detectHeader returns the layout of the first row carrying every required column.
func detectHeader(records []record) (colIndex, int) {
	for i, rec := range records {
		if cols := matchHeader(rec.cells); cols != nil {
			return cols, i
		}
	}

	return nil, 0
}

func parseRows(cols colIndex, records []record) ([]catalog.ProductParams, error) {
	var (
		params []catalog.ProductParams
		bad    RowErrors
	)

	for _, rec := range records {
		if blank(rec.cells) {
			continue
		}

		p, err := parseRow(cols, rec.cells)
		if err != nil {
			bad = append(bad, RowError{Line: rec.line, Err: err})
			continue
		}

		params = append(params, p)
	}

	if len(bad) > 0 {
		return nil, bad
	}

	return params, nil
}

func parseRow(cols colIndex, row []string) (catalog.ProductParams, error) {
	p := catalog.ProductParams{
		Name:        cell(row, cols, colName),
		Category:    cell(row, cols, colCategory),
		Description: cell(row, cols, colDescription),
		SKU:         cell(row, cols, colSKU),
		Unit:        cell(row, cols, colUnit),
	}

	if p.Name == "" {
		return p, errors.New("missing name")
	}

	price, err := parseAmount(cell(row, cols, colPrice))
	if err != nil {
		return p, fmt.Errorf("price: %w", err)
	}

	p.Price = price

	if p.Stock, err = parseCount(cell(row, cols, colStock)); err != nil {
		return p, fmt.Errorf("stock: %w", err)
	}

	if s := cell(row, cols, colMinStock); s != "" {
		minStock, err := parseCount(s)
		if err != nil {
			return p, fmt.Errorf("min stock: %w", err)
		}

		p.MinStock = &minStock
	}

	return p, nil
}

// cell safely gets a trimmed value for key, or "" when the column is absent.
func cell(row []string, cols colIndex, key string) string {
	idx, ok := cols[key]
	if !ok || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}

	return true
}
