package product

import "strings"

// column describes one recognised header and the spellings accepted for it.
// Matching is case-insensitive and ignores surrounding whitespace.
type column struct {
	Key      string
	Aliases  []string
	Required bool
}

const (
	colName        = "name"
	colCategory    = "category"
	colPrice       = "price"
	colStock       = "stock"
	colSKU         = "sku"
	colUnit        = "unit"
	colMinStock    = "min_stock"
	colDescription = "description"
)

var columns = []column{
	{Key: colName, Aliases: []string{"nama", "nama produk", "name", "product name"}, Required: true},
	{Key: colCategory, Aliases: []string{"kategori", "category"}, Required: true},
	{Key: colPrice, Aliases: []string{"harga", "harga jual", "price"}, Required: true},
	{Key: colStock, Aliases: []string{"stok", "stock"}, Required: true},
	{Key: colSKU, Aliases: []string{"sku", "kode", "kode produk"}},
	{Key: colUnit, Aliases: []string{"satuan", "unit"}},
	{Key: colMinStock, Aliases: []string{"min_stok", "stok minimum", "min_stock", "minimum stock"}},
	{Key: colDescription, Aliases: []string{"deskripsi", "keterangan", "description"}},
}

// colIndex maps column keys to their index in the row.
type colIndex map[string]int

// matchHeader returns the column layout of row when it carries every
// required column, or nil otherwise.
func matchHeader(row []string) colIndex {
	cols := make(colIndex)

	for i, cell := range row {
		name := strings.ToLower(strings.TrimSpace(cell))
		if name == "" {
			continue
		}

		for _, c := range columns {
			if _, seen := cols[c.Key]; seen {
				continue
			}

			for _, alias := range c.Aliases {
				if name == alias {
					cols[c.Key] = i
					break
				}
			}
		}
	}

	for _, c := range columns {
		if _, ok := cols[c.Key]; c.Required && !ok {
			return nil
		}
	}

	return cols
}
