package importer

import (
	"io"

	"github.com/Kesavaawalakbari/konek/internal/catalog"
)

// Format names an upload layout the importer understands.
type Format string

const (
	FormatProductCSV Format = "product-csv"
)

type Importer interface {
	Parse(r io.Reader) ([]catalog.ProductParams, error)
}
