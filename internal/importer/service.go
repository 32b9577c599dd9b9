package importer

import (
	"fmt"
	"io"

	"github.com/Kesavaawalakbari/konek/internal/catalog"
	"github.com/Kesavaawalakbari/konek/internal/importer/product"
)

type Service struct {
	productImporter Importer
}

func NewService() *Service {
	return &Service{
		productImporter: product.NewParser(),
	}
}

func (s *Service) Import(format Format, r io.Reader) ([]catalog.ProductParams, error) {
	var importer Importer

	switch format {
	case FormatProductCSV, "":
		importer = s.productImporter
	default:
		return nil, fmt.Errorf("%w: unknown import format %q", catalog.ErrInvalidInput, format)
	}

	return importer.Parse(r)
}
