package importcsv

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Kesavaawalakbari/konek/internal/catalog"
	"github.com/Kesavaawalakbari/konek/internal/http/respond"
	"github.com/Kesavaawalakbari/konek/internal/importer"
)

const maxUpload = 10 << 20

type Handler struct {
	importSvc  *importer.Service
	catalogSvc *catalog.Service
}

func NewHandler(importSvc *importer.Service, catalogSvc *catalog.Service) *Handler {
	return &Handler{
		importSvc:  importSvc,
		catalogSvc: catalogSvc,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importCSV)
}

type importResponse struct {
	Imported int      `json:"imported"`
	Names    []string `json:"names"`
}

func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUpload)

	if err := r.ParseMultipartForm(maxUpload); err != nil {
		respond.Fail(w, r, http.StatusBadRequest, "InvalidInput", "failed to parse form: "+err.Error())
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		respond.Fail(w, r, http.StatusBadRequest, "InvalidInput", "file field is required")
		return
	}
	defer file.Close()

	params, err := h.importSvc.Import(importer.Format(r.FormValue("format")), file)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	products, err := h.catalogSvc.ImportProducts(r.Context(), params)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	names := make([]string, len(products))
	for i, p := range products {
		names[i] = p.Name
	}

	respond.Message(w, r, http.StatusCreated, "ProductsImported",
		map[string]any{"Count": len(products)},
		importResponse{Imported: len(products), Names: names})
}
