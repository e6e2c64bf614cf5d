package http

import (
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/RaihanulHaque/rimu-world/internal/domain"
	"github.com/RaihanulHaque/rimu-world/internal/service"
	"github.com/RaihanulHaque/rimu-world/pkg/httputil"
	"github.com/RaihanulHaque/rimu-world/pkg/validator"
)

// maxFormMemory caps the in-memory portion of a parsed multipart form; the
// rest spills to temp files.
const maxFormMemory = 32 << 20

// ProductHandler handles HTTP requests for catalog endpoints.
type ProductHandler struct {
	service *service.CatalogService
	baseURL string
	maxBody int64
	logger  *slog.Logger
}

// NewProductHandler creates a new catalog HTTP handler. maxImageBytes bounds
// each uploaded image and with it the whole request body.
func NewProductHandler(svc *service.CatalogService, baseURL string, maxImageBytes int64, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		service: svc,
		baseURL: strings.TrimRight(baseURL, "/"),
		maxBody: maxImageBytes*domain.MaxImages + (1 << 20), // form-field overhead
		logger:  logger,
	}
}

// --- Request DTO ---

// CreateProductRequest carries the scalar form fields of a product creation.
// Type and category membership is checked by the service; tags cover presence
// and length only.
type CreateProductRequest struct {
	Name     string `validate:"required,min=1,max=500"`
	Type     string `validate:"required"`
	Category string `validate:"required"`
	Details  string `validate:"max=5000"`
}

// --- Response DTO ---

// ProductResponse is the JSON representation of a product. Image references
// are rendered as absolute URLs.
type ProductResponse struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Type      string   `json:"type"`
	Category  string   `json:"category"`
	Price     int64    `json:"price"`
	Details   string   `json:"details"`
	Colors    []string `json:"colors"`
	Sizes     []string `json:"sizes"`
	Images    []string `json:"images"`
	CreatedAt string   `json:"created_at"`
}

func (h *ProductHandler) toResponse(p *domain.Product) ProductResponse {
	images := make([]string, len(p.Images))
	for i, ref := range p.Images {
		images[i] = h.baseURL + "/media/" + ref
	}

	return ProductResponse{
		ID:        p.ID,
		Name:      p.Name,
		Type:      string(p.Type),
		Category:  p.Category,
		Price:     p.Price,
		Details:   p.Details,
		Colors:    p.Colors,
		Sizes:     p.Sizes,
		Images:    images,
		CreatedAt: p.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// --- Handlers ---

// ListProducts handles GET /api/v1/products with an optional ?type= filter.
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ListProducts(r.Context(), r.URL.Query().Get("type"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	out := make([]ProductResponse, len(products))
	for i := range products {
		out[i] = h.toResponse(&products[i])
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: out})
}

// GetProduct handles GET /api/v1/products/{id}.
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	product, err := h.service.GetProduct(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: h.toResponse(product)})
}

// CreateProduct handles POST /api/v1/admin/products (multipart/form-data).
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBody)

	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "failed to parse multipart form: " + err.Error()},
		})
		return
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	req := CreateProductRequest{
		Name:     r.FormValue("name"),
		Type:     r.FormValue("type"),
		Category: r.FormValue("category"),
		Details:  r.FormValue("details"),
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	price, err := parsePrice(r.FormValue("price"))
	if err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: err.Error()},
		})
		return
	}

	input := &service.CreateProductInput{
		Name:     req.Name,
		Type:     req.Type,
		Category: req.Category,
		Price:    price,
		Details:  req.Details,
		Colors:   r.MultipartForm.Value["colors"],
		Sizes:    r.MultipartForm.Value["sizes"],
	}

	for _, header := range r.MultipartForm.File["images"] {
		file, err := header.Open()
		if err != nil {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "failed to read uploaded image: " + err.Error()},
			})
			return
		}
		defer file.Close()

		contentType := header.Header.Get("Content-Type")
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		input.Images = append(input.Images, service.ImageUpload{
			ContentType: contentType,
			Size:        header.Size,
			Data:        file,
		})
	}

	product, err := h.service.CreateProduct(r.Context(), input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: h.toResponse(product)})
}

// DeleteProduct handles DELETE /api/v1/admin/products/{id}.
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.DeleteProduct(r.Context(), id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"id": id, "status": "deleted"}})
}

// errInvalidPrice reports an unparseable price form value.
var errInvalidPrice = errors.New("price must be a decimal number with at most two fraction digits")

// parsePrice converts a decimal form value ("4599.00") into minor units. The
// integer and fraction parts are parsed separately so large prices keep exact
// cents instead of picking up float64 rounding.
func parsePrice(raw string) (int64, error) {
	intPart, fracPart, _ := strings.Cut(raw, ".")
	if intPart == "" || len(fracPart) > 2 {
		return 0, errInvalidPrice
	}
	if intPart[0] == '-' || intPart[0] == '+' {
		return 0, errInvalidPrice
	}

	units, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, errInvalidPrice
	}

	var cents int64
	if fracPart != "" {
		cents, err = strconv.ParseInt(fracPart, 10, 64)
		if err != nil || cents < 0 {
			return 0, errInvalidPrice
		}
		if len(fracPart) == 1 {
			cents *= 10
		}
	}

	if units > (math.MaxInt64-cents)/100 {
		return 0, errInvalidPrice
	}
	return units*100 + cents, nil
}
