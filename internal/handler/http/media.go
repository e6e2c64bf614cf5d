package http

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/RaihanulHaque/rimu-world/internal/service"
	"github.com/RaihanulHaque/rimu-world/pkg/httputil"
)

// MediaHandler serves stored product images.
type MediaHandler struct {
	service *service.CatalogService
	logger  *slog.Logger
}

// NewMediaHandler creates a new media HTTP handler.
func NewMediaHandler(svc *service.CatalogService, logger *slog.Logger) *MediaHandler {
	return &MediaHandler{
		service: svc,
		logger:  logger,
	}
}

// ServeImage handles GET /media/{productID}/{file}.
func (h *MediaHandler) ServeImage(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")
	file := chi.URLParam(r, "file")

	rc, contentType, err := h.service.OpenImage(r.Context(), productID, file)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=86400")

	if _, err := io.Copy(w, rc); err != nil {
		// Headers are already written; nothing left but to log.
		h.logger.WarnContext(r.Context(), "image transfer interrupted",
			slog.String("product_id", productID),
			slog.String("file", file),
			slog.String("error", err.Error()),
		)
	}
}
