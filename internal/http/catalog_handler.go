package http

import (
	"context"
	"net/http"
	"time"

	"github.com/ludmilpaulo/ClinicSystemMobile/internal/domain"
)

// CatalogAPI is the part of the catalog client the handlers need.
type CatalogAPI interface {
	Products(ctx context.Context) ([]domain.Product, error)
	Categories(ctx context.Context) ([]string, error)
}

type CatalogHandler struct {
	catalog CatalogAPI
	timeout time.Duration
}

func NewCatalogHandler(catalog CatalogAPI, timeout time.Duration) *CatalogHandler {
	return &CatalogHandler{
		catalog: catalog,
		timeout: timeout,
	}
}

type ProductsResponse struct {
	Products []domain.Product `json:"products"`
}

type CategoriesResponse struct {
	Categories []string `json:"categories"`
}

func (h *CatalogHandler) Products(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	products, err := h.catalog.Products(ctx)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, ProductsResponse{Products: products})
}

func (h *CatalogHandler) Categories(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	categories, err := h.catalog.Categories(ctx)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, CategoriesResponse{Categories: categories})
}
