package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ludmilpaulo/ClinicSystemMobile/internal/basket"
	"github.com/ludmilpaulo/ClinicSystemMobile/internal/domain"
)

type BasketHandler struct {
	baskets *basket.Manager
	catalog CatalogAPI
	timeout time.Duration
}

func NewBasketHandler(baskets *basket.Manager, catalog CatalogAPI, timeout time.Duration) *BasketHandler {
	return &BasketHandler{
		baskets: baskets,
		catalog: catalog,
		timeout: timeout,
	}
}

type AddItemRequestDTO struct {
	ProductID int64 `json:"product_id"`
}

type BasketResponse struct {
	Lines     []domain.CartLine `json:"lines"`
	Total     float64           `json:"total"`
	ItemCount int               `json:"item_count"`
}

func (h *BasketHandler) Get(w http.ResponseWriter, r *http.Request) {
	store, ok := h.store(w, r)
	if !ok {
		return
	}
	respondBasket(w, http.StatusOK, store)
}

func (h *BasketHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	store, ok := h.store(w, r)
	if !ok {
		return
	}

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be positive")
		return
	}

	// The basket keeps a product snapshot from add-time, so the catalog
	// is consulted on every add, not just the first.
	product, err := h.findProduct(ctx, req.ProductID)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	if product == nil {
		respondError(w, http.StatusNotFound, "not_found", "product not found")
		return
	}

	if err := store.AddOrIncrement(*product); err != nil {
		handleDomainError(w, err)
		return
	}
	respondBasket(w, http.StatusCreated, store)
}

func (h *BasketHandler) Decrement(w http.ResponseWriter, r *http.Request) {
	store, ok := h.store(w, r)
	if !ok {
		return
	}
	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}

	store.Decrement(productID)
	respondBasket(w, http.StatusOK, store)
}

func (h *BasketHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	store, ok := h.store(w, r)
	if !ok {
		return
	}
	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}

	store.Remove(productID)
	respondBasket(w, http.StatusOK, store)
}

func (h *BasketHandler) Clear(w http.ResponseWriter, r *http.Request) {
	store, ok := h.store(w, r)
	if !ok {
		return
	}

	store.Clear()
	respondBasket(w, http.StatusOK, store)
}

func (h *BasketHandler) store(w http.ResponseWriter, r *http.Request) (*basket.Store, bool) {
	userID := getUserIDFromContext(r.Context())
	if userID == 0 {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return nil, false
	}
	return h.baskets.Store(r.Context(), fmt.Sprint(userID)), true
}

func (h *BasketHandler) findProduct(ctx context.Context, id int64) (*domain.Product, error) {
	products, err := h.catalog.Products(ctx)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].ID == id {
			return &products[i], nil
		}
	}
	return nil, nil
}

func productIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	productIDStr := chi.URLParam(r, "product_id")
	productID, err := strconv.ParseInt(productIDStr, 10, 64)
	if err != nil || productID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a positive integer")
		return 0, false
	}
	return productID, true
}

func respondBasket(w http.ResponseWriter, status int, store *basket.Store) {
	snapshot := store.Snapshot()
	respondJSON(w, status, BasketResponse{
		Lines:     snapshot.Lines,
		Total:     snapshot.Total(),
		ItemCount: snapshot.ItemCount(),
	})
}
