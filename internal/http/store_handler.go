package http

import (
	"fmt"
	"net/http"

	"github.com/tuanvumaihuynh/perfume-inventory/internal/service"
)

type storeHandler struct {
	storeSvc service.StoreService
}

func newStoreHandler(storeSvc service.StoreService) *storeHandler {
	return &storeHandler{storeSvc: storeSvc}
}

func (h *storeHandler) ListStores(w http.ResponseWriter, r *http.Request) error {
	stores, err := h.storeSvc.ListStores(r.Context())
	if err != nil {
		return fmt.Errorf("store service list stores: %w", err)
	}

	return writeJSON(w, http.StatusOK, stores)
}

func (h *storeHandler) CreateStore(w http.ResponseWriter, r *http.Request) error {
	var req createStoreRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return err
	}

	store, err := h.storeSvc.CreateStore(r.Context(), service.CreateStoreParams{Name: req.Name})
	if err != nil {
		return fmt.Errorf("store service create store: %w", err)
	}

	return writeJSON(w, http.StatusCreated, store)
}

func (h *storeHandler) DeleteStore(w http.ResponseWriter, r *http.Request) error {
	id, err := pathUUID(r, "store_id")
	if err != nil {
		return err
	}

	if err := h.storeSvc.DeleteStore(r.Context(), id); err != nil {
		return fmt.Errorf("store service delete store: %w", err)
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}
