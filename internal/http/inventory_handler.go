package http

import (
	"fmt"
	"net/http"

	"github.com/tuanvumaihuynh/perfume-inventory/internal/service"
)

type inventoryHandler struct {
	inventorySvc service.InventoryService
}

func newInventoryHandler(inventorySvc service.InventoryService) *inventoryHandler {
	return &inventoryHandler{inventorySvc: inventorySvc}
}

func (h *inventoryHandler) SubmitStock(w http.ResponseWriter, r *http.Request) error {
	var req submissionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return err
	}

	res, err := h.inventorySvc.Reconcile(r.Context(), req.toModel())
	if err != nil {
		return fmt.Errorf("inventory service reconcile: %w", err)
	}

	return writeJSON(w, http.StatusOK, reconciliationResponse{
		Outcome:   res.Outcome,
		Message:   res.Outcome.Message(),
		Product:   res.Product,
		Inventory: res.Inventory,
	})
}

func (h *inventoryHandler) SetQuantity(w http.ResponseWriter, r *http.Request) error {
	productID, err := pathUUID(r, "product_id")
	if err != nil {
		return err
	}
	storeID, err := pathUUID(r, "store_id")
	if err != nil {
		return err
	}

	var req setQuantityRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return err
	}

	inv, err := h.inventorySvc.SetQuantity(r.Context(), service.SetQuantityParams{
		ProductID: productID,
		StoreID:   storeID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		return fmt.Errorf("inventory service set quantity: %w", err)
	}

	return writeJSON(w, http.StatusOK, inv)
}
