package http

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/tuanvumaihuynh/perfume-inventory/internal/apperr"
	"github.com/tuanvumaihuynh/perfume-inventory/internal/catalog"
	"github.com/tuanvumaihuynh/perfume-inventory/internal/service"
)

type productHandler struct {
	productSvc service.ProductService
}

func newProductHandler(productSvc service.ProductService) *productHandler {
	return &productHandler{productSvc: productSvc}
}

func (h *productHandler) ListProducts(w http.ResponseWriter, r *http.Request) error {
	var (
		page    string
		text    string
		storeID *uuid.UUID
	)
	if err := queryParam(r, "page", false, &page); err != nil {
		return err
	}
	if err := queryParam(r, "q", false, &text); err != nil {
		return err
	}
	if err := queryParam(r, "store_id", false, &storeID); err != nil {
		return err
	}

	p, err := catalog.ParsePage(page)
	if err != nil {
		return apperr.ValidationErr.WrapParent(err).WithMsg(err.Error())
	}

	items, err := h.productSvc.ListCatalog(r.Context(), catalog.Query{
		Page:    p,
		Text:    text,
		StoreID: storeID,
	})
	if err != nil {
		return fmt.Errorf("product service list catalog: %w", err)
	}

	return writeJSON(w, http.StatusOK, items)
}

func (h *productHandler) SuggestProducts(w http.ResponseWriter, r *http.Request) error {
	var q string
	if err := queryParam(r, "q", true, &q); err != nil {
		return err
	}

	products, err := h.productSvc.SuggestProducts(r.Context(), q)
	if err != nil {
		return fmt.Errorf("product service suggest products: %w", err)
	}

	return writeJSON(w, http.StatusOK, products)
}

func (h *productHandler) GetProduct(w http.ResponseWriter, r *http.Request) error {
	id, err := pathUUID(r, "product_id")
	if err != nil {
		return err
	}

	product, err := h.productSvc.GetProduct(r.Context(), id)
	if err != nil {
		return fmt.Errorf("product service get product: %w", err)
	}

	return writeJSON(w, http.StatusOK, product)
}

func (h *productHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) error {
	id, err := pathUUID(r, "product_id")
	if err != nil {
		return err
	}

	var req updateProductRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return err
	}

	product, err := h.productSvc.UpdateProduct(r.Context(), id, service.UpdateProductParams(req))
	if err != nil {
		return fmt.Errorf("product service update product: %w", err)
	}

	return writeJSON(w, http.StatusOK, product)
}

func (h *productHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) error {
	id, err := pathUUID(r, "product_id")
	if err != nil {
		return err
	}

	if err := h.productSvc.DeleteProduct(r.Context(), id); err != nil {
		return fmt.Errorf("product service delete product: %w", err)
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}
