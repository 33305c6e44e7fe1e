package http

import (
	"time"

	"github.com/google/uuid"

	"github.com/tuanvumaihuynh/perfume-inventory/internal/model"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string     `json:"access_token"`
	TokenType   string     `json:"token_type"`
	ExpiresAt   time.Time  `json:"expires_at"`
	User        model.User `json:"user"`
}

type createStoreRequest struct {
	Name string `json:"name"`
}

type updateProductRequest struct {
	Name        string         `json:"name"`
	Brand       string         `json:"brand"`
	Price       int64          `json:"price"`
	Category    model.Category `json:"category"`
	Description *string        `json:"description"`
	ImageURL    *string        `json:"image_url"`
}

type setQuantityRequest struct {
	Quantity int64 `json:"quantity"`
}

type submissionRequest struct {
	Name        string         `json:"name"`
	Brand       string         `json:"brand"`
	Price       int64          `json:"price"`
	Category    model.Category `json:"category"`
	Description *string        `json:"description"`
	ImageURL    *string        `json:"image_url"`
	StoreID     uuid.UUID      `json:"store_id"`
	Quantity    int64          `json:"quantity"`
}

func (r submissionRequest) toModel() model.Submission {
	return model.Submission{
		Name:        r.Name,
		Brand:       r.Brand,
		Price:       r.Price,
		Category:    r.Category,
		Description: r.Description,
		ImageURL:    r.ImageURL,
		StoreID:     r.StoreID,
		Quantity:    r.Quantity,
	}
}

type reconciliationResponse struct {
	Outcome   model.Outcome   `json:"outcome"`
	Message   string          `json:"message"`
	Product   model.Product   `json:"product"`
	Inventory model.Inventory `json:"inventory"`
}
