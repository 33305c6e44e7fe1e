package apperr

import "github.com/tuanvumaihuynh/perfume-inventory/pkg/zerror"

const (
	ValidationErrorCode     = "VALIDATION_FAILED"
	UnauthorizedCode        = "UNAUTHORIZED"
	InvalidCredentialsCode  = "INVALID_CREDENTIALS"
	EmailTakenCode          = "EMAIL_TAKEN"
	StoreNotFoundCode       = "STORE_NOT_FOUND"
	ProductNotFoundCode     = "PRODUCT_NOT_FOUND"
	ProductNameTakenCode    = "PRODUCT_NAME_TAKEN"
	InventoryNotFoundCode   = "INVENTORY_NOT_FOUND"
	DuplicateSubmissionCode = "DUPLICATE_SUBMISSION"
	RouteNotFoundCode       = "ROUTE_NOT_FOUND"
	UnhealthyCode           = "SERVICE_UNHEALTHY"
)

var (
	ValidationErr = zerror.NewValidationFailed(ValidationErrorCode, "validation error")

	UnauthorizedErr       = zerror.NewUnauthorized(UnauthorizedCode, "missing or invalid access token")
	InvalidCredentialsErr = zerror.NewUnauthorized(InvalidCredentialsCode, "invalid email or password")
	EmailTakenErr         = zerror.NewConflict(EmailTakenCode, "email is already registered")

	StoreNotFoundErr     = zerror.NewNotFound(StoreNotFoundCode, "store not found")
	ProductNotFoundErr   = zerror.NewNotFound(ProductNotFoundCode, "product not found")
	ProductNameTakenErr  = zerror.NewConflict(ProductNameTakenCode, "a product with this name already exists")
	InventoryNotFoundErr = zerror.NewNotFound(InventoryNotFoundCode, "inventory record not found")

	DuplicateSubmissionErr = zerror.NewConflict(DuplicateSubmissionCode, "submission with this idempotency key was already processed")

	RouteNotFoundErr = zerror.NewNotFound(RouteNotFoundCode, "route not found")
	UnhealthyErr     = zerror.NewServiceUnavailable(UnhealthyCode, "service is not healthy")
)
