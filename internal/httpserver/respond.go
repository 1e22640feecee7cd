package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"bookstore/internal/domain"
	customersvc "bookstore/internal/service/customer"
)

// errorResponse is the machine-readable error envelope. Insufficient-stock
// errors always include the available quantity so the client can correct the
// request.
type errorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	ProductID string `json:"productId,omitempty"`
	Available *int   `json:"available,omitempty"`
}

func respondError(c *gin.Context, err error) {
	var stockErr *domain.InsufficientStockError
	switch {
	case errors.As(err, &stockErr):
		available := stockErr.Available
		c.JSON(http.StatusConflict, errorResponse{
			Code:      "insufficient_stock",
			Message:   stockErr.Error(),
			ProductID: stockErr.ProductID,
			Available: &available,
		})
	case errors.Is(err, domain.ErrValidation):
		c.JSON(http.StatusBadRequest, errorResponse{Code: "validation", Message: err.Error()})
	case errors.Is(err, domain.ErrUnauthenticated),
		errors.Is(err, customersvc.ErrInvalidToken),
		errors.Is(err, customersvc.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, errorResponse{Code: "unauthenticated", Message: err.Error()})
	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, errorResponse{Code: "forbidden", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Code: "not_found", Message: err.Error()})
	case errors.Is(err, domain.ErrEmptyCart):
		c.JSON(http.StatusConflict, errorResponse{Code: "empty_cart", Message: err.Error()})
	case errors.Is(err, domain.ErrAlreadyExists):
		c.JSON(http.StatusConflict, errorResponse{Code: "already_exists", Message: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, errorResponse{Code: "internal", Message: "internal error"})
	}
}
