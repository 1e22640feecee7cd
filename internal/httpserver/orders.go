package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bookstore/internal/domain"
)

type checkoutRequest struct {
	PaymentMethod string `json:"paymentMethod"`
}

func checkoutHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in checkoutRequest
		// ContentLength is -1 for chunked bodies; only a known-empty body
		// skips the bind.
		if c.Request.ContentLength != 0 {
			if err := c.ShouldBindJSON(&in); err != nil {
				respondError(c, domain.Validationf("invalid request body"))
				return
			}
		}
		owner := identityFromRequest(c, "")
		order, err := deps.CheckoutSvc.Checkout(c.Request.Context(), owner, in.PaymentMethod)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, order)
	}
}

func listOrdersHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner := identityFromRequest(c, "")
		orders, err := deps.OrderSvc.History(c.Request.Context(), owner)
		if err != nil {
			respondError(c, err)
			return
		}
		if orders == nil {
			orders = []domain.Order{}
		}
		c.JSON(http.StatusOK, orders)
	}
}

func getOrderHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner := identityFromRequest(c, "")
		order, err := deps.OrderSvc.Get(c.Request.Context(), owner, c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}
