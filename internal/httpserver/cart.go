package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bookstore/internal/domain"
)

type addToCartRequest struct {
	ProductID    string `json:"productId"`
	Quantity     int    `json:"quantity"`
	SessionToken string `json:"sessionToken"`
}

type updateCartLineRequest struct {
	Quantity int `json:"quantity"`
}

type cartResponse struct {
	Lines      []domain.CartLine `json:"lines"`
	TotalCents int64             `json:"totalCents"`
	Total      string            `json:"total"`
}

type cartLineResponse struct {
	*domain.CartLine
	// SessionToken is returned when a guest token was minted for this add, so
	// the client can keep using the same cart.
	SessionToken string `json:"sessionToken,omitempty"`
}

func getCartHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner := identityFromRequest(c, "")
		lines, err := deps.CartSvc.List(c.Request.Context(), owner)
		if err != nil {
			respondError(c, err)
			return
		}
		if lines == nil {
			lines = []domain.CartLine{}
		}
		var total int64
		for _, l := range lines {
			total += l.SubtotalCents()
		}
		c.JSON(http.StatusOK, cartResponse{Lines: lines, TotalCents: total, Total: domain.FormatCents(total)})
	}
}

func cartTotalHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner := identityFromRequest(c, "")
		total, err := deps.CartSvc.TotalCents(c.Request.Context(), owner)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"totalCents": total, "total": domain.FormatCents(total)})
	}
}

func addToCartHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in addToCartRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			respondError(c, domain.Validationf("invalid request body"))
			return
		}
		if in.Quantity == 0 {
			in.Quantity = 1
		}

		owner := identityFromRequest(c, in.SessionToken)
		if owner.IsZero() {
			token, err := domain.NewGuestToken()
			if err != nil {
				respondError(c, err)
				return
			}
			owner = domain.GuestIdentity(token)
		}

		line, err := deps.CartSvc.Add(c.Request.Context(), owner, in.ProductID, in.Quantity)
		if err != nil {
			respondError(c, err)
			return
		}

		resp := cartLineResponse{CartLine: line}
		if !owner.IsUser() {
			resp.SessionToken = owner.ID
		}
		c.JSON(http.StatusCreated, resp)
	}
}

func updateCartLineHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in updateCartLineRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			respondError(c, domain.Validationf("invalid request body"))
			return
		}
		owner := identityFromRequest(c, "")
		line, err := deps.CartSvc.UpdateLine(c.Request.Context(), owner, c.Param("lineID"), in.Quantity)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, line)
	}
}

func removeCartLineHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner := identityFromRequest(c, "")
		if err := deps.CartSvc.RemoveLine(c.Request.Context(), owner, c.Param("lineID")); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
