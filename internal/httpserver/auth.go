package httpserver

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"bookstore/internal/domain"
	customersvc "bookstore/internal/service/customer"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	// SessionToken lets a guest carry their cart into the account: the guest
	// lines are merged into the user's cart right after login.
	SessionToken string `json:"sessionToken"`
}

type authResponse struct {
	User         *domain.User `json:"user"`
	AccessToken  string       `json:"accessToken,omitempty"`
	RefreshToken string       `json:"refreshToken,omitempty"`
	ExpiresIn    int          `json:"expiresIn,omitempty"`
}

func signupHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in customersvc.SignupInput
		if err := c.ShouldBindJSON(&in); err != nil {
			respondError(c, domain.Validationf("invalid request body"))
			return
		}
		u, err := deps.CustomerSvc.Signup(c.Request.Context(), in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, authResponse{User: u})
	}
}

func loginHandler(deps Deps, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in loginRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			respondError(c, domain.Validationf("invalid request body"))
			return
		}
		u, access, refresh, err := deps.CustomerSvc.Login(c.Request.Context(), in.Email, in.Password)
		if err != nil {
			respondError(c, err)
			return
		}

		// Guest-cart reconciliation. A merge failure must not invalidate the
		// login; the guest cart simply stays where it was.
		if in.SessionToken != "" {
			if err := deps.CartSvc.MergeGuest(c.Request.Context(), in.SessionToken, u.ID); err != nil {
				logger.Printf("login: merge guest cart user_id=%s error=%v", u.ID, err)
			}
		}

		c.JSON(http.StatusOK, authResponse{
			User:         u,
			AccessToken:  access,
			RefreshToken: refresh,
			ExpiresIn:    deps.CustomerSvc.AccessTTLSeconds(),
		})
	}
}
