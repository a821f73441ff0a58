package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/eshop/internal/domain/errors"
	"github.com/polkiloo/eshop/internal/server/http/dto"
	"github.com/polkiloo/eshop/internal/server/http/middleware"
	"github.com/polkiloo/eshop/internal/server/http/response"
	"github.com/polkiloo/eshop/internal/usecase"
)

// AuthHandler processes registration and login.
type AuthHandler struct {
	facade AuthFacade
}

// NewAuthHandler creates AuthHandler instance.
func NewAuthHandler(facade AuthFacade) *AuthHandler {
	return &AuthHandler{facade: facade}
}

// Register handles POST /api/users/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadBody(c, response.CodeInvalidCredentials, err)
		return
	}

	token, err := h.facade.Register(c.Request.Context(), usecase.RegisterRequest{
		Login:    req.Login,
		Password: req.Password,
		Address:  toAddress(req.ShippingAddress),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	middleware.SetAuthCookie(c, token)
	c.JSON(http.StatusOK, dto.TokenResponse{Token: token})
}

// Login handles POST /api/users/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.AuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadBody(c, response.CodeInvalidCredentials, err)
		return
	}

	token, err := h.facade.Authenticate(c.Request.Context(), req.Login, req.Password)
	if err != nil {
		if errors.Is(err, domainErrors.ErrInvalidCredentials) {
			response.WriteError(c, http.StatusUnauthorized, response.CodeInvalidCredentials, err)
			return
		}
		response.Error(c, err)
		return
	}

	middleware.SetAuthCookie(c, token)
	c.JSON(http.StatusOK, dto.TokenResponse{Token: token})
}
