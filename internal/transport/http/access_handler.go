package handlers

import (
	"errors"
	"net/http"

	"coursecatalog/internal/application/usecase"
	"coursecatalog/internal/domain"

	"github.com/gin-gonic/gin"
)

type AccessHandler struct {
	access *usecase.AccessUseCase
}

func NewAccessHandler(access *usecase.AccessUseCase) *AccessHandler {
	return &AccessHandler{access: access}
}

type accessRequestReq struct {
	Email string `json:"email" binding:"required,email"`
}

// POST /api/v1/access/request
func (h *AccessHandler) Request(c *gin.Context) {
	var req accessRequestReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.access.RequestAccess(c, req.Email); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Verification email sent"})
}

// GET /api/v1/access/verify?token=...
func (h *AccessHandler) Verify(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token is required"})
		return
	}

	sessionToken, err := h.access.VerifyEmail(c, token)
	if err != nil {
		if errors.Is(err, domain.ErrTokenInvalid) || errors.Is(err, domain.ErrEmailNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired token"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "verification failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"session_token": sessionToken})
}
