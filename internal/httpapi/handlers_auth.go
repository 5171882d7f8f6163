package httpapi

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin"

	"taskboard/internal/service"
)

const weakPasswordMessage = "Password must be at least 8 characters long, and contain at least one symbol, one lowercase letter, one uppercase letter, and one number."

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	FullName string `json:"fullname" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register creates a new account.
func (h *Handlers) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, 422, bindingMessage(err))
		return
	}
	if !isStrongPassword(req.Password) {
		respondError(c, 422, weakPasswordMessage)
		return
	}

	user, err := h.accounts.Register(c.Request.Context(), service.RegisterInput{
		Email:    req.Email,
		FullName: req.FullName,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			respondError(c, 409, fmt.Sprintf("The email '%s' already exist", strings.ToLower(req.Email)))
			return
		}
		respondServiceError(c, err)
		return
	}

	respondSuccess(c, 201, "Account created successfully", user)
}

// Login verifies credentials and returns the user with a bearer token.
func (h *Handlers) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, 422, bindingMessage(err))
		return
	}

	user, token, err := h.accounts.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondSuccess(c, 200, "Login successful", gin.H{"user": user, "token": token})
}

// isStrongPassword enforces the register password rule: at least 8 runes
// with one lowercase, one uppercase, one digit and one symbol.
func isStrongPassword(password string) bool {
	if len([]rune(password)) < 8 {
		return false
	}
	var lower, upper, digit, symbol bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		default:
			symbol = true
		}
	}
	return lower && upper && digit && symbol
}
