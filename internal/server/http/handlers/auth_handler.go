package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/swiftdrop/swiftdrop/internal/domain/errors"
	"github.com/swiftdrop/swiftdrop/internal/domain/model"
	"github.com/swiftdrop/swiftdrop/internal/server/http/dto"
	"github.com/swiftdrop/swiftdrop/internal/server/http/middleware"
)

// AuthHandler processes registration, login and identity lookups.
type AuthHandler struct {
	facade AuthFacade
}

// NewAuthHandler creates AuthHandler instance.
func NewAuthHandler(facade AuthFacade) *AuthHandler {
	return &AuthHandler{facade: facade}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "malformed request body"})
		return
	}

	user, token, err := h.facade.Register(c.Request.Context(), req.Name, req.Login, req.Password, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrValidation):
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "name, login, password and a registrable role are required"})
		case errors.Is(err, domainErrors.ErrAlreadyExists):
			c.JSON(http.StatusConflict, dto.ErrorResponse{Error: "login is already taken"})
		case errors.Is(err, domainErrors.ErrUnavailable):
			c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Error: "service temporarily unavailable"})
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	middleware.SetAuthCookie(c, token)
	c.JSON(http.StatusCreated, toUserResponse(user))
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "malformed request body"})
		return
	}

	user, token, err := h.facade.Authenticate(c.Request.Context(), req.Login, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "invalid login or password"})
		case errors.Is(err, domainErrors.ErrUnavailable):
			c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Error: "service temporarily unavailable"})
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	middleware.SetAuthCookie(c, token)
	c.JSON(http.StatusOK, toUserResponse(user))
}

// Me handles GET /api/auth/me.
func (h *AuthHandler) Me(c *gin.Context) {
	actor := CurrentActor(c)

	user, err := h.facade.User(c.Request.Context(), actor.ID)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrNotFound):
			c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "user not found"})
		case errors.Is(err, domainErrors.ErrUnavailable):
			c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Error: "service temporarily unavailable"})
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	c.JSON(http.StatusOK, toUserResponse(user))
}

func toUserResponse(user *model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:    user.ID,
		Name:  user.Name,
		Login: user.Login,
		Role:  string(user.Role),
	}
}
