package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sahilchouksey/qbank-api/model"
	"github.com/sahilchouksey/qbank-api/utils/auth"
	"github.com/sahilchouksey/qbank-api/utils/response"
	"github.com/sahilchouksey/qbank-api/utils/validation"
	"gorm.io/gorm"
)

// AuthHandler handles authentication requests
type AuthHandler struct {
	db         *gorm.DB
	validator  *validation.Validator
	jwtManager *auth.JWTManager
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(db *gorm.DB, jwtManager *auth.JWTManager) *AuthHandler {
	return &AuthHandler{
		db:         db,
		validator:  validation.NewValidator(),
		jwtManager: jwtManager,
	}
}

// RegisterRequest represents the request body for registration
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required,min=2,max=255"`
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is the token payload returned on register/login
type AuthResponse struct {
	Token string             `json:"token"`
	User  model.UserResponse `json:"user"`
}

// Register handles POST /api/v1/auth/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	var existing model.User
	err := h.db.First(&existing, "email = ?", req.Email).Error
	if err == nil {
		return response.Conflict(c, "Email is already registered")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return response.InternalServerError(c, "Failed to check existing user")
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	user := model.User{
		ID:           uuid.New().String(),
		Email:        req.Email,
		PasswordHash: passwordHash,
		Name:         req.Name,
		Role:         "editor",
	}
	if err := h.db.Create(&user).Error; err != nil {
		return response.InternalServerError(c, "Failed to create user")
	}

	token, err := h.jwtManager.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		return response.InternalServerError(c, "Failed to generate token")
	}

	return response.Created(c, AuthResponse{Token: token, User: user.ToResponse()})
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	var user model.User
	if err := h.db.First(&user, "email = ?", req.Email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.Unauthorized(c, "Invalid email or password")
		}
		return response.InternalServerError(c, "Failed to fetch user")
	}

	if err := auth.VerifyPassword(user.PasswordHash, req.Password); err != nil {
		return response.Unauthorized(c, "Invalid email or password")
	}

	token, err := h.jwtManager.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		return response.InternalServerError(c, "Failed to generate token")
	}

	return response.Success(c, AuthResponse{Token: token, User: user.ToResponse()})
}

// Me handles GET /api/v1/auth/me
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, ok := c.Locals("user").(*model.User)
	if !ok {
		return response.Unauthorized(c, "")
	}
	return response.Success(c, user.ToResponse())
}
