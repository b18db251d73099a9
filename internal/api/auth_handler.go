package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kafkaan/fit-coach-link/internal/domain"
	"github.com/kafkaan/fit-coach-link/internal/notify"
	"github.com/kafkaan/fit-coach-link/internal/service"
)

// AuthHandler serves sign-up, sign-in and the caller's own profile.
type AuthHandler struct {
	authService    service.AuthService
	profileService service.ProfileService
	notifier       *notify.Notifier
}

func NewAuthHandler(authService service.AuthService, profileService service.ProfileService, notifier *notify.Notifier) *AuthHandler {
	return &AuthHandler{authService: authService, profileService: profileService, notifier: notifier}
}

// --- Request/Response Structs ---

type RegisterRequest struct {
	FirstName string      `json:"firstName" binding:"required"`
	LastName  string      `json:"lastName"`
	Email     string      `json:"email" binding:"required,email"`
	Password  string      `json:"password" binding:"required,min=8"`
	Role      domain.Role `json:"role" binding:"required,oneof=coach athlete"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token   string          `json:"token"`
	Profile *domain.Profile `json:"profile"`
}

// ThemeRequest sets or, with a null theme, clears the preference.
type ThemeRequest struct {
	Theme *domain.Theme `json:"theme"`
}

// UpdateProfileRequest replaces the editable profile fields together.
type UpdateProfileRequest struct {
	FirstName string        `json:"firstName" binding:"required"`
	LastName  string        `json:"lastName"`
	AvatarURL string        `json:"avatarUrl"`
	Theme     *domain.Theme `json:"theme"`
}

// --- Handler Methods ---

// Register godoc
// @Summary Register a new coach or athlete
// @Tags Auth
// @Accept json
// @Produce json
// @Param profile body RegisterRequest true "Registration details"
// @Success 201 {object} domain.Profile "Profile created"
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 409 {object} ErrorResponse "Email already registered"
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	profile, err := h.authService.Register(c.Request.Context(), service.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Role:      req.Role,
	})
	if err != nil {
		respondError(c, h.notifier, "register", err)
		return
	}
	c.JSON(http.StatusCreated, profile)
}

// Login godoc
// @Summary Log in and receive a JWT
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Login credentials"
// @Success 200 {object} LoginResponse "Login successful"
// @Failure 401 {object} gin.H "Invalid credentials"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	token, profile, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrAuthenticationFailed) {
			abortWithError(c, http.StatusUnauthorized, err.Error())
			return
		}
		respondError(c, h.notifier, "login", err)
		return
	}
	c.JSON(http.StatusOK, LoginResponse{Token: token, Profile: profile})
}

func (h *AuthHandler) Me(c *gin.Context) {
	identity, ok := identityFrom(c)
	if !ok {
		return
	}
	profile, err := h.profileService.GetProfile(c.Request.Context(), identity.UserID)
	if err != nil {
		respondError(c, h.notifier, "load profile", err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *AuthHandler) UpdateTheme(c *gin.Context) {
	identity, ok := identityFrom(c)
	if !ok {
		return
	}
	var req ThemeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	profile, err := h.profileService.SetTheme(c.Request.Context(), identity.UserID, req.Theme)
	if err != nil {
		respondError(c, h.notifier, "update theme", err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateProfile godoc
// @Summary Update the caller's profile
// @Description Names, avatar and theme are written together. A missing theme clears it.
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateProfileRequest true "Profile fields"
// @Success 200 {object} domain.Profile
// @Failure 400 {object} ErrorResponse "Missing first name, bad avatar URL or unknown theme"
// @Router /me [put]
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	identity, ok := identityFrom(c)
	if !ok {
		return
	}
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	profile, err := h.profileService.UpdateProfile(c.Request.Context(), identity.UserID, service.ProfileUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		AvatarURL: req.AvatarURL,
		Theme:     req.Theme,
	})
	if err != nil {
		respondError(c, h.notifier, "update profile", err)
		return
	}
	c.JSON(http.StatusOK, profile)
}
