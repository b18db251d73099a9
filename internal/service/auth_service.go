package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/kafkaan/fit-coach-link/internal/domain"
	"github.com/kafkaan/fit-coach-link/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// --- Error Definitions ---
var (
	ErrUserAlreadyExists    = errors.New("user with this email already exists")
	ErrAuthenticationFailed = errors.New("authentication failed: invalid email or password")
	ErrHashingFailed        = errors.New("failed to hash password")
	ErrTokenGeneration      = errors.New("failed to generate authentication token")
	ErrInvalidToken         = errors.New("invalid or expired token")
)

// RegisterInput carries the fields of a sign-up.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Role      domain.Role
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.Profile, error)
	Login(ctx context.Context, email, password string) (token string, profile *domain.Profile, err error)
	// ParseToken verifies a token and returns the identity it was issued for.
	ParseToken(token string) (domain.Identity, error)
}

type authService struct {
	profileRepo   repository.ProfileRepository
	jwtSecret     string
	jwtExpiration time.Duration
	now           func() time.Time
}

// NewAuthService creates a new instance of authService.
func NewAuthService(profileRepo repository.ProfileRepository, jwtSecret string, jwtExpiration time.Duration) AuthService {
	if jwtSecret == "" {
		panic("JWT secret cannot be empty")
	}
	if jwtExpiration <= 0 {
		jwtExpiration = time.Hour
	}
	return &authService{
		profileRepo:   profileRepo,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
		now:           time.Now,
	}
}

// Register handles new profile registration.
func (s *authService) Register(ctx context.Context, in RegisterInput) (*domain.Profile, error) {
	email := domain.NormalizeEmail(in.Email)
	if strings.TrimSpace(in.FirstName) == "" || email == "" || in.Password == "" {
		return nil, &domain.ValidationError{Field: "profile", Reason: "first name, email and password are required"}
	}
	if !in.Role.Valid() {
		return nil, &domain.ValidationError{Field: "role", Reason: "must be coach or athlete"}
	}

	_, err := s.profileRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil, ErrUserAlreadyExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrHashingFailed
	}

	profile := &domain.Profile{
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         in.Role,
	}

	id, err := s.profileRepo.Create(ctx, profile)
	if err != nil {
		// lost the race against a concurrent sign-up with the same email
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrUserAlreadyExists
		}
		return nil, err
	}
	profile.ID = id
	profile.PasswordHash = ""
	return profile, nil
}

// Login handles authentication and JWT generation.
func (s *authService) Login(ctx context.Context, email, password string) (string, *domain.Profile, error) {
	if email == "" || password == "" {
		return "", nil, &domain.ValidationError{Field: "credentials", Reason: "email and password are required"}
	}

	profile, err := s.profileRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrAuthenticationFailed
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrAuthenticationFailed
	}

	token, err := s.generateJWT(profile)
	if err != nil {
		return "", nil, ErrTokenGeneration
	}

	profile.PasswordHash = ""
	return token, profile, nil
}

// --- JWT Helper ---

type jwtClaims struct {
	UserID string      `json:"uid"`
	Role   domain.Role `json:"role"`
	Email  string      `json:"email"`
	jwt.RegisteredClaims
}

func (s *authService) generateJWT(profile *domain.Profile) (string, error) {
	now := s.now()
	claims := &jwtClaims{
		UserID: profile.ID.Hex(),
		Role:   profile.Role,
		Email:  profile.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   profile.ID.Hex(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtExpiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "fit-coach-link",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *authService) ParseToken(tokenString string) (domain.Identity, error) {
	claims := &jwtClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return domain.Identity{}, ErrInvalidToken
	}

	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil || !claims.Role.Valid() {
		return domain.Identity{}, ErrInvalidToken
	}
	return domain.Identity{UserID: id, Role: claims.Role, Email: claims.Email}, nil
}
