package service

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/lshigami/Compiti/config"
	"github.com/lshigami/Compiti/internal/apperr"
	"github.com/lshigami/Compiti/internal/dto"
	"github.com/lshigami/Compiti/internal/model"
	"github.com/lshigami/Compiti/internal/repository"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService verifies credentials and mints/parses session tokens.
type AuthService interface {
	Login(name, password string) (*dto.LoginResponseDTO, error)
	ParseToken(token string) (model.Principal, error)
}

type sessionClaims struct {
	Name string `json:"name"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type authService struct {
	userRepo repository.UserRepository
	secret   []byte
	tokenTTL time.Duration
}

func NewAuthService(userRepo repository.UserRepository, cfg *config.Config) AuthService {
	return &authService{
		userRepo: userRepo,
		secret:   []byte(cfg.Auth.JWTSecret),
		tokenTTL: time.Duration(cfg.Auth.TokenTTLMinutes) * time.Minute,
	}
}

func (s *authService) Login(name, password string) (*dto.LoginResponseDTO, error) {
	user, err := s.userRepo.FindByName(name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn().Str("name", name).Msg("Login: unknown user")
			return nil, apperr.ErrUnauthenticated
		}
		return nil, &apperr.Storage{Err: err}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		log.Warn().Str("name", name).Msg("Login: wrong password")
		return nil, apperr.ErrUnauthenticated
	}

	now := time.Now()
	claims := sessionClaims{
		Name: user.Name,
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign session token: %w", err)
	}

	log.Info().Uint("userID", user.ID).Str("role", user.Role).Msg("Login successful")
	return &dto.LoginResponseDTO{
		ID:    user.ID,
		Name:  user.Name,
		Role:  user.Role,
		Token: token,
	}, nil
}

func (s *authService) ParseToken(tokenStr string) (model.Principal, error) {
	var claims sessionClaims
	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return model.Principal{}, apperr.ErrUnauthenticated
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 32)
	if err != nil || userID == 0 {
		return model.Principal{}, apperr.ErrUnauthenticated
	}

	return model.Principal{
		UserID: uint(userID),
		Name:   claims.Name,
		Role:   claims.Role,
	}, nil
}

// HashPassword produces the bcrypt hash stored on User rows. Used by the
// seed step; the API itself never writes credentials.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
