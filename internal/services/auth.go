package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	bcryptCost       = 12
	refreshKeyPrefix = "refresh:"
)

var (
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidAccessToken  = errors.New("invalid access token")
	ErrRefreshTokenInvalid = errors.New("refresh token invalid or expired")
)

type AuthService struct {
	db              DBConn
	redis           RedisClient
	jwtSecret       []byte
	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration
}

func NewAuthService(db DBConn, redis RedisClient, jwtSecret string, accessTTL, refreshTTL time.Duration) *AuthService {
	return &AuthService{
		db:              db,
		redis:           redis,
		jwtSecret:       []byte(jwtSecret),
		accessTokenTTL:  accessTTL,
		refreshTokenTTL: refreshTTL,
	}
}

func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

func (s *AuthService) VerifyPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// GenerateAccessToken issues a short-lived HS256 JWT whose subject is the
// user id.
func (s *AuthService) GenerateAccessToken(userID uuid.UUID) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTokenTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("signing access token: %w", err)
	}
	return signed, nil
}

// ParseAccessToken validates a JWT and returns the user id it names.
func (s *AuthService) ParseAccessToken(tokenString string) (uuid.UUID, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, ErrInvalidAccessToken
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return uuid.Nil, ErrInvalidAccessToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, ErrInvalidAccessToken
	}
	return userID, nil
}

func generateRefreshToken() (token string, hash string, err error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", "", fmt.Errorf("generating random bytes: %w", err)
	}
	token = hex.EncodeToString(bytes)
	return token, hashToken(token), nil
}

func hashToken(token string) string {
	hashBytes := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hashBytes[:])
}

// CreateRefreshToken stores an opaque refresh token, Redis first with a
// PostgreSQL fallback when Redis is unavailable.
func (s *AuthService) CreateRefreshToken(ctx context.Context, userID uuid.UUID) (string, error) {
	token, tokenHash, err := generateRefreshToken()
	if err != nil {
		return "", err
	}

	err = s.redis.Set(ctx, refreshKeyPrefix+tokenHash, userID.String(), s.refreshTokenTTL)
	if err != nil {
		expiresAt := time.Now().Add(s.refreshTokenTTL)
		_, err = s.db.Exec(ctx,
			"INSERT INTO refresh_tokens (user_id, token_hash, expires_at) VALUES ($1, $2, $3)",
			userID, tokenHash, expiresAt,
		)
		if err != nil {
			return "", fmt.Errorf("storing refresh token: %w", err)
		}
	}

	return token, nil
}

// ValidateRefreshToken returns the user id a refresh token belongs to.
func (s *AuthService) ValidateRefreshToken(ctx context.Context, token string) (uuid.UUID, error) {
	tokenHash := hashToken(token)

	userIDStr, err := s.redis.Get(ctx, refreshKeyPrefix+tokenHash)
	if err == nil {
		userID, err := uuid.Parse(userIDStr)
		if err != nil {
			return uuid.Nil, fmt.Errorf("parsing user id: %w", err)
		}
		return userID, nil
	}

	// Redis miss or outage: try the fallback table.
	var userID uuid.UUID
	var expiresAt time.Time
	err = s.db.QueryRow(ctx,
		"SELECT user_id, expires_at FROM refresh_tokens WHERE token_hash = $1",
		tokenHash,
	).Scan(&userID, &expiresAt)
	if err != nil {
		return uuid.Nil, ErrRefreshTokenInvalid
	}
	if time.Now().After(expiresAt) {
		_, _ = s.db.Exec(ctx, "DELETE FROM refresh_tokens WHERE token_hash = $1", tokenHash)
		return uuid.Nil, ErrRefreshTokenInvalid
	}

	return userID, nil
}

// RotateRefreshToken revokes the presented token and issues a fresh one.
func (s *AuthService) RotateRefreshToken(ctx context.Context, token string) (uuid.UUID, string, error) {
	userID, err := s.ValidateRefreshToken(ctx, token)
	if err != nil {
		return uuid.Nil, "", err
	}
	if err := s.RevokeRefreshToken(ctx, token); err != nil {
		return uuid.Nil, "", err
	}
	newToken, err := s.CreateRefreshToken(ctx, userID)
	if err != nil {
		return uuid.Nil, "", err
	}
	return userID, newToken, nil
}

func (s *AuthService) RevokeRefreshToken(ctx context.Context, token string) error {
	tokenHash := hashToken(token)
	_ = s.redis.Del(ctx, refreshKeyPrefix+tokenHash)
	if _, err := s.db.Exec(ctx, "DELETE FROM refresh_tokens WHERE token_hash = $1", tokenHash); err != nil {
		return fmt.Errorf("revoking refresh token: %w", err)
	}
	return nil
}
