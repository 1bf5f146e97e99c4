package user

import (
	"crypto/rsa"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
	"golang.org/x/crypto/bcrypt"

	"github.com/TravisBumgarner/just-recordings-sub001/internal/api"
)

type Service struct {
	repository Repository
	config     Config
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
}

func NewService(repository Repository, config Config, privateKey *rsa.PrivateKey, publicKey *rsa.PublicKey) *Service {
	return &Service{
		repository: repository,
		config:     config,
		privateKey: privateKey,
		publicKey:  publicKey,
	}
}

func (s *Service) Register(req RegisterRequest) (*User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	name := strings.TrimSpace(req.Name)
	if email == "" || !strings.Contains(email, "@") || len(req.Password) < 8 {
		return nil, api.NewError(api.CodeInvalidInput)
	}

	existing, err := s.repository.GetUserByEmail(email)
	if err != nil {
		return nil, api.WrapError(api.CodeInternal, err)
	}
	if existing != nil {
		return nil, api.NewError(api.CodeInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, api.WrapError(api.CodeInternal, err)
	}

	u := &User{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().Unix(),
	}

	if err := s.repository.CreateUser(u); err != nil {
		return nil, api.WrapError(api.CodeInternal, err)
	}

	return u, nil
}

func (s *Service) Login(req LoginRequest) (*LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	u, err := s.repository.GetUserByEmail(email)
	if err != nil {
		return nil, api.WrapError(api.CodeInternal, err)
	}
	if u == nil {
		return nil, api.NewError(api.CodeUnauthorized)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, api.NewError(api.CodeUnauthorized)
	}

	token, expiresAt, err := s.GenerateJWT(u)
	if err != nil {
		return nil, api.WrapError(api.CodeInternal, err)
	}

	return &LoginResponse{Token: token, ExpiresAt: expiresAt, User: u}, nil
}

func (s *Service) ValidateJWTFromRequest(ctx *fasthttp.RequestCtx) (*User, error) {
	authHeader := ctx.Request.Header.Peek(headerAuthorization)
	if authHeader == nil {
		return nil, fmt.Errorf("missing authorization header")
	}

	tokenString, err := extractJWTFromAuthorizationHeader(string(authHeader))
	if err != nil {
		return nil, fmt.Errorf("invalid authorization header: %w", err)
	}

	return s.ValidateJWT(tokenString)
}

func (s *Service) GenerateJWT(u *User) (string, int64, error) {
	expiresAt := time.Now().Add(time.Duration(s.config.JWTExpirationHours) * time.Hour).Unix()

	claims := JWTClaims{
		UserID: u.ID,
		Email:  u.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Unix(expiresAt, 0)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	tokenString, err := token.SignedString(s.privateKey)
	if err != nil {
		return "", 0, err
	}

	return tokenString, expiresAt, nil
}

func (s *Service) ValidateJWT(tokenString string) (*User, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.publicKey, nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		u, err := s.repository.GetUserByID(claims.UserID)
		if err != nil {
			return nil, err
		}
		if u == nil {
			return nil, fmt.Errorf("user no longer exists")
		}
		return u, nil
	}

	return nil, fmt.Errorf("invalid token")
}

func extractJWTFromAuthorizationHeader(authHeader string) (string, error) {
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != headerBearer {
		return "", fmt.Errorf("invalid Authorization header format")
	}
	return parts[1], nil
}
