package grpcserver

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const (
	authorizationHeader = "authorization"
	bearerPrefix        = "Bearer "
	errorMissingToken   = "missing_service_token"
	errorInvalidToken   = "invalid_service_token"
)

// ErrEmptySigningKey is returned when a token validator has no key.
var ErrEmptySigningKey = errors.New("service token signing key is required")

// TokenValidator checks the HS256 service token the bot attaches to every call.
type TokenValidator struct {
	signingKey []byte
	issuer     string
	nowFn      func() time.Time
}

// NewTokenValidator returns a validator for tokens signed with signingKey.
// An empty issuer accepts any issuer.
func NewTokenValidator(signingKey string, issuer string, now func() time.Time) (*TokenValidator, error) {
	if strings.TrimSpace(signingKey) == "" {
		return nil, ErrEmptySigningKey
	}
	if now == nil {
		now = time.Now
	}
	return &TokenValidator{signingKey: []byte(signingKey), issuer: issuer, nowFn: now}, nil
}

// Validate parses and verifies a raw token.
func (validator *TokenValidator) Validate(rawToken string) (*jwt.RegisteredClaims, error) {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(validator.nowFn),
		jwt.WithExpirationRequired(),
	}
	if validator.issuer != "" {
		options = append(options, jwt.WithIssuer(validator.issuer))
	}
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(rawToken, claims, func(*jwt.Token) (any, error) {
		return validator.signingKey, nil
	}, options...)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// UnaryInterceptor rejects calls without a valid bearer token.
func (validator *TokenValidator) UnaryInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, request any, _ *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		incoming, _ := metadata.FromIncomingContext(ctx)
		values := incoming.Get(authorizationHeader)
		if len(values) == 0 || !strings.HasPrefix(values[0], bearerPrefix) {
			return nil, status.Error(codes.Unauthenticated, errorMissingToken)
		}
		if _, err := validator.Validate(strings.TrimPrefix(values[0], bearerPrefix)); err != nil {
			return nil, status.Error(codes.Unauthenticated, errorInvalidToken)
		}
		return handler(ctx, request)
	}
}

// MintServiceToken signs a token a client can present with BearerToken.
func MintServiceToken(signingKey string, issuer string, subject string, ttl time.Duration, now time.Time) (string, error) {
	if strings.TrimSpace(signingKey) == "" {
		return "", ErrEmptySigningKey
	}
	claims := jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(signingKey))
}

// BearerToken attaches a service token to outgoing calls.
type BearerToken string

// GetRequestMetadata implements credentials.PerRPCCredentials.
func (token BearerToken) GetRequestMetadata(context.Context, ...string) (map[string]string, error) {
	return map[string]string{authorizationHeader: bearerPrefix + string(token)}, nil
}

// RequireTransportSecurity is false so the bot can reach the daemon over a local socket.
func (BearerToken) RequireTransportSecurity() bool { return false }
