package serverutils

import (
	"errors"
	"strings"
	"time"

	"physio-notes-be/internal/pkg/apperror"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

const verifiedTokenTTL = 5 * time.Minute

// TokenVerifier checks Supabase access tokens (HS256, user id in "sub").
// Verified tokens are cached for five minutes.
type TokenVerifier struct {
	secret []byte
	cache  *cache.Cache
}

func NewTokenVerifier(secret string) *TokenVerifier {
	return &TokenVerifier{
		secret: []byte(secret),
		cache:  cache.New(verifiedTokenTTL, 10*time.Minute),
	}
}

func (v *TokenVerifier) Verify(tokenStr string) (uuid.UUID, error) {
	if x, found := v.cache.Get(tokenStr); found {
		return x.(uuid.UUID), nil
	}
	if len(v.secret) == 0 {
		return uuid.Nil, errors.New("token verification is not configured")
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return uuid.Nil, err
	}

	sub, err := token.Claims.GetSubject()
	if err != nil {
		return uuid.Nil, err
	}
	userID, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, errors.New("token subject is not a user id")
	}

	ttl := verifiedTokenTTL
	if exp, err := token.Claims.GetExpirationTime(); err == nil && exp != nil {
		if left := time.Until(exp.Time); left < ttl {
			ttl = left
		}
	}
	if ttl > 0 {
		v.cache.Set(tokenStr, userID, ttl)
	}
	return userID, nil
}

// Middleware rejects requests without a valid bearer token and stores the
// user id in Locals("user_id").
func (v *TokenVerifier) Middleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		tokenStr := BearerToken(ctx)
		if tokenStr == "" {
			return apperror.NewUnauthorized("Missing token")
		}
		userID, err := v.Verify(tokenStr)
		if err != nil {
			return apperror.NewUnauthorized("Invalid token")
		}
		ctx.Locals("user_id", userID.String())
		return ctx.Next()
	}
}

func BearerToken(ctx *fiber.Ctx) string {
	authHeader := ctx.Get("Authorization")
	if len(authHeader) < 7 || !strings.EqualFold(authHeader[:7], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(authHeader[7:])
}

// UserID reads the id stored by Middleware.
func UserID(ctx *fiber.Ctx) (uuid.UUID, error) {
	userIdStr, ok := ctx.Locals("user_id").(string)
	if !ok {
		return uuid.Nil, apperror.NewUnauthorized("Unauthorized")
	}
	userId, err := uuid.Parse(userIdStr)
	if err != nil {
		return uuid.Nil, apperror.NewUnauthorized("Invalid user ID")
	}
	return userId, nil
}
