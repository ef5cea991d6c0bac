package middleware

import (
	"os"
	"strconv"
	"time"

	"invoicing/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AuthClaims is the token payload: who the caller is and which role gates
// apply. The jti claim makes every issued token distinguishable.
type AuthClaims struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

func GetJWTSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		if os.Getenv("GIN_MODE") == "release" {
			panic("FATAL: JWT_SECRET environment variable is required in production mode")
		}
		secret = "default_super_secret_key" // Development fallback only — DO NOT use in production
	}
	return []byte(secret)
}

func GetJWTIssuer() string {
	if issuer := os.Getenv("JWT_ISSUER"); issuer != "" {
		return issuer
	}
	return "InvoiceManagementAPI"
}

func GetJWTAudience() string {
	if audience := os.Getenv("JWT_AUDIENCE"); audience != "" {
		return audience
	}
	return "InvoiceManagementClient"
}

func GetJWTExpiry() time.Duration {
	if raw := os.Getenv("JWT_EXPIRY_MINUTES"); raw != "" {
		if minutes, err := strconv.Atoi(raw); err == nil && minutes > 0 {
			return time.Duration(minutes) * time.Minute
		}
	}
	return 480 * time.Minute
}

// NewToken issues a signed HS256 token for the user.
func NewToken(user *model.User) (string, error) {
	now := time.Now()
	claims := AuthClaims{
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			Issuer:    GetJWTIssuer(),
			Audience:  jwt.ClaimStrings{GetJWTAudience()},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(GetJWTExpiry())),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(GetJWTSecret())
}

// ParseToken validates signature, issuer, audience and expiry, returning the
// claims on success.
func ParseToken(tokenString string) (*AuthClaims, error) {
	claims := &AuthClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return GetJWTSecret(), nil
	},
		jwt.WithIssuer(GetJWTIssuer()),
		jwt.WithAudience(GetJWTAudience()),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}
	return claims, nil
}
