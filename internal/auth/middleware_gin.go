package auth

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sabaispa/sabai/internal/observability/obscontext"
)

// Claims is the token payload the identity provider signs.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// GinMiddleware parses the Authorization bearer token and stores the
// principal in the request context. Requests without a valid token are
// rejected before any handler runs.
func GinMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, err := parseBearer(c.GetHeader("Authorization"), secret)
		if err != nil {
			c.AbortWithStatusJSON(401, gin.H{"error": gin.H{"code": "unauthorized", "message": "missing or invalid credentials"}})
			return
		}

		ctx := WithPrincipal(c.Request.Context(), principal)
		ctx = obscontext.WithActor(ctx, "user", principal.UserID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func parseBearer(header, secret string) (Principal, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return Principal{}, ErrUnauthorized
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return Principal{}, ErrUnauthorized
	}

	var claims Claims
	token, err := jwt.ParseWithClaims(strings.TrimSpace(parts[1]), &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return Principal{}, ErrUnauthorized
	}

	role := Role(strings.ToLower(strings.TrimSpace(claims.Role)))
	if claims.Subject == "" || !ValidRole(role) {
		return Principal{}, ErrUnauthorized
	}
	return Principal{UserID: claims.Subject, Role: role}, nil
}
