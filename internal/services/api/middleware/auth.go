package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/mavericklabs/sparks-files/env"
)

const (
	CtxEmail = "authEmail"
)

type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Gate validates the bearer token and checks the principal against the
// allow-list. The rest of the service treats this as a boolean
// precondition and never looks at identity again.
type Gate struct {
	secret  []byte
	allowed map[string]struct{}
}

func NewGate() (*Gate, error) {
	secret, err := env.Get(env.JWTSecret)
	if err != nil {
		return nil, err
	}

	allowed := make(map[string]struct{})
	for _, email := range strings.Split(env.GetOptional(env.AllowedEmails, ""), ",") {
		email = strings.TrimSpace(strings.ToLower(email))
		if email != "" {
			allowed[email] = struct{}{}
		}
	}

	return &Gate{
		secret:  []byte(secret),
		allowed: allowed,
	}, nil
}

func (g *Gate) ValidateToken(tokenStr string) (*Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(tokenStr, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return g.secret, nil
	})
	if err != nil {
		return nil, err
	}
	return &claims, nil
}

func (g *Gate) allows(email string) bool {
	if len(g.allowed) == 0 {
		return true
	}
	_, ok := g.allowed[strings.ToLower(email)]
	return ok
}

func Auth(gate *Gate) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(
				http.StatusUnauthorized,
				gin.H{"error": "missing Authorization header"},
			)
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenStr == authHeader {
			c.AbortWithStatusJSON(
				http.StatusUnauthorized,
				gin.H{"error": "invalid token format"},
			)
			return
		}

		claims, err := gate.ValidateToken(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(
				http.StatusUnauthorized,
				gin.H{"error": "invalid token"},
			)
			return
		}

		if !gate.allows(claims.Email) {
			c.AbortWithStatusJSON(
				http.StatusForbidden,
				gin.H{"error": "not authorized"},
			)
			return
		}

		c.Set(CtxEmail, claims.Email)
		c.Next()
	}
}
