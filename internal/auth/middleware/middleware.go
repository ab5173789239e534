// Package authmw turns bearer tokens into the logged-in session of a request.
package authmw

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/profedug/GabaritaIF/internal/auth"
	"github.com/profedug/GabaritaIF/internal/rbac"
)

var ErrNoSession = errors.New("session ended")

type AuthService struct {
	hmac []byte
	ttl  time.Duration
}

func NewAuthService(secret string) *AuthService {
	return &AuthService{hmac: []byte(secret), ttl: 12 * time.Hour}
}

// Claims name the session; the actor itself stays on the server.
type Claims struct {
	Sub  string `json:"sub"`
	Role string `json:"role"`
	SID  string `json:"sid"`
	jwt.RegisteredClaims
}

func (a *AuthService) IssueJWT(sess *auth.Session) (string, error) {
	now := time.Now()
	actor := sess.Actor()
	claims := &Claims{
		Sub:  actor.ID(),
		Role: string(actor.Role),
		SID:  sess.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "gabaritaif",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(a.hmac)
}

func (a *AuthService) Parse(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return a.hmac, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	c, _ := token.Claims.(*Claims)
	return c, nil
}

// JWTMiddleware resolves the bearer token to a live session and puts the
// session, subject and role in the request context. Tokens outliving their
// session (logout, restart) are rejected.
func JWTMiddleware(a *AuthService, sessions *auth.Sessions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := r.Header.Get("Authorization")
			if !strings.HasPrefix(h, "Bearer ") {
				http.Error(w, "missing bearer", http.StatusUnauthorized)
				return
			}
			c, err := a.Parse(strings.TrimPrefix(h, "Bearer "))
			if err != nil {
				http.Error(w, "bad token", http.StatusUnauthorized)
				return
			}
			sess, ok := sessions.Get(c.SID)
			if !ok {
				http.Error(w, ErrNoSession.Error(), http.StatusUnauthorized)
				return
			}
			actor := sess.Actor()
			ctx := WithSession(r.Context(), sess)
			ctx = WithSubject(ctx, actor.ID())
			ctx = rbac.WithRole(ctx, string(actor.Role))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
