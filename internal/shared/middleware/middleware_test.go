package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"

	"gatepass/internal/shared/config"
	"gatepass/internal/users"
)

const testSecret = "middleware-test-secret"

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:       testSecret,
			JWTExpiresIn: 15 * time.Minute,
		},
	}
}

func mintToken(t *testing.T, tokenType, role string, expiresIn time.Duration) string {
	t.Helper()
	now := time.Now()
	claims := jwt.MapClaims{
		"staff_id": "3f9c7a52-0000-0000-0000-000000000001",
		"username": "organizer",
		"role":     role,
		"type":     tokenType,
		"iat":      now.Unix(),
		"exp":      now.Add(expiresIn).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func newProtectedRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	chain := append([]gin.HandlerFunc{JWTAuthWithConfig(testConfig())}, handlers...)
	chain = append(chain, func(c *gin.Context) {
		role, _ := c.Get("staff_role")
		c.JSON(http.StatusOK, gin.H{"role": role})
	})
	r.GET("/protected", chain...)
	return r
}

func doRequest(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuthMissingHeader(t *testing.T) {
	w := doRequest(newProtectedRouter(), "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestJWTAuthMalformedHeader(t *testing.T) {
	w := doRequest(newProtectedRouter(), "Basic abcdef")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestJWTAuthInvalidToken(t *testing.T) {
	w := doRequest(newProtectedRouter(), "Bearer not.a.token")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestJWTAuthExpiredToken(t *testing.T) {
	token := mintToken(t, "access", string(users.RoleOrganizer), -time.Minute)
	w := doRequest(newProtectedRouter(), "Bearer "+token)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for expired token, got %d", w.Code)
	}
}

func TestJWTAuthRejectsRefreshToken(t *testing.T) {
	token := mintToken(t, "refresh", string(users.RoleOrganizer), time.Hour)
	w := doRequest(newProtectedRouter(), "Bearer "+token)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for refresh token, got %d", w.Code)
	}
}

func TestJWTAuthValidTokenSetsContext(t *testing.T) {
	token := mintToken(t, "access", string(users.RoleOrganizer), time.Hour)
	w := doRequest(newProtectedRouter(), "Bearer "+token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRequireRolesAllows(t *testing.T) {
	token := mintToken(t, "access", string(users.RoleAdmin), time.Hour)
	r := newProtectedRouter(RequireRoles(string(users.RoleOrganizer), string(users.RoleAdmin)))
	w := doRequest(r, "Bearer "+token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestRequireRolesForbids(t *testing.T) {
	token := mintToken(t, "access", string(users.RoleOrganizer), time.Hour)
	r := newProtectedRouter(RequireAdmin())
	w := doRequest(r, "Bearer "+token)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
}
