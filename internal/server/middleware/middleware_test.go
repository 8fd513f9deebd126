package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"atii-cms/internal/server/models"

	"github.com/gin-gonic/gin"
)

func newEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", append(handlers, func(c *gin.Context) {
		c.String(http.StatusOK, CurrentUsername(c))
	})...)
	return r
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func withUser(user *models.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(currentUserKey, user)
		c.Next()
	}
}

func TestAdminMiddleware(t *testing.T) {
	cases := []struct {
		name  string
		chain []gin.HandlerFunc
		code  int
		body  string
	}{
		{"anonymous", []gin.HandlerFunc{AdminMiddleware()}, http.StatusForbidden, ""},
		{"editor", []gin.HandlerFunc{withUser(&models.User{Username: "editor"}), AdminMiddleware()}, http.StatusForbidden, ""},
		{"admin", []gin.HandlerFunc{withUser(&models.User{Username: "root", IsAdmin: true}), AdminMiddleware()}, http.StatusOK, "root"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := serve(newEngine(tc.chain...), httptest.NewRequest(http.MethodGet, "/", nil))
			if w.Code != tc.code {
				t.Fatalf("code = %d, want %d", w.Code, tc.code)
			}
			if tc.body != "" && w.Body.String() != tc.body {
				t.Errorf("body = %q", w.Body.String())
			}
		})
	}
}

func TestCurrentUsernameAnonymous(t *testing.T) {
	w := serve(newEngine(), httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Body.String() != "-" {
		t.Errorf("anonymous username = %q", w.Body.String())
	}
}

func TestCORS(t *testing.T) {
	r := newEngine(CORS(DefaultCORSConfig([]string{"https://atii.example"})))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://atii.example")
	w := serve(r, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://atii.example" {
		t.Errorf("allowed origin = %q", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
		t.Errorf("credentials = %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = serve(r, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("foreign origin echoed: %q", got)
	}
}

func TestSecurityHeaders(t *testing.T) {
	w := serve(newEngine(SecurityHeaders()), httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Header().Get("X-Content-Type-Options") != "nosniff" || w.Header().Get("X-Frame-Options") != "DENY" {
		t.Errorf("headers = %v", w.Header())
	}
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Recovery())
	r.GET("/", func(c *gin.Context) { panic("boom") })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusInternalServerError {
		t.Errorf("code = %d", w.Code)
	}
}
