package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"github.com/yasir-hameed381/idreesia-backend1-sub000/config"
	"github.com/yasir-hameed381/idreesia-backend1-sub000/internal/dto"
	"github.com/yasir-hameed381/idreesia-backend1-sub000/pkg/jwt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestManager() *jwt.Manager {
	return jwt.NewManager(&config.AuthConfig{
		JWTSecret:      "test-secret-at-least-16",
		AccessTokenTTL: 15 * time.Minute,
	})
}

// principalEcho 返回注入的 principal 供断言
func principalEcho(got **dto.Principal) gin.HandlerFunc {
	return func(c *gin.Context) {
		if v, ok := c.Get("principal"); ok {
			*got, _ = v.(*dto.Principal)
		}
		c.Status(http.StatusOK)
	}
}

func TestJWTAuth_ValidTokenInjectsPrincipal(t *testing.T) {
	mgr := newTestManager()
	zoneID := uint(4)
	token, err := mgr.GenerateAccessToken(jwt.Identity{UserID: 7, UserType: "karkun", ZoneID: &zoneID, IsZoneAdmin: true})
	if err != nil {
		t.Fatalf("签发 token 失败: %v", err)
	}

	var got *dto.Principal
	r := gin.New()
	r.GET("/p", JWTAuth(mgr, nil, zap.NewNop()), principalEcho(&got))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/p", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got == nil || got.UserID != 7 || !got.IsZoneAdmin || got.ZoneID == nil || *got.ZoneID != 4 {
		t.Errorf("principal 不符: %+v", got)
	}
}

func TestJWTAuth_Rejects(t *testing.T) {
	other := jwt.NewManager(&config.AuthConfig{JWTSecret: "another-secret-value", AccessTokenTTL: time.Minute})
	foreign, _ := other.GenerateAccessToken(jwt.Identity{UserID: 1})

	cases := []struct {
		name   string
		header string
	}{
		{"missing", ""},
		{"bad scheme", "Token abc"},
		{"garbage", "Bearer not-a-jwt"},
		{"wrong secret", "Bearer " + foreign},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/p", JWTAuth(newTestManager(), nil, zap.NewNop()), func(c *gin.Context) { c.Status(http.StatusOK) })

			w := httptest.NewRecorder()
			req := httptest.NewRequest("GET", "/p", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			r.ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Errorf("expected 401, got %d", w.Code)
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	cases := []struct {
		name      string
		principal *dto.Principal
		want      int
	}{
		{"no principal", nil, http.StatusUnauthorized},
		{"plain karkun", &dto.Principal{UserID: 1}, http.StatusForbidden},
		{"mehfil admin", &dto.Principal{UserID: 1, IsMehfilAdmin: true}, http.StatusOK},
		{"super admin", &dto.Principal{UserID: 1, IsSuperAdmin: true}, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/p", func(c *gin.Context) {
				if tc.principal != nil {
					c.Set("principal", tc.principal)
				}
			}, RequireAdmin(), func(c *gin.Context) { c.Status(http.StatusOK) })

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest("GET", "/p", nil))

			if w.Code != tc.want {
				t.Errorf("expected %d, got %d", tc.want, w.Code)
			}
		})
	}
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/p", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(requestIDKey)) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/p", nil)
	req.Header.Set(requestIDHeader, "upstream-123")
	r.ServeHTTP(w, req)
	if w.Header().Get(requestIDHeader) != "upstream-123" || w.Body.String() != "upstream-123" {
		t.Errorf("期望沿用上游 ID，实际 header=%s body=%s", w.Header().Get(requestIDHeader), w.Body.String())
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/p", nil)
	req.Header.Set(requestIDHeader, "bad id\twith spaces")
	r.ServeHTTP(w, req)
	if got := w.Header().Get(requestIDHeader); got == "" || strings.Contains(got, " ") {
		t.Errorf("非法 ID 应被替换，实际=%q", got)
	}
}

func TestBodyLimit_RejectsLargeContentLength(t *testing.T) {
	r := gin.New()
	r.Use(BodyLimit(8))
	r.POST("/p", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/p", strings.NewReader("0123456789")))

	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("expected 413, got %d", w.Code)
	}
}

func TestRateLimit_NilRedisPassesThrough(t *testing.T) {
	r := gin.New()
	r.Use(RateLimit(nil, 1, time.Minute, zap.NewNop()))
	r.GET("/p", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("GET", "/p", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("Redis 不可用时应放行，第 %d 次得到 %d", i+1, w.Code)
		}
	}
}

func TestMetrics_CountsByRouteTemplate(t *testing.T) {
	r := gin.New()
	r.Use(Metrics())
	r.GET("/rosters/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	counter := httpRequestsTotal.WithLabelValues("GET", "/rosters/:id", "200")
	before := testutil.ToFloat64(counter)
	for _, path := range []string{"/rosters/1", "/rosters/2"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", path, nil))
	}

	if got := testutil.ToFloat64(counter) - before; got != 2 {
		t.Errorf("期望按路由模板累计 2 次，实际=%v", got)
	}
}
