package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func ingestTestRouter(rl *RateLimiter) *gin.Engine {
	r := gin.New()
	r.Use(rl.Middleware())
	r.POST("/comments/ingest", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func hitIngest(router *gin.Engine, remoteAddr string) int {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/comments/ingest", nil)
	req.RemoteAddr = remoteAddr
	router.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimiter_WithinBurst(t *testing.T) {
	router := ingestTestRouter(NewRateLimiter(1, 3))

	for i := 0; i < 3; i++ {
		if code := hitIngest(router, "203.0.113.5:4000"); code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want %d", i+1, code, http.StatusOK)
		}
	}
}

func TestRateLimiter_RejectsBeyondBurst(t *testing.T) {
	router := ingestTestRouter(NewRateLimiter(1, 2))

	hitIngest(router, "203.0.113.6:4000")
	hitIngest(router, "203.0.113.6:4000")

	if code := hitIngest(router, "203.0.113.6:4000"); code != http.StatusTooManyRequests {
		t.Errorf("third rapid request: status = %d, want %d", code, http.StatusTooManyRequests)
	}
}

func TestRateLimiter_BucketsPerIP(t *testing.T) {
	router := ingestTestRouter(NewRateLimiter(1, 1))

	if code := hitIngest(router, "198.51.100.1:4000"); code != http.StatusOK {
		t.Fatalf("first ip: status = %d, want %d", code, http.StatusOK)
	}
	if code := hitIngest(router, "198.51.100.1:4000"); code != http.StatusTooManyRequests {
		t.Errorf("first ip second hit: status = %d, want %d", code, http.StatusTooManyRequests)
	}

	// a different caller still has a full bucket
	if code := hitIngest(router, "198.51.100.2:4000"); code != http.StatusOK {
		t.Errorf("second ip: status = %d, want %d", code, http.StatusOK)
	}
}
