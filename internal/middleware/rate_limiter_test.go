package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newTestLimiter(max int, window time.Duration) (*IPRateLimiter, *time.Time) {
	current := time.Now()
	l := &IPRateLimiter{
		max:    max,
		window: window,
		state:  make(map[string][]time.Time),
		now:    func() time.Time { return current },
	}
	return l, &current
}

func TestAllowWithinLimit(t *testing.T) {
	l, _ := newTestLimiter(5, time.Minute)

	for i := 0; i < 5; i++ {
		assert.True(t, l.Allow("10.0.0.1"), "attempt %d", i+1)
	}
	assert.False(t, l.Allow("10.0.0.1"), "sixth attempt in the window must be rejected")
}

func TestAllowIsPerKey(t *testing.T) {
	l, _ := newTestLimiter(1, time.Minute)

	assert.True(t, l.Allow("10.0.0.1"))
	assert.False(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.2"), "a different client has its own window")
}

func TestAllowWindowSlides(t *testing.T) {
	l, clock := newTestLimiter(2, time.Minute)

	assert.True(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.1"))
	assert.False(t, l.Allow("10.0.0.1"))

	*clock = clock.Add(61 * time.Second)
	assert.True(t, l.Allow("10.0.0.1"), "attempts outside the window no longer count")
}

func TestRejectedAttemptsDoNotExtendTheWindow(t *testing.T) {
	l, clock := newTestLimiter(1, time.Minute)

	assert.True(t, l.Allow("10.0.0.1"))
	for i := 0; i < 10; i++ {
		*clock = clock.Add(5 * time.Second)
		assert.False(t, l.Allow("10.0.0.1"))
	}
	*clock = clock.Add(15 * time.Second) // 65s after the only counted attempt
	assert.True(t, l.Allow("10.0.0.1"))
}

func TestMiddlewareReturns429(t *testing.T) {
	gin.SetMode(gin.TestMode)

	l, _ := newTestLimiter(1, time.Minute)
	router := gin.New()
	router.GET("/spin", l.Middleware("Too many spin attempts, please try again later"), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	first := httptest.NewRecorder()
	router.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/spin", nil))
	assert.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	router.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/spin", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.JSONEq(t, `{"error":"Too many spin attempts, please try again later"}`, second.Body.String())
}
