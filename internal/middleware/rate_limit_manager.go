package middleware

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type limiterPool struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	idleTTL  time.Duration
}

func newLimiterPool(idleTTL time.Duration) *limiterPool {
	return &limiterPool{visitors: make(map[string]*visitor), idleTTL: idleTTL}
}

// get returns the limiter of key, creating one that allows requests per
// window with the given burst.
func (p *limiterPool) get(key string, requests, windowSeconds, burst int) *rate.Limiter {
	if requests <= 0 {
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if v, ok := p.visitors[key]; ok {
		v.lastSeen = time.Now()
		return v.limiter
	}

	if windowSeconds <= 0 {
		windowSeconds = 60
	}
	if burst < requests {
		burst = requests
	}
	limiter := rate.NewLimiter(rate.Limit(float64(requests)/float64(windowSeconds)), burst)
	p.visitors[key] = &visitor{limiter: limiter, lastSeen: time.Now()}
	return limiter
}

func (p *limiterPool) cleanup(now time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for key, v := range p.visitors {
		if now.Sub(v.lastSeen) > p.idleTTL {
			delete(p.visitors, key)
		}
	}
}

// RateLimitManager keeps per-IP limiters for general traffic and for
// uploads, and drops idle ones in the background.
type RateLimitManager struct {
	general *limiterPool
	uploads *limiterPool

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewRateLimitManager(ctx context.Context) *RateLimitManager {
	managerCtx, cancel := context.WithCancel(ctx)
	m := &RateLimitManager{
		general: newLimiterPool(3 * time.Minute),
		uploads: newLimiterPool(10 * time.Minute),
		cancel:  cancel,
	}

	m.wg.Add(1)
	go m.cleanupLoop(managerCtx)
	return m
}

func (m *RateLimitManager) cleanupLoop(ctx context.Context) {
	defer m.wg.Done()

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			m.general.cleanup(now)
			m.uploads.cleanup(now)
		}
	}
}

func (m *RateLimitManager) Shutdown() {
	m.cancel()
	m.wg.Wait()
}

// RateLimitMiddleware limits requests per client IP. Static upload reads
// are not counted.
func (m *RateLimitManager) RateLimitMiddleware(requests, windowSeconds, burst int) gin.HandlerFunc {
	return func(c *gin.Context) {
		if shouldBypassRateLimit(c.Request) {
			c.Next()
			return
		}
		limiter := m.general.get(c.ClientIP(), requests, windowSeconds, burst)
		if limiter != nil && !limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests, please try again later"})
			return
		}
		c.Next()
	}
}

// UploadRateLimit bounds endpoints that accept files.
func (m *RateLimitManager) UploadRateLimit(requests, windowSeconds int) gin.HandlerFunc {
	return func(c *gin.Context) {
		limiter := m.uploads.get(c.ClientIP(), requests, windowSeconds, requests)
		if limiter != nil && !limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many uploads, please try again later"})
			return
		}
		c.Next()
	}
}

func shouldBypassRateLimit(r *http.Request) bool {
	if r == nil || r.URL == nil {
		return false
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		return false
	}
	return strings.HasPrefix(r.URL.Path, "/uploads/") || r.URL.Path == "/health"
}
