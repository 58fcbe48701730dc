package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimiterConfig 限流配置
type RateLimiterConfig struct {
	RequestsPerSecond float64
	Burst             int
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ipLimiterPool keeps one token bucket per client IP.
type ipLimiterPool struct {
	mu      sync.Mutex
	clients map[string]*clientLimiter
	config  RateLimiterConfig
}

func newIPLimiterPool(config RateLimiterConfig) *ipLimiterPool {
	pool := &ipLimiterPool{
		clients: make(map[string]*clientLimiter),
		config:  config,
	}
	go pool.evictLoop()
	return pool
}

func (p *ipLimiterPool) get(ip string) *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()

	client, ok := p.clients[ip]
	if !ok {
		client = &clientLimiter{
			limiter: rate.NewLimiter(rate.Limit(p.config.RequestsPerSecond), p.config.Burst),
		}
		p.clients[ip] = client
	}
	client.lastSeen = time.Now()
	return client.limiter
}

// evictLoop 定期清理超过10分钟未活动的客户端
func (p *ipLimiterPool) evictLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		cutoff := time.Now().Add(-10 * time.Minute)
		p.mu.Lock()
		for ip, client := range p.clients {
			if client.lastSeen.Before(cutoff) {
				delete(p.clients, ip)
			}
		}
		p.mu.Unlock()
	}
}

// RateLimiterMiddleware 按客户端IP限流
func RateLimiterMiddleware(config RateLimiterConfig) gin.HandlerFunc {
	pool := newIPLimiterPool(config)

	return func(c *gin.Context) {
		if !pool.get(c.ClientIP()).Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "rate limit exceeded, please try again later",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
