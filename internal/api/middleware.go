package api

import (
	"errors"
	"net/http"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kafkaan/fit-coach-link/internal/domain"
	"github.com/kafkaan/fit-coach-link/internal/metrics"
	"github.com/kafkaan/fit-coach-link/internal/service"
	log "github.com/sirupsen/logrus"
)

var errNoIdentity = errors.New("caller identity not found in request context")

// AuthMiddleware verifies the bearer token and stores the caller identity in
// the request context.
func AuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWithError(c, http.StatusUnauthorized, "Authorization header is missing")
			return
		}

		// Expecting "Bearer <token>"
		parts := strings.Fields(authHeader)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			abortWithError(c, http.StatusUnauthorized, "Authorization header format must be Bearer {token}")
			return
		}

		identity, err := authService.ParseToken(parts[1])
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		c.Request = c.Request.WithContext(domain.WithIdentity(c.Request.Context(), identity))
		c.Next()
	}
}

func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}

// RoleMiddleware rejects callers whose role is not allowed.
// Must run AFTER AuthMiddleware.
func RoleMiddleware(allowedRoles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := domain.IdentityFromContext(c.Request.Context())
		if !ok {
			abortWithError(c, http.StatusUnauthorized, errNoIdentity.Error())
			return
		}

		for _, role := range allowedRoles {
			if identity.Role == role {
				c.Next()
				return
			}
		}
		abortWithError(c, http.StatusForbidden, "Access denied: role '"+string(identity.Role)+"' does not have permission")
	}
}

// identityFrom returns the caller identity or aborts with 401.
func identityFrom(c *gin.Context) (domain.Identity, bool) {
	identity, ok := domain.IdentityFromContext(c.Request.Context())
	if !ok {
		abortWithError(c, http.StatusUnauthorized, errNoIdentity.Error())
	}
	return identity, ok
}

// RequestLogger logs one line per request.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		begin := time.Now()
		c.Next()

		entry := log.WithFields(log.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(begin).String(),
		})
		if identity, ok := domain.IdentityFromContext(c.Request.Context()); ok {
			entry = entry.WithField("user_id", identity.UserID.Hex())
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			entry.Warn("request served")
			return
		}
		entry.Debug("request served")
	}
}

// RequestMetrics counts requests and observes their duration per route.
func RequestMetrics(m *metrics.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		m.GaugeRequests.Inc()
		defer m.GaugeRequests.Dec()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		defer func(begin time.Time) {
			m.HistRequestDuration.WithLabelValues(route).Observe(time.Since(begin).Seconds())
		}(time.Now())

		c.Next()

		m.CounterRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
	}
}

// PanicRecovery logs the panic with its stack and answers 500.
func PanicRecovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Errorf("http: panic serving %s: %v\n%s", c.Request.URL.Path, r, debug.Stack())
				abortWithError(c, http.StatusInternalServerError, "internal server error")
			}
		}()
		c.Next()
	}
}
