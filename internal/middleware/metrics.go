package middleware

import (
	"sync"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
)

var httpMetrics = sync.OnceValue(func() *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New("fotogram-api")
})

// InitMetrics returns the process-wide HTTP collector set. The collectors live in the
// default prometheus registry next to the database and cache collectors, so it is built
// once and shared by every app instance.
func InitMetrics() *fiberprometheus.FiberPrometheus {
	return httpMetrics()
}

// MetricsMiddleware records request counts and latencies on prom.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}
