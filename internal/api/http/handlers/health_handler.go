package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/serenity-care/wellness-api/internal/persistence"
	"github.com/serenity-care/wellness-api/internal/store"
)

// HealthHandler serves liveness and readiness checks.
type HealthHandler struct {
	serviceName string
	version     string
	store       store.RecordStore
	redis       *persistence.Redis
	logger      *zap.Logger
}

// NewHealthHandler returns a new handler instance. redis may be nil.
func NewHealthHandler(serviceName, version string, s store.RecordStore, redis *persistence.Redis, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{serviceName: serviceName, version: version, store: s, redis: redis, logger: logger}
}

// Live reports service liveness.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "alive",
		"service": h.serviceName,
		"version": h.version,
	})
}

// Ready reports service readiness by checking dependencies.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	depStatus := fiber.Map{}
	ready := true

	check := func(name string, err error) {
		if err == nil {
			depStatus[name] = "ok"
			return
		}
		h.logger.Warn("readiness check failed", zap.String("dependency", name), zap.Error(err))
		depStatus[name] = "unavailable"
		ready = false
	}

	check("store", h.store.Ping(ctx))
	if h.redis != nil {
		check("redis", h.redis.Ping(ctx))
	}

	if ready {
		return c.JSON(fiber.Map{
			"status":       "ready",
			"dependencies": depStatus,
		})
	}

	return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
		"error":   "one or more dependencies unavailable",
		"code":    "DEPENDENCY_UNAVAILABLE",
		"details": depStatus,
	})
}
