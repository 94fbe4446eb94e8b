package handlers

import (
	"context"
	"time"

	"inkline/internal/clients/mongo"

	"github.com/gofiber/fiber/v2"
	mongodrv "go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

const HealthzTimeout = 5 * time.Second

// HealthResponse is the body of /healthz.
type HealthResponse struct {
	Status     string `json:"status" example:"ok"`
	ReplicaSet bool   `json:"replica_set" example:"false"`
	Error      string `json:"error,omitempty"`
}

// Healthz returns the health of the server.
// @Summary Health check
// @Description Pings the primary database node
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /healthz [get]
func Healthz(c *fiber.Ctx) error {
	return HealthzFor(mongo.DB, mongo.IsReplicaSet)(c)
}

// HealthzFor builds the health handler over an explicit database source.
func HealthzFor(db func() *mongodrv.Database, replicaSet func() bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), HealthzTimeout)
		defer cancel()

		d := db()
		if d == nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(HealthResponse{
				Status: "down",
				Error:  "database not initialized",
			})
		}

		if err := d.Client().Ping(ctx, readpref.Primary()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(HealthResponse{
				Status: "down",
				Error:  err.Error(),
			})
		}

		return c.JSON(HealthResponse{Status: "ok", ReplicaSet: replicaSet()})
	}
}
