package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/SUMMERxKx/Review/internal/interfaces/http/common"
)

type healthCheck struct {
	name  string
	check func(ctx context.Context) error
}

func mongoCheck(client *mongo.Client) func(context.Context) error {
	return func(ctx context.Context) error {
		return client.Ping(ctx, readpref.Primary())
	}
}

func redisCheck(client *redis.Client) func(context.Context) error {
	return func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
}

// healthHandler はインフラへの疎通のみを確認する。ひとつでも失敗すれば 503。
func (s *Server) healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		components := make(map[string]string, len(s.checks))
		for _, hc := range s.checks {
			if err := hc.check(ctx); err != nil {
				status = http.StatusServiceUnavailable
				components[hc.name] = err.Error()
				continue
			}
			components[hc.name] = "ok"
		}

		body := map[string]any{
			"status":     "ok",
			"components": components,
			"time":       time.Now().In(s.location).Format(time.RFC3339),
		}
		if status != http.StatusOK {
			body["status"] = "degraded"
		}
		common.WriteJSON(s.logger, w, status, body)
	}
}
