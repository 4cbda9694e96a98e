package main

import (
	"context"

	"github.com/medguard-uz/medguard/internal/infrastructure/database/postgres"
	"github.com/medguard-uz/medguard/internal/infrastructure/database/redis"
	"github.com/medguard-uz/medguard/internal/interfaces/http/handlers"
)

// probe adapts an infrastructure HealthCheck method to the readiness
// handler's checker interface.
type probe struct {
	name  string
	check func(ctx context.Context) error
}

func (p probe) Name() string                    { return p.name }
func (p probe) Check(ctx context.Context) error { return p.check(ctx) }

// healthCheckers builds readiness probes for whichever optional backends are
// wired.  Nil backends are skipped.
func healthCheckers(conn *postgres.Connection, redisClient *redis.Client) []handlers.HealthChecker {
	var out []handlers.HealthChecker
	if conn != nil {
		out = append(out, probe{name: "postgres", check: conn.HealthCheck})
	}
	if redisClient != nil {
		out = append(out, probe{name: "redis", check: redisClient.HealthCheck})
	}
	return out
}
