package workflow

import (
	"context"

	"hushcut/internal/stage"
)

// Health runs every registered stage's health check in registration order.
func (m *Manager) Health(ctx context.Context) []stage.Health {
	m.mu.RLock()
	stages := make([]pipelineStage, len(m.stages))
	copy(stages, m.stages)
	m.mu.RUnlock()

	results := make([]stage.Health, 0, len(stages))
	for _, def := range stages {
		results = append(results, def.handler.HealthCheck(ctx))
	}
	return results
}
