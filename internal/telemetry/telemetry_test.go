package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"concierge-backend/config"
)

func TestSetup_DisabledWithoutEndpoint(t *testing.T) {
	shutdown := Setup(context.Background(), config.TelemetryConfig{ServiceName: "concierge-backend"})
	assert.NoError(t, shutdown(context.Background()))
}
