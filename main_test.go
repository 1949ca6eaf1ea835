package main

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"munch-server/config"
)

func TestRun_ReturnsContainerError(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := config.Load()
	cfg.Env = "dev"
	cfg.RedisAddress = mr.Addr()
	cfg.Timezone = "Not/A_Zone"

	err := run(context.Background(), cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to initialize container")
	assert.Contains(t, err.Error(), "Not/A_Zone")
}
