package di

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/slotkit/pkg/config"
	"github.com/ssargent/slotkit/pkg/pubkey"
)

func testConfig(t *testing.T) *config.Config {
	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()
	cfg.Runtime.ProgramID = pubkey.New().String()
	return cfg
}

func TestContainerWiring(t *testing.T) {
	cfg := testConfig(t)
	c, err := NewContainer(cfg, prometheus.NewRegistry())
	require.NoError(t, err)
	defer c.Close()

	assert.Same(t, cfg, c.Config())
	assert.NotNil(t, c.Logger())
	assert.NotNil(t, c.Metrics())

	s1, err := c.Store()
	require.NoError(t, err)
	s2, err := c.Store()
	require.NoError(t, err)
	assert.Same(t, s1, s2)

	prog, err := c.Program()
	require.NoError(t, err)
	assert.Equal(t, cfg.Runtime.ProgramID, prog.ID().String())
	name, ok := prog.Instruction(1)
	assert.True(t, ok)
	assert.Equal(t, "deposit", name)

	mem, err := c.Memory(context.Background())
	require.NoError(t, err)
	defer mem.Close(context.Background())
	assert.Equal(t, uint32(65536), mem.Size())
}

func TestContainerWithoutProgramID(t *testing.T) {
	cfg := testConfig(t)
	cfg.Runtime.ProgramID = ""
	c, err := NewContainer(cfg, nil)
	require.NoError(t, err)
	defer c.Close()

	assert.Nil(t, c.Metrics())
	_, err = c.Program()
	assert.True(t, errors.Is(err, ErrNoProgramID))
}

func TestContainerBadLogLevel(t *testing.T) {
	cfg := testConfig(t)
	cfg.Logging.Level = "chatty"
	_, err := NewContainer(cfg, nil)
	assert.Error(t, err)
}
