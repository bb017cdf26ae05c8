// Package di wires the SlotKit host components from a configuration.
package di

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/ssargent/slotkit/pkg/config"
	"github.com/ssargent/slotkit/pkg/logging"
	"github.com/ssargent/slotkit/pkg/metrics"
	"github.com/ssargent/slotkit/pkg/program"
	"github.com/ssargent/slotkit/pkg/pubkey"
	"github.com/ssargent/slotkit/pkg/storage"
	"github.com/ssargent/slotkit/pkg/vault"
	"github.com/ssargent/slotkit/pkg/wasmhost"
)

// ErrNoProgramID is returned when the configuration names no program id.
var ErrNoProgramID = errors.New("di: runtime.program_id is not set (run 'slotctl init' first)")

// Container holds all the dependencies for the application
type Container struct {
	config  *config.Config
	logger  *zap.Logger
	metrics *metrics.Metrics

	mu    sync.Mutex
	store *storage.SlotStore
	prog  *program.Program
}

// NewContainer builds the logger and metrics for cfg. Metrics register
// with reg; pass nil to skip metrics entirely.
func NewContainer(cfg *config.Config, reg prometheus.Registerer) (*Container, error) {
	logger, err := logging.New(cfg.Logging.Level)
	if err != nil {
		return nil, err
	}
	c := &Container{config: cfg, logger: logger}
	if reg != nil {
		c.metrics = metrics.New(reg)
	}
	return c, nil
}

// Config returns the configuration the container was built from
func (c *Container) Config() *config.Config { return c.config }

// Logger returns the process logger
func (c *Container) Logger() *zap.Logger { return c.logger }

// Metrics returns the shared collectors, possibly nil
func (c *Container) Metrics() *metrics.Metrics { return c.metrics }

// SetLogger allows overriding the logger (for testing)
func (c *Container) SetLogger(l *zap.Logger) { c.logger = logging.OrNop(l) }

// Store opens the slot store on first use.
func (c *Container) Store() (*storage.SlotStore, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.store == nil {
		s, err := storage.Open(c.config.DataDir, storage.WithLogger(c.logger), storage.WithMetrics(c.metrics))
		if err != nil {
			return nil, err
		}
		c.store = s
	}
	return c.store, nil
}

// Program returns the vault program bound to the configured program id.
func (c *Container) Program() (*program.Program, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.prog == nil {
		if c.config.Runtime.ProgramID == "" {
			return nil, ErrNoProgramID
		}
		id, err := pubkey.FromString(c.config.Runtime.ProgramID)
		if err != nil {
			return nil, err
		}
		c.prog = vault.New(id, program.WithLogger(c.logger), program.WithMetrics(c.metrics))
	}
	return c.prog, nil
}

// Memory creates a wasm linear memory sized by the runtime configuration.
// The caller closes it.
func (c *Container) Memory(ctx context.Context) (*wasmhost.Memory, error) {
	return wasmhost.NewMemory(ctx, c.config.Runtime.MemoryPages)
}

// Close releases the store and flushes the logger.
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var err error
	if c.store != nil {
		err = c.store.Close()
		c.store = nil
	}
	_ = c.logger.Sync()
	return err
}
