// Package program routes raw instruction bytes to typed processors.
//
// Instruction data uses the same layout as a record: a one-byte tag followed
// by fixed-width fields. The registered decoder turns it into a typed
// instruction, usually with account.TryFromBytes. Every invocation is
// logged and counted; the processors themselves stay silent.
package program

import (
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/segmentio/ksuid"
	"go.uber.org/zap"

	"github.com/ssargent/slotkit/pkg/account"
	"github.com/ssargent/slotkit/pkg/logging"
	"github.com/ssargent/slotkit/pkg/metrics"
	"github.com/ssargent/slotkit/pkg/processor"
	"github.com/ssargent/slotkit/pkg/pubkey"
)

var (
	// ErrInvalidInstructionData is returned for empty or undecodable instruction bytes.
	ErrInvalidInstructionData = errors.New("program: invalid instruction data")
	// ErrUnknownInstruction is returned when no handler is registered for a tag.
	ErrUnknownInstruction = errors.New("program: unknown instruction")
)

// Handler runs one instruction, tag included, against the supplied slots.
type Handler func(accounts []*account.Info, data []byte) error

// Handle adapts an instruction decoder and a processor constructor into a Handler.
func Handle[Ix any, P processor.Processor[Ix]](
	decode func(data []byte) (Ix, error),
	ctor func(accounts []*account.Info) (P, error),
) Handler {
	return func(accounts []*account.Info, data []byte) error {
		ix, err := decode(data)
		if err != nil {
			return errors.Mark(err, ErrInvalidInstructionData)
		}
		return processor.Run(ctor, accounts, ix)
	}
}

type route struct {
	name    string
	handler Handler
}

// Program is a set of instruction handlers owned by one program id.
type Program struct {
	id      pubkey.Pubkey
	routes  map[byte]route
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// Option configures a Program.
type Option func(*Program)

// WithLogger sets the invocation logger.
func WithLogger(l *zap.Logger) Option {
	return func(p *Program) { p.logger = logging.OrNop(l) }
}

// WithMetrics sets the collectors invocations are recorded to.
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Program) { p.metrics = m }
}

// New creates an empty program.
func New(id pubkey.Pubkey, opts ...Option) *Program {
	p := &Program{
		id:     id,
		routes: make(map[byte]route),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ID returns the program id that owns the program's slots.
func (p *Program) ID() pubkey.Pubkey { return p.id }

// Register binds tag to h. Registering a tag twice panics.
func (p *Program) Register(tag byte, name string, h Handler) {
	if _, exists := p.routes[tag]; exists {
		panic(fmt.Sprintf("program: instruction tag %d registered twice", tag))
	}
	p.routes[tag] = route{name: name, handler: h}
}

// Instruction returns the name registered for tag.
func (p *Program) Instruction(tag byte) (string, bool) {
	r, ok := p.routes[tag]
	return r.name, ok
}

// Invocation describes one completed call to Invoke.
type Invocation struct {
	ID          ksuid.KSUID
	Instruction string
	Duration    time.Duration
}

// Invoke decodes the instruction tag and runs the matching handler.
func (p *Program) Invoke(accounts []*account.Info, data []byte) (Invocation, error) {
	inv := Invocation{ID: ksuid.New()}

	if len(data) == 0 {
		return inv, errors.Wrap(ErrInvalidInstructionData, "empty instruction")
	}
	r, ok := p.routes[data[0]]
	if !ok {
		p.logger.Warn("unknown instruction", zap.Stringer("invocation", inv.ID), zap.Uint8("tag", data[0]))
		return inv, errors.Wrapf(ErrUnknownInstruction, "tag %d", data[0])
	}
	inv.Instruction = r.name

	start := time.Now()
	err := r.handler(accounts, data)
	inv.Duration = time.Since(start)

	p.metrics.RecordInstruction(r.name, err == nil, inv.Duration)
	fields := []zap.Field{
		zap.Stringer("invocation", inv.ID),
		zap.String("instruction", r.name),
		zap.Int("accounts", len(accounts)),
		zap.Duration("duration", inv.Duration),
	}
	if err != nil {
		p.logger.Info("instruction failed", append(fields, zap.Error(err))...)
		return inv, err
	}
	p.logger.Debug("instruction processed", fields...)
	return inv, nil
}
