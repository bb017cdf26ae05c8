// Package processor fixes the two-phase contract for running a typed
// instruction against a set of host slots: build a role-named view of the
// slots, validate the instruction against it, then process it.
package processor

import (
	"github.com/cockroachdb/errors"
	"github.com/ssargent/slotkit/pkg/account"
)

// ErrNotEnoughAccountKeys is returned when fewer slots are supplied than an
// instruction's roles require.
var ErrNotEnoughAccountKeys = errors.New("processor: not enough account keys")

// Processor is a validated view over the slots one instruction type needs.
type Processor[Ix any] interface {
	// Validate inspects the instruction and the view's slots. It must not
	// mutate anything.
	Validate(ix Ix) error
	// Process applies the instruction. It only runs after Validate succeeds.
	Process(ix Ix) error
}

// TryProcess runs Validate and, only if it succeeds, Process. Errors from
// either phase are returned unchanged.
func TryProcess[Ix any](p Processor[Ix], ix Ix) error {
	if err := p.Validate(ix); err != nil {
		return err
	}
	return p.Process(ix)
}

// Run builds the view with ctor from the flat ordered slot list and
// processes ix against it.
func Run[Ix any, P Processor[Ix]](ctor func([]*account.Info) (P, error), accounts []*account.Info, ix Ix) error {
	p, err := ctor(accounts)
	if err != nil {
		return err
	}
	return TryProcess[Ix](p, ix)
}

// Accounts returns the first n slots. Extra trailing slots are ignored.
func Accounts(accounts []*account.Info, n int) ([]*account.Info, error) {
	if len(accounts) < n {
		return nil, errors.Wrapf(ErrNotEnoughAccountKeys, "got %d accounts, need %d", len(accounts), n)
	}
	return accounts[:n], nil
}
