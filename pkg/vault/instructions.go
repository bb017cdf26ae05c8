package vault

import "github.com/ssargent/slotkit/pkg/le"

// Instruction tags.
const (
	InitializeTag byte = 0
	DepositTag    byte = 1
	WithdrawTag   byte = 2
)

const amountIxSize = 1 + 8

// Initialize creates a vault owned by the payer with an opening balance.
type Initialize struct {
	Amount uint64
	Bump   uint8
}

func (Initialize) Discriminator() byte { return InitializeTag }
func (Initialize) SerializedSize() int { return amountIxSize + 1 }

func (ix Initialize) AppendFields(dst []byte) []byte {
	return append(le.AppendU64(dst, ix.Amount), ix.Bump)
}

func (ix *Initialize) DecodeFields(data []byte) {
	ix.Amount = le.ParseU64(data[0:8])
	ix.Bump = data[8]
}

// Deposit adds Amount to a vault and bumps its receipt.
type Deposit struct {
	Amount uint64
}

func (Deposit) Discriminator() byte { return DepositTag }
func (Deposit) SerializedSize() int { return amountIxSize }

func (ix Deposit) AppendFields(dst []byte) []byte { return le.AppendU64(dst, ix.Amount) }

func (ix *Deposit) DecodeFields(data []byte) { ix.Amount = le.ParseU64(data) }

// Withdraw removes Amount from a vault.
type Withdraw struct {
	Amount uint64
}

func (Withdraw) Discriminator() byte { return WithdrawTag }
func (Withdraw) SerializedSize() int { return amountIxSize }

func (ix Withdraw) AppendFields(dst []byte) []byte { return le.AppendU64(dst, ix.Amount) }

func (ix *Withdraw) DecodeFields(data []byte) { ix.Amount = le.ParseU64(data) }
