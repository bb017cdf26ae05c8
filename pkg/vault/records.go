package vault

import (
	"github.com/ssargent/slotkit/pkg/le"
	"github.com/ssargent/slotkit/pkg/pubkey"
)

// Record discriminators. Instruction tags live in a separate domain.
const (
	VaultDiscriminator   byte = 1
	ReceiptDiscriminator byte = 2
)

// Vault holds a balance controlled by one authority.
type Vault struct {
	Authority pubkey.Pubkey `json:"authority"`
	Amount    uint64        `json:"amount"`
	Bump      uint8         `json:"bump"`
}

const vaultSize = 1 + // discriminator
	pubkey.Size + // authority
	8 + // amount
	1 // bump

func (Vault) Discriminator() byte { return VaultDiscriminator }
func (Vault) SerializedSize() int { return vaultSize }

func (v Vault) AppendFields(dst []byte) []byte {
	dst = append(dst, v.Authority[:]...)
	dst = le.AppendU64(dst, v.Amount)
	return append(dst, v.Bump)
}

func (v *Vault) DecodeFields(data []byte) {
	copy(v.Authority[:], data[0:32])
	v.Amount = le.ParseU64(data[32:40])
	v.Bump = data[40]
}

// Receipt counts deposits made into a vault.
type Receipt struct {
	Vault pubkey.Pubkey `json:"vault"`
	Count uint32        `json:"count"`
	Last  uint64        `json:"last"`
}

const receiptSize = 1 + // discriminator
	pubkey.Size + // vault
	4 + // count
	8 // last deposit

func (Receipt) Discriminator() byte { return ReceiptDiscriminator }
func (Receipt) SerializedSize() int { return receiptSize }

func (r Receipt) AppendFields(dst []byte) []byte {
	dst = append(dst, r.Vault[:]...)
	dst = le.AppendU32(dst, r.Count)
	return le.AppendU64(dst, r.Last)
}

func (r *Receipt) DecodeFields(data []byte) {
	copy(r.Vault[:], data[0:32])
	r.Count = le.ParseU32(data[32:36])
	r.Last = le.ParseU64(data[36:44])
}

// VaultSize and ReceiptSize are the slot sizes a host must allocate.
const (
	VaultSize   = vaultSize
	ReceiptSize = receiptSize
)
