package api

import (
	"github.com/ssargent/slotkit/pkg/account"
	"github.com/ssargent/slotkit/pkg/pubkey"
	"github.com/ssargent/slotkit/pkg/storage"
)

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// CreateSlotRequest allocates a zeroed slot.
type CreateSlotRequest struct {
	// Owner defaults to the served program id.
	Owner *pubkey.Pubkey `json:"owner,omitempty"`
	Size  int            `json:"size"`
}

// SlotResponse describes one stored slot.
type SlotResponse struct {
	Key           pubkey.Pubkey `json:"key"`
	Owner         pubkey.Pubkey `json:"owner"`
	Size          int           `json:"size"`
	Discriminator *byte         `json:"discriminator,omitempty"`
	Data          string        `json:"data"`
	Decoded       interface{}   `json:"decoded,omitempty"`
}

// AccountMeta names a slot passed to an instruction.
type AccountMeta struct {
	Key      pubkey.Pubkey `json:"key"`
	Signer   bool          `json:"signer"`
	Writable bool          `json:"writable"`
}

// InvokeRequest carries hex-encoded instruction data and its slots in role order.
type InvokeRequest struct {
	Data     string        `json:"data"`
	Accounts []AccountMeta `json:"accounts"`
}

// InvokeResponse reports a committed invocation.
type InvokeResponse struct {
	Invocation  string  `json:"invocation"`
	Instruction string  `json:"instruction"`
	DurationMS  float64 `json:"duration_ms"`
}

// ServerConfig holds configuration for the API server
type ServerConfig struct {
	Bind   string
	Port   int
	APIKey string
}

// SlotStore is the subset of storage.SlotStore the API needs.
type SlotStore interface {
	Create(owner pubkey.Pubkey, size int) (pubkey.Pubkey, error)
	Get(key pubkey.Pubkey) (storage.Slot, error)
	Load(metas []storage.Meta) ([]*account.Info, error)
	Commit(infos []*account.Info) error
}
