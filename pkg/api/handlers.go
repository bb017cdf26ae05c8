package api

import (
	"encoding/hex"
	"encoding/json"
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ssargent/slotkit/pkg/account"
	"github.com/ssargent/slotkit/pkg/logging"
	"github.com/ssargent/slotkit/pkg/metrics"
	"github.com/ssargent/slotkit/pkg/processor"
	"github.com/ssargent/slotkit/pkg/program"
	"github.com/ssargent/slotkit/pkg/pubkey"
	"github.com/ssargent/slotkit/pkg/storage"
	"github.com/ssargent/slotkit/pkg/vault"
)

// Server holds the API server state
type Server struct {
	store   SlotStore
	program *program.Program
	config  ServerConfig
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewServer creates a new API server
func NewServer(store SlotStore, prog *program.Program, config ServerConfig, m *metrics.Metrics, logger *zap.Logger) *Server {
	return &Server{
		store:   store,
		program: prog,
		config:  config,
		metrics: m,
		logger:  logging.OrNop(logger),
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	sendSuccess(w, map[string]string{"status": "healthy", "program_id": s.program.ID().String()})
}

func (s *Server) handleCreateSlot(w http.ResponseWriter, r *http.Request) {
	var req CreateSlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	owner := s.program.ID()
	if req.Owner != nil {
		owner = *req.Owner
	}

	key, err := s.store.Create(owner, req.Size)
	if err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}
	sendSuccess(w, map[string]pubkey.Pubkey{"key": key})
}

func (s *Server) handleGetSlot(w http.ResponseWriter, r *http.Request) {
	key, err := pubkey.FromString(chi.URLParam(r, "key"))
	if err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	slot, err := s.store.Get(key)
	if errors.Is(err, storage.ErrSlotNotFound) {
		sendError(w, "Slot not found", http.StatusNotFound)
		return
	}
	if err != nil {
		s.logger.Error("get slot", zap.Stringer("key", key), zap.Error(err))
		sendError(w, "Failed to read slot", http.StatusInternalServerError)
		return
	}

	sendSuccess(w, describeSlot(slot))
}

// describeSlot renders a slot, decoding it when it carries a known record tag.
func describeSlot(slot storage.Slot) SlotResponse {
	resp := SlotResponse{
		Key:   slot.Key,
		Owner: slot.Owner,
		Size:  len(slot.Data),
		Data:  hex.EncodeToString(slot.Data),
	}
	if tag, ok := account.Peek(slot.Data); ok {
		resp.Discriminator = &tag
	}

	switch {
	case account.Is[vault.Vault](slot.Data):
		if v, err := account.TryFromBytes[vault.Vault](slot.Data); err == nil {
			resp.Decoded = v
		}
	case account.Is[vault.Receipt](slot.Data):
		if rc, err := account.TryFromBytes[vault.Receipt](slot.Data); err == nil {
			resp.Decoded = rc
		}
	}
	return resp
}

func (s *Server) handleInvoke(w http.ResponseWriter, r *http.Request) {
	var req InvokeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	data, err := hex.DecodeString(req.Data)
	if err != nil {
		sendError(w, "Instruction data must be hex", http.StatusBadRequest)
		return
	}

	metas := make([]storage.Meta, len(req.Accounts))
	for i, a := range req.Accounts {
		metas[i] = storage.Meta{Key: a.Key, Signer: a.Signer, Writable: a.Writable}
	}
	infos, err := s.store.Load(metas)
	if err != nil {
		s.logger.Error("load slots", zap.Error(err))
		sendError(w, "Failed to load slots", http.StatusInternalServerError)
		return
	}

	inv, err := s.program.Invoke(infos, data)
	if err != nil {
		sendError(w, err.Error(), invokeStatus(err))
		return
	}
	if err := s.store.Commit(infos); err != nil {
		s.logger.Error("commit slots", zap.Stringer("invocation", inv.ID), zap.Error(err))
		sendError(w, "Failed to commit slots", http.StatusInternalServerError)
		return
	}

	sendSuccess(w, InvokeResponse{
		Invocation:  inv.ID.String(),
		Instruction: inv.Instruction,
		DurationMS:  float64(inv.Duration.Microseconds()) / 1000,
	})
}

// invokeStatus maps instruction failures to HTTP status codes.
func invokeStatus(err error) int {
	switch {
	case errors.Is(err, program.ErrInvalidInstructionData),
		errors.Is(err, program.ErrUnknownInstruction),
		errors.Is(err, processor.ErrNotEnoughAccountKeys):
		return http.StatusBadRequest
	case errors.Is(err, vault.ErrMissingSignature),
		errors.Is(err, vault.ErrUnauthorized):
		return http.StatusForbidden
	default:
		return http.StatusUnprocessableEntity
	}
}
