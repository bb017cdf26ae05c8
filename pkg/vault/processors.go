package vault

import (
	"math"

	"github.com/cockroachdb/errors"

	"github.com/ssargent/slotkit/pkg/account"
	"github.com/ssargent/slotkit/pkg/processor"
	"github.com/ssargent/slotkit/pkg/pubkey"
)

func requireSigner(a *account.Info) error {
	if !a.IsSigner() {
		return errors.Wrapf(ErrMissingSignature, "%s", a.Key())
	}
	return nil
}

func requireOwnedWritable(a *account.Info, programID pubkey.Pubkey) error {
	if !a.IsWritable() {
		return errors.Wrapf(ErrNotWritable, "%s", a.Key())
	}
	if a.Owner() != programID {
		return errors.Wrapf(ErrIllegalOwner, "%s is owned by %s", a.Key(), a.Owner())
	}
	return nil
}

// isBlank reports whether a slot holds no record yet.
func isBlank(a *account.Info) (bool, error) {
	ref, err := a.TryBorrowData()
	if err != nil {
		return false, err
	}
	defer ref.Release()

	tag, ok := account.Peek(ref.Bytes())
	return !ok || tag == 0, nil
}

// InitializeAccounts is the view for Initialize: payer, vault, system.
type InitializeAccounts struct {
	programID pubkey.Pubkey
	Payer     *account.Info
	Vault     *account.Info
	System    *account.Info
}

// NewInitializeAccounts returns a constructor bound to programID.
func NewInitializeAccounts(programID pubkey.Pubkey) func([]*account.Info) (*InitializeAccounts, error) {
	return func(accounts []*account.Info) (*InitializeAccounts, error) {
		roles, err := processor.Accounts(accounts, 3)
		if err != nil {
			return nil, err
		}
		return &InitializeAccounts{programID: programID, Payer: roles[0], Vault: roles[1], System: roles[2]}, nil
	}
}

func (a *InitializeAccounts) Validate(ix Initialize) error {
	if err := requireSigner(a.Payer); err != nil {
		return err
	}
	if err := requireOwnedWritable(a.Vault, a.programID); err != nil {
		return err
	}
	if a.Vault.DataLen() < VaultSize {
		return errors.Wrapf(account.ErrAccountDataTooSmall, "vault slot is %d bytes, need %d", a.Vault.DataLen(), VaultSize)
	}
	blank, err := isBlank(a.Vault)
	if err != nil {
		return err
	}
	if !blank {
		return errors.Wrapf(ErrAlreadyInitialized, "%s", a.Vault.Key())
	}
	return nil
}

func (a *InitializeAccounts) Process(ix Initialize) error {
	return account.Write(Vault{Authority: a.Payer.Key(), Amount: ix.Amount, Bump: ix.Bump}, a.Vault)
}

// DepositAccounts is the view for Deposit: authority, vault, receipt.
type DepositAccounts struct {
	programID pubkey.Pubkey
	Authority *account.Info
	Vault     *account.Info
	Receipt   *account.Info
}

// NewDepositAccounts returns a constructor bound to programID.
func NewDepositAccounts(programID pubkey.Pubkey) func([]*account.Info) (*DepositAccounts, error) {
	return func(accounts []*account.Info) (*DepositAccounts, error) {
		roles, err := processor.Accounts(accounts, 3)
		if err != nil {
			return nil, err
		}
		return &DepositAccounts{programID: programID, Authority: roles[0], Vault: roles[1], Receipt: roles[2]}, nil
	}
}

func (a *DepositAccounts) Validate(ix Deposit) error {
	if err := requireSigner(a.Authority); err != nil {
		return err
	}
	for _, slot := range []*account.Info{a.Vault, a.Receipt} {
		if err := requireOwnedWritable(slot, a.programID); err != nil {
			return err
		}
	}

	v, err := account.Load[Vault](a.Vault)
	if err != nil {
		return err
	}
	if v.Authority != a.Authority.Key() {
		return errors.Wrapf(ErrUnauthorized, "vault %s", a.Vault.Key())
	}
	if ix.Amount > math.MaxUint64-v.Amount {
		return errors.Wrapf(ErrOverflow, "%d + %d", v.Amount, ix.Amount)
	}

	if a.Receipt.DataLen() < ReceiptSize {
		return errors.Wrapf(account.ErrAccountDataTooSmall, "receipt slot is %d bytes, need %d", a.Receipt.DataLen(), ReceiptSize)
	}
	blank, err := isBlank(a.Receipt)
	if err != nil || blank {
		return err
	}
	r, err := account.Load[Receipt](a.Receipt)
	if err != nil {
		return err
	}
	if r.Vault != a.Vault.Key() {
		return errors.Wrapf(ErrReceiptMismatch, "receipt %s", a.Receipt.Key())
	}
	if r.Count == math.MaxUint32 {
		return errors.Wrap(ErrOverflow, "receipt count")
	}
	return nil
}

func (a *DepositAccounts) Process(ix Deposit) error {
	v, err := account.Load[Vault](a.Vault)
	if err != nil {
		return err
	}
	r := Receipt{Vault: a.Vault.Key()}
	if blank, err := isBlank(a.Receipt); err != nil {
		return err
	} else if !blank {
		if r, err = account.Load[Receipt](a.Receipt); err != nil {
			return err
		}
	}

	v.Amount += ix.Amount
	r.Count++
	r.Last = ix.Amount

	if err := account.Write(v, a.Vault); err != nil {
		return err
	}
	return account.Write(r, a.Receipt)
}

// WithdrawAccounts is the view for Withdraw: authority, vault.
type WithdrawAccounts struct {
	programID pubkey.Pubkey
	Authority *account.Info
	Vault     *account.Info
}

// NewWithdrawAccounts returns a constructor bound to programID.
func NewWithdrawAccounts(programID pubkey.Pubkey) func([]*account.Info) (*WithdrawAccounts, error) {
	return func(accounts []*account.Info) (*WithdrawAccounts, error) {
		roles, err := processor.Accounts(accounts, 2)
		if err != nil {
			return nil, err
		}
		return &WithdrawAccounts{programID: programID, Authority: roles[0], Vault: roles[1]}, nil
	}
}

func (a *WithdrawAccounts) Validate(ix Withdraw) error {
	if err := requireSigner(a.Authority); err != nil {
		return err
	}
	if err := requireOwnedWritable(a.Vault, a.programID); err != nil {
		return err
	}
	v, err := account.Load[Vault](a.Vault)
	if err != nil {
		return err
	}
	if v.Authority != a.Authority.Key() {
		return errors.Wrapf(ErrUnauthorized, "vault %s", a.Vault.Key())
	}
	if ix.Amount > v.Amount {
		return errors.Wrapf(ErrInsufficientFunds, "balance %d, requested %d", v.Amount, ix.Amount)
	}
	return nil
}

func (a *WithdrawAccounts) Process(ix Withdraw) error {
	v, err := account.Load[Vault](a.Vault)
	if err != nil {
		return err
	}
	v.Amount -= ix.Amount
	return account.Write(v, a.Vault)
}
