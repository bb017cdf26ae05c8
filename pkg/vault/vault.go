// Package vault is a small program built on the account codec and the
// processor contract: vaults hold a balance for one authority and receipts
// count deposits.
package vault

import (
	"github.com/ssargent/slotkit/pkg/account"
	"github.com/ssargent/slotkit/pkg/program"
	"github.com/ssargent/slotkit/pkg/pubkey"
)

// New registers the vault instructions on a program with the given id.
func New(id pubkey.Pubkey, opts ...program.Option) *program.Program {
	p := program.New(id, opts...)
	p.Register(InitializeTag, "initialize", program.Handle(account.TryFromBytes[Initialize], NewInitializeAccounts(id)))
	p.Register(DepositTag, "deposit", program.Handle(account.TryFromBytes[Deposit], NewDepositAccounts(id)))
	p.Register(WithdrawTag, "withdraw", program.Handle(account.TryFromBytes[Withdraw], NewWithdrawAccounts(id)))
	return p
}
