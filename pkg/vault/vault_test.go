package vault

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/slotkit/pkg/account"
	"github.com/ssargent/slotkit/pkg/processor"
	"github.com/ssargent/slotkit/pkg/program"
	"github.com/ssargent/slotkit/pkg/pubkey"
)

type fixture struct {
	programID pubkey.Pubkey
	prog      *program.Program
	payer     *account.Info
	vault     *account.Info
	receipt   *account.Info
	system    *account.Info
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	id := pubkey.New()
	return &fixture{
		programID: id,
		prog:      New(id),
		payer:     account.NewInfo(pubkey.New(), nil, account.Signer()),
		vault:     account.NewInfo(pubkey.New(), make([]byte, VaultSize), account.WithOwner(id), account.Writable()),
		receipt:   account.NewInfo(pubkey.New(), make([]byte, ReceiptSize), account.WithOwner(id), account.Writable()),
		system:    account.NewInfo(pubkey.Pubkey{}, nil),
	}
}

func mustData(t *testing.T, ix account.Serializer) []byte {
	t.Helper()
	data, err := account.ToBytes(ix)
	require.NoError(t, err)
	return data
}

func (f *fixture) initialize(t *testing.T, amount uint64) {
	t.Helper()
	_, err := f.prog.Invoke([]*account.Info{f.payer, f.vault, f.system}, mustData(t, Initialize{Amount: amount, Bump: 254}))
	require.NoError(t, err)
}

func (f *fixture) balance(t *testing.T) uint64 {
	t.Helper()
	v, err := account.Load[Vault](f.vault)
	require.NoError(t, err)
	return v.Amount
}

func TestRecordLayouts(t *testing.T) {
	for _, r := range []account.Serializer{Vault{}, Receipt{}, Initialize{}, Deposit{}, Withdraw{}} {
		assert.NoError(t, account.CheckLayout(r), "%T", r)
	}
	assert.Equal(t, 42, VaultSize)
	assert.Equal(t, 45, ReceiptSize)
}

func TestVaultRoundTrip(t *testing.T) {
	in := Vault{Authority: pubkey.New(), Amount: 42006913371234, Bump: 7}
	data, err := account.ToBytes(in)
	require.NoError(t, err)
	out, err := account.TryFromBytes[Vault](data)
	require.NoError(t, err)
	assert.Equal(t, in, out)

	_, err = account.TryFromBytes[Receipt](data)
	assert.True(t, errors.Is(err, account.ErrInvalidAccountData))
}

func TestInitialize(t *testing.T) {
	f := newFixture(t)
	f.initialize(t, 100)

	v, err := account.Load[Vault](f.vault)
	require.NoError(t, err)
	assert.Equal(t, f.payer.Key(), v.Authority)
	assert.Equal(t, uint64(100), v.Amount)
	assert.Equal(t, uint8(254), v.Bump)

	_, err = f.prog.Invoke([]*account.Info{f.payer, f.vault, f.system}, mustData(t, Initialize{Amount: 1}))
	assert.True(t, errors.Is(err, ErrAlreadyInitialized), "got %v", err)
	assert.Equal(t, uint64(100), f.balance(t))
}

func TestInitializeValidation(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(f *fixture) []*account.Info
		wantErr error
	}{
		{
			name: "payer not signer",
			mutate: func(f *fixture) []*account.Info {
				return []*account.Info{account.NewInfo(pubkey.New(), nil), f.vault, f.system}
			},
			wantErr: ErrMissingSignature,
		},
		{
			name: "vault read only",
			mutate: func(f *fixture) []*account.Info {
				ro := account.NewInfo(pubkey.New(), make([]byte, VaultSize), account.WithOwner(f.programID))
				return []*account.Info{f.payer, ro, f.system}
			},
			wantErr: ErrNotWritable,
		},
		{
			name: "vault foreign owner",
			mutate: func(f *fixture) []*account.Info {
				foreign := account.NewInfo(pubkey.New(), make([]byte, VaultSize), account.Writable())
				return []*account.Info{f.payer, foreign, f.system}
			},
			wantErr: ErrIllegalOwner,
		},
		{
			name: "vault slot too small",
			mutate: func(f *fixture) []*account.Info {
				small := account.NewInfo(pubkey.New(), make([]byte, 10), account.WithOwner(f.programID), account.Writable())
				return []*account.Info{f.payer, small, f.system}
			},
			wantErr: account.ErrAccountDataTooSmall,
		},
		{
			name: "missing system account",
			mutate: func(f *fixture) []*account.Info {
				return []*account.Info{f.payer, f.vault}
			},
			wantErr: processor.ErrNotEnoughAccountKeys,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.prog.Invoke(tc.mutate(f), mustData(t, Initialize{Amount: 5}))
			assert.True(t, errors.Is(err, tc.wantErr), "got %v", err)

			snap, err := f.vault.Snapshot()
			require.NoError(t, err)
			assert.Equal(t, make([]byte, VaultSize), snap)
		})
	}
}

func TestDepositAndReceipt(t *testing.T) {
	f := newFixture(t)
	f.initialize(t, 10)

	accounts := []*account.Info{f.payer, f.vault, f.receipt}
	for _, amount := range []uint64{5, 7} {
		_, err := f.prog.Invoke(accounts, mustData(t, Deposit{Amount: amount}))
		require.NoError(t, err)
	}

	assert.Equal(t, uint64(22), f.balance(t))
	r, err := account.Load[Receipt](f.receipt)
	require.NoError(t, err)
	assert.Equal(t, Receipt{Vault: f.vault.Key(), Count: 2, Last: 7}, r)
}

func TestDepositValidation(t *testing.T) {
	t.Run("wrong authority", func(t *testing.T) {
		f := newFixture(t)
		f.initialize(t, 10)
		other := account.NewInfo(pubkey.New(), nil, account.Signer())

		_, err := f.prog.Invoke([]*account.Info{other, f.vault, f.receipt}, mustData(t, Deposit{Amount: 1}))
		assert.True(t, errors.Is(err, ErrUnauthorized), "got %v", err)
		assert.Equal(t, uint64(10), f.balance(t))
	})

	t.Run("overflow", func(t *testing.T) {
		f := newFixture(t)
		f.initialize(t, 10)

		_, err := f.prog.Invoke([]*account.Info{f.payer, f.vault, f.receipt}, mustData(t, Deposit{Amount: ^uint64(0)}))
		assert.True(t, errors.Is(err, ErrOverflow), "got %v", err)
		assert.Equal(t, uint64(10), f.balance(t))
	})

	t.Run("uninitialized vault", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.prog.Invoke([]*account.Info{f.payer, f.vault, f.receipt}, mustData(t, Deposit{Amount: 1}))
		assert.True(t, errors.Is(err, account.ErrInvalidAccountData), "got %v", err)
	})

	t.Run("receipt of another vault", func(t *testing.T) {
		f := newFixture(t)
		f.initialize(t, 10)
		require.NoError(t, account.Write(Receipt{Vault: pubkey.New(), Count: 3}, f.receipt))

		_, err := f.prog.Invoke([]*account.Info{f.payer, f.vault, f.receipt}, mustData(t, Deposit{Amount: 1}))
		assert.True(t, errors.Is(err, ErrReceiptMismatch), "got %v", err)
		assert.Equal(t, uint64(10), f.balance(t))
	})
}

func TestWithdraw(t *testing.T) {
	f := newFixture(t)
	f.initialize(t, 50)
	accounts := []*account.Info{f.payer, f.vault}

	_, err := f.prog.Invoke(accounts, mustData(t, Withdraw{Amount: 20}))
	require.NoError(t, err)
	assert.Equal(t, uint64(30), f.balance(t))

	_, err = f.prog.Invoke(accounts, mustData(t, Withdraw{Amount: 31}))
	assert.True(t, errors.Is(err, ErrInsufficientFunds), "got %v", err)
	assert.Equal(t, uint64(30), f.balance(t))

	_, err = f.prog.Invoke(accounts, mustData(t, Withdraw{Amount: 30}))
	require.NoError(t, err)
	assert.Equal(t, uint64(0), f.balance(t))
}

func TestMalformedInstructionData(t *testing.T) {
	f := newFixture(t)
	accounts := []*account.Info{f.payer, f.vault, f.system}

	_, err := f.prog.Invoke(accounts, []byte{DepositTag, 1, 2})
	assert.True(t, errors.Is(err, program.ErrInvalidInstructionData), "got %v", err)
	assert.True(t, errors.Is(err, account.ErrAccountDataTooSmall), "got %v", err)

	_, err = f.prog.Invoke(accounts, []byte{9})
	assert.True(t, errors.Is(err, program.ErrUnknownInstruction), "got %v", err)
}
