package cmd

import (
	"encoding/hex"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ssargent/slotkit/pkg/account"
	"github.com/ssargent/slotkit/pkg/di"
	"github.com/ssargent/slotkit/pkg/pubkey"
	"github.com/ssargent/slotkit/pkg/vault"
)

const (
	simVaultOffset   = 0
	simReceiptOffset = 64
)

var vaultSimulateCmd = &cobra.Command{
	Use:   "simulate <deposit> <withdraw>",
	Short: "Run initialize, deposit and withdraw against wasm linear memory",
	Long: `Run a full vault cycle on slots that alias a wasm linear memory instead
of the store. Nothing is committed; the final guest bytes are printed.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := containerFrom(cmd)
		if err != nil {
			return err
		}
		deposit, err := parseAmount(args[0])
		if err != nil {
			return err
		}
		withdraw, err := parseAmount(args[1])
		if err != nil {
			return err
		}

		vaultBytes, receiptBytes, err := simulate(cmd, c, deposit, withdraw)
		if err != nil {
			return err
		}
		cmd.Printf("vault:   %s\n", hex.EncodeToString(vaultBytes))
		cmd.Printf("receipt: %s\n", hex.EncodeToString(receiptBytes))
		return nil
	},
}

func simulate(cmd *cobra.Command, c *di.Container, deposit, withdraw uint64) ([]byte, []byte, error) {
	prog, err := c.Program()
	if err != nil {
		return nil, nil, err
	}
	mem, err := c.Memory(cmd.Context())
	if err != nil {
		return nil, nil, err
	}
	defer mem.Close(cmd.Context())

	authority := account.NewInfo(pubkey.New(), nil, account.Signer())
	system := account.NewInfo(pubkey.Pubkey{}, nil)
	vaultSlot, err := mem.Slot(pubkey.New(), simVaultOffset, vault.VaultSize, account.WithOwner(prog.ID()), account.Writable())
	if err != nil {
		return nil, nil, err
	}
	receiptSlot, err := mem.Slot(pubkey.New(), simReceiptOffset, vault.ReceiptSize, account.WithOwner(prog.ID()), account.Writable())
	if err != nil {
		return nil, nil, err
	}

	steps := []struct {
		ix       account.Serializer
		accounts []*account.Info
	}{
		{vault.Initialize{}, []*account.Info{authority, vaultSlot, system}},
		{vault.Deposit{Amount: deposit}, []*account.Info{authority, vaultSlot, receiptSlot}},
		{vault.Withdraw{Amount: withdraw}, []*account.Info{authority, vaultSlot}},
	}
	for _, step := range steps {
		data, err := account.ToBytes(step.ix)
		if err != nil {
			return nil, nil, err
		}
		inv, err := prog.Invoke(step.accounts, data)
		if err != nil {
			return nil, nil, err
		}
		cmd.Printf("%s ok (%s)\n", inv.Instruction, inv.Duration)
	}

	vaultBytes, err := mem.ReadCopy(simVaultOffset, vault.VaultSize)
	if err != nil {
		return nil, nil, err
	}
	receiptBytes, err := mem.ReadCopy(simReceiptOffset, vault.ReceiptSize)
	if err != nil {
		return nil, nil, err
	}
	return vaultBytes, receiptBytes, nil
}

func parseAmount(arg string) (uint64, error) {
	return strconv.ParseUint(arg, 10, 64)
}

func init() {
	vaultCmd.AddCommand(vaultSimulateCmd)
}
