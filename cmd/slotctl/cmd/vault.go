package cmd

import (
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/ssargent/slotkit/pkg/account"
	"github.com/ssargent/slotkit/pkg/di"
	"github.com/ssargent/slotkit/pkg/pubkey"
	"github.com/ssargent/slotkit/pkg/storage"
	"github.com/ssargent/slotkit/pkg/vault"
)

var vaultCmd = &cobra.Command{
	Use:   "vault",
	Short: "Run vault program instructions",
	Long: `Run vault program instructions against stored slots. The --signer
key is treated as having signed the invocation.

Example:
  slotctl vault init <vault> 100 --signer <authority>
  slotctl vault deposit <vault> <receipt> 50 --signer <authority>`,
}

var vaultInitCmd = &cobra.Command{
	Use:   "init <vault> <amount>",
	Short: "Initialize a vault slot",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := parseAmount(args[1])
		if err != nil {
			return err
		}
		return runVault(cmd, vault.Initialize{Amount: amount}, args[0], "")
	},
}

var vaultDepositCmd = &cobra.Command{
	Use:   "deposit <vault> <receipt> <amount>",
	Short: "Deposit into a vault",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := parseAmount(args[2])
		if err != nil {
			return err
		}
		return runVault(cmd, vault.Deposit{Amount: amount}, args[0], args[1])
	},
}

var vaultWithdrawCmd = &cobra.Command{
	Use:   "withdraw <vault> <amount>",
	Short: "Withdraw from a vault",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := parseAmount(args[1])
		if err != nil {
			return err
		}
		return runVault(cmd, vault.Withdraw{Amount: amount}, args[0], "")
	},
}

// vaultMetas lays out the slots in the role order each instruction expects.
func vaultMetas(ix account.Serializer, signer, vaultKey pubkey.Pubkey, third string) ([]storage.Meta, error) {
	metas := []storage.Meta{
		{Key: signer, Signer: true},
		{Key: vaultKey, Writable: true},
	}
	switch ix.(type) {
	case vault.Initialize:
		metas = append(metas, storage.Meta{Key: pubkey.Pubkey{}})
	case vault.Deposit:
		receipt, err := pubkey.FromString(third)
		if err != nil {
			return nil, errors.Wrap(err, "receipt")
		}
		metas = append(metas, storage.Meta{Key: receipt, Writable: true})
	}
	return metas, nil
}

func runVault(cmd *cobra.Command, ix account.Serializer, vaultArg, third string) error {
	c, err := containerFrom(cmd)
	if err != nil {
		return err
	}
	signerArg, _ := cmd.Flags().GetString("signer")
	signer, err := pubkey.FromString(signerArg)
	if err != nil {
		return errors.Wrap(err, "--signer")
	}
	vaultKey, err := pubkey.FromString(vaultArg)
	if err != nil {
		return errors.Wrap(err, "vault")
	}
	metas, err := vaultMetas(ix, signer, vaultKey, third)
	if err != nil {
		return err
	}

	name, err := invoke(c, metas, ix)
	if err != nil {
		return err
	}
	cmd.Printf("%s committed\n", name)
	return nil
}

// invoke loads the slots, runs the instruction and commits on success.
func invoke(c *di.Container, metas []storage.Meta, ix account.Serializer) (string, error) {
	prog, err := c.Program()
	if err != nil {
		return "", err
	}
	store, err := c.Store()
	if err != nil {
		return "", err
	}
	data, err := account.ToBytes(ix)
	if err != nil {
		return "", err
	}

	infos, err := store.Load(metas)
	if err != nil {
		return "", err
	}
	inv, err := prog.Invoke(infos, data)
	if err != nil {
		return "", err
	}
	if err := store.Commit(infos); err != nil {
		return "", err
	}
	return inv.Instruction, nil
}

func init() {
	rootCmd.AddCommand(vaultCmd)
	vaultCmd.AddCommand(vaultInitCmd, vaultDepositCmd, vaultWithdrawCmd)
	for _, c := range []*cobra.Command{vaultInitCmd, vaultDepositCmd, vaultWithdrawCmd} {
		c.Flags().String("signer", "", "Base58 key of the signing authority (required)")
		_ = c.MarkFlagRequired("signer")
	}
}
