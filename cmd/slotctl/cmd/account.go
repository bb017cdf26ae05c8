package cmd

import (
	"encoding/hex"

	"github.com/spf13/cobra"

	"github.com/ssargent/slotkit/pkg/account"
	"github.com/ssargent/slotkit/pkg/pubkey"
	"github.com/ssargent/slotkit/pkg/vault"
)

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Create and inspect slots",
}

var accountCreateCmd = &cobra.Command{
	Use:   "create <size>",
	Short: "Allocate a zeroed slot owned by the program",
	Long: `Allocate a zeroed slot. Use "vault" or "receipt" as the size for the
vault record sizes.

Example:
  slotctl account create vault`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := containerFrom(cmd)
		if err != nil {
			return err
		}
		size, err := parseSize(args[0])
		if err != nil {
			return err
		}
		prog, err := c.Program()
		if err != nil {
			return err
		}
		store, err := c.Store()
		if err != nil {
			return err
		}

		key, err := store.Create(prog.ID(), size)
		if err != nil {
			return err
		}
		cmd.Println(key.String())
		return nil
	},
}

var accountGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Show a slot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := containerFrom(cmd)
		if err != nil {
			return err
		}
		key, err := pubkey.FromString(args[0])
		if err != nil {
			return err
		}
		store, err := c.Store()
		if err != nil {
			return err
		}
		slot, err := store.Get(key)
		if err != nil {
			return err
		}

		cmd.Printf("key:   %s\n", slot.Key)
		cmd.Printf("owner: %s\n", slot.Owner)
		cmd.Printf("size:  %d\n", len(slot.Data))
		cmd.Printf("data:  %s\n", hex.EncodeToString(slot.Data))
		switch {
		case account.Is[vault.Vault](slot.Data):
			v, err := account.TryFromBytes[vault.Vault](slot.Data)
			if err != nil {
				return err
			}
			cmd.Printf("vault: authority=%s amount=%d bump=%d\n", v.Authority, v.Amount, v.Bump)
		case account.Is[vault.Receipt](slot.Data):
			r, err := account.TryFromBytes[vault.Receipt](slot.Data)
			if err != nil {
				return err
			}
			cmd.Printf("receipt: vault=%s count=%d last=%d\n", r.Vault, r.Count, r.Last)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(accountCmd)
	accountCmd.AddCommand(accountCreateCmd, accountGetCmd)
}
