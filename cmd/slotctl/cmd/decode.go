package cmd

import (
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/ssargent/slotkit/pkg/account"
	"github.com/ssargent/slotkit/pkg/vault"
)

var decodeCmd = &cobra.Command{
	Use:   "decode <hex>",
	Short: "Decode a hex-encoded vault record",
	Long: `Decode raw slot bytes without touching the store.

Example:
  slotctl decode 02a1b2...`,
	Args:        cobra.ExactArgs(1),
	Annotations: map[string]string{"skipContainer": "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := describe(args[0])
		if err != nil {
			return err
		}
		cmd.Println(out)
		return nil
	},
}

// describe renders a slot as text, or fails when no vault record matches.
func describe(hexData string) (string, error) {
	data, err := hex.DecodeString(strings.TrimPrefix(hexData, "0x"))
	if err != nil {
		return "", errors.Wrap(err, "invalid hex")
	}
	tag, ok := account.Peek(data)
	if !ok {
		return "", account.ErrInvalidAccountData
	}

	switch tag {
	case vault.Vault{}.Discriminator():
		v, err := account.TryFromBytes[vault.Vault](data)
		if err != nil {
			return "", err
		}
		return "vault authority=" + v.Authority.String() +
			" amount=" + strconv.FormatUint(v.Amount, 10) +
			" bump=" + strconv.Itoa(int(v.Bump)), nil
	case vault.Receipt{}.Discriminator():
		r, err := account.TryFromBytes[vault.Receipt](data)
		if err != nil {
			return "", err
		}
		return "receipt vault=" + r.Vault.String() +
			" count=" + strconv.FormatUint(uint64(r.Count), 10) +
			" last=" + strconv.FormatUint(r.Last, 10), nil
	}
	return "", errors.Wrapf(account.ErrInvalidAccountData, "unknown tag %d", tag)
}

// parseSize accepts a byte count or the name of a vault record.
func parseSize(arg string) (int, error) {
	switch arg {
	case "vault":
		return vault.VaultSize, nil
	case "receipt":
		return vault.ReceiptSize, nil
	}
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, errors.Newf("size must be a number, \"vault\" or \"receipt\", got %q", arg)
	}
	if n <= 0 {
		return 0, errors.Newf("size must be positive, got %d", n)
	}
	return n, nil
}

func init() {
	rootCmd.AddCommand(decodeCmd)
}
