package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ssargent/slotkit/pkg/api"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the SlotKit HTTP API",
	Long: `Serve slot inspection and instruction invocation over HTTP.

Example:
  slotctl serve --port 9000`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := containerFrom(cmd)
		if err != nil {
			return err
		}
		cfg := c.Config()
		if port, _ := cmd.Flags().GetInt("port"); port != 0 {
			cfg.Port = port
		}
		if bind, _ := cmd.Flags().GetString("bind"); bind != "" {
			cfg.Bind = bind
		}

		store, err := c.Store()
		if err != nil {
			return err
		}
		prog, err := c.Program()
		if err != nil {
			return err
		}

		server := api.NewServer(store, prog, api.ServerConfig{
			Bind:   cfg.Bind,
			Port:   cfg.Port,
			APIKey: cfg.Security.APIKey,
		}, c.Metrics(), c.Logger())
		return api.StartServer(server)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 0, "Port to listen on (overrides config)")
	serveCmd.Flags().String("bind", "", "Address to bind to (overrides config)")
}
