package cmd

import (
	"context"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/ssargent/slotkit/pkg/config"
	"github.com/ssargent/slotkit/pkg/di"
)

type sessionKey struct{}

// session carries the container built for one command run. Execute closes
// it after the command returns, whether or not the command failed.
type session struct {
	registerer prometheus.Registerer
	container  *di.Container
}

func (s *session) close() error {
	if s.container == nil {
		return nil
	}
	err := s.container.Close()
	s.container = nil
	return err
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "slotctl",
	Short: "SlotKit - tagged record slots and instruction host",
	Long: `slotctl hosts discriminator-tagged record slots in a local pebble
database and runs vault program instructions against them.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Annotations["skipContainer"] == "true" {
			return nil
		}
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		sess, ok := cmd.Context().Value(sessionKey{}).(*session)
		if !ok {
			return errors.New("command run without a session")
		}
		container, err := di.NewContainer(cfg, sess.registerer)
		if err != nil {
			return err
		}
		sess.container = container
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := execute(context.Background(), prometheus.DefaultRegisterer); err != nil {
		os.Exit(1)
	}
}

// execute runs rootCmd and closes the container it built, so the store and
// logger are released on failing commands too.
func execute(ctx context.Context, reg prometheus.Registerer) (err error) {
	sess := &session{registerer: reg}
	defer func() {
		if cerr := sess.close(); err == nil {
			err = cerr
		}
	}()
	return rootCmd.ExecuteContext(context.WithValue(ctx, sessionKey{}, sess))
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", config.GetDefaultConfigPath(), "Path to the configuration file")
	rootCmd.PersistentFlags().StringP("data-dir", "d", "", "Data directory for the slot store (overrides config)")
}

// loadConfig reads --config when it exists and applies flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg := config.DefaultConfig()
	if config.ConfigExists(path) {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if dataDir, _ := cmd.Flags().GetString("data-dir"); dataDir != "" {
		cfg.DataDir = dataDir
	}
	return cfg, nil
}

func containerFrom(cmd *cobra.Command) (*di.Container, error) {
	sess, ok := cmd.Context().Value(sessionKey{}).(*session)
	if !ok || sess.container == nil {
		return nil, errors.New("container not found in context")
	}
	return sess.container, nil
}
