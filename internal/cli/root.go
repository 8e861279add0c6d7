// Package cli defines the root Cobra command and global flag/context setup.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/adi-family/pluginhost/internal/cli/commands"
	"github.com/adi-family/pluginhost/internal/core/config"
	"github.com/adi-family/pluginhost/pkg/host"
	"github.com/adi-family/pluginhost/pkg/pluginlog"
	"github.com/adi-family/pluginhost/pkg/pprint"
	"github.com/adi-family/pluginhost/pkg/regclient"
)

// globalFlags holds values bound to persistent global flags.
var globalFlags struct {
	configFile string
	debug      bool
	jsonOutput bool
	registry   string
}

// rootCmd is the base command for pluginhostctl.
var rootCmd = &cobra.Command{
	Use:           "pluginhostctl",
	Short:         "pluginhostctl — operate a native plugin host from the terminal",
	Long:          ``, // help output is wrapped by the SetHelpFunc call in Execute
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" || cmd.Name() == "init" || cmd.Name() == "completion" {
			return nil
		}
		return initRuntime(cmd)
	},
}

// Execute runs the CLI. Called by main().
func Execute() {
	origHelp := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		pprint.PrintBanner(commands.Version, commands.BuildDate)
		origHelp(cmd, args)
	})

	if err := rootCmd.Execute(); err != nil {
		pprint.Error("%s", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&globalFlags.configFile, "config", "c", "", "Path to config.yaml (defaults to auto-discovery)")
	rootCmd.PersistentFlags().BoolVar(&globalFlags.debug, "debug", false, "Enable debug-level logging")
	rootCmd.PersistentFlags().BoolVar(&globalFlags.jsonOutput, "json", false, "Output in machine-readable JSON")
	rootCmd.PersistentFlags().StringVar(&globalFlags.registry, "registry", "", "Registry base URL (overrides config)")

	rootCmd.AddCommand(
		commands.NewInitCmd(),
		commands.NewScanCmd(),
		commands.NewEnableCmd(),
		commands.NewDisableCmd(),
		commands.NewInstallCmd(),
		commands.NewUninstallCmd(),
		commands.NewStatusCmd(),
		commands.NewServicesCmd(),
		commands.NewMessageCmd(),
		commands.NewDashCmd(),
		commands.NewVersionCmd(),
	)
}

// initRuntime loads config, logging, and the plugin host before each command runs.
func initRuntime(cmd *cobra.Command) error {
	opts := []config.Option{}
	if globalFlags.registry != "" {
		opts = append(opts, config.WithRegistry(globalFlags.registry))
	}

	cfg, err := config.Load(globalFlags.configFile, opts...)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logLevel := cfg.Log.Level
	if globalFlags.debug {
		logLevel = "debug"
	}
	log, err := pluginlog.New(logLevel, cfg.Log.Format, config.Home())
	if err != nil {
		return fmt.Errorf("logger init: %w", err)
	}

	var hostOpts []host.Option
	if cfg.RegistryURL != "" {
		hostOpts = append(hostOpts, host.WithRegistryClient(regclient.New(cfg.RegistryURL)))
	}

	h, err := host.New(cfg, log, hostOpts...)
	if err != nil {
		return fmt.Errorf("plugin host: %w", err)
	}

	cmd.SetContext(commands.NewContext(cmd.Context(), &commands.Runtime{
		Config: cfg,
		Log:    log,
		Host:   h,
		Flags: commands.GlobalFlags{
			Debug:      globalFlags.debug,
			JSONOutput: globalFlags.jsonOutput,
		},
	}))

	return nil
}
