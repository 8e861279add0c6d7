// pluginhostctl init — scaffold a new config.yaml in the host home directory.
package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/adi-family/pluginhost/internal/core/config"
)

func NewInitCmd() *cobra.Command {
	var targetPath string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Scaffold a new config.yaml for the plugin host",
		Example: `  pluginhostctl init
  pluginhostctl init --path ~/.pluginhost`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if targetPath == "" {
				targetPath = config.Home()
			}
			outFile := filepath.Join(targetPath, "config.yaml")
			if _, err := os.Stat(outFile); err == nil {
				return fmt.Errorf("config.yaml already exists at %s — delete it first to reinitialise", outFile)
			}

			if err := os.MkdirAll(targetPath, 0o750); err != nil {
				return fmt.Errorf("create dir %q: %w", targetPath, err)
			}

			if err := os.WriteFile(outFile, []byte(config.DefaultConfigTemplate), 0o644); err != nil {
				return fmt.Errorf("write config.yaml: %w", err)
			}

			fmt.Printf("✓ Created %s\n", outFile)
			fmt.Println("  Edit it to set a registry and trusted keys, then run: pluginhostctl scan")
			return nil
		},
	}

	cmd.Flags().StringVar(&targetPath, "path", "", "Target directory for config.yaml (defaults to the host home directory)")
	return cmd
}
