// pluginhostctl scan — rebuild the installed inventory from disk.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/adi-family/pluginhost/pkg/pprint"
)

func NewScanCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "scan",
		Short:        "Rescan the plugins directory and rebuild the installed inventory",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt := FromContext(cmd.Context())

			if err := rt.Host.ScanInstalled(); err != nil {
				return fmt.Errorf("scan: %w", err)
			}

			pkgs := rt.Host.Packages()
			plugins := rt.Host.Plugins()
			pprint.Success("Scan complete — %d package(s), %d plugin(s)", len(pkgs), len(plugins))

			table := pprint.NewTable("PLUGIN", "PACKAGE", "VERSION")
			for id, p := range plugins {
				table.AddRow(id, p.PackageID, p.Manifest.Version)
			}
			table.Render()
			return nil
		},
	}
}
