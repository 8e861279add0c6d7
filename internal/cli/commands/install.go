// pluginhostctl install / uninstall — manage packages via the registry client.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/adi-family/pluginhost/pkg/pprint"
)

func NewInstallCmd() *cobra.Command {
	var version string

	cmd := &cobra.Command{
		Use:   "install <package-id>",
		Short: "Download, verify, and extract a package from the registry",
		Args:  cobra.ExactArgs(1),
		Example: `  pluginhostctl install acme.suite
  pluginhostctl install acme.suite --version 1.2.0`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt := FromContext(cmd.Context())
			id := args[0]
			if version == "" {
				version = "latest"
			}

			sp := pprint.NewSpinner(fmt.Sprintf("Installing %s@%s", id, version))
			sp.Start()

			err := rt.Host.InstallPackage(cmd.Context(), id, version)
			if err != nil {
				sp.Stop(false)
				pprint.Error("Install failed: %v", err)
				return fmt.Errorf("install %s: %w", id, err)
			}

			sp.Stop(true)
			pprint.Success("Installed %s@%s", id, version)
			return nil
		},
	}

	cmd.Flags().StringVar(&version, "version", "", "Package version to install (default: latest)")
	return cmd
}

func NewUninstallCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "uninstall <package-id>",
		Short:        "Disable every plugin in a package and remove it from disk",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt := FromContext(cmd.Context())
			id := args[0]

			if err := rt.Host.UninstallPackage(id); err != nil {
				pprint.Error("Uninstall failed: %v", err)
				return fmt.Errorf("uninstall %s: %w", id, err)
			}

			pprint.Success("Uninstalled %s", id)
			return nil
		},
	}
}
