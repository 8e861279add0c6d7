// pluginhostctl enable — load and initialize a plugin.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/adi-family/pluginhost/pkg/pprint"
)

func NewEnableCmd() *cobra.Command {
	var withDeps bool

	cmd := &cobra.Command{
		Use:   "enable <plugin-id>",
		Short: "Load and initialize a plugin",
		Args:  cobra.ExactArgs(1),
		Example: `  pluginhostctl enable acme.hello
  pluginhostctl enable acme.hello --with-dependencies`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt := FromContext(cmd.Context())
			id := args[0]

			var err error
			if withDeps {
				err = rt.Host.EnableWithDependencies(id)
			} else {
				err = rt.Host.Enable(id)
			}
			if err != nil {
				pprint.Error("Enable failed: %v", err)
				return fmt.Errorf("enable %s: %w", id, err)
			}

			pprint.Success("Enabled %s", id)
			return nil
		},
	}

	cmd.Flags().BoolVar(&withDeps, "with-dependencies", false, "Resolve and enable dependencies first")
	return cmd
}
