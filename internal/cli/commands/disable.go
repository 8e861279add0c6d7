// pluginhostctl disable — tear down a loaded plugin.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/adi-family/pluginhost/pkg/pprint"
)

func NewDisableCmd() *cobra.Command {
	var withDependents bool

	cmd := &cobra.Command{
		Use:   "disable <plugin-id>",
		Short: "Tear down a loaded plugin",
		Args:  cobra.ExactArgs(1),
		Example: `  pluginhostctl disable acme.hello
  pluginhostctl disable acme.hello --with-dependents`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt := FromContext(cmd.Context())
			id := args[0]

			if withDependents {
				rt.Host.DisableWithDependents(id)
			} else {
				rt.Host.Disable(id)
			}

			pprint.Success("Disabled %s", id)
			return nil
		},
	}

	cmd.Flags().BoolVar(&withDependents, "with-dependents", false, "Cascade-disable every plugin depending on this one first")
	return cmd
}
