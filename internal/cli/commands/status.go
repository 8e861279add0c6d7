// pluginhostctl status / services / message — inspect and poke a running host.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/adi-family/pluginhost/pkg/pprint"
)

func NewStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "status <package-id>",
		Short:        "Print the install status of a package",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt := FromContext(cmd.Context())
			id := args[0]

			st, err := rt.Host.InstallStatus(id)
			if err != nil {
				return fmt.Errorf("status %s: %w", id, err)
			}
			if st.State == "" {
				pprint.Info("%s is not installed", id)
				return nil
			}

			pprint.KV("State    ", st.State)
			if st.Version != "" {
				pprint.KV("Version  ", st.Version)
			}
			if st.Latest != "" {
				pprint.KV("Latest   ", st.Latest)
			}
			if st.Error != "" {
				pprint.KV("Error    ", st.Error)
			}
			pprint.KV("Loaded   ", fmt.Sprintf("%v", rt.Host.IsLoaded(id)))
			return nil
		},
	}
}

func NewServicesCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "services",
		Short:        "List every service currently registered",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt := FromContext(cmd.Context())

			table := pprint.NewTable("SERVICE", "VERSION", "PROVIDER")
			for _, d := range rt.Host.ListServices() {
				table.AddRow(d.ID, d.Version.String(), d.ProviderID)
			}
			table.Render()
			return nil
		},
	}
}

func NewMessageCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "message <plugin-id> <type> <data>",
		Short:        "Send a message to a loaded plugin and print its response",
		Args:         cobra.ExactArgs(3),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt := FromContext(cmd.Context())
			id, msgType, data := args[0], args[1], args[2]

			result, err := rt.Host.SendMessage(id, msgType, data)
			if err != nil {
				return fmt.Errorf("message %s: %w", id, err)
			}

			fmt.Println(result)
			return nil
		},
	}
}
