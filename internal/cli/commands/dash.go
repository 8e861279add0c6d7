// pluginhostctl dash — launch the interactive terminal dashboard.
package commands

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/adi-family/pluginhost/internal/tui"
)

func NewDashCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "dash",
		Short:        "Launch the interactive plugin dashboard",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt := FromContext(cmd.Context())

			model := tui.New(tui.Config{
				HostLabel: rt.Config.HostVersion,
				Host:      rt.Host,
			})

			p := tea.NewProgram(model, tea.WithAltScreen())
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("dash: %w", err)
			}
			return nil
		},
	}
}
