package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/ecoguard/backend/internal/domain"
	"github.com/ecoguard/backend/internal/tui"
)

func newCalcCmd(rt *runtime) *cobra.Command {
	var imagePath string

	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Run the interactive carbon calculator",
		Example: `  # Answer the survey in the terminal
  ecoguard calc

  # Include a waste photo for material detection
  ecoguard calc --image bin.jpg`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var img *domain.Image
			if imagePath != "" {
				loaded, err := readImage(imagePath)
				if err != nil {
					return err
				}
				img = loaded
			}

			model := tui.New(cmd.Context(), rt.dashboard(), img)
			p := tea.NewProgram(model,
				tea.WithContext(cmd.Context()),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
			)
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("calc: terminal UI failed: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&imagePath, "image", "", "waste photo to analyse")

	return cmd
}
