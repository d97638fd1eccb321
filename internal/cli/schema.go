package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ecoguard/backend/internal/wizard"
)

func newSchemaCmd() *cobra.Command {
	var (
		withImage bool
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the wizard steps and their fields",
		RunE: func(cmd *cobra.Command, _ []string) error {
			steps := wizard.Steps(withImage)

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(steps)
			}

			out := cmd.OutOrStdout()
			for _, s := range steps {
				fmt.Fprintf(out, "%d. %s\n", s.Number, s.Title)
				for _, f := range s.Fields {
					line := "   " + string(f.Name) + " (" + string(f.Kind) + ")"
					if len(f.Options) > 0 {
						line += ": " + strings.Join(f.Options, " | ")
					}
					fmt.Fprintln(out, line)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&withImage, "image", false, "include the waste image step")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")

	return cmd
}
