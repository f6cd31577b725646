package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gomdhtml/pkg/render"
)

const formatJSON = "json"

func newStylesCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "styles",
		Short: "List code highlighting styles",
		Long: `List the color schemes accepted by --highlight-style and the
render.highlight_style configuration key.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			names := render.HighlightStyles()
			out := cmd.OutOrStdout()

			switch format {
			case formatJSON:
				data, err := json.MarshalIndent(names, "", "  ")
				if err != nil {
					return internalError("marshal styles: %w", err)
				}
				fmt.Fprintln(out, string(data))
			case "text", "":
				for _, name := range names {
					marker := " "
					if name == render.DefaultHighlightStyle {
						marker = "*"
					}
					fmt.Fprintf(out, "%s %s\n", marker, name)
				}
			default:
				return usageError("invalid format %q: must be text or json", format)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "output format: text or json")

	return cmd
}
