package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <itineraries-file>",
		Short: "Validate a candidate itinerary file",
		Long: `Validate parses a candidate itinerary document and checks it against
the input schema: format version compatibility, required fields, and
per-leg time ordering.

Returns exit code 7 on validation failure.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, args[0])
		},
	}

	return cmd
}

func runValidate(cmd *cobra.Command, path string) error {
	doc, err := loadDocument(path)
	if err != nil {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "validation error: %v\n", err)

		return err
	}

	legs := 0
	for _, it := range doc.Itineraries {
		legs += len(it.Legs)
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Validation passed: %d itinerary(ies), %d leg(s), format %s.\n",
		len(doc.Itineraries), legs, doc.FormatVersion)

	return nil
}
