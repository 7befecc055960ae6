package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/syednoorhussain2025/articleflow/pkg/catalog"
)

// validateCommand creates the validate command for checking authoring files.
func (c *CLI) validateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [template.toml]",
		Short: "Validate a template file against the section catalog",
		Long: `Validate a template file against the section catalog.

Checks that every section reference resolves, the overflow strategy is
known, and every text-flow block carries a usable word policy. The layout
engine itself tolerates unknown section references by skipping them;
validate exists to catch authoring mistakes before they silently drop
sections from the article.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tpl, cat, err := catalog.LoadFile(args[0])
			if err != nil {
				return err
			}
			if err := catalog.Validate(tpl, cat); err != nil {
				printError("Validation failed")
				return err
			}
			printSuccess("Template %q is valid", tpl.ID)
			printKeyValue("Version", fmt.Sprintf("%d", tpl.Version))
			printKeyValue("Sections", fmt.Sprintf("%d", len(tpl.Sections)))
			printKeyValue("Overflow", tpl.Overflow())
			fmt.Println()
			return nil
		},
	}
	return cmd
}
