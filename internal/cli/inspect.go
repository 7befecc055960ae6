package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/syednoorhussain2025/articleflow/pkg/catalog"
	"github.com/syednoorhussain2025/articleflow/pkg/flow"
	"github.com/syednoorhussain2025/articleflow/pkg/inspect"
)

// inspectCommand creates the inspect command for visualizing templates and
// layout instances as diagrams.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		template   string
		output     string
		format     string
		breakpoint string
		detailed   bool
	)

	cmd := &cobra.Command{
		Use:   "inspect [layout.json]",
		Short: "Visualize a template or layout instance as a diagram",
		Long: `Visualize a template or layout instance as a diagram.

With a layout.json argument (produced by 'layout'), the diagram shows the
computed block instances and the text cursor's path through them. With
--template and no argument, it shows the template's section and block
structure instead.

Formats: svg (default, rendered with Graphviz) or dot (raw DOT source).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := ""
			if len(args) == 1 {
				input = args[0]
			}
			return c.runInspect(input, template, output, format, breakpoint, detailed)
		},
	}

	cmd.Flags().StringVarP(&template, "template", "t", "", "template TOML file (default: built-in longform template)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: derived from input)")
	cmd.Flags().StringVarP(&format, "format", "f", "svg", "output format: svg, dot")
	cmd.Flags().StringVarP(&breakpoint, "breakpoint", "b", "desktop", "breakpoint for geometry labels")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include geometry and policy details in labels")

	return cmd
}

func (c *CLI) runInspect(input, template, output, format, breakpoint string, detailed bool) error {
	bp, err := catalog.ParseBreakpoint(breakpoint)
	if err != nil {
		return err
	}
	opts := inspect.Options{Detailed: detailed, Breakpoint: bp}

	var dot, defaultBase string
	if input != "" {
		inst, err := flow.ReadFile(input)
		if err != nil {
			return fmt.Errorf("load layout %s: %w", input, err)
		}
		dot = inspect.InstanceDOT(inst, opts)
		defaultBase = strings.TrimSuffix(input, filepath.Ext(input))
	} else {
		tpl := catalog.BuiltinTemplate()
		cat := catalog.Builtin()
		if template != "" {
			tpl, cat, err = catalog.LoadFile(template)
			if err != nil {
				return err
			}
			defaultBase = strings.TrimSuffix(template, filepath.Ext(template))
		} else {
			defaultBase = tpl.ID
		}
		dot = inspect.TemplateDOT(tpl, cat, opts)
	}

	var data []byte
	switch format {
	case "dot":
		data = []byte(dot)
	case "svg":
		data, err = inspect.RenderSVG(dot)
		if err != nil {
			return fmt.Errorf("render diagram: %w", err)
		}
	default:
		return fmt.Errorf("invalid format: %s (must be 'svg' or 'dot')", format)
	}

	outputPath := output
	if outputPath == "" {
		outputPath = defaultBase + "." + format
	}
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Diagram complete")
	printFile(outputPath)
	return nil
}
