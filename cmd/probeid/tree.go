package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"probeid/internal/registry"
	"probeid/internal/taxonomy"
)

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Print the target taxonomy",
	Long: `Tree prints every node of the built-in taxonomy with its role, the
descriptor type it records and, for targets, the capabilities it declares.
The tree is validated first; structural problems are reported as errors.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		roots := taxonomy.Roots()
		if err := registry.Validate(roots); err != nil {
			return err
		}

		name := color.New(color.FgCyan, color.Bold).SprintFunc()
		target := color.New(color.FgGreen, color.Bold).SprintFunc()
		gray := color.New(color.FgHiBlack).SprintFunc()

		out := cmd.OutOrStdout()
		registry.Walk(roots, func(ancestors []registry.Info, n registry.Node) {
			info := n.Info()
			indent := strings.Repeat("  ", len(ancestors))
			if !info.Leaf {
				fmt.Fprintf(out, "%s%s %s %s\n", indent, name(info.Name), info.Role, gray(info.Type))
				return
			}

			caps := make([]string, 0, len(info.Capabilities))
			for _, c := range info.Capabilities {
				caps = append(caps, string(c))
			}
			declared := "none"
			if len(caps) > 0 {
				declared = strings.Join(caps, ", ")
			}
			fmt.Fprintf(out, "%s%s %s %s [%s]\n", indent, target(info.Name), info.Role, gray(info.Type), declared)
		})
		return nil
	},
}

func init() {
	rootCmd.AddCommand(treeCmd)
}
