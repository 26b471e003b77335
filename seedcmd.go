package main

import (
	"fmt"
	"os"

	"clementus360/focusflow/seed"

	"github.com/spf13/cobra"
)

func newSeedCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Write the demo workspace fixture",
		RunE: func(cmd *cobra.Command, args []string) error {
			data := seed.DemoYAML()
			fixture, err := seed.Parse(data)
			if err != nil {
				return err
			}
			if out == "" || out == "-" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), accentStyle.Render("✓ wrote "+out)+" "+
				mutedStyle.Render(fmt.Sprintf("(%d projects, %d tasks)", len(fixture.Projects), len(fixture.Tasks))))
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "output file (default stdout)")
	return cmd
}
