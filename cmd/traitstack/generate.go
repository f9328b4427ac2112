package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/setanarut/traitstack/internal/config"
	"github.com/setanarut/traitstack/internal/runner"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func newGenerateCmd(cfgFile *string) *cobra.Command {
	defaults := config.DefaultConfig()
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Compose and write trait stacks for every package",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, *cfgFile)
			if err != nil {
				return err
			}
			logger := newLogger(cfg)

			summary, err := runner.New(cfg, afero.NewOsFs(), logger).Run(cmd.Context())
			printSummary(cmd.OutOrStdout(), summary)
			return err
		},
	}

	flags := cmd.Flags()
	flags.IntP("count", "n", defaults.Count, "images to generate per package")
	flags.IntP("workers", "w", defaults.Workers, "packages processed concurrently")
	flags.Int64("seed", defaults.Seed, "random seed, 0 for a fresh one per package")
	flags.StringSlice("include", defaults.Include, "glob patterns selecting package directories")
	flags.Bool("halt-on-error", defaults.HaltOnError, "stop the run at the first failed package")
	flags.Bool("metadata", defaults.Metadata, "write a JSON sidecar next to every image")
	flags.Int("palette-size", defaults.Palette.Size, "dominant colors to report per image, 0 to skip")
	flags.String("palette-method", defaults.Palette.Method, "palette method (dominantcolor, kmeans)")
	return cmd
}

func printSummary(w io.Writer, s runner.Summary) {
	fmt.Fprintln(w, TitleStyle.Render("Summary"))
	fmt.Fprintf(w, "  packages  %d found, %s, %s\n",
		s.Found,
		WarningStyle.Render(fmt.Sprintf("%d skipped", s.Skipped)),
		ErrorStyle.Render(fmt.Sprintf("%d failed", s.Failed)))
	fmt.Fprintf(w, "  images    %s\n", SuccessStyle.Render(fmt.Sprintf("%d written", s.Written)))
	for _, res := range s.Results {
		line := "  " + res.Path
		if len(res.Palette) > 0 {
			line += " " + SubtitleStyle.Render(strings.Join(res.Palette, " "))
		}
		fmt.Fprintln(w, line)
	}
}
