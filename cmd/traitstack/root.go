package main

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/setanarut/traitstack/internal/config"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var cfgFile string

	root := &cobra.Command{
		Use:   "traitstack",
		Short: "Generate random trait stacks from layered artwork",
		Long: TitleStyle.Render("traitstack") + SubtitleStyle.Render(" - random composites from layered artwork") + `

Every directory under the input root is a package. Files named
<index>_<name>_<seq>.png are layer variants: one variant per layer is
picked at random, its 1px guide border is removed and the layers are
stacked from index 0 upwards. Indices 0, 1 and 2 are required.

` + SubtitleStyle.Render("Examples:") + `
  traitstack generate                      One image per package
  traitstack generate -n 50 -w 4           50 images per package, 4 packages at a time
  traitstack inspect my_brand-edition1     Show the layers of one package`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml, toml or json)")
	root.PersistentFlags().StringP("input", "i", "input", "input root containing package directories")
	root.PersistentFlags().StringP("output", "o", "output", "output root")
	root.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(newGenerateCmd(&cfgFile))
	root.AddCommand(newInspectCmd(&cfgFile))
	return root
}

// loadConfig resolves configuration for cmd, honoring its parsed flags.
func loadConfig(cmd *cobra.Command, cfgFile string) (*config.Config, error) {
	return config.Load(config.LoadOptions{
		ConfigFilePath: cfgFile,
		Flags:          cmd.Flags(),
	})
}

func newLogger(cfg *config.Config) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          "traitstack",
		ReportTimestamp: true,
	})
	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	} else {
		logger.Warn("unknown log level, using info", "level", cfg.LogLevel)
	}
	return logger
}
