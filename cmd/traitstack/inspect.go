package main

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/setanarut/traitstack"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func newInspectCmd(cfgFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <package>",
		Short: "List the layers and variant counts of one package",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, *cfgFile)
			if err != nil {
				return err
			}
			pkg, err := traitstack.BuildPackage(afero.NewOsFs(), cfg.Input, args[0])
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintln(w, TitleStyle.Render(pkg.Name)+" "+SubtitleStyle.Render(pkg.SourceDir))
			fmt.Fprintln(w, row(SubtitleStyle, "index", "layer", "variants"))
			for _, key := range pkg.Layers() {
				fmt.Fprintln(w, row(lipgloss.NewStyle(), strconv.Itoa(key.Index), key.Name, strconv.Itoa(len(pkg.Variants(key)))))
			}
			return nil
		},
	}
}

func row(style lipgloss.Style, index, layer, variants string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top,
		CellStyle.Inherit(style).Width(7).Render(index),
		CellStyle.Inherit(style).Width(16).Render(layer),
		style.Render(variants),
	)
}
