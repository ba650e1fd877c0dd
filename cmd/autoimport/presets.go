package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/ludo-technologies/autoimport/domain"
	"github.com/ludo-technologies/autoimport/internal/presets"
)

func presetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "presets [name]",
		Short: "List built-in presets",
		Long: `List the built-in presets, or the imports of one preset.

Package presets discover their exports from the installed package's typings, so their
imports are only known inside a project.

Examples:
  autoimport presets
  autoimport presets vue`,
		Args:          cobra.MaximumNArgs(1),
		RunE:          runPresets,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	return cmd
}

func runPresets(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if len(args) == 0 {
		fmt.Fprintln(out, renderPresetList())
		return nil
	}

	groups, ok := presets.Lookup(args[0])
	if !ok {
		return &ExitError{Code: 2, Message: fmt.Sprintf("unknown preset %q (available: %s)",
			args[0], strings.Join(presets.Names(), ", "))}
	}
	fmt.Fprintln(out, renderPresetImports(args[0], groups))
	return nil
}

func newTable() table.Writer {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	tbl.Style().Options.SeparateColumns = false
	tbl.Style().Options.DrawBorder = false
	return tbl
}

func renderPresetList() string {
	tbl := newTable()
	tbl.AppendHeader(table.Row{"Preset", "Modules", "Imports"})

	names := presets.Names()
	for _, name := range names {
		groups, _ := presets.Lookup(name)
		var modules []string
		count := 0
		for _, g := range groups {
			if g.IsPackagePreset() {
				modules = append(modules, g.Package+" (package)")
				continue
			}
			modules = append(modules, g.From)
			count += len(g.Imports)
		}
		imports := fmt.Sprint(count)
		if count == 0 {
			imports = "-"
		}
		tbl.AppendRow(table.Row{name, strings.Join(modules, ", "), imports})
	}

	tbl.AppendFooter(table.Row{fmt.Sprintf("Total: %d presets", len(names))})
	return tbl.Render()
}

func renderPresetImports(name string, groups []domain.Preset) string {
	tbl := newTable()
	tbl.AppendHeader(table.Row{"Name", "As", "From", "Type"})

	var rows []table.Row
	for _, g := range groups {
		if g.IsPackagePreset() {
			rows = append(rows, table.Row{"(exports of " + g.Package + ")", "", g.Package, ""})
			continue
		}
		for _, imp := range g.Imports {
			kind := ""
			if imp.Type {
				kind = "type"
			}
			rows = append(rows, table.Row{imp.Name, imp.As, g.From, kind})
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return fmt.Sprint(rows[i][0]) < fmt.Sprint(rows[j][0])
	})
	tbl.AppendRows(rows)

	tbl.AppendFooter(table.Row{fmt.Sprintf("%s: %d imports", name, len(rows))})
	return tbl.Render()
}
