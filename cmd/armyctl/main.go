// cmd/armyctl/main.go
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"army-list-builder-backend/internal/armylist"
	"army-list-builder-backend/internal/catalog"
	"army-list-builder-backend/internal/models"

	"github.com/spf13/cobra"
)

// exitErr передаёт код выхода через цепочку ошибок cobra
type exitErr struct {
	code int
	msg  string
}

func (e *exitErr) Error() string { return e.msg }

func codeError(code int, format string, args ...any) error {
	return &exitErr{code: code, msg: fmt.Sprintf(format, args...)}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		var ee *exitErr
		if errors.As(err, &ee) {
			os.Exit(ee.code)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var catalogFile string

	root := &cobra.Command{
		Use:           "armyctl",
		Short:         "Offline checks for the unit catalog and saved army lists",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&catalogFile, "file", "", "Catalog YAML file (embedded catalog when empty)")

	catalogCmd := &cobra.Command{Use: "catalog", Short: "Inspect the unit catalog"}
	catalogCmd.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Load the catalog, verify its invariants and print a per-faction summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCatalogCheck(cmd.OutOrStdout(), catalogFile)
		},
	})

	var csvOut string
	csvCmd := &cobra.Command{
		Use:   "csv",
		Short: "Write the catalog as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCatalogCSV(cmd.OutOrStdout(), catalogFile, csvOut)
		},
	}
	csvCmd.Flags().StringVar(&csvOut, "out", "", "Write CSV to file instead of stdout")
	catalogCmd.AddCommand(csvCmd)

	sheetCmd := &cobra.Command{Use: "csv", Short: "Cross-check unit spreadsheets"}
	sheetCmd.AddCommand(&cobra.Command{
		Use:   "check <file.csv>",
		Short: "Compare a units CSV against the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCSVCheck(cmd.OutOrStdout(), catalogFile, args[0])
		},
	})

	listCmd := &cobra.Command{Use: "list", Short: "Work with exported army lists"}
	listCmd.AddCommand(&cobra.Command{
		Use:   "validate <file.json>",
		Short: "Restore an exported list and report dropped entries, violations and totals",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runListValidate(cmd.OutOrStdout(), catalogFile, args[0])
		},
	})

	root.AddCommand(catalogCmd, sheetCmd, listCmd)
	return root
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.LoadEmbedded()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return catalog.Parse(data)
}

func runCatalogCheck(w io.Writer, catalogFile string) error {
	cat, err := loadCatalog(catalogFile)
	if err != nil {
		return codeError(1, "catalog is invalid:\n%v", err)
	}

	for _, f := range cat.ListFactions() {
		units, _ := cat.GetUnits(f.ID)
		var highCommand, companions []string
		for _, u := range units {
			if u.HighCommand {
				highCommand = append(highCommand, u.ID)
			}
			if u.Companion != "" {
				companions = append(companions, u.ID+"->"+u.Companion)
			}
		}
		fmt.Fprintf(w, "%s (%s): %d units\n", f.ID, f.Name, len(units))
		fmt.Fprintf(w, "  high command: %s\n", joinOrDash(highCommand))
		fmt.Fprintf(w, "  companions:   %s\n", joinOrDash(companions))
	}
	fmt.Fprintf(w, "OK: %d units\n", cat.Len())
	return nil
}

func runCatalogCSV(w io.Writer, catalogFile, out string) error {
	cat, err := loadCatalog(catalogFile)
	if err != nil {
		return codeError(1, "catalog is invalid:\n%v", err)
	}

	if out == "" {
		return catalog.WriteCSV(w, cat)
	}

	f, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := catalog.WriteCSV(f, cat); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func runCSVCheck(w io.Writer, catalogFile, sheetPath string) error {
	cat, err := loadCatalog(catalogFile)
	if err != nil {
		return codeError(1, "catalog is invalid:\n%v", err)
	}

	f, err := os.Open(sheetPath)
	if err != nil {
		return err
	}
	defer f.Close()

	mismatches, err := catalog.CompareCSV(f, cat)
	if err != nil {
		return codeError(1, "%s: %v", sheetPath, err)
	}

	for _, m := range mismatches {
		fmt.Fprintln(w, m.String())
	}
	if len(mismatches) > 0 {
		return codeError(2, "%d mismatches between %s and the catalog", len(mismatches), sheetPath)
	}
	fmt.Fprintln(w, "OK: sheet matches the catalog")
	return nil
}

func runListValidate(w io.Writer, catalogFile, listPath string) error {
	cat, err := loadCatalog(catalogFile)
	if err != nil {
		return codeError(1, "catalog is invalid:\n%v", err)
	}

	data, err := os.ReadFile(listPath)
	if err != nil {
		return err
	}
	var snapshot models.ArmyListSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return codeError(1, "%s: %v", listPath, err)
	}

	list, report, err := armylist.Restore(cat, snapshot)
	if err != nil {
		return codeError(1, "%s: %v", listPath, err)
	}

	totals := list.Totals(cat)
	fmt.Fprintf(w, "faction: %s\n", list.FactionID())
	fmt.Fprintf(w, "units: %d  points: %d  command: %d\n", totals.Units, totals.Points, totals.Command)
	for _, d := range report.Dropped {
		fmt.Fprintf(w, "dropped: %s x%d (%s)\n", d.UnitID, d.Count, d.Reason)
	}
	for _, v := range report.Violations {
		if v.RelatedID != "" {
			fmt.Fprintf(w, "violation: %s %s (%s)\n", v.Kind, v.UnitID, v.RelatedID)
			continue
		}
		fmt.Fprintf(w, "violation: %s %s\n", v.Kind, v.UnitID)
	}

	if !report.Valid() {
		return codeError(2, "%s is not a valid army list", listPath)
	}
	fmt.Fprintln(w, "OK: list is valid")
	return nil
}

func joinOrDash(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, ", ")
}
