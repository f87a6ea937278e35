package main

import (
	"fmt"

	"github.com/jonathan/resume-studio/internal/content"
	"github.com/jonathan/resume-studio/internal/filter"
	"github.com/jonathan/resume-studio/internal/observability"
	"github.com/spf13/cobra"
)

var checkFiltersCmd = &cobra.Command{
	Use:   "check-filters",
	Short: "Verify that every work category is reachable from a role tab",
	Long:  "Loads every language and reports work categories that no tab other than full would ever show.",
	RunE:  runCheckFilters,
}

func init() {
	rootCmd.AddCommand(checkFiltersCmd)
}

func runCheckFilters(cmd *cobra.Command, _ []string) error {
	loader := content.NewLoader()
	fm := filter.DefaultFilterMap()
	printer := observability.NewPrinter(cmd.OutOrStdout())

	failed := 0
	for _, lang := range content.Languages() {
		bundle, err := loader.Load(lang)
		if err != nil {
			return err
		}
		missing := filter.Unreachable(bundle.Profile, fm)
		fmt.Fprintf(cmd.OutOrStdout(), "Language %s:\n", lang)
		printer.PrintUnreachable(missing)
		if len(missing) > 0 {
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d language(s) have unreachable work categories", failed)
	}
	return nil
}
