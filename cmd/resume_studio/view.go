package main

import (
	"encoding/json"
	"fmt"

	"github.com/jonathan/resume-studio/internal/content"
	"github.com/jonathan/resume-studio/internal/filter"
	"github.com/jonathan/resume-studio/internal/observability"
	"github.com/jonathan/resume-studio/internal/types"
	"github.com/spf13/cobra"
)

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Print the filtered résumé view of a tab",
	Long:  "Resolves the profile in one language and prints what a tab shows: headline, skills and experiences.",
	RunE:  runView,
}

var (
	viewTab      string
	viewLanguage string
	viewJSON     bool
)

func init() {
	viewCmd.Flags().StringVarP(&viewTab, "tab", "t", string(types.TabFull), "Tab to show (full, fitness, tech, management, content-creation, references)")
	viewCmd.Flags().StringVarP(&viewLanguage, "lang", "l", content.DefaultLanguage, "Profile language")
	viewCmd.Flags().BoolVar(&viewJSON, "json", false, "Print the view as JSON")
	rootCmd.AddCommand(viewCmd)
}

func runView(cmd *cobra.Command, _ []string) error {
	tab, err := types.ParseTab(viewTab)
	if err != nil {
		return err
	}
	bundle, err := content.NewLoader().Load(viewLanguage)
	if err != nil {
		return err
	}

	view := filter.Apply(tab, bundle.Profile, filter.DefaultFilterMap())
	out := cmd.OutOrStdout()

	if viewJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(view); err != nil {
			return fmt.Errorf("failed to marshal view: %w", err)
		}
		return nil
	}

	observability.NewPrinter(out).PrintView(bundle.Profile.Name, view)
	return nil
}
