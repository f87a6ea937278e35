package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/resume-studio/internal/config"
	"github.com/jonathan/resume-studio/internal/gateway"
	"github.com/jonathan/resume-studio/internal/logging"
	"github.com/jonathan/resume-studio/internal/types"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a tab of the résumé to PDF",
	Long:  "Renders one tab with every section expanded and prints it to PDF through headless Chrome.",
	RunE:  runExport,
}

var (
	exportTab      string
	exportLanguage string
	exportOutDir   string
	exportPageSize string
)

func init() {
	exportCmd.Flags().StringVarP(&exportTab, "tab", "t", string(types.TabFull), "Tab to export")
	exportCmd.Flags().StringVarP(&exportLanguage, "lang", "l", "", "Profile language (default from config)")
	exportCmd.Flags().StringVarP(&exportOutDir, "out", "o", ".", "Output directory")
	exportCmd.Flags().StringVar(&exportPageSize, "page-size", "", "Page size (letter, a4)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	tab, err := types.ParseTab(exportTab)
	if err != nil {
		return err
	}
	cfg, err := loadSettings(cmd, func(c *config.Config) {
		if exportPageSize != "" {
			c.PageSize = exportPageSize
		}
	})
	if err != nil {
		return err
	}
	log := logging.New(cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	mgr := newManager(cfg, gateway.Unavailable{}, newRenderer(cfg), log, nil)
	sess, err := mgr.Create()
	if err != nil {
		return err
	}
	if exportLanguage != "" {
		if err := sess.SetLanguage(exportLanguage); err != nil {
			return err
		}
	}
	sess.SetTab(tab)

	fmt.Fprintf(cmd.OutOrStdout(), "Exporting %s (%s)...\n", tab, sess.Language())
	doc, err := sess.Export(context.Background())
	if err != nil {
		return fmt.Errorf("failed to export: %w", err)
	}

	if err := os.MkdirAll(exportOutDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	path := filepath.Join(exportOutDir, doc.Filename)
	if err := os.WriteFile(path, doc.PDF, 0644); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	if len(doc.Preview) > 0 {
		preview := path[:len(path)-len(filepath.Ext(path))] + ".jpg"
		if err := os.WriteFile(preview, doc.Preview, 0644); err != nil {
			return fmt.Errorf("failed to write preview: %w", err)
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d bytes)\n", path, len(doc.PDF))
	return nil
}
