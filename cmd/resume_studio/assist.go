package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jonathan/resume-studio/internal/assistant"
	"github.com/jonathan/resume-studio/internal/logging"
	"github.com/jonathan/resume-studio/internal/observability"
	"github.com/jonathan/resume-studio/internal/session"
	"github.com/jonathan/resume-studio/internal/types"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var assistCmd = &cobra.Command{
	Use:   "assist",
	Short: "Run the assistant against a job description",
	Long: "Generates a cover letter and a skill gap analysis for a job description, optionally followed by " +
		"a summary of the analysis. Uses GATEWAY_URL when set, otherwise GEMINI_API_KEY in process.",
	RunE: runAssist,
}

var (
	assistJobPath  string
	assistTab      string
	assistLanguage string
	assistOutDir   string
	assistSummary  bool
)

func init() {
	assistCmd.Flags().StringVarP(&assistJobPath, "job", "j", "", "Path to the job description (use - for stdin)")
	assistCmd.Flags().StringVarP(&assistTab, "tab", "t", string(types.TabFull), "Tab whose view is sent as context")
	assistCmd.Flags().StringVarP(&assistLanguage, "lang", "l", "", "Output language (default from config)")
	assistCmd.Flags().StringVarP(&assistOutDir, "out", "o", "", "Directory to write results to")
	assistCmd.Flags().BoolVar(&assistSummary, "summary", false, "Summarize the analysis when it succeeds")
	_ = assistCmd.MarkFlagRequired("job")
	rootCmd.AddCommand(assistCmd)
}

func runAssist(cmd *cobra.Command, _ []string) error {
	tab, err := types.ParseTab(assistTab)
	if err != nil {
		return err
	}
	jobDescription, err := readJobDescription(assistJobPath, cmd.InOrStdin())
	if err != nil {
		return err
	}

	cfg, err := loadSettings(cmd, nil)
	if err != nil {
		return err
	}
	log := logging.New(cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	stack, err := buildAssistant(ctx, cfg, log, nil)
	if err != nil {
		return err
	}
	defer func() { _ = stack.Close() }()

	mgr := newManager(cfg, stack.Invoker, newRenderer(cfg), log, nil)
	sess, err := mgr.Create()
	if err != nil {
		return err
	}
	if assistLanguage != "" {
		if err := sess.SetLanguage(assistLanguage); err != nil {
			return err
		}
	}
	sess.SetTab(tab)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Running assistant (%s, %s tab)...\n", sess.Language(), tab)

	if err := runJobs(ctx, sess.Assistant(), jobDescription); err != nil {
		return err
	}
	if assistSummary && sess.Assistant().State(types.JobSkillGap).Status == assistant.StatusSuccess {
		done, err := sess.Assistant().SummarizeAnalysis(ctx)
		if err != nil {
			return err
		}
		<-done
	}

	printer := observability.NewPrinter(out)
	for _, state := range sess.Assistant().Snapshot() {
		if state.Status == assistant.StatusIdle {
			continue
		}
		printer.PrintJob(state)
	}

	if assistOutDir != "" {
		return writeResults(ctx, out, sess, assistOutDir)
	}
	return nil
}

// runJobs starts the cover letter and the skill gap analysis together and
// waits for both to settle.
func runJobs(ctx context.Context, ctrl *assistant.Controller, jobDescription string) error {
	g, gctx := errgroup.WithContext(ctx)
	starts := []func(context.Context, string) (<-chan struct{}, error){
		ctrl.GenerateCoverLetter,
		ctrl.AnalyzeSkillGap,
	}
	for _, start := range starts {
		g.Go(func() error {
			done, err := start(gctx, jobDescription)
			if err != nil {
				return err
			}
			<-done
			return nil
		})
	}
	return g.Wait()
}

// writeResults saves every successful job in its default format. The cover
// letter is also printed to PDF when a browser is available.
func writeResults(ctx context.Context, out io.Writer, sess *session.Session, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	labels := sess.AnalysisLabels()
	for _, state := range sess.Assistant().Snapshot() {
		if state.Status != assistant.StatusSuccess {
			continue
		}
		file, err := assistant.Download(state, assistant.FormatText, labels)
		if err != nil {
			return err
		}
		if err := writeFile(out, filepath.Join(dir, file.Name), file.Data); err != nil {
			return err
		}
	}

	if sess.Assistant().State(types.JobCoverLetter).Status == assistant.StatusSuccess {
		doc, err := sess.ExportCoverLetter(ctx)
		if err != nil {
			fmt.Fprintf(out, "Skipping cover letter PDF: %v\n", err)
			return nil
		}
		return writeFile(out, filepath.Join(dir, doc.Filename), doc.PDF)
	}
	return nil
}

func writeFile(out io.Writer, path string, data []byte) error {
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	fmt.Fprintf(out, "Wrote %s\n", path)
	return nil
}

// readJobDescription reads the job description from path, or from stdin for "-".
func readJobDescription(path string, stdin io.Reader) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read job description: %w", err)
	}
	return string(data), nil
}
