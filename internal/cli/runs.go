package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"framesync/internal/store"
)

// runsOptions holds runs-specific flags.
type runsOptions struct {
	DBPath string
	Limit  int
}

// RunPayload is the JSON output for one recorded run.
type RunPayload struct {
	ID           string    `json:"id"`
	Document     string    `json:"document"`
	Synchronized bool      `json:"synchronized"`
	Conflicts    int       `json:"conflicts"`
	Errors       int       `json:"errors"`
	Warnings     int       `json:"warnings"`
	PlanHash     string    `json:"plan_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewRunsCommand creates the runs command.
func NewRunsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &runsOptions{}

	cmd := &cobra.Command{
		Use:           "runs",
		Short:         "List recorded plan runs, newest first",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRuns(rootOpts, opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DBPath, "db", os.Getenv("FRAMESYNC_DB"), "run log database")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum runs to list (0 for all)")

	return cmd
}

func runRuns(rootOpts *RootOptions, opts *runsOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    rootOpts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   rootOpts.Verbose,
	}

	if opts.DBPath == "" {
		return NewExitError(ExitCommandError, "runs requires --db (or FRAMESYNC_DB)")
	}

	st, err := openStore(opts.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	runs, err := st.Runs(cmd.Context(), opts.Limit)
	if err != nil {
		return WrapExitError(ExitCommandError, "list runs", err)
	}

	payloads := make([]RunPayload, 0, len(runs))
	for _, run := range runs {
		payloads = append(payloads, toRunPayload(run))
	}

	return outputRuns(formatter, payloads)
}

func toRunPayload(run store.Run) RunPayload {
	return RunPayload{
		ID:           run.ID,
		Document:     run.Document,
		Synchronized: run.Synchronized,
		Conflicts:    run.ConflictCount,
		Errors:       run.ErrorCount,
		Warnings:     run.WarningCount,
		PlanHash:     run.PlanHash,
		CreatedAt:    run.CreatedAt,
	}
}

func outputRuns(formatter *OutputFormatter, payloads []RunPayload) error {
	if formatter.Format == "json" {
		return formatter.Success(payloads)
	}

	w := formatter.Writer
	if len(payloads) == 0 {
		fmt.Fprintln(w, "no runs recorded")
		return nil
	}
	for _, p := range payloads {
		state := "synchronized"
		if !p.Synchronized {
			state = "gaps"
		}
		fmt.Fprintf(w, "%s  %s  %s  %s  conflicts=%d errors=%d warnings=%d  %s\n",
			p.CreatedAt.UTC().Format(time.RFC3339), p.ID, p.Document, state,
			p.Conflicts, p.Errors, p.Warnings, shortHash(p.PlanHash))
	}
	return nil
}

// shortHash trims a plan digest for the table view.
func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
