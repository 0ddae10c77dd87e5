package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"framesync/internal/harness"
	"framesync/internal/importer"
	"framesync/internal/store"
	"framesync/internal/timeline"
)

// planOptions holds plan-specific flags.
type planOptions struct {
	DBPath  string
	Service string
}

// PlanPayload is the JSON output of the plan command.
type PlanPayload struct {
	PlanHash     string           `json:"plan_hash"`
	Synchronized bool             `json:"synchronized"`
	Issues       []importer.Issue `json:"issues,omitempty"`
	Plan         json.RawMessage  `json:"plan"`
}

// NewPlanCommand creates the plan command.
func NewPlanCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &planOptions{}

	cmd := &cobra.Command{
		Use:   "plan <timeline.cue>",
		Short: "Compute the full assembly plan for a timeline document",
		Long: `Import the document's clips, detect and resolve timing conflicts, derive
synchronization points, and compute the layer stack.

Clip descriptors come from the cache (--db) and the clip service (--service).
With neither, clips import as missing and are reported as gaps.

Exits 0 for a synchronized plan, 1 when gaps or import errors remain, 2 on
command errors.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(rootOpts, opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DBPath, "db", os.Getenv("FRAMESYNC_DB"), "descriptor cache and run log database")
	cmd.Flags().StringVar(&opts.Service, "service", os.Getenv("FRAMESYNC_SERVICE"), "clip service base URL")

	return cmd
}

func runPlan(rootOpts *RootOptions, opts *planOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    rootOpts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   rootOpts.Verbose,
	}
	ctx := cmd.Context()

	doc, err := compileAndCheck(formatter, path)
	if err != nil {
		return err
	}

	var st *store.Store
	if opts.DBPath != "" {
		st, err = openStore(opts.DBPath)
		if err != nil {
			return err
		}
		defer st.Close()
	}

	var client *importer.Client
	if opts.Service != "" {
		client = importer.NewClient(opts.Service)
	}

	descs, _, err := gatherDescriptors(ctx, st, client, doc.ClipIDs(), false)
	if err != nil {
		return WrapExitError(ExitCommandError, "load descriptors", err)
	}

	result := runPipeline(doc, descs)

	planJSON, err := harness.MarshalPlan(result.Sync, result.Layers)
	if err != nil {
		return WrapExitError(ExitCommandError, "serialize plan", err)
	}
	digest := timeline.PlanHash(planJSON)

	if st != nil {
		run := store.Run{
			ID:            runIDs.Generate(),
			Document:      path,
			Synchronized:  result.Sync.Synchronized,
			ConflictCount: len(result.Sync.Conflicts),
			ErrorCount:    len(importer.Errors(result.Issues)),
			WarningCount:  len(importer.Warnings(result.Issues)),
			PlanHash:      digest,
			CreatedAt:     nowFunc(),
		}
		if err := st.RecordRun(ctx, run); err != nil {
			return WrapExitError(ExitCommandError, "record run", err)
		}
		formatter.VerboseLog("recorded run %s", run.ID)
	}

	if err := outputPlan(formatter, result, digest, planJSON); err != nil {
		return err
	}

	if errs := importer.Errors(result.Issues); len(errs) > 0 || !result.Sync.Synchronized {
		return NewExitError(ExitFailure, "plan has unresolved gaps or import errors")
	}
	return nil
}

func outputPlan(formatter *OutputFormatter, result pipelineResult, digest string, planJSON []byte) error {
	if formatter.Format == "json" {
		return formatter.Success(PlanPayload{
			PlanHash:     digest,
			Synchronized: result.Sync.Synchronized,
			Issues:       result.Issues,
			Plan:         json.RawMessage(planJSON),
		})
	}

	w := formatter.Writer
	fmt.Fprintf(w, "segments:     %d\n", len(result.Sync.Adjusted))
	fmt.Fprintf(w, "conflicts:    %d%s\n", len(result.Sync.Conflicts), conflictBreakdown(result.Sync.Conflicts))
	fmt.Fprintf(w, "sync points:  %d\n", len(result.Sync.Points))
	fmt.Fprintf(w, "layers:       %d\n", len(result.Layers))
	fmt.Fprintf(w, "synchronized: %t\n", result.Sync.Synchronized)
	fmt.Fprintf(w, "plan:         %s\n", digest)

	for _, issue := range result.Issues {
		fmt.Fprintf(w, "%s\n", issue)
	}
	return nil
}

func conflictBreakdown(conflicts []timeline.Conflict) string {
	if len(conflicts) == 0 {
		return ""
	}
	counts := make(map[timeline.ConflictType]int)
	for _, c := range conflicts {
		counts[c.Type]++
	}
	out := ""
	for _, kind := range []timeline.ConflictType{
		timeline.ConflictOverlap,
		timeline.ConflictDurationMismatch,
		timeline.ConflictGap,
	} {
		if n := counts[kind]; n > 0 {
			if out == "" {
				out = " ("
			} else {
				out += ", "
			}
			out += fmt.Sprintf("%s: %d", kind, n)
		}
	}
	if out != "" {
		out += ")"
	}
	return out
}
