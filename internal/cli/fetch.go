package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"framesync/internal/importer"
)

// fetchOptions holds fetch-specific flags.
type fetchOptions struct {
	DBPath  string
	Service string
	Refresh bool
}

// FetchPayload is the JSON output for one clip fetch.
type FetchPayload struct {
	ClipID string `json:"clip_id"`
	Status string `json:"status,omitempty"`
	Cached bool   `json:"cached"`
	Error  string `json:"error,omitempty"`
}

// NewFetchCommand creates the fetch command.
func NewFetchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &fetchOptions{}

	cmd := &cobra.Command{
		Use:   "fetch <timeline.cue>",
		Short: "Fetch and cache clip descriptors for a timeline document",
		Long: `Resolve every clip the document references against the clip service and
write the descriptors to the cache database, so later plan and probe runs
work offline. With --refresh the cache is bypassed and every descriptor is
fetched again.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFetch(rootOpts, opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DBPath, "db", os.Getenv("FRAMESYNC_DB"), "descriptor cache database")
	cmd.Flags().StringVar(&opts.Service, "service", os.Getenv("FRAMESYNC_SERVICE"), "clip service base URL")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "bypass the cache and refetch every descriptor")

	return cmd
}

func runFetch(rootOpts *RootOptions, opts *fetchOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    rootOpts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   rootOpts.Verbose,
	}
	ctx := cmd.Context()

	if opts.DBPath == "" || opts.Service == "" {
		return NewExitError(ExitCommandError,
			"fetch requires --db and --service (or FRAMESYNC_DB and FRAMESYNC_SERVICE)")
	}

	doc, err := compileAndCheck(formatter, path)
	if err != nil {
		return err
	}

	ids := doc.ClipIDs()
	if len(ids) == 0 {
		if rootOpts.Format == "json" {
			return formatter.Success([]FetchPayload{})
		}
		fmt.Fprintln(formatter.Writer, "document references no clips")
		return nil
	}

	st, err := openStore(opts.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	client := importer.NewClient(opts.Service)

	descs, results, err := gatherDescriptors(ctx, st, client, ids, opts.Refresh)
	if err != nil {
		return WrapExitError(ExitCommandError, "fetch descriptors", err)
	}

	payloads, failed := fetchPayloads(ids, descs, results)
	if err := outputFetch(formatter, payloads); err != nil {
		return err
	}
	if failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d descriptors failed to fetch", failed, len(ids)))
	}
	return nil
}

// fetchPayloads reports one row per requested clip: cache hits are the IDs
// resolved without a fetch result, everything else carries its fetch outcome.
func fetchPayloads(ids []string, descs map[string]importer.Descriptor, results []importer.FetchResult) ([]FetchPayload, int) {
	outcomes := make(map[string]importer.FetchResult, len(results))
	for _, r := range results {
		outcomes[r.ID] = r
	}

	payloads := make([]FetchPayload, 0, len(ids))
	failed := 0
	for _, id := range ids {
		r, fetched := outcomes[id]
		switch {
		case fetched && r.Err != nil:
			payloads = append(payloads, FetchPayload{ClipID: id, Error: r.Err.Error()})
			failed++
		case fetched:
			payloads = append(payloads, FetchPayload{ClipID: id, Status: r.Descriptor.Status})
		default:
			payloads = append(payloads, FetchPayload{ClipID: id, Status: descs[id].Status, Cached: true})
		}
	}
	return payloads, failed
}

func outputFetch(formatter *OutputFormatter, payloads []FetchPayload) error {
	if formatter.Format == "json" {
		return formatter.Success(payloads)
	}

	w := formatter.Writer
	for _, p := range payloads {
		switch {
		case p.Error != "":
			fmt.Fprintf(w, "✗ %s: %s\n", p.ClipID, p.Error)
		case p.Cached:
			fmt.Fprintf(w, "✓ %s: %s (cached)\n", p.ClipID, p.Status)
		default:
			fmt.Fprintf(w, "✓ %s: %s\n", p.ClipID, p.Status)
		}
	}
	return nil
}
