package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"framesync/internal/harness"
	"framesync/internal/importer"
	"framesync/internal/store"
)

// probeOptions holds probe-specific flags.
type probeOptions struct {
	At      []float64
	DBPath  string
	Service string
}

// ProbeAnswer is the JSON output for one probe time.
type ProbeAnswer struct {
	At         float64       `json:"at"`
	Frame      int           `json:"frame"`
	Active     []string      `json:"active,omitempty"`
	Next       string        `json:"next,omitempty"`
	Previous   string        `json:"previous,omitempty"`
	Animations []ProbeSample `json:"animations,omitempty"`
}

// ProbeSample is one interpolated animation value.
type ProbeSample struct {
	AnimationID string `json:"animation_id"`
	Property    string `json:"property"`
	Value       any    `json:"value"`
}

// NewProbeCommand creates the probe command.
func NewProbeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &probeOptions{}

	cmd := &cobra.Command{
		Use:   "probe <timeline.cue>",
		Short: "Evaluate the plan at fixed times",
		Long: `Compute the plan and answer point-in-time queries: active, next, and
previous synchronization points, the frame index at the document fps, and
every in-window animation's interpolated value.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProbe(rootOpts, opts, args[0], cmd)
		},
	}

	cmd.Flags().Float64SliceVar(&opts.At, "at", nil, "time in seconds to evaluate (repeatable)")
	cmd.Flags().StringVar(&opts.DBPath, "db", os.Getenv("FRAMESYNC_DB"), "descriptor cache database")
	cmd.Flags().StringVar(&opts.Service, "service", os.Getenv("FRAMESYNC_SERVICE"), "clip service base URL")
	_ = cmd.MarkFlagRequired("at")

	return cmd
}

func runProbe(rootOpts *RootOptions, opts *probeOptions, path string, cmd *cobra.Command) error {
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

	answers := make([]ProbeAnswer, 0, len(opts.At))
	for _, at := range opts.At {
		answers = append(answers, toAnswer(harness.Probe(doc, result.Sync, at)))
	}

	return outputProbes(formatter, doc.FPS, answers)
}

func toAnswer(p harness.ProbeResult) ProbeAnswer {
	answer := ProbeAnswer{
		At:       p.At,
		Frame:    p.Frame,
		Active:   p.Active,
		Next:     p.Next,
		Previous: p.Previous,
	}
	for _, s := range p.Animations {
		answer.Animations = append(answer.Animations, ProbeSample{
			AnimationID: s.AnimationID,
			Property:    s.Property,
			Value:       s.Value,
		})
	}
	return answer
}

func outputProbes(formatter *OutputFormatter, fps float64, answers []ProbeAnswer) error {
	if formatter.Format == "json" {
		return formatter.Success(answers)
	}

	w := formatter.Writer
	for _, a := range answers {
		fmt.Fprintf(w, "at %s (frame %d of %s fps)\n",
			formatSeconds(a.At), a.Frame, formatSeconds(fps))
		for _, id := range a.Active {
			fmt.Fprintf(w, "  active:   %s\n", id)
		}
		if a.Next != "" {
			fmt.Fprintf(w, "  next:     %s\n", a.Next)
		}
		if a.Previous != "" {
			fmt.Fprintf(w, "  previous: %s\n", a.Previous)
		}
		for _, s := range a.Animations {
			value, err := json.Marshal(s.Value)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "  %s %s = %s\n", s.AnimationID, s.Property, value)
		}
	}
	return nil
}

// formatSeconds prints a float without trailing zero noise.
func formatSeconds(f float64) string {
	return fmt.Sprintf("%g", f)
}
