package cli

import (
	"context"
	"errors"
	"time"

	"framesync/internal/compiler"
	"framesync/internal/compose"
	"framesync/internal/engine"
	"framesync/internal/importer"
	"framesync/internal/store"
	"framesync/internal/timeline"
)

// Injection points for tests; production wiring is wall clock and UUIDv7.
var (
	nowFunc = time.Now

	runIDs store.RunIDGenerator = store.UUIDv7Generator{}
)

// compileAndCheck compiles a document and runs static validation, mapping
// failures to the right exit codes.
func compileAndCheck(formatter *OutputFormatter, path string) (*compiler.Document, error) {
	doc, err := compiler.CompileFile(path)
	if err != nil {
		var ce *compiler.CompileError
		if errors.As(err, &ce) {
			return nil, outputValidationErrors(formatter, []compiler.ValidationError{{
				Field:   ce.Field,
				Message: ce.Message,
				Code:    ErrCodeGeneric,
			}})
		}
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return nil, WrapExitError(ExitCommandError, "compile", err)
	}

	if verrs := compiler.Validate(doc); len(verrs) > 0 {
		return nil, outputValidationErrors(formatter, verrs)
	}

	return doc, nil
}

// gatherDescriptors resolves clip descriptors for a document: cached rows
// first (unless refresh), then the clip service for whatever is missing.
// Fetched descriptors are written back to the cache. With neither a cache
// nor a service, clips import as missing descriptors, which the pipeline
// reports as gaps.
func gatherDescriptors(
	ctx context.Context,
	st *store.Store,
	client *importer.Client,
	ids []string,
	refresh bool,
) (map[string]importer.Descriptor, []importer.FetchResult, error) {
	descs := make(map[string]importer.Descriptor, len(ids))

	if st != nil && !refresh {
		cached, err := st.Descriptors(ctx, ids)
		if err != nil {
			return nil, nil, err
		}
		for id, desc := range cached {
			descs[id] = desc
		}
	}

	if client == nil {
		return descs, nil, nil
	}

	var missing []string
	for _, id := range ids {
		if _, ok := descs[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) == 0 {
		return descs, nil, nil
	}

	results := client.FetchAll(ctx, missing)

	var fetched []importer.Descriptor
	for _, r := range results {
		if r.Err == nil {
			descs[r.ID] = r.Descriptor
			fetched = append(fetched, r.Descriptor)
		}
	}
	if st != nil && len(fetched) > 0 {
		if err := st.PutDescriptors(ctx, fetched, nowFunc()); err != nil {
			return nil, nil, err
		}
	}

	return descs, results, nil
}

// pipelineResult is the shared output of the plan/probe pipeline.
type pipelineResult struct {
	Doc    *compiler.Document
	Issues []importer.Issue
	Sync   engine.Result
	Layers []timeline.LayerComposition
}

// runPipeline imports the document's clips and runs synchronization and
// composition.
func runPipeline(doc *compiler.Document, descs map[string]importer.Descriptor) pipelineResult {
	clipSegs, issues := importer.Import(doc.Requests(), descs)

	segments := make([]timeline.Segment, 0, len(doc.Scenes)+len(clipSegs))
	for _, scene := range doc.Scenes {
		segments = append(segments, timeline.CloneSegment(scene))
	}
	segments = append(segments, clipSegs...)

	syncResult := engine.Synchronize(doc.Entries, segments, doc.Config)

	return pipelineResult{
		Doc:    doc,
		Issues: issues,
		Sync:   syncResult,
		Layers: compose.Plan(syncResult.Adjusted, doc.Config),
	}
}

// openStore maps store open failures to command errors.
func openStore(path string) (*store.Store, error) {
	st, err := store.Open(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "open database", err)
	}
	return st, nil
}
