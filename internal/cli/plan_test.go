package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"framesync/internal/importer"
)

func TestPlan_SceneOnlyDocument(t *testing.T) {
	doc := writeDoc(t, "doc.cue", sceneDoc)

	out, _, err := execute(t, "plan", doc)
	require.NoError(t, err)
	assert.Contains(t, out, "segments:     2")
	assert.Contains(t, out, "conflicts:    0")
	assert.Contains(t, out, "synchronized: true")
	assert.Contains(t, out, "plan:         ")
}

func TestPlan_MissingClipIsFailure(t *testing.T) {
	doc := writeDoc(t, "doc.cue", clipDoc)

	out, _, err := execute(t, "plan", doc)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "synchronized: false")
	assert.Contains(t, out, "MISSING_DESCRIPTOR")
}

func TestPlan_FetchesFromService(t *testing.T) {
	doc := writeDoc(t, "doc.cue", clipDoc)
	srv := stubService(t, map[string]importer.Descriptor{"demo": demoDescriptor()})

	out, _, err := execute(t, "plan", doc, "--service", srv.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "segments:     2")
	assert.Contains(t, out, "synchronized: true")
}

func TestPlan_RecordsRunAndCachesDescriptors(t *testing.T) {
	pinIdentity(t, "run-0001", "run-0002")

	doc := writeDoc(t, "doc.cue", clipDoc)
	srv := stubService(t, map[string]importer.Descriptor{"demo": demoDescriptor()})
	db := filepath.Join(t.TempDir(), "framesync.db")

	_, _, err := execute(t, "plan", doc, "--db", db, "--service", srv.URL)
	require.NoError(t, err)

	// Second run hits the cache; no service needed.
	out, _, err := execute(t, "plan", doc, "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "synchronized: true")

	out, _, err = execute(t, "runs", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "run-0001")
	assert.Contains(t, out, "run-0002")
	assert.Contains(t, out, "2026-01-02T03:04:05Z")
	assert.Contains(t, out, "synchronized")
}

func TestPlan_PlanHashIsStable(t *testing.T) {
	doc := writeDoc(t, "doc.cue", sceneDoc)

	first := planPayload(t, doc)
	second := planPayload(t, doc)
	assert.Equal(t, first.PlanHash, second.PlanHash)
	assert.True(t, first.Synchronized)
	assert.NotEmpty(t, first.Plan)
}

func planPayload(t *testing.T, doc string) PlanPayload {
	t.Helper()
	out, _, err := execute(t, "--format", "json", "plan", doc)
	require.NoError(t, err)

	var resp struct {
		Status string      `json:"status"`
		Data   PlanPayload `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Equal(t, "ok", resp.Status)
	return resp.Data
}

func TestRuns_EmptyDatabase(t *testing.T) {
	db := filepath.Join(t.TempDir(), "framesync.db")

	out, _, err := execute(t, "runs", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "no runs recorded")
}

func TestRuns_RequiresDatabase(t *testing.T) {
	_, _, err := execute(t, "runs")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRuns_LimitsHistory(t *testing.T) {
	pinIdentity(t, "run-a", "run-b", "run-c")

	doc := writeDoc(t, "doc.cue", sceneDoc)
	db := filepath.Join(t.TempDir(), "framesync.db")
	for i := 0; i < 3; i++ {
		_, _, err := execute(t, "plan", doc, "--db", db)
		require.NoError(t, err)
	}

	var resp struct {
		Data []RunPayload `json:"data"`
	}
	out, _, err := execute(t, "--format", "json", "runs", "--db", db, "--limit", "2")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Len(t, resp.Data, 2)
}
