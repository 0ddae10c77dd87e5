package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"framesync/internal/importer"
	"framesync/internal/store"
	"framesync/internal/testutil"
)

const sceneDoc = `
timeline: {
	fps: 30.0
	segments: {
		intro: {start: 0.0, duration: 10.0, source: "procedural_scene"}
		outro: {start: 10.0, duration: 5.0, source: "procedural_scene"}
	}
}
`

const clipDoc = `
timeline: {
	fps: 30.0
	segments: {
		title: {
			start:    0.0
			duration: 4.0
			source:   "procedural_scene"
			animations: fade: {
				property: "opacity"
				duration: 2.0
				keyframes: [
					{time: 0.0, value: 0.0},
					{time: 2.0, value: 1.0},
				]
			}
		}
		demo: {
			start:  4.0
			source: "clip"
			metadata: {scene_count: 2, complexity: "simple"}
		}
	}
}
`

// execute runs the root command against args and captures its streams.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func writeDoc(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// stubService serves clip descriptors the way the clip service does:
// GET /status/{id}, 404 for unknown clips.
func stubService(t *testing.T, descs map[string]importer.Descriptor) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, "/status/")
		desc, ok := descs[id]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(desc)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func demoDescriptor() importer.Descriptor {
	return importer.Descriptor{
		ID:         "demo",
		Status:     importer.StatusCompleted,
		FilePath:   "demo.mp4",
		Duration:   6,
		Resolution: [2]int{1920, 1080},
	}
}

// pinIdentity swaps the wall clock and run ID source for deterministic rows.
func pinIdentity(t *testing.T, ids ...string) {
	t.Helper()
	origNow, origIDs := nowFunc, runIDs
	clock := testutil.NewFixedClock(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
	nowFunc = clock.Now
	runIDs = store.NewFixedGenerator(ids...)
	t.Cleanup(func() {
		nowFunc, runIDs = origNow, origIDs
	})
}

func TestRootCommand_RejectsUnknownFormat(t *testing.T) {
	doc := writeDoc(t, "doc.cue", sceneDoc)

	_, _, err := execute(t, "--format", "xml", "validate", doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestRootCommand_ListsSubcommands(t *testing.T) {
	cmd := NewRootCommand()

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	for _, want := range []string{"validate", "plan", "probe", "fetch", "runs"} {
		assert.Contains(t, names, want)
	}
}
