package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"framesync/internal/importer"
)

func TestProbe_TextOutput(t *testing.T) {
	doc := writeDoc(t, "doc.cue", clipDoc)
	srv := stubService(t, map[string]importer.Descriptor{"demo": demoDescriptor()})

	out, _, err := execute(t, "probe", doc, "--service", srv.URL, "--at", "1.0")
	require.NoError(t, err)
	assert.Contains(t, out, "at 1 (frame 30 of 30 fps)")
	assert.Contains(t, out, "title/fade opacity = 0.5")
	assert.Contains(t, out, "previous:")
}

func TestProbe_MultipleTimes(t *testing.T) {
	doc := writeDoc(t, "doc.cue", sceneDoc)

	var resp struct {
		Data []ProbeAnswer `json:"data"`
	}
	out, _, err := execute(t, "--format", "json", "probe", doc, "--at", "0.0", "--at", "12.0")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data, 2)

	first := resp.Data[0]
	assert.Equal(t, 0.0, first.At)
	assert.Equal(t, 0, first.Frame)
	assert.NotEmpty(t, first.Active, "the intro start marker sits at 0.0")

	second := resp.Data[1]
	assert.Equal(t, 360, second.Frame)
	assert.NotEmpty(t, second.Previous)
	assert.NotEmpty(t, second.Next)
}

func TestProbe_RequiresAt(t *testing.T) {
	doc := writeDoc(t, "doc.cue", sceneDoc)

	_, _, err := execute(t, "probe", doc)
	require.Error(t, err)
}

func TestProbe_InvalidDocument(t *testing.T) {
	doc := writeDoc(t, "doc.cue", `
timeline: segments: s: {
	start: 0.0, duration: 0.0, source: "procedural_scene"
}
`)

	_, _, err := execute(t, "probe", doc, "--at", "0.0")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}
