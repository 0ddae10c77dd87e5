package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_ValidDocument(t *testing.T) {
	doc := writeDoc(t, "doc.cue", sceneDoc)

	out, _, err := execute(t, "validate", doc)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ timeline valid: 2 segments (2 scenes, 0 clips)")
}

func TestValidate_UnknownEasing(t *testing.T) {
	doc := writeDoc(t, "doc.cue", `
timeline: segments: s: {
	start: 0.0, duration: 2.0, source: "procedural_scene"
	animations: a: {property: "x", duration: 1.0, easing: "bouncey"}
}
`)

	out, _, err := execute(t, "validate", doc)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ validation failed")
	assert.Contains(t, out, "E105")
}

func TestValidate_SyntaxErrorIsFailureNotCommandError(t *testing.T) {
	doc := writeDoc(t, "doc.cue", `timeline: { fps: `)

	out, _, err := execute(t, "validate", doc)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ validation failed")
}

func TestValidate_MissingFile(t *testing.T) {
	doc := filepath.Join(t.TempDir(), "absent.cue")

	_, _, err := execute(t, "validate", doc)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestValidate_JSONOutput(t *testing.T) {
	doc := writeDoc(t, "doc.cue", sceneDoc)

	out, _, err := execute(t, "--format", "json", "validate", doc)
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Nil(t, resp.Error)
}

func TestValidate_JSONErrorOutput(t *testing.T) {
	doc := writeDoc(t, "doc.cue", `
timeline: segments: s: {
	start: -1.0, duration: 2.0, source: "procedural_scene"
}
`)

	out, _, err := execute(t, "--format", "json", "validate", doc)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "E102", resp.Error.Code)
}
