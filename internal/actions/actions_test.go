package actions

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	defaults := Defaults()
	require.NotEmpty(t, defaults)

	seen := make(map[string]bool)
	for _, a := range defaults {
		assert.NotEmpty(t, a.Name)
		assert.NotEmpty(t, a.Message)
		assert.False(t, seen[a.Name], "duplicate action name %s", a.Name)
		seen[a.Name] = true
	}
}

func TestPlaceholders(t *testing.T) {
	a := Action{Name: "test", Message: "use {s3_uri} and {flow_uri}, then {s3_uri} again"}
	assert.Equal(t, []string{"flow_uri", "s3_uri"}, a.Placeholders())

	plain := Action{Name: "plain", Message: "no placeholders here"}
	assert.Empty(t, plain.Placeholders())
}

func TestRender(t *testing.T) {
	a, ok := Find(Defaults(), "analyze-report")
	require.True(t, ok)

	msg, err := a.Render(map[string]string{"report_uri": "s3://bucket/report.json"})
	require.NoError(t, err)
	assert.Contains(t, msg, "s3://bucket/report.json")
	assert.NotContains(t, msg, "{report_uri}")
}

func TestRenderMissingArgument(t *testing.T) {
	a, ok := Find(Defaults(), "create-report")
	require.True(t, ok)

	_, err := a.Render(map[string]string{"s3_uri": "s3://data"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "flow_uri")
}

func TestRenderUnknownArgument(t *testing.T) {
	a, ok := Find(Defaults(), "analyze-report")
	require.True(t, ok)

	_, err := a.Render(map[string]string{"report_uri": "s3://r", "bogus": "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bogus")
}

func TestLoadMergesUserActions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "actions.yaml")
	content := `
actions:
  - name: weekly-summary
    title: Weekly Summary
    message: Summarize fraud activity for the week of {week}.
  - name: analyze-report
    message: Custom analysis of {report_uri}.
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	list, err := Load(path)
	require.NoError(t, err)

	custom, ok := Find(list, "weekly-summary")
	require.True(t, ok)
	assert.Equal(t, []string{"week"}, custom.Placeholders())

	replaced, ok := Find(list, "analyze-report")
	require.True(t, ok)
	assert.Equal(t, "Custom analysis of {report_uri}.", replaced.Message)

	// Untouched defaults survive the merge.
	_, ok = Find(list, "transform-data")
	assert.True(t, ok)
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	list, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Len(t, list, len(Defaults()))
}

func TestLoadRejectsInvalidAction(t *testing.T) {
	path := filepath.Join(t.TempDir(), "actions.yaml")
	os.WriteFile(path, []byte("actions:\n  - title: No Name\n"), 0o644)

	_, err := Load(path)
	require.Error(t, err)
}

func TestFindUnknown(t *testing.T) {
	_, ok := Find(Defaults(), "does-not-exist")
	assert.False(t, ok)
}
