package rule

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleRuleFile = `[
  {
    "ruleId": "r1",
    "before": ["foo"],
    "after": ["bar"],
    "severity": "warning",
    "message": "use bar instead of foo"
  }
]
`

func writeRuleFile(t *testing.T, workspace, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(FilePath(workspace), []byte(content), 0o644))
}

func TestLoadMissingFile(t *testing.T) {
	f, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, f.Rules)
	assert.Empty(t, f.Fingerprint)
}

func TestLoadAndSaveRoundTrip(t *testing.T) {
	workspace := t.TempDir()
	writeRuleFile(t, workspace, sampleRuleFile)

	f, err := Load(workspace)
	require.NoError(t, err)
	require.Len(t, f.Rules, 1)
	assert.Equal(t, "r1", f.Rules[0].RuleID)
	assert.Equal(t, SeverityWarning, f.Rules[0].EffectiveSeverity())
	assert.NotEmpty(t, f.Fingerprint)

	f.Rules[0].Severity = SeverityError
	require.NoError(t, f.Save(workspace))

	reloaded, err := Load(workspace)
	require.NoError(t, err)
	require.Len(t, reloaded.Rules, 1)
	assert.Equal(t, SeverityError, reloaded.Rules[0].EffectiveSeverity())
}

func TestSaveDetectsConcurrentEdit(t *testing.T) {
	workspace := t.TempDir()
	writeRuleFile(t, workspace, sampleRuleFile)

	f, err := Load(workspace)
	require.NoError(t, err)

	// Another editor rewrites the file between load and save.
	writeRuleFile(t, workspace, `[{"ruleId": "r2", "before": ["baz"]}]`)

	f.Rules[0].Severity = SeverityOff
	err = f.Save(workspace)
	assert.ErrorIs(t, err, ErrConcurrentEdit)

	// With the fingerprint cleared the save is a plain overwrite.
	f.Fingerprint = ""
	require.NoError(t, f.Save(workspace))
	reloaded, err := Load(workspace)
	require.NoError(t, err)
	require.Len(t, reloaded.Rules, 1)
	assert.Equal(t, "r1", reloaded.Rules[0].RuleID)
}

func TestSaveRefreshesFingerprint(t *testing.T) {
	workspace := t.TempDir()
	writeRuleFile(t, workspace, sampleRuleFile)

	f, err := Load(workspace)
	require.NoError(t, err)
	require.NoError(t, f.Save(workspace))

	// Saving again with the refreshed fingerprint must succeed.
	require.NoError(t, f.Save(workspace))
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	workspace := t.TempDir()
	writeRuleFile(t, workspace, "{not json")
	_, err := Load(workspace)
	assert.Error(t, err)
}

func TestSavePreservesFileMode(t *testing.T) {
	workspace := t.TempDir()
	path := FilePath(workspace)
	require.NoError(t, os.WriteFile(path, []byte(sampleRuleFile), 0o600))

	f, err := Load(workspace)
	require.NoError(t, err)
	require.NoError(t, f.Save(workspace))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFilePath(t *testing.T) {
	assert.Equal(t, filepath.Join("ws", ".devreplay.json"), FilePath("ws"))
}
