package cmd

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/lepinkainen/dupleter/types"
	"github.com/lepinkainen/dupleter/ui"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testApp struct {
	ctx    *types.AppContext
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

func newTestApp(t *testing.T, files map[string]string) testApp {
	t.Helper()
	fsys := afero.NewMemMapFs()
	require.NoError(t, fsys.MkdirAll("/dir", 0o755))
	for name, content := range files {
		require.NoError(t, afero.WriteFile(fsys, "/dir/"+name, []byte(content), 0o644))
	}

	app := testApp{stdout: &bytes.Buffer{}, stderr: &bytes.Buffer{}}
	app.ctx = &types.AppContext{Version: "test", Fs: fsys, Stdout: app.stdout, Stderr: app.stderr}
	return app
}

func (a testApp) exists(t *testing.T, name string) bool {
	t.Helper()
	ok, err := afero.Exists(a.ctx.Fs, "/dir/"+name)
	require.NoError(t, err)
	return ok
}

func exactCmd() *ScanCmd {
	return &ScanCmd{Dir: "/dir", Mode: "exact", Hash: "token", Keep: "first", Workers: 1, Format: "text"}
}

func fuzzyCmd() *ScanCmd {
	return &ScanCmd{Dir: "/dir", Mode: "fuzzy", Format: "text"}
}

var xyz = map[string]string{"x.txt": "A", "y.txt": "A", "z.txt": "B"}

func TestScanCmd_ExactDryRun(t *testing.T) {
	app := newTestApp(t, xyz)

	require.NoError(t, exactCmd().Run(app.ctx))

	out := app.stdout.String()
	assert.Contains(t, out, "Dupleter test")
	assert.Contains(t, out, "Dry run")
	assert.Contains(t, out, "1 matches by size involving 3 files.")
	assert.Contains(t, out, "1 duplicate groups involving 2 files.")
	assert.Contains(t, out, "3 files processed. 1 files would have been deleted.")
	assert.True(t, app.exists(t, "y.txt"))
	assert.Empty(t, app.stderr.String())
}

func TestScanCmd_ExactCommit(t *testing.T) {
	app := newTestApp(t, xyz)
	cmd := exactCmd()
	cmd.Delete = true

	require.NoError(t, cmd.Run(app.ctx))

	assert.Contains(t, app.stdout.String(), "3 files processed. 1 files deleted.")
	assert.NotContains(t, app.stdout.String(), "Dry run")
	assert.True(t, app.exists(t, "x.txt"))
	assert.False(t, app.exists(t, "y.txt"))
	assert.True(t, app.exists(t, "z.txt"))

	// A second run finds nothing left to do
	app.stdout.Reset()
	require.NoError(t, cmd.Run(app.ctx))
	assert.Contains(t, app.stdout.String(), "0 duplicate groups involving 0 files.")
	assert.Contains(t, app.stdout.String(), "2 files processed. 0 files deleted.")
}

func TestScanCmd_ExactKeepShortestPathAndBytes(t *testing.T) {
	app := newTestApp(t, map[string]string{
		"long-name.txt": "one two",
		"s.txt":         "one two",
		"spaced.txt":    "one  two",
	})
	cmd := exactCmd()
	cmd.Delete = true
	cmd.Keep = "shortest-path"
	cmd.Hash = "bytes"
	cmd.Workers = 0

	require.NoError(t, cmd.Run(app.ctx))

	assert.True(t, app.exists(t, "s.txt"))
	assert.False(t, app.exists(t, "long-name.txt"))
	assert.True(t, app.exists(t, "spaced.txt"))
}

func TestScanCmd_FuzzyCommit(t *testing.T) {
	app := newTestApp(t, map[string]string{
		"a.txt":      "0123456789",
		"a copy.txt": "0123456789",
		"b.txt":      "unrelated",
	})
	cmd := fuzzyCmd()
	cmd.Delete = true

	require.NoError(t, cmd.Run(app.ctx))

	out := app.stdout.String()
	assert.Contains(t, out, "Fuzzy match")
	assert.Contains(t, out, "3 files processed. 1 files deleted.")
	assert.NotContains(t, out, "matches by size")
	assert.True(t, app.exists(t, "a.txt"))
	assert.False(t, app.exists(t, "a copy.txt"))
}

func TestScanCmd_FuzzyTolerance(t *testing.T) {
	app := newTestApp(t, map[string]string{
		"report.pdf":     strings.Repeat("r", 100),
		"report (1).pdf": strings.Repeat("r", 104),
	})

	cmd := fuzzyCmd()
	require.NoError(t, cmd.Run(app.ctx))
	assert.Contains(t, app.stdout.String(), "0 files would have been deleted.")

	app.stdout.Reset()
	cmd.FuzzySize = 5
	require.NoError(t, cmd.Run(app.ctx))
	assert.Contains(t, app.stdout.String(), "1 files would have been deleted.")
	assert.True(t, app.exists(t, "report (1).pdf"))
}

func TestScanCmd_RecordsFormat(t *testing.T) {
	app := newTestApp(t, xyz)
	cmd := exactCmd()
	cmd.Format = "records"

	require.NoError(t, cmd.Run(app.ctx))

	lines := strings.Split(strings.TrimSpace(app.stdout.String()), "\n")
	require.Len(t, lines, 3)

	var kinds []string
	for _, line := range lines {
		var rec ui.Record
		require.NoError(t, json.Unmarshal([]byte(line), &rec), line)
		kinds = append(kinds, rec.Type)
	}
	assert.Equal(t, []string{"group", "would_delete", "summary"}, kinds)
}

func TestScanCmd_VerboseTrace(t *testing.T) {
	app := newTestApp(t, xyz)
	cmd := exactCmd()
	cmd.Verbose = true

	require.NoError(t, cmd.Run(app.ctx))

	assert.Contains(t, app.stdout.String(), "Scanning /dir")
	assert.Contains(t, app.stdout.String(), "would delete /dir/y.txt")
}

func TestScanCmd_InvalidDirectory(t *testing.T) {
	app := newTestApp(t, nil)
	cmd := exactCmd()
	cmd.Dir = "/missing"

	err := cmd.Run(app.ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to find duplicates")

	cmd = fuzzyCmd()
	cmd.Dir = "/missing"
	assert.Error(t, cmd.Run(app.ctx))
}

func TestScanCmd_ReviewWithoutGroups(t *testing.T) {
	app := newTestApp(t, map[string]string{"only.txt": "x"})
	cmd := exactCmd()
	cmd.Review = true

	require.NoError(t, cmd.Run(app.ctx))
	assert.Contains(t, app.stdout.String(), "No duplicates found")
}

func TestScanCmd_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cmd     ScanCmd
		wantErr bool
	}{
		{"Exact defaults", *exactCmd(), false},
		{"Fuzzy with tolerance", ScanCmd{Mode: "fuzzy", FuzzySize: 10, Format: "text"}, false},
		{"Negative tolerance", ScanCmd{Mode: "fuzzy", FuzzySize: -1, Format: "text"}, true},
		{"Review in exact mode", ScanCmd{Mode: "exact", Review: true, Format: "text"}, false},
		{"Review in fuzzy mode", ScanCmd{Mode: "fuzzy", Review: true, Format: "text"}, true},
		{"Review with records", ScanCmd{Mode: "exact", Review: true, Format: "records"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cmd.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestScanCmd_ShowProgress(t *testing.T) {
	app := newTestApp(t, nil)
	assert.False(t, exactCmd().showProgress(app.ctx), "buffers are not terminals")

	cmd := exactCmd()
	cmd.NoProgress = true
	assert.False(t, cmd.showProgress(app.ctx))
}
