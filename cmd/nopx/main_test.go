package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yunfengsa/stylelint-nopx/lint"
	"github.com/yunfengsa/stylelint-nopx/log"
)

// writeTree creates files relative to a temporary directory and returns it.
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
	return dir
}

// runCmd runs the command line and returns the exit code and output.
func runCmd(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	orig := log.GetLogger()
	t.Cleanup(func() { log.SetLogger(orig) })

	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_Problems(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"a.css":  "a { width: 10px; height: 1px; }",
		"b.wxss": "b { margin: 0; }",
	})

	code, stdout, _ := runCmd(t, dir)
	assert.Equal(t, ExitProblems, code)
	assert.Contains(t, stdout, filepath.Join(dir, "a.css"))
	assert.Contains(t, stdout, "1:5")
	assert.Contains(t, stdout, "Use rpx instead of px (dxymom/no-px)")
	assert.Contains(t, stdout, "width: 10px")
	assert.Contains(t, stdout, "1 problem (1 error, 0 warnings)")
	assert.NotContains(t, stdout, "b.wxss")
}

func TestRun_Clean(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"a.css":                  "a { width: 10rpx; border: 1px solid; }",
		"notes.txt":              "a { width: 10px }",
		"node_modules/lib/x.css": "a { width: 10px }",
	})

	code, stdout, stderr := runCmd(t, dir)
	assert.Equal(t, ExitOK, code, stderr)
	assert.Empty(t, stdout)
}

func TestRun_ExplicitFile(t *testing.T) {
	dir := writeTree(t, map[string]string{"a.txt": "a { width: 10px }"})

	code, stdout, _ := runCmd(t, filepath.Join(dir, "a.txt"))
	assert.Equal(t, ExitProblems, code)
	assert.Contains(t, stdout, "width: 10px")
}

func TestRun_Flags(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"a.less": "a { border: 1px solid; width: 1px; font-size: 14px; padding: calc(2px + 1em); }",
	})

	code, stdout, _ := runCmd(t,
		"--ignore", "border 1px",
		"--ignore", "font",
		"--ignore-functions", "calc",
		"--format", "json",
		dir)
	assert.Equal(t, ExitProblems, code)

	var results []struct {
		Source   string         `json:"source"`
		Errored  bool           `json:"errored"`
		Warnings []lint.Warning `json:"warnings"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &results))
	require.Len(t, results, 1)
	assert.True(t, results[0].Errored)
	require.Len(t, results[0].Warnings, 1)
	assert.Equal(t, "width: 1px", results[0].Warnings[0].Node)
}

func TestRun_SeverityWarning(t *testing.T) {
	dir := writeTree(t, map[string]string{"a.scss": "a { width: 10px }"})

	code, stdout, _ := runCmd(t, "--severity", "warning", dir)
	assert.Equal(t, ExitOK, code)
	assert.Contains(t, stdout, "1 problem (0 errors, 1 warning)")
}

func TestRun_ConfigFile(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"src/a.css":  "a { width: 1px; }",
		"nopx.yaml":  "ignore: []\nformat: json\n",
		"nopx2.yaml": "enabled: false\n",
	})

	code, stdout, _ := runCmd(t, "--config", filepath.Join(dir, "nopx.yaml"), filepath.Join(dir, "src"))
	assert.Equal(t, ExitProblems, code)
	assert.Contains(t, stdout, `"node": "width: 1px"`)

	code, _, _ = runCmd(t, "--config", filepath.Join(dir, "nopx2.yaml"), filepath.Join(dir, "src"))
	assert.Equal(t, ExitOK, code)
}

func TestRun_Env(t *testing.T) {
	dir := writeTree(t, map[string]string{"a.css": "a { width: 1px; }"})
	t.Setenv("NOPX_IGNORE", "")

	code, _, _ := runCmd(t, dir)
	assert.Equal(t, ExitProblems, code)
}

func TestRun_Cache(t *testing.T) {
	dir := writeTree(t, map[string]string{"a.css": "a { width: 10px; }"})
	cachePath := filepath.Join(t.TempDir(), "nopx.db")

	code, first, _ := runCmd(t, "--cache", "--cache-location", cachePath, dir)
	assert.Equal(t, ExitProblems, code)
	assert.FileExists(t, cachePath)

	code, second, stderr := runCmd(t, "--cache", "--cache-location", cachePath, "--log-level", "debug", dir)
	assert.Equal(t, ExitProblems, code)
	assert.Equal(t, first, second)
	assert.Contains(t, stderr, "using cached result")

	// Different options must not reuse the cached result.
	code, _, _ = runCmd(t, "--cache", "--cache-location", cachePath, "--ignore", "width", dir)
	assert.Equal(t, ExitOK, code)
}

func TestRun_Failures(t *testing.T) {
	dir := writeTree(t, map[string]string{"a.css": "a { width: 10px }"})

	var tests = []struct {
		name string
		args []string
		err  string
	}{
		{name: "no args", args: []string{}, err: "requires at least 1 arg"},
		{name: "missing path", args: []string{filepath.Join(dir, "missing.css")}, err: "missing.css"},
		{name: "bad severity", args: []string{"--severity", "fatal", dir}, err: "validation failed"},
		{name: "bad format", args: []string{"--format", "xml", dir}, err: "validation failed"},
		{name: "missing config", args: []string{"--config", filepath.Join(dir, "nope.yaml"), dir}, err: "error loading config file"},
		{name: "unknown flag", args: []string{"--nope", dir}, err: "unknown flag"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := runCmd(t, tt.args...)
			assert.Equal(t, ExitFailure, code)
			assert.Contains(t, stderr, tt.err)
		})
	}
}

func TestRun_Version(t *testing.T) {
	code, stdout, _ := runCmd(t, "--version")
	assert.Equal(t, ExitOK, code)
	assert.Contains(t, stdout, "dev (built from source)")
}

func TestGetVersionString(t *testing.T) {
	origVersion, origCommit := Version, Commit
	t.Cleanup(func() { Version, Commit = origVersion, origCommit })

	Version, Commit = "v1.2.3", "abc1234"
	assert.Equal(t, "v1.2.3 (commit: abc1234)", getVersionString())

	Version = "dev"
	assert.Equal(t, "dev (built from source)", getVersionString())
}

func TestExitError(t *testing.T) {
	assert.Equal(t, "exit status 2", (&ExitError{Code: 2}).Error())

	err := &ExitError{Code: 1, Err: assert.AnError}
	assert.Equal(t, assert.AnError.Error(), err.Error())
	assert.ErrorIs(t, err, assert.AnError)
}
