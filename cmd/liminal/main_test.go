package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureStdout redirects os.Stdout for the duration of fn and returns
// whatever it wrote.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	orig := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	fn()

	require.NoError(t, w.Close())
	var buf bytes.Buffer
	_, err = io.Copy(&buf, r)
	require.NoError(t, err)
	return buf.String()
}

// captureStderr redirects os.Stderr for the duration of fn and returns
// whatever it wrote.
func captureStderr(t *testing.T, fn func()) string {
	t.Helper()
	orig := os.Stderr
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stderr = w
	defer func() { os.Stderr = orig }()

	fn()

	require.NoError(t, w.Close())
	var buf bytes.Buffer
	_, err = io.Copy(&buf, r)
	require.NoError(t, err)
	return buf.String()
}

func TestRunWithNoArgsPrintsUsage(t *testing.T) {
	var code int
	out := captureStdout(t, func() { code = run(nil) })
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "Usage:")
}

func TestRunWithHelpFlagPrintsUsage(t *testing.T) {
	var code int
	out := captureStdout(t, func() { code = run([]string{"--help"}) })
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "Usage:")
}

func TestRunWithVersionFlagPrintsVersionLine(t *testing.T) {
	var code int
	out := captureStdout(t, func() { code = run([]string{"-v"}) })
	assert.Equal(t, 0, code)
	assert.Equal(t, "liminal "+Version+"\n", out)
}

func TestRunWithUnknownArgFailsWithNonzeroExit(t *testing.T) {
	code := run([]string{"bogus"})
	assert.Equal(t, 1, code)
}

func TestRunWithRunButNoPathFails(t *testing.T) {
	code := run([]string{"run"})
	assert.Equal(t, 1, code)
}

func TestRunWithMissingFileFails(t *testing.T) {
	code := run([]string{"run", filepath.Join(t.TempDir(), "nope.liminal")})
	assert.Equal(t, 1, code)
}

func TestRunWithUnparsableFileFails(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.liminal")
	require.NoError(t, os.WriteFile(path, []byte("program ;;; broken"), 0o644))
	code := run([]string{"run", path})
	assert.Equal(t, 1, code)
}

func TestRunWithJSONErrorsFlagPrintsDeterministicJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.liminal")
	require.NoError(t, os.WriteFile(path, []byte("program ;;; broken"), 0o644))

	var code int
	errOut := captureStderr(t, func() { code = run([]string{"run", "--json-errors", path}) })

	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, `"schema":"liminal.error/v1"`)
	assert.Contains(t, errOut, `"code":`)
}

func TestRunWithHelloWorldProgramSucceeds(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hello.liminal")
	src := "program Hello;\nbegin\n  WriteLn('Hello, World!');\nend.\n"
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	var code int
	out := captureStdout(t, func() {
		wd, err := os.Getwd()
		require.NoError(t, err)
		require.NoError(t, os.Chdir(dir))
		defer os.Chdir(wd)
		code = run([]string{"run", path})
	})

	assert.Equal(t, 0, code)
	assert.Equal(t, "Hello, World!\n", out)
}
