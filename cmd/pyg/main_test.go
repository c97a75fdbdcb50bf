package main

import (
	"bytes"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/9585999/pygments/internal/iotest"
)

func TestMainCmd_help(t *testing.T) {
	exitCode := (&mainCmd{
		Stdout: iotest.Writer(t),
		Stderr: iotest.Writer(t),
	}).Run([]string{"-h"})
	assert.Zero(t, exitCode, "-h should have zero status code")
}

func TestMainCmd_version(t *testing.T) {
	var buff bytes.Buffer
	exitCode := (&mainCmd{
		Stdout: &buff,
		Stderr: iotest.Writer(t),
	}).Run([]string{"-version"})
	assert.Zero(t, exitCode, "-version should have zero status code")

	assert.Contains(t, buff.String(), "pyg")
	assert.Contains(t, buff.String(), _version)
}

func TestMainCmd_unknownFlag(t *testing.T) {
	exitCode := (&mainCmd{
		Stdout: iotest.Writer(t),
		Stderr: iotest.Writer(t),
	}).Run([]string{"--this-flag-does-not-exist"})
	assert.NotZero(t, exitCode, "unknown flag should have non-zero status code")
}

func TestMainCmd_highlightFile(t *testing.T) {
	src := filepath.Join(t.TempDir(), "main.go")
	require.NoError(t, os.WriteFile(src,
		[]byte("package main\n\nfunc main() {}\n"), 0o644))

	var buff bytes.Buffer
	exitCode := (&mainCmd{
		Stdout: &buff,
		Stderr: iotest.Writer(t),
	}).Run([]string{"-engine", "native", "-f", "html", src})
	require.Zero(t, exitCode, "expected success")

	assert.Contains(t, buff.String(), "<pre")
	assert.Contains(t, buff.String(), "main")
}

func TestMainCmd_highlightToFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "script.py")
	out := filepath.Join(dir, "script.html")
	require.NoError(t, os.WriteFile(src, []byte("x = 1\n"), 0o644))

	exitCode := (&mainCmd{
		Stdout: iotest.Writer(t),
		Stderr: iotest.Writer(t),
	}).Run([]string{"-engine", "native", "-f", "html", "-o", out, src})
	require.Zero(t, exitCode, "expected success")

	body, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(body), "<pre")
}

func TestMainCmd_highlightMissingFile(t *testing.T) {
	var stderr bytes.Buffer
	exitCode := (&mainCmd{
		Stdout: iotest.Writer(t),
		Stderr: &stderr,
	}).Run([]string{
		"-engine", "native",
		filepath.Join(t.TempDir(), "does-not-exist.go"),
	})
	assert.NotZero(t, exitCode)
	assert.Contains(t, stderr.String(), "pyg:")
}

func TestMainCmd_css(t *testing.T) {
	var buff bytes.Buffer
	exitCode := (&mainCmd{
		Stdout: &buff,
		Stderr: iotest.Writer(t),
	}).Run([]string{"-engine", "native", "-css"})
	require.Zero(t, exitCode, "expected success")

	assert.Contains(t, buff.String(), ".chroma")
}

func TestMainCmd_cssSelector(t *testing.T) {
	var buff bytes.Buffer
	exitCode := (&mainCmd{
		Stdout: &buff,
		Stderr: iotest.Writer(t),
	}).Run([]string{"-engine", "native", "-css", "-a", "#content"})
	require.Zero(t, exitCode, "expected success")

	assert.Contains(t, buff.String(), "#content ")
}

func TestMainCmd_guessLexer(t *testing.T) {
	var buff bytes.Buffer
	exitCode := (&mainCmd{
		Stdout: &buff,
		Stderr: iotest.Writer(t),
	}).Run([]string{"-engine", "native", "-N", "foo.py"})
	require.Zero(t, exitCode, "expected success")

	assert.Equal(t, "python\n", buff.String())
}

func TestMainCmd_list(t *testing.T) {
	var buff bytes.Buffer
	exitCode := (&mainCmd{
		Stdout: &buff,
		Stderr: iotest.Writer(t),
	}).Run([]string{"-engine", "native", "-L", "lexer", "-debug"})
	require.Zero(t, exitCode, "expected success")

	lines := strings.Split(strings.TrimSuffix(buff.String(), "\n"), "\n")
	assert.Contains(t, lines, "go\tGo")
	assert.Contains(t, lines, "python\tPython")

	goIdx := slices.Index(lines, "go\tGo")
	pyIdx := slices.Index(lines, "python\tPython")
	assert.Less(t, goIdx, pyIdx, "listing must be sorted by name")
}

func TestMainCmd_listUnknownCategory(t *testing.T) {
	var stderr bytes.Buffer
	exitCode := (&mainCmd{
		Stdout: iotest.Writer(t),
		Stderr: &stderr,
	}).Run([]string{"-engine", "native", "-L", "nope"})
	assert.NotZero(t, exitCode)
	assert.Contains(t, stderr.String(), `unknown category "nope"`)
}

func TestMainCmd_unknownEngine(t *testing.T) {
	var stderr bytes.Buffer
	exitCode := (&mainCmd{
		Stdout: iotest.Writer(t),
		Stderr: &stderr,
	}).Run([]string{"-engine", "bogus", "-N", "foo.py"})
	assert.NotZero(t, exitCode)
	assert.Contains(t, stderr.String(), `unknown engine "bogus"`)
}

func TestMainCmd_tooManyFiles(t *testing.T) {
	var stderr bytes.Buffer
	exitCode := (&mainCmd{
		Stdout: iotest.Writer(t),
		Stderr: &stderr,
	}).Run([]string{"a.go", "b.go"})
	assert.NotZero(t, exitCode)
	assert.Contains(t, stderr.String(), "at most one file")
}
