package driver_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdllang/sdlc/driver"
	"github.com/sdllang/sdlc/emit"
	"github.com/sdllang/sdlc/emit/structgen"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644), "write %s", path)

	return path
}

func TestRunEndToEnd(t *testing.T) {
	dir := t.TempDir()

	writeFile(t, dir, "common.sdl", `A(name: int)`)
	input := writeFile(t, dir, "main.sdl", `#include "common.sdl"
B(other: A)
`)

	output := filepath.Join(dir, "out.rs")

	reg := emit.NewRegistry(structgen.Factory{})
	result, err := driver.Run(driver.Options{
		InputPath:  input,
		OutputPath: output,
		Mode:       structgen.LangTag,
	}, reg)
	require.NoError(t, err)

	assert.Contains(t, result.Output, "pub struct A {")
	assert.Contains(t, result.Output, "pub struct B {")

	written, err := os.ReadFile(output)
	require.NoError(t, err, "read output file")
	assert.Equal(t, result.Output, string(written), "written file should match Result.Output")
}

func TestRunUnknownModeFails(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "main.sdl", `A(x: int)`)

	reg := emit.NewRegistry(structgen.Factory{})
	_, err := driver.Run(driver.Options{
		InputPath:  input,
		OutputPath: filepath.Join(dir, "out.rs"),
		Mode:       "nonexistent",
	}, reg)
	assert.Error(t, err, "expected an error for an unregistered mode")
}

func TestRunRecordsSchemaVersion(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "main.sdl", `global_attr version("v1.2.3");

A(x: int)
`)

	reg := emit.NewRegistry(structgen.Factory{})
	result, err := driver.Run(driver.Options{
		InputPath:  input,
		OutputPath: filepath.Join(dir, "out.rs"),
		Mode:       structgen.LangTag,
	}, reg)
	require.NoError(t, err)
	assert.Equal(t, "v1.2.3", result.SchemaVersion)
}

func TestRunInvalidSchemaVersionFails(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "main.sdl", `global_attr version("not-a-version");

A(x: int)
`)

	reg := emit.NewRegistry(structgen.Factory{})
	_, err := driver.Run(driver.Options{
		InputPath:  input,
		OutputPath: filepath.Join(dir, "out.rs"),
		Mode:       structgen.LangTag,
	}, reg)
	assert.Error(t, err, "expected an error for an invalid semantic version")
}
