package agentresult

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zai-speckit/toon/toon"
)

const sampleResult = `status: done
task: T1 create user model
files[2]: models/user.py,tests/test_user.py
notes: "validation added, no migrations"
results[2]{path,line}:
  models/user.py,12
  tests/test_user.py,40
`

func TestNewID(t *testing.T) {
	id, err := NewID()
	require.NoError(t, err)

	parsed, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())

	other, err := NewID()
	require.NoError(t, err)
	assert.NotEqual(t, id, other)
}

func TestPathFor(t *testing.T) {
	assert.Equal(t, filepath.Join("/work", "abc.toon"), PathFor("/work", "abc"))
	assert.Equal(t, filepath.Join(DefaultDir, "abc.toon"), PathFor("", "abc"))
}

func TestNewPath(t *testing.T) {
	dir := t.TempDir()
	path, err := NewPath(dir)
	require.NoError(t, err)

	assert.Equal(t, dir, filepath.Dir(path))
	assert.Equal(t, Extension, filepath.Ext(path))

	_, err = uuid.Parse(strings.TrimSuffix(filepath.Base(path), Extension))
	assert.NoError(t, err)
}

func TestParseReference(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		path  string
		found bool
	}{
		{"bare line", "TOON: /tmp/zai-speckit/toon/a.toon", "/tmp/zai-speckit/toon/a.toon", true},
		{"inside prose", "Done.\n\n  TOON:   /tmp/x.toon  \nThanks", "/tmp/x.toon", true},
		{"inside code fence", "```\nTOON: /tmp/y.toon\n```", "/tmp/y.toon", true},
		{"first wins", "TOON: /a.toon\nTOON: /b.toon", "/a.toon", true},
		{"empty path skipped", "TOON:\nTOON: /c.toon", "/c.toon", true},
		{"missing", "no reference here", "", false},
		{"prefix mid line", "see TOON: /d.toon", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, found := ParseReference(tt.reply)
			assert.Equal(t, tt.found, found)
			assert.Equal(t, tt.path, path)
		})
	}
}

func TestReferenceRoundTrip(t *testing.T) {
	ref := Reference("/tmp/zai-speckit/toon/abc.toon")
	assert.Equal(t, "TOON: /tmp/zai-speckit/toon/abc.toon", ref)

	path, ok := ParseReference(ref)
	require.True(t, ok)
	assert.Equal(t, "/tmp/zai-speckit/toon/abc.toon", path)
}

func TestParse(t *testing.T) {
	result, err := Parse([]byte(sampleResult))
	require.NoError(t, err)

	assert.Equal(t, "done", result.Status)
	assert.Equal(t, "T1 create user model", result.Task)
	assert.Equal(t, []string{"models/user.py", "tests/test_user.py"}, result.Files)
	assert.Equal(t, "validation added, no migrations", result.Notes)

	rows, ok := result.Fields.Get("results")
	require.True(t, ok)
	require.Len(t, rows, 2)

	first, ok := rows.([]interface{})[0].(*toon.Object)
	require.True(t, ok)
	line, _ := first.Get("line")
	assert.Equal(t, int64(12), line)
}

func TestParseLooseFields(t *testing.T) {
	result, err := Parse([]byte("status: true\ntask: 42\nfiles: only.go\nnotes:\n  a: 1"))
	require.NoError(t, err)

	assert.Equal(t, "true", result.Status)
	assert.Equal(t, "42", result.Task)
	assert.Equal(t, []string{"only.go"}, result.Files)
	assert.Equal(t, `{"a":1}`, result.Notes)
}

func TestParseItemsDocumentStaysMapping(t *testing.T) {
	result, err := Parse([]byte("items[2]: a,b"))
	require.NoError(t, err)

	assert.Equal(t, []string{"items"}, result.Fields.Keys())
	assert.Empty(t, result.Status)
	assert.Nil(t, result.Files)
}

func TestParseError(t *testing.T) {
	_, err := Parse([]byte("files[x]: a"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, toon.ErrMalformedArrayKey))
}

func TestWriteLoadResolve(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "results")

	path, err := Write(dir, []byte(sampleResult))
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "done", loaded.Status)

	reply := "Finished the task.\n" + Reference(path) + "\n"
	resolved, err := Resolve(reply)
	require.NoError(t, err)
	assert.Equal(t, loaded.Files, resolved.Files)
	assert.True(t, loaded.Fields.Equal(resolved.Fields))
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toon"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.Contains(t, err.Error(), "reading result")

	bad := filepath.Join(t.TempDir(), "bad.toon")
	require.NoError(t, os.WriteFile(bad, []byte("x[: 1"), 0o644))
	_, err = Load(bad)
	require.Error(t, err)
	assert.True(t, errors.Is(err, toon.ErrMalformedArrayKey))
	assert.Contains(t, err.Error(), "parsing result")
}

func TestResolveWithoutReference(t *testing.T) {
	_, err := Resolve("nothing to see")
	assert.ErrorIs(t, err, ErrNoReference)
}
