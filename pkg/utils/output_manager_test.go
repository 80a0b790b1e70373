package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputManagerRunDir(t *testing.T) {
	om := NewOutputManager(t.TempDir())

	dir, err := om.CreateRunOutputDir("run-1")
	require.NoError(t, err)
	assert.DirExists(t, dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "report.txt"), []byte("ok"), 0644))

	path, err := om.ResolveRunFile("run-1", "report.txt")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "report.txt"), path)

	_, err = om.ResolveRunFile("run-1", "missing.txt")
	assert.Error(t, err)

	// traversal attempts collapse to the base name
	_, err = om.ResolveRunFile("../run-1", "../../report.txt")
	require.NoError(t, err)
}

func TestOutputManagerSubdirFile(t *testing.T) {
	om := NewOutputManager(t.TempDir())
	dir, err := om.CreateRunOutputDir("run-2")
	require.NoError(t, err)

	figures := filepath.Join(dir, "figures")
	require.NoError(t, os.MkdirAll(figures, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(figures, "chart.png"), []byte("png"), 0644))

	path, err := om.ResolveRunSubdirFile("run-2", "figures", "chart.png")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(figures, "chart.png"), path)

	_, err = om.ResolveRunFile("run-2", "chart.png")
	assert.Error(t, err)
	_, err = om.ResolveRunFile("run-2", "figures")
	assert.Error(t, err, "directories are not artifacts")
	_, err = om.ResolveRunSubdirFile("run-2", "..", "chart.png")
	assert.Error(t, err)
}

func TestResolveUnder(t *testing.T) {
	root := filepath.Join("srv", "data")

	path, err := ResolveUnder(root, filepath.Join("2024", "sales.csv"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "2024", "sales.csv"), path)

	path, err = ResolveUnder(root, "a/../sales.csv")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "sales.csv"), path)

	for _, rel := range []string{"", "..", "../secrets.csv", "a/../../x.csv", "/etc/passwd"} {
		_, err := ResolveUnder(root, rel)
		assert.ErrorIs(t, err, ErrOutsideRoot, "expected %q to be rejected", rel)
	}
}

func TestOutputManagerURLsAndTypes(t *testing.T) {
	om := NewOutputManager("out")

	assert.Equal(t, "/api/v1/download/abc/report.txt", om.GetDownloadURL("abc", "nested/report.txt"))
	assert.Equal(t, "csv", om.GetFileType("a.CSV"))
	assert.Equal(t, "image", om.GetFileType("chart.png"))
	assert.Equal(t, "text", om.GetFileType("report.txt"))
	assert.Equal(t, "unknown", om.GetFileType("blob"))
}
