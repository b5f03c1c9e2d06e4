package v7yolo

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeV7File writes a V7 annotation file for an image named after name, with one polygon
// annotation per label, to dir.
func writeV7File(t *testing.T, dir, name, url string, labels ...string) string {
	t.Helper()

	v7Data := V7AnnotatedFile{
		Image: V7Image{Filename: name + ".jpg", Width: 100, Height: 200, URL: url},
	}
	for _, label := range labels {
		v7Data.Annotations = append(v7Data.Annotations, V7Annotation{
			Name:    label,
			Polygon: &V7Polygon{Path: []V7Point{{X: 10, Y: 20}, {X: 50, Y: 80}}},
		})
	}

	enc, err := json.Marshal(v7Data)
	require.NoError(t, err)
	path := filepath.Join(dir, name+".json")
	require.NoError(t, os.WriteFile(path, enc, 0644))
	return path
}

func TestParseV7File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.json")
	doc := `{
  "dataset": "birds",
  "image": {"filename": "a.jpg", "width": 100, "height": 200, "url": "https://example.com/a.jpg"},
  "annotations": [
    {"name": "heron", "polygon": {"path": [{"x": 10, "y": 20}, {"x": 50.5, "y": 80}]}},
    {"name": "duck", "polygon": {"path": [{"x": 1, "y": 2}]}}
  ]
}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	fileData, err := ParseV7File(path)
	require.NoError(t, err)

	assert.Equal(t, ImageInfo{Filename: "a.jpg", Width: 100, Height: 200,
		URL: "https://example.com/a.jpg"}, fileData.Image)
	assert.Equal(t, path, fileData.SourcePath)
	require.Len(t, fileData.Annotations, 2)
	assert.Equal(t, Annotation{Label: "heron", Polygon: []Point{{10, 20}, {50.5, 80}}},
		fileData.Annotations[0])
	assert.Equal(t, Annotation{Label: "duck", Polygon: []Point{{1, 2}}}, fileData.Annotations[1])
	assert.Equal(t, "a", fileData.baseName())
}

func TestParseV7FileErrors(t *testing.T) {
	docs := map[string]string{
		"invalid json":     `{"image": `,
		"missing filename": `{"image": {"width": 1, "height": 1}, "annotations": []}`,
		"zero width":       `{"image": {"filename": "a.jpg", "height": 1}, "annotations": []}`,
		"missing polygon": `{"image": {"filename": "a.jpg", "width": 1, "height": 1},` +
			` "annotations": [{"name": "tag"}]}`,
		"wrong types": `{"image": {"filename": "a.jpg", "width": "wide", "height": 1}}`,
	}
	for name, doc := range docs {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "a.json")
			require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

			_, err := ParseV7File(path)
			var parseErr *ParseError
			require.True(t, errors.As(err, &parseErr), "got %v", err)
			assert.Equal(t, path, parseErr.Path)
		})
	}
}

func TestFromV7(t *testing.T) {
	dir := t.TempDir()
	writeV7File(t, dir, "b", "", "cat")
	writeV7File(t, dir, "a", "", "dog", "cat")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.jpg"), []byte("jpg"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.json"), 0755))

	data, err := FromV7(dir)
	require.NoError(t, err)
	require.Len(t, data, 2)

	// Files are read in name order and directories are skipped.
	assert.Equal(t, "a.jpg", data[0].Image.Filename)
	assert.Equal(t, "b.jpg", data[1].Image.Filename)
	assert.Equal(t, 3, data.NumAnnotations())
	assert.ElementsMatch(t, []string{"cat", "dog"}, data.Labels())
}

func TestFromV7FailsFast(t *testing.T) {
	dir := t.TempDir()
	writeV7File(t, dir, "a", "", "cat")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.json"), []byte("not json"), 0644))
	writeV7File(t, dir, "c", "", "cat")

	_, err := FromV7(dir)
	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr), "got %v", err)
	assert.Equal(t, filepath.Join(dir, "b.json"), parseErr.Path)
}

func TestFromV7MissingDir(t *testing.T) {
	_, err := FromV7(filepath.Join(t.TempDir(), "missing"))
	var fsErr *FilesystemError
	require.True(t, errors.As(err, &fsErr), "got %v", err)
}
