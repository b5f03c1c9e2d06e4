package v7yolo

// The intermediate annotation metadata representation.

import (
	"path/filepath"
)

// Point is a polygon vertex in absolute image pixel coordinates. Points are not clamped to the
// image bounds.
type Point struct {
	X float64
	Y float64
}

// Annotation is the intermediate representation of an object label.
type Annotation struct {
	Label   string
	Polygon []Point // The object outline, in input order.
}

// BoundingBox returns the normalised bounding box of a.Polygon for an image of the given size.
func (a Annotation) BoundingBox(width, height int) BoundingBox {
	return ToBoundingBox(width, height, a.Polygon)
}

// ImageInfo describes the annotated image.
type ImageInfo struct {
	Filename string // Base name of the image file, e.g. "a.jpg".
	Width    int    // In pixels, > 0.
	Height   int    // In pixels, > 0.
	URL      string // Optional download location.
}

// AnnotatedFile is the intermediate representation of file metadata.
type AnnotatedFile struct {
	Annotations []Annotation // The annotations, in input order.
	Image       ImageInfo
	SourcePath  string // The label file this was parsed from.
}

// baseName returns the image file name without its extension.
func (f AnnotatedFile) baseName() string {
	name := filepath.Base(f.Image.Filename)
	return name[0 : len(name)-len(filepath.Ext(name))]
}

// AnnotatedFiles is the annotation metadata for a list of files.
type AnnotatedFiles []AnnotatedFile

// Labels returns the distinct labels used across all files, in no particular order.
func (data AnnotatedFiles) Labels() []string {
	seen := make(map[string]struct{})
	labels := make([]string, 0, 16)
	for _, f := range data {
		for _, a := range f.Annotations {
			if _, ok := seen[a.Label]; ok {
				continue
			}
			seen[a.Label] = struct{}{}
			labels = append(labels, a.Label)
		}
	}
	return labels
}

// NumAnnotations returns the total number of annotations across all files.
func (data AnnotatedFiles) NumAnnotations() int {
	n := 0
	for _, f := range data {
		n += len(f.Annotations)
	}
	return n
}
