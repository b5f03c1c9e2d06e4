package v7yolo

// V7 Darwin JSON export specific functionality.

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// V7Point is a single polygon vertex in pixel coordinates.
type V7Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// V7Polygon is the outline of an object.
type V7Polygon struct {
	Path []V7Point `json:"path"`
}

// V7Annotation is a single object annotation within a V7 file.
type V7Annotation struct {
	Name    string     `json:"name"`
	Polygon *V7Polygon `json:"polygon"` // Nil for tags and other non-polygon annotations.
}

// V7Image describes the annotated image.
type V7Image struct {
	Filename string `json:"filename"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	URL      string `json:"url"`
}

// V7AnnotatedFile defines the V7 annotation structure for a single image.
type V7AnnotatedFile struct {
	Annotations []V7Annotation `json:"annotations"`
	Image       V7Image        `json:"image"`
}

// FromV7 reads and parses all V7 annotation files (*.json) found directly in labelDir, in file
// name order.
//
// Parsing stops at the first file that cannot be parsed, which is returned as a *ParseError.
func FromV7(labelDir string) (AnnotatedFiles, error) {
	labelFiles, err := filesByExtInDir(labelDir, ".json")
	if err != nil {
		return nil, err
	}
	klog.Infof("Parsing V7 labels for %d files", len(labelFiles))

	data := make(AnnotatedFiles, 0, len(labelFiles))
	for _, path := range labelFiles {
		fileData, err := ParseV7File(path)
		if err != nil {
			return nil, err
		}
		data = append(data, fileData)
	}

	return data, nil
}

// ParseV7File parses the V7 annotation file at path.
func ParseV7File(path string) (AnnotatedFile, error) {
	enc, err := os.ReadFile(path)
	if err != nil {
		return AnnotatedFile{}, fsError("read", path, err)
	}

	var v7Data V7AnnotatedFile
	if err := json.Unmarshal(enc, &v7Data); err != nil {
		return AnnotatedFile{}, &ParseError{Path: path, Err: err}
	}

	fileData, err := v7Data.toIR()
	if err != nil {
		return AnnotatedFile{}, &ParseError{Path: path, Err: err}
	}
	fileData.SourcePath = path

	return fileData, nil
}

// toIR converts the V7 data to the intermediate representation.
func (v7Data V7AnnotatedFile) toIR() (AnnotatedFile, error) {
	img := v7Data.Image
	switch {
	case img.Filename == "":
		return AnnotatedFile{}, errors.New("missing image filename")
	case img.Width <= 0 || img.Height <= 0:
		return AnnotatedFile{}, errors.Errorf("invalid image size %dx%d", img.Width, img.Height)
	}

	fileData := AnnotatedFile{
		Annotations: make([]Annotation, len(v7Data.Annotations)),
		Image: ImageInfo{
			Filename: img.Filename,
			Width:    img.Width,
			Height:   img.Height,
			URL:      img.URL,
		},
	}
	for i, a := range v7Data.Annotations {
		if a.Polygon == nil {
			return AnnotatedFile{}, errors.Errorf("annotation %d (%q) has no polygon", i, a.Name)
		}

		polygon := make([]Point, len(a.Polygon.Path))
		for j, p := range a.Polygon.Path {
			polygon[j] = Point{X: p.X, Y: p.Y}
		}
		fileData.Annotations[i] = Annotation{Label: a.Name, Polygon: polygon}
	}

	return fileData, nil
}
