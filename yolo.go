package v7yolo

// YOLO specific functionality.

import (
	"bufio"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// YOLOAnnotation is a single line within a YOLO label file.
type YOLOAnnotation struct {
	ClassIndex int
	Box        BoundingBox
}

// String formats the annotation as "<index> <cx> <cy> <w> <h>" with two decimal places.
func (a YOLOAnnotation) String() string {
	return strconv.Itoa(a.ClassIndex) + " " +
		formatCoord(a.Box.CenterX) + " " +
		formatCoord(a.Box.CenterY) + " " +
		formatCoord(a.Box.Width) + " " +
		formatCoord(a.Box.Height)
}

// ToYOLO converts the annotations of a single file to YOLO format, keeping their order.
func ToYOLO(fileData AnnotatedFile, labels LabelMap) ([]YOLOAnnotation, error) {
	yoloData := make([]YOLOAnnotation, len(fileData.Annotations))
	for i, a := range fileData.Annotations {
		idx, ok := labels[a.Label]
		if !ok {
			return nil, errors.Errorf("label %q of %q is missing from the label map",
				a.Label, fileData.Image.Filename)
		}
		yoloData[i] = YOLOAnnotation{
			ClassIndex: idx,
			Box:        a.BoundingBox(fileData.Image.Width, fileData.Image.Height),
		}
	}
	return yoloData, nil
}

// WriteYOLO writes the YOLO label file for fileData to dirPath and returns its path. The file is
// named after the image, with a .txt extension. dirPath must exist.
func WriteYOLO(dirPath string, fileData AnnotatedFile, labels LabelMap) (path string, err error) {
	yoloData, err := ToYOLO(fileData, labels)
	if err != nil {
		return "", err
	}

	path = filepath.Join(dirPath, fileData.baseName()+".txt")
	file, err := os.Create(path)
	if err != nil {
		return "", fsError("create", path, err)
	}
	defer closeWithErrCheck(file, &err)

	w := bufio.NewWriter(file)
	for _, a := range yoloData {
		if _, err := w.WriteString(a.String() + "\n"); err != nil {
			return "", fsError("write", path, err)
		}
	}
	if err := w.Flush(); err != nil {
		return "", fsError("write", path, err)
	}

	return path, nil
}

// TrainingConfig is the YOLO dataset configuration.
type TrainingConfig struct {
	Train      string   `yaml:"train"`
	Val        string   `yaml:"val"`
	NumClasses int      `yaml:"nc"`
	Names      []string `yaml:"names,flow"`
}

// NewTrainingConfig returns the configuration for the given partition directories and labels.
func NewTrainingConfig(trainDir, valDir string, labels LabelMap) TrainingConfig {
	return TrainingConfig{
		Train:      trainDir,
		Val:        valDir,
		NumClasses: len(labels),
		Names:      labels.Names(),
	}
}

// WriteTrainingConfig writes cfg as YAML to path.
func WriteTrainingConfig(path string, cfg TrainingConfig) error {
	enc, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "failed to encode the training config")
	}
	return fsError("write", path, os.WriteFile(path, enc, 0644))
}

// LoadTrainingConfig reads a YAML training config from path.
func LoadTrainingConfig(path string) (TrainingConfig, error) {
	var cfg TrainingConfig

	file, err := os.Open(path)
	if err != nil {
		return cfg, fsError("open", path, err)
	}
	defer file.Close()

	if err := yaml.NewDecoder(file).Decode(&cfg); err != nil {
		return cfg, &ParseError{Path: path, Err: err}
	}
	return cfg, nil
}
