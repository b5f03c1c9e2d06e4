package v7yolo

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Output file and directory names below Options.DestDir.
const (
	TrainDirName           = "train"
	ValDirName             = "val"
	TrainingConfigFileName = "config.yaml"
	LabelMapFileName       = "map.json"
	TFRecordLabelMapName   = "label_map.pbtxt"
	tfRecordExt            = ".record"
)

// DefaultValidationFraction is the share of files assigned to the validation set by default.
const DefaultValidationFraction = 0.3

// Options configures Convert.
type Options struct {
	InputDir           string  // Directory with the V7 JSON files and, unless Download, the images.
	DestDir            string  // Output directory; created if missing.
	Download           bool    // Fetch images from their URL instead of copying them from InputDir.
	ValidationFraction float64 // Share of files, in [0, 1], assigned to the validation set.
	LabelMapPath       string  // Optional JSON label map to use instead of computing one.

	Shuffle bool  // Shuffle the files with Seed before splitting.
	Seed    int64 // Seed for Shuffle.

	CheckImages bool // Decode every image and warn when its size differs from the annotations.
	TFRecord    bool // Also write one TFRecord file per partition.

	Fetcher  Fetcher  // Used if Download is set; defaults to an HTTPFetcher without timeout.
	Notifier Notifier // Receives progress reports; defaults to LogNotifier.
}

// Validate checks the options for consistency.
func (o Options) Validate() error {
	switch {
	case o.InputDir == "":
		return errors.New("missing input directory")
	case o.DestDir == "":
		return errors.New("missing destination directory")
	case math.IsNaN(o.ValidationFraction) || o.ValidationFraction < 0 || o.ValidationFraction > 1:
		return errors.Errorf("invalid validation fraction %v, must be in [0, 1]",
			o.ValidationFraction)
	case filepath.Clean(o.InputDir) == filepath.Clean(o.DestDir):
		return errors.New("the input and destination directories cannot be identical")
	}
	return nil
}

// Result summarises a conversion run.
type Result struct {
	Labels LabelMap
	Config TrainingConfig
	Train  AnnotatedFiles
	Val    AnnotatedFiles
}

// partition is a named subset of the data and its output directory.
type partition struct {
	name string
	dir  string
	data AnnotatedFiles
}

// Convert reads all V7 annotations from opts.InputDir and writes a YOLO dataset to opts.DestDir:
// the label map, the training config, and one directory per partition holding a label file and
// the image for every annotated file.
//
// The first error aborts the run. Output written up to that point is left in place.
func Convert(opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = LogNotifier{}
	}
	fetcher := opts.Fetcher
	if fetcher == nil {
		fetcher = NewHTTPFetcher(0, false)
	}

	if err := os.MkdirAll(opts.DestDir, 0755); err != nil {
		return nil, fsError("mkdir", opts.DestDir, err)
	}

	// Parse input.
	notifier.Notify(StageRead, fmt.Sprintf("reading V7 annotations from %s", opts.InputDir))
	data, err := FromV7(opts.InputDir)
	if err != nil {
		return nil, err
	}
	for _, f := range data {
		notifier.Notify(StageRead, fmt.Sprintf("read %s (%d annotations)",
			f.SourcePath, len(f.Annotations)))
	}

	// Build or load the label map.
	labels, err := resolveLabelMap(opts, data, notifier)
	if err != nil {
		return nil, err
	}

	// Write the training config.
	trainDir := filepath.Join(opts.DestDir, TrainDirName)
	valDir := filepath.Join(opts.DestDir, ValDirName)
	cfg := NewTrainingConfig(trainDir, valDir, labels)
	cfgPath := filepath.Join(opts.DestDir, TrainingConfigFileName)
	if err := WriteTrainingConfig(cfgPath, cfg); err != nil {
		return nil, err
	}
	notifier.Notify(StageConfig, fmt.Sprintf("wrote training config for %d classes to %s",
		cfg.NumClasses, cfgPath))

	// Split data into output datasets.
	if opts.Shuffle {
		data = Shuffle(data, opts.Seed)
	}
	train, val, err := Split(data, opts.ValidationFraction)
	if err != nil {
		return nil, err
	}
	notifier.Notify(StageSplit, fmt.Sprintf("%d files for training, %d for validation",
		len(train), len(val)))

	partitions := []partition{
		{name: ValDirName, dir: valDir, data: val},
		{name: TrainDirName, dir: trainDir, data: train},
	}
	for _, p := range partitions {
		if err := writePartition(opts, p, labels, fetcher, notifier); err != nil {
			return nil, err
		}
	}

	// Optional TFRecord export.
	if opts.TFRecord {
		if err := writeTFRecords(opts.DestDir, partitions, labels, notifier); err != nil {
			return nil, err
		}
	}

	notifier.Notify(StageDone, fmt.Sprintf("converted %d files with %d annotations",
		len(data), data.NumAnnotations()))

	return &Result{Labels: labels, Config: cfg, Train: train, Val: val}, nil
}

// resolveLabelMap loads the label map from opts.LabelMapPath, or builds it from data and saves it
// below opts.DestDir.
func resolveLabelMap(opts Options, data AnnotatedFiles, notifier Notifier) (LabelMap, error) {
	if opts.LabelMapPath != "" {
		labels, err := LoadLabelMap(opts.LabelMapPath)
		if err != nil {
			return nil, err
		}
		if err := labels.Check(data); err != nil {
			return nil, err
		}
		notifier.Notify(StageLabels, fmt.Sprintf("loaded %d labels from %s",
			len(labels), opts.LabelMapPath))
		return labels, nil
	}

	labels, err := BuildLabelMap(data)
	if err != nil {
		return nil, err
	}
	path := filepath.Join(opts.DestDir, LabelMapFileName)
	if err := labels.Save(path); err != nil {
		return nil, err
	}
	notifier.Notify(StageLabels, fmt.Sprintf("mapped %d labels to alphabetical indices in %s",
		len(labels), path))
	return labels, nil
}

// writePartition writes the label files and images of p to p.dir.
func writePartition(opts Options, p partition, labels LabelMap, fetcher Fetcher,
	notifier Notifier) error {

	if err := os.MkdirAll(p.dir, 0755); err != nil {
		return fsError("mkdir", p.dir, err)
	}

	for _, fileData := range p.data {
		labelPath, err := WriteYOLO(p.dir, fileData, labels)
		if err != nil {
			return err
		}
		notifier.Notify(StageAnnotation, fmt.Sprintf("wrote %s", labelPath))

		imageName := filepath.Base(fileData.Image.Filename)
		imagePath := filepath.Join(p.dir, imageName)
		if opts.Download {
			if err := downloadImage(fetcher, fileData.Image.URL, imagePath); err != nil {
				return err
			}
			notifier.Notify(StageImage, fmt.Sprintf("downloaded %s to %s",
				fileData.Image.URL, imagePath))
		} else {
			if err := copyImage(filepath.Join(opts.InputDir, imageName), imagePath); err != nil {
				return err
			}
			notifier.Notify(StageImage, fmt.Sprintf("copied %s to %s", imageName, imagePath))
		}

		if opts.CheckImages {
			if _, err := checkImage(imagePath, fileData.Image.Width, fileData.Image.Height); err != nil {
				return err
			}
		}
	}

	return nil
}

// writeTFRecords writes one TFRecord file per partition and the matching label map to destDir.
func writeTFRecords(destDir string, partitions []partition, labels LabelMap,
	notifier Notifier) error {

	labelMapPath := filepath.Join(destDir, TFRecordLabelMapName)
	if err := WriteTFRecordLabelMap(labelMapPath, labels); err != nil {
		return err
	}

	for _, p := range partitions {
		recordPath := filepath.Join(destDir, p.name+tfRecordExt)
		if err := WriteTFRecord(recordPath, p.dir, p.data, labels); err != nil {
			return err
		}
		notifier.Notify(StageTFRecord, fmt.Sprintf("wrote %d examples to %s",
			len(p.data), recordPath))
	}
	return nil
}
