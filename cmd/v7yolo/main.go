// Converts V7 polygon annotations to a YOLO bounding box dataset with train and validation splits.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sensorable/v7yolo"
	"k8s.io/klog/v2"
)

var (
	inputDirPath    string  // The input directory with the V7 JSON files (and images).
	destDirPath     string  // The output directory for the YOLO dataset.
	download        bool    // Download the images instead of copying them.
	validationSplit float64 // The share of files for the validation set.
	labelMapPath    string  // An existing label map to use.

	shuffle bool  // Shuffle before splitting.
	seed    int64 // The shuffle seed.

	fetchTimeout time.Duration // The timeout for each image download.
	showProgress bool          // Display download progress bars.
	checkImages  bool          // Decode images and compare their size with the annotations.
	tfRecord     bool          // Also write TFRecord files.
)

func init() {
	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "Usage of %s:\n", filepath.Base(os.Args[0]))
		_, _ = fmt.Fprintln(os.Stderr, "  -input <dir> -dest <dir> [-download] [-split <fraction>]"+
			" [-map <file>]")
		_, _ = fmt.Fprintln(os.Stderr)
		flag.PrintDefaults()
	}

	printUsageAndExit := func(msg ...interface{}) {
		klog.Error(msg...)
		klog.Flush()
		flag.Usage()
		os.Exit(1)
	}

	klog.InitFlags(nil)

	// Path arguments.
	flag.StringVar(&inputDirPath, "input", inputDirPath,
		"The `path` to the directory containing the V7 annotations")
	flag.StringVar(&destDirPath, "dest", destDirPath,
		"The `path` to the destination directory for the annotations and images")
	flag.StringVar(&labelMapPath, "map", labelMapPath,
		"The `path` to a JSON map of labels to indices; generated into -dest if not set")

	// Dataset arguments.
	flag.BoolVar(&download, "download", download,
		"Download the images from their url instead of copying them from -input")
	flag.Float64Var(&validationSplit, "split", v7yolo.DefaultValidationFraction,
		"The `fraction` of files, in [0, 1], assigned to the validation set")
	flag.BoolVar(&shuffle, "shuffle", shuffle,
		"Shuffle the files with -seed before splitting (the split is positional otherwise)")
	flag.Int64Var(&seed, "seed", 0, "The `seed` for -shuffle")

	// Download and output arguments.
	flag.DurationVar(&fetchTimeout, "timeout", 0,
		"The `timeout` for each image download (zero means no timeout)")
	flag.BoolVar(&showProgress, "progress", showProgress, "Display a progress bar for downloads")
	flag.BoolVar(&checkImages, "check-images", checkImages,
		"Decode all images and warn when their size differs from the annotated size")
	flag.BoolVar(&tfRecord, "tfrecord", tfRecord,
		"Also write train and val TFRecord files with a label_map.pbtxt to -dest")

	// Parse and validate flags.
	flag.Parse()

	if inputDirPath == "" || destDirPath == "" {
		printUsageAndExit("Missing -input or -dest argument")
	}
	if validationSplit < 0 || validationSplit > 1 {
		printUsageAndExit("Invalid -split, must be in [0, 1]: ", validationSplit)
	}
	if fetchTimeout < 0 {
		printUsageAndExit("Invalid -timeout: ", fetchTimeout)
	}

	// Clean path arguments.
	inputDirPath = filepath.Clean(inputDirPath)
	destDirPath = filepath.Clean(destDirPath)
	if inputDirPath == destDirPath {
		printUsageAndExit("The input and destination paths cannot be identical")
	}
	if labelMapPath != "" {
		labelMapPath = filepath.Clean(labelMapPath)
	}
}

func main() {
	defer klog.Flush()

	opts := v7yolo.Options{
		InputDir:           inputDirPath,
		DestDir:            destDirPath,
		Download:           download,
		ValidationFraction: validationSplit,
		LabelMapPath:       labelMapPath,
		Shuffle:            shuffle,
		Seed:               seed,
		CheckImages:        checkImages,
		TFRecord:           tfRecord,
		Fetcher:            v7yolo.NewHTTPFetcher(fetchTimeout, showProgress),
		Notifier:           v7yolo.LogNotifier{},
	}

	result, err := v7yolo.Convert(opts)
	if err != nil {
		klog.Exitf("Conversion failed: %v", err)
	}

	klog.Infof("Successfully wrote %d training and %d validation files with %d classes to %s",
		len(result.Train), len(result.Val), len(result.Labels), destDirPath)
}
