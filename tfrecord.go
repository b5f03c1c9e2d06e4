package v7yolo

// TFRecord object detection specific functionality.

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/protobuf/proto"
	"github.com/pkg/errors"
	"github.com/ryszard/tfutils/go/example"
	"github.com/ryszard/tfutils/go/tfrecord"
	"github.com/ryszard/tfutils/proto/tensorflow/core/example" // package tensorflow
)

// TFFeatureMap maps feature names to their values. Values must be convertible to
// tensorflow.Feature.
type TFFeatureMap map[string]interface{}

// toTFFeatures converts a single file to the feature map of the TF object detection API. The image
// is read from imagePath.
//
// Class IDs are the label map index plus one, as ID 0 is reserved for the background.
func toTFFeatures(fileData AnnotatedFile, imagePath string, labels LabelMap) (TFFeatureMap, error) {
	imgData, err := os.ReadFile(imagePath)
	if err != nil {
		return nil, fsError("read", imagePath, err)
	}

	width, height := fileData.Image.Width, fileData.Image.Height

	// Prepare the feature map for the per file data.
	f := make(TFFeatureMap, 16)
	f["image/height"] = height
	f["image/width"] = width
	f["image/filename"] = fileData.Image.Filename
	f["image/source_id"] = fileData.Image.Filename
	f["image/encoded"] = imgData
	f["image/format"] = imageFormat(fileData.Image.Filename)

	// Prepare the per label data.
	numLabels := len(fileData.Annotations)
	xmins := make([]float32, numLabels)
	ymins := make([]float32, numLabels)
	xmaxs := make([]float32, numLabels)
	ymaxs := make([]float32, numLabels)
	classes := make([]string, numLabels)
	classIDs := make([]int64, numLabels)
	for i, a := range fileData.Annotations {
		idx, ok := labels[a.Label]
		if !ok {
			return nil, errors.Errorf("label %q of %q is missing from the label map",
				a.Label, fileData.Image.Filename)
		}

		box := a.BoundingBox(width, height)
		xmins[i] = float32(box.CenterX - box.Width/2)
		ymins[i] = float32(box.CenterY - box.Height/2)
		xmaxs[i] = float32(box.CenterX + box.Width/2)
		ymaxs[i] = float32(box.CenterY + box.Height/2)
		classes[i] = a.Label
		classIDs[i] = int64(idx + 1)
	}
	f["image/object/bbox/xmin"] = xmins
	f["image/object/bbox/ymin"] = ymins
	f["image/object/bbox/xmax"] = xmaxs
	f["image/object/bbox/ymax"] = ymaxs
	f["image/object/class/text"] = classes
	f["image/object/class/label"] = classIDs

	return f, nil
}

// imageFormat returns the TF image format for the file name, e.g. "jpeg" or "png".
func imageFormat(filename string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if ext == "jpg" {
		return "jpeg"
	}
	return ext
}

// WriteTFRecord writes one tensorflow.Example per file to recordFilePath. The images are read from
// imageDir, where they are expected under their original file name.
func WriteTFRecord(recordFilePath, imageDir string, data AnnotatedFiles, labels LabelMap) (
	err error) {

	// example.New panics on feature values it cannot convert.
	defer func() {
		if e := recover(); e != nil {
			err = errors.Errorf("conversion to TensorFlow Example failed: %v", e)
		}
	}()

	file, err := os.Create(recordFilePath)
	if err != nil {
		return fsError("create", recordFilePath, err)
	}
	defer closeWithErrCheck(file, &err)

	w := bufio.NewWriter(file)
	for _, fileData := range data {
		imagePath := filepath.Join(imageDir, filepath.Base(fileData.Image.Filename))
		features, err := toTFFeatures(fileData, imagePath, labels)
		if err != nil {
			return err
		}
		if err := writeTFRecordExample(w, example.New(features)); err != nil {
			return fsError("write", recordFilePath, err)
		}
	}
	if err := w.Flush(); err != nil {
		return fsError("write", recordFilePath, err)
	}

	return nil
}

// writeTFRecordExample serialises the example and writes it as a TFRecord to w.
func writeTFRecordExample(w io.Writer, e *tensorflow.Example) error {
	enc, err := proto.Marshal(e)
	if err != nil {
		return err
	}

	return tfrecord.Write(w, enc)
}

// WriteTFRecordLabelMap writes labels in the prototxt format of the TF object detection API
// (StringIntLabelMap) to path, using the same IDs as WriteTFRecord.
func WriteTFRecordLabelMap(path string, labels LabelMap) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fsError("create", path, err)
	}
	defer closeWithErrCheck(file, &err)

	for idx, name := range labels.Names() {
		_, err = fmt.Fprintf(file, "item {\n  id: %d\n  name: %q\n}\n", idx+1, name)
		if err != nil {
			return fsError("write", path, err)
		}
	}
	return nil
}
