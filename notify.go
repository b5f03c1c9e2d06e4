package v7yolo

import (
	"k8s.io/klog/v2"
)

// Stage identifies a step of the conversion pipeline.
type Stage string

// The pipeline stages reported to a Notifier.
const (
	StageRead       Stage = "read"
	StageLabels     Stage = "labels"
	StageConfig     Stage = "config"
	StageSplit      Stage = "split"
	StageAnnotation Stage = "annotation"
	StageImage      Stage = "image"
	StageTFRecord   Stage = "tfrecord"
	StageDone       Stage = "done"
)

// Notifier receives progress reports from Convert.
type Notifier interface {
	Notify(stage Stage, detail string)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(stage Stage, detail string)

// Notify calls f(stage, detail).
func (f NotifierFunc) Notify(stage Stage, detail string) { f(stage, detail) }

// LogNotifier logs progress with klog. Per-file stages are only logged at verbosity 1 and above.
type LogNotifier struct{}

// Notify implements Notifier.
func (LogNotifier) Notify(stage Stage, detail string) {
	switch stage {
	case StageRead, StageAnnotation, StageImage:
		klog.V(1).Infof("[%s] %s", stage, detail)
	default:
		klog.Infof("[%s] %s", stage, detail)
	}
}

// NopNotifier discards all progress reports.
type NopNotifier struct{}

// Notify implements Notifier.
func (NopNotifier) Notify(Stage, string) {}
