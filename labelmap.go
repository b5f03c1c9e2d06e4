package v7yolo

import (
	"encoding/json"
	"os"
	"sort"

	"github.com/pkg/errors"
)

// LabelMap maps label names to dense class indices in [0, len(map)).
type LabelMap map[string]int

// BuildLabelMap assigns indices to the distinct labels in data in ascending lexicographic order.
// The result does not depend on the order of data.
//
// Returns ErrEmptyDataset if data holds no files or no labels.
func BuildLabelMap(data AnnotatedFiles) (LabelMap, error) {
	if len(data) == 0 {
		return nil, ErrEmptyDataset
	}
	labels := data.Labels()
	if len(labels) == 0 {
		return nil, ErrEmptyDataset
	}
	sort.Strings(labels)

	labelMap := make(LabelMap, len(labels))
	for i, label := range labels {
		labelMap[label] = i
	}
	return labelMap, nil
}

// LoadLabelMap reads a JSON label map of the form {"name": index, ...} from path. The indices must
// cover [0, N) exactly once.
func LoadLabelMap(path string) (LabelMap, error) {
	enc, err := os.ReadFile(path)
	if err != nil {
		return nil, fsError("read", path, err)
	}

	var labelMap LabelMap
	if err := json.Unmarshal(enc, &labelMap); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	if len(labelMap) == 0 {
		return nil, &ParseError{Path: path, Err: ErrEmptyDataset}
	}

	seen := make([]bool, len(labelMap))
	for name, idx := range labelMap {
		if idx < 0 || idx >= len(labelMap) || seen[idx] {
			return nil, &ParseError{Path: path,
				Err: errors.Errorf("label %q: index %d is not a unique value in [0, %d)",
					name, idx, len(labelMap))}
		}
		seen[idx] = true
	}

	return labelMap, nil
}

// Save writes the label map as JSON to path.
func (m LabelMap) Save(path string) error {
	enc, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode the label map")
	}
	return fsError("write", path, os.WriteFile(path, enc, 0644))
}

// Names returns the label names ordered by index.
func (m LabelMap) Names() []string {
	names := make([]string, len(m))
	for name, idx := range m {
		names[idx] = name
	}
	return names
}

// Check verifies that every label used in data has an index in m. The first file with an unknown
// label is reported as a *ParseError.
func (m LabelMap) Check(data AnnotatedFiles) error {
	for _, f := range data {
		for _, a := range f.Annotations {
			if _, ok := m[a.Label]; !ok {
				return &ParseError{Path: f.SourcePath,
					Err: errors.Errorf("label %q is missing from the label map", a.Label)}
			}
		}
	}
	return nil
}
