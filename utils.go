package v7yolo

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// filesByExtInDir returns all regular files with file extension ext found directly in directory
// dirPath, sorted by name. All files are returned if extension is empty.
func filesByExtInDir(dirPath, ext string) ([]string, error) {
	dirInfo, err := os.Stat(dirPath)
	if err != nil {
		return nil, fsError("read directory", dirPath, err)
	}
	if !dirInfo.IsDir() {
		return nil, fsError("read directory", dirPath, errors.New("not a directory"))
	}

	// os.ReadDir returns entries sorted by file name.
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, fsError("read directory", dirPath, err)
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		mode := entry.Type()
		// Must be a regular file or a symlink and have the requested extension/suffix.
		if (!mode.IsRegular() && mode&os.ModeSymlink == 0) || !strings.HasSuffix(name, ext) {
			continue
		}
		files = append(files, filepath.Join(dirPath, name))
	}
	klog.V(1).Infof("Found %d %q files in %q", len(files), ext, dirPath)

	return files, nil
}

// copyFile copies the content of the file at src to dst byte for byte, creating or truncating dst.
func copyFile(src, dst string) (n int64, err error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, fsError("open", src, err)
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dst)
	if err != nil {
		return 0, fsError("create", dst, err)
	}
	defer closeWithErrCheck(out, &err)

	n, err = io.Copy(out, in)
	if err != nil {
		return n, fsError("copy", src, err)
	}
	return n, nil
}

// closeWithErrCheck calls c.Close(). If it returns an error, and (*e == nil), e is set to that
// error.
func closeWithErrCheck(c io.Closer, e *error) {
	err := c.Close()
	if err != nil && *e == nil {
		*e = err
	}
}
