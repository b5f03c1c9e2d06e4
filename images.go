package v7yolo

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"
	"k8s.io/klog/v2"
)

// Fetcher retrieves the content at url and writes it to w, returning the number of bytes written.
type Fetcher interface {
	Fetch(url string, w io.Writer) (int64, error)
}

// HTTPFetcher fetches images over HTTP(S).
type HTTPFetcher struct {
	Client       *http.Client
	ShowProgress bool // Display a progress bar on stderr while downloading.
}

// NewHTTPFetcher returns a HTTPFetcher whose requests time out after timeout. A zero timeout
// means no timeout.
func NewHTTPFetcher(timeout time.Duration, showProgress bool) *HTTPFetcher {
	return &HTTPFetcher{
		Client:       &http.Client{Timeout: timeout},
		ShowProgress: showProgress,
	}
}

// Fetch implements Fetcher. Failures, including non-2xx responses, are returned as *NetworkError.
func (f *HTTPFetcher) Fetch(url string, w io.Writer) (n int64, err error) {
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Get(url)
	if err != nil {
		return 0, &NetworkError{URL: url, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, &NetworkError{URL: url, Err: errors.Errorf("unexpected status %q", resp.Status)}
	}

	if f.ShowProgress {
		bar := progressbar.NewOptions64(resp.ContentLength,
			progressbar.OptionSetDescription(filepath.Base(resp.Request.URL.Path)),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowBytes(true),
			progressbar.OptionClearOnFinish(),
		)
		defer func() { _ = bar.Close() }()
		w = io.MultiWriter(w, bar)
	}

	n, err = io.Copy(w, resp.Body)
	if err != nil {
		return n, &NetworkError{URL: url, Err: errors.Wrap(err, "reading the response body")}
	}
	return n, nil
}

// downloadImage fetches the image at url and saves it to path.
func downloadImage(fetcher Fetcher, url, path string) (err error) {
	if url == "" {
		return &NetworkError{URL: url, Err: errors.New("the image has no url")}
	}

	file, err := os.Create(path)
	if err != nil {
		return fsError("create", path, err)
	}
	defer closeWithErrCheck(file, &err)

	n, err := fetcher.Fetch(url, file)
	if err != nil {
		return err
	}
	klog.V(1).Infof("Downloaded %s from %s to %q", humanize.Bytes(uint64(n)), url, path)

	return nil
}

// copyImage copies the image at src to dst.
func copyImage(src, dst string) error {
	n, err := copyFile(src, dst)
	if err != nil {
		return err
	}
	klog.V(1).Infof("Copied %s from %q to %q", humanize.Bytes(uint64(n)), src, dst)
	return nil
}

// checkImage decodes the image at path, honouring its EXIF orientation, and reports whether its
// size matches the given width and height.
func checkImage(path string, width, height int) (matches bool, err error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return false, errors.Wrapf(err, "failed to decode the image %q", path)
	}

	bounds := img.Bounds()
	if bounds.Dx() != width || bounds.Dy() != height {
		klog.Warningf("Image %q is %dx%d, but the annotations are for %dx%d", path,
			bounds.Dx(), bounds.Dy(), width, height)
		return false, nil
	}
	return true, nil
}
