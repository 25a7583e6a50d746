package cookielog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// FileSource reads a log file from disk.
type FileSource struct {
	Path string
	// Extension, when set, is the file suffix a source must carry (e.g. ".csv").
	Extension string
}

// Name returns the file path.
func (s FileSource) Name() string {
	return s.Path
}

// Open validates the file and opens it for reading.
func (s FileSource) Open() (io.ReadCloser, error) {
	info, err := os.Stat(s.Path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", s.Path)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%s is not a regular file", s.Path)
	}
	if s.Extension != "" && !strings.EqualFold(filepath.Ext(s.Path), s.Extension) {
		return nil, fmt.Errorf("%s does not have the %s extension", s.Path, s.Extension)
	}
	return os.Open(s.Path)
}

// ReaderSource serves an already open stream, such as stdin. It can be opened once.
type ReaderSource struct {
	name   string
	reader io.Reader
	opened bool
}

// NewReaderSource wraps r under the given name.
func NewReaderSource(name string, r io.Reader) *ReaderSource {
	return &ReaderSource{name: name, reader: r}
}

// Name returns the name given at construction.
func (s *ReaderSource) Name() string {
	return s.name
}

// Open returns the wrapped reader. Closing it closes the reader when it is an io.Closer.
func (s *ReaderSource) Open() (io.ReadCloser, error) {
	if s.opened {
		return nil, fmt.Errorf("%s already consumed", s.name)
	}
	s.opened = true
	if rc, ok := s.reader.(io.ReadCloser); ok {
		return rc, nil
	}
	return io.NopCloser(s.reader), nil
}
