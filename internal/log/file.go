package log

import (
	"os"
	"path/filepath"
)

// FileWriter appends log output to a file, creating parent
// directories on first open. It is handed to SetLogOutput so file
// logging tees alongside the console printers.
type FileWriter struct {
	f *os.File
}

func NewFileWriter(pathname string) (*FileWriter, error) {
	if dir := filepath.Dir(pathname); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}
	f, err := os.OpenFile(pathname, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return nil, err
	}
	return &FileWriter{f: f}, nil
}

func (w *FileWriter) Write(p []byte) (int, error) {
	return w.f.Write(p)
}

func (w *FileWriter) Close() error {
	if w.f == nil {
		return nil
	}
	return w.f.Close()
}
