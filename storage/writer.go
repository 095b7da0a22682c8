package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultLockTimeout bounds how long Write waits for another run writing
// the same file.
const DefaultLockTimeout = 5 * time.Second

// Writer writes Documents into a directory.
type Writer struct {
	Dir         string
	LockTimeout time.Duration

	log *zap.SugaredLogger
}

// NewWriter returns a Writer for dir. An empty dir means the working
// directory.
func NewWriter(dir string) *Writer {
	return &Writer{
		Dir:         dir,
		LockTimeout: DefaultLockTimeout,
		log:         zap.S().Named("storage"),
	}
}

// WithLogger returns a copy of w logging to log.
func (w *Writer) WithLogger(log *zap.SugaredLogger) *Writer {
	cp := *w
	cp.log = log.Named("storage")
	return &cp
}

// Encode renders doc as UTF-8 JSON with four-space indentation. HTML
// characters and non-ASCII text are kept literal.
func Encode(doc *Document) ([]byte, error) {
	if doc == nil {
		return nil, ErrInvalidInput
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(doc); err != nil {
		return nil, &StorageError{Op: "encode", Entity: "document", ID: doc.ChannelID, Err: err}
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Write encodes doc and replaces the file named by Filename(doc) in w.Dir,
// returning its path. An existing file is overwritten.
func (w *Writer) Write(ctx context.Context, doc *Document) (string, error) {
	data, err := Encode(doc)
	if err != nil {
		return "", err
	}

	path := filepath.Join(w.Dir, Filename(doc))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", &StorageError{Op: "write", Entity: "file", ID: path, Err: err}
	}

	lock := NewFileLock(path)
	if err := lock.Lock(ctx, w.LockTimeout); err != nil {
		return "", &StorageError{Op: "lock", Entity: "file", ID: path, Err: err}
	}
	defer lock.Unlock()

	if err := writeFileAtomic(path, data); err != nil {
		return "", &StorageError{Op: "write", Entity: "file", ID: path, Err: err}
	}

	w.log.Infow("wrote export", "path", path, "videos", len(doc.Videos), "bytes", len(data))
	return path, nil
}

// writeFileAtomic writes data to a temporary file next to path and renames
// it over path. On failure the temporary file is removed and path is left
// untouched.
func writeFileAtomic(path string, data []byte) (err error) {
	tmpPath := filepath.Join(filepath.Dir(path), ".ytexport-"+uuid.NewString()+".tmp")
	tmp, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close: %w", err)
	}
	if err = os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}
