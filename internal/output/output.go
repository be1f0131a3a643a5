// Package output publishes the merged transcript, either on a stream or as
// a file that only appears once it is complete.
package output

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// ErrExists is returned when the output file exists and overwriting was
// not requested.
var ErrExists = errors.New("output file exists")

const bufSize = 64 << 10

// Sink is a buffered destination. Written bytes only count after Commit;
// after Abort nothing may be published.
type Sink interface {
	io.Writer
	Commit() error
	Abort() error
}

// Stream is a Sink on an open stream such as stdout. Bytes already flushed
// cannot be taken back by Abort.
type Stream struct {
	bw *bufio.Writer
}

// NewStream wraps w.
func NewStream(w io.Writer) *Stream {
	return &Stream{bw: bufio.NewWriterSize(w, bufSize)}
}

func (s *Stream) Write(p []byte) (int, error) { return s.bw.Write(p) }

// Commit flushes the buffer.
func (s *Stream) Commit() error { return s.bw.Flush() }

// Abort drops what is still buffered.
func (s *Stream) Abort() error {
	s.bw.Reset(io.Discard)
	return nil
}

// File is a Sink writing to a temporary file next to its destination. On
// Commit the temporary file replaces the destination.
type File struct {
	dest  string
	force bool
	tmp   *os.File
	bw    *bufio.Writer
	done  bool
}

// Create prepares writing to dest. Unless force is set, it fails with
// ErrExists if dest is present.
func Create(dest string, force bool) (*File, error) {
	if !force {
		if err := checkAbsent(dest); err != nil {
			return nil, err
		}
	}
	tmp, err := os.CreateTemp(filepath.Dir(dest), ".tmp-"+filepath.Base(dest)+"-*")
	if err != nil {
		return nil, err
	}
	if err := tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return nil, err
	}
	return &File{
		dest:  dest,
		force: force,
		tmp:   tmp,
		bw:    bufio.NewWriterSize(tmp, bufSize),
	}, nil
}

func checkAbsent(dest string) error {
	_, err := os.Stat(dest)
	switch {
	case err == nil:
		return fmt.Errorf("%w: %s, use --force to overwrite", ErrExists, dest)
	case errors.Is(err, fs.ErrNotExist):
		return nil
	default:
		return err
	}
}

// Dest is the path the file is published under.
func (f *File) Dest() string { return f.dest }

func (f *File) Write(p []byte) (int, error) {
	if f.done {
		return 0, fs.ErrClosed
	}
	return f.bw.Write(p)
}

// Commit syncs the temporary file and renames it to the destination.
func (f *File) Commit() error {
	if f.done {
		return fs.ErrClosed
	}
	f.done = true
	if err := f.bw.Flush(); err != nil {
		return f.discard(err)
	}
	if err := f.tmp.Sync(); err != nil {
		return f.discard(err)
	}
	if err := f.tmp.Close(); err != nil {
		_ = os.Remove(f.tmp.Name())
		return err
	}
	if !f.force {
		// the destination may have appeared while we were writing
		if err := checkAbsent(f.dest); err != nil {
			_ = os.Remove(f.tmp.Name())
			return err
		}
	}
	if err := os.Rename(f.tmp.Name(), f.dest); err != nil {
		_ = os.Remove(f.tmp.Name())
		return err
	}
	return nil
}

// Abort removes the temporary file. It is a no-op after Commit.
func (f *File) Abort() error {
	if f.done {
		return nil
	}
	f.done = true
	return f.discard(nil)
}

func (f *File) discard(cause error) error {
	_ = f.tmp.Close()
	if err := os.Remove(f.tmp.Name()); err != nil && cause == nil {
		return err
	}
	return cause
}
