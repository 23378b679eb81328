// Package trajectory writes and reads the flat coordinate log and reads
// starting coordinates.
//
// A trajectory file holds one line per written frame:
//
//	time x0 y0 z0 x1 y1 z1 ...
//
// Files ending in .zst are zstd compressed. Each frame is flushed as it is
// written, so a crashed run leaves a readable prefix.
package trajectory

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/san-kum/molsim/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r3"
)

// Writer appends frames every Stride steps.
type Writer struct {
	path   string
	stride int
	file   *os.File
	enc    *zstd.Encoder
	buf    *bufio.Writer
	frames int
}

// Open opens path for appending, creating it if needed. truncate discards
// any previous content.
func Open(path string, stride int, truncate bool) (*Writer, error) {
	if stride <= 0 {
		return nil, fmt.Errorf("trajectory stride must be positive, got %d", stride)
	}
	flags := os.O_CREATE | os.O_WRONLY | os.O_APPEND
	if truncate {
		flags |= os.O_TRUNC
	}
	f, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		return nil, err
	}

	w := &Writer{path: path, stride: stride, file: f}
	var out io.Writer = f
	if compressed(path) {
		enc, err := zstd.NewWriter(f)
		if err != nil {
			f.Close()
			return nil, err
		}
		w.enc = enc
		out = enc
	}
	w.buf = bufio.NewWriter(out)
	return w, nil
}

func (w *Writer) Path() string { return w.path }
func (w *Writer) Stride() int  { return w.stride }

// Frames returns the number of frames written so far.
func (w *Writer) Frames() int { return w.frames }

// Write records pos at time t if step is a multiple of the stride.
func (w *Writer) Write(step int, t float64, pos []r3.Vec) error {
	if step%w.stride != 0 {
		return nil
	}

	w.buf.WriteString(strconv.FormatFloat(t, 'g', -1, 64))
	for _, p := range pos {
		for _, c := range [3]float64{p.X, p.Y, p.Z} {
			w.buf.WriteByte(' ')
			w.buf.WriteString(strconv.FormatFloat(c, 'g', -1, 64))
		}
	}
	w.buf.WriteByte('\n')

	if err := w.flush(); err != nil {
		return fmt.Errorf("write frame at step %d: %w", step, err)
	}
	w.frames++
	return nil
}

// OnStep writes the system positions. It lets a Writer observe a run.
func (w *Writer) OnStep(s *dynamo.System, step int, t, epot float64) error {
	return w.Write(step, t, s.Positions)
}

func (w *Writer) flush() error {
	if err := w.buf.Flush(); err != nil {
		return err
	}
	if w.enc != nil {
		return w.enc.Flush()
	}
	return nil
}

// Close flushes and closes the file.
func (w *Writer) Close() error {
	err := w.buf.Flush()
	if w.enc != nil {
		if cerr := w.enc.Close(); err == nil {
			err = cerr
		}
	}
	if cerr := w.file.Close(); err == nil {
		err = cerr
	}
	return err
}

func compressed(path string) bool {
	return strings.HasSuffix(path, ".zst")
}
