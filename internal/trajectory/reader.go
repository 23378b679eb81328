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
	"github.com/san-kum/molsim/internal/geom"
	"gonum.org/v1/gonum/spatial/r3"
)

// Frame is one line of a trajectory file.
type Frame struct {
	Time      float64
	Positions []r3.Vec
}

// ReadCoords parses a coordinate file: the first line holds the three box
// lengths, every further line one "x y z" position. Blank lines and lines
// starting with '#' are skipped.
func ReadCoords(r io.Reader) (geom.Box, []r3.Vec, error) {
	var (
		box    geom.Box
		coords []r3.Vec
		seen   bool
	)
	err := scanLines(r, func(n int, fields []string) error {
		if len(fields) != 3 {
			return fmt.Errorf("%w: line %d has %d fields, want 3", dynamo.ErrBadParameter, n, len(fields))
		}
		v, err := parseVec(fields)
		if err != nil {
			return fmt.Errorf("%w: line %d: %v", dynamo.ErrBadParameter, n, err)
		}
		if !seen {
			box = geom.Box{L: v}
			seen = true
			return nil
		}
		coords = append(coords, v)
		return nil
	})
	if err != nil {
		return geom.Box{}, nil, err
	}
	if !seen {
		return geom.Box{}, nil, fmt.Errorf("%w: empty coordinate file", dynamo.ErrBadParameter)
	}
	return box, coords, nil
}

// LoadCoords reads a coordinate file from disk.
func LoadCoords(path string) (geom.Box, []r3.Vec, error) {
	rc, err := openReader(path)
	if err != nil {
		return geom.Box{}, nil, err
	}
	defer rc.Close()
	return ReadCoords(rc)
}

// WriteCoords writes box and coords in the format ReadCoords accepts.
func WriteCoords(w io.Writer, box geom.Box, coords []r3.Vec) error {
	bw := bufio.NewWriter(w)
	for _, v := range append([]r3.Vec{box.L}, coords...) {
		fmt.Fprintf(bw, "%s %s %s\n",
			strconv.FormatFloat(v.X, 'g', -1, 64),
			strconv.FormatFloat(v.Y, 'g', -1, 64),
			strconv.FormatFloat(v.Z, 'g', -1, 64))
	}
	return bw.Flush()
}

// ReadFrames parses every frame of a trajectory.
func ReadFrames(r io.Reader) ([]Frame, error) {
	var frames []Frame
	err := scanLines(r, func(n int, fields []string) error {
		if (len(fields)-1)%3 != 0 {
			return fmt.Errorf("%w: frame at line %d has %d coordinates", dynamo.ErrBadParameter, n, len(fields)-1)
		}
		t, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return fmt.Errorf("%w: line %d: %v", dynamo.ErrBadParameter, n, err)
		}
		pos := make([]r3.Vec, 0, (len(fields)-1)/3)
		for i := 1; i < len(fields); i += 3 {
			v, err := parseVec(fields[i : i+3])
			if err != nil {
				return fmt.Errorf("%w: line %d: %v", dynamo.ErrBadParameter, n, err)
			}
			pos = append(pos, v)
		}
		frames = append(frames, Frame{Time: t, Positions: pos})
		return nil
	})
	return frames, err
}

// LoadFrames reads a trajectory file from disk.
func LoadFrames(path string) ([]Frame, error) {
	rc, err := openReader(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return ReadFrames(rc)
}

func scanLines(r io.Reader, fn func(n int, fields []string) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
	n := 0
	for sc.Scan() {
		n++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := fn(n, strings.Fields(line)); err != nil {
			return err
		}
	}
	return sc.Err()
}

func parseVec(fields []string) (r3.Vec, error) {
	var xyz [3]float64
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return r3.Vec{}, err
		}
		xyz[i] = v
	}
	return r3.Vec{X: xyz[0], Y: xyz[1], Z: xyz[2]}, nil
}

type zstdFile struct {
	*zstd.Decoder
	f *os.File
}

func (z zstdFile) Close() error {
	z.Decoder.Close()
	return z.f.Close()
}

func openReader(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if !compressed(path) {
		return f, nil
	}
	dec, err := zstd.NewReader(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return zstdFile{Decoder: dec, f: f}, nil
}
