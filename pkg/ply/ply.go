// Package ply parses PLY (Polygon File Format) 3D mesh files.
//
// All three encodings are supported: ascii, binary_little_endian and
// binary_big_endian. The element/property schema is taken from the file
// header, decoded in a single forward pass, and mapped onto fixed-width
// output channels: float32 positions, normals and texture coordinates,
// int32 triangle indices and uint8 colors. Polygon faces are fan
// triangulated. Files without a face element decode as point clouds.
//
// A call owns all of its state, so concurrent reads of different files
// are safe. There is no cancellation; callers that need it should run
// the parse on its own goroutine.
package ply

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

// PLY parse errors.
var (
	ErrMalformedHeader    = errors.New("malformed PLY header")
	ErrUnrecognizedFormat = errors.New("unrecognized PLY format")
	ErrTruncatedData      = errors.New("truncated PLY data")
	ErrUnexpectedEOF      = errors.New("unexpected end of PLY data")
	ErrMalformedData      = errors.New("malformed PLY data")
	ErrNoVertexPositions  = errors.New("no vertex positions found")
)

// Options selects which optional vertex channels are materialized. The
// zero value reads everything. Skipped channels are still decoded so the
// stream stays aligned; their values are just not stored.
type Options struct {
	SkipNormals bool
	SkipUVs     bool
	SkipColors  bool

	// Channels overrides the property-name mapping. Nil means
	// DefaultChannelMap. A custom map must be complete; extend the
	// default rather than building one from scratch.
	Channels *ChannelMap
}

// Result holds the decoded mesh channels. Every slice is non-nil; absent
// or skipped channels come back with zero rows.
type Result struct {
	Vertices [][3]float32 // vertex positions
	Indices  [][3]int32   // triangles; empty for point clouds
	Normals  [][3]float32 // per-vertex normals
	UVs      [][2]float32 // texture coordinates
	Colors   [][3]uint8   // vertex colors
	Warnings []string     // non-fatal oddities found during the parse
}

// VertexCount returns the number of decoded vertices.
func (r *Result) VertexCount() int {
	return len(r.Vertices)
}

// TriangleCount returns the number of triangles after fan triangulation.
func (r *Result) TriangleCount() int {
	return len(r.Indices)
}

// IsPointCloud reports whether the file carried no triangles.
func (r *Result) IsPointCloud() bool {
	return len(r.Indices) == 0
}

// Read parses a complete PLY stream: header, then data. Decode errors
// abort the parse; no partial result is returned.
func Read(r io.Reader, opts Options) (*Result, error) {
	br := bufio.NewReaderSize(r, 64*1024)
	hdr, warnings, err := parseHeader(br)
	if err != nil {
		return nil, err
	}
	return readData(br, hdr, opts, warnings)
}

// ReadFile parses a PLY file from disk. The file handle is held only for
// the duration of the call and released on every exit path.
func ReadFile(path string, opts Options) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()
	return Read(f, opts)
}

// ReadHeader parses only the header, for schema inspection without
// touching the data section.
func ReadHeader(r io.Reader) (*Header, error) {
	hdr, _, err := parseHeader(bufio.NewReader(r))
	return hdr, err
}

// readData decodes the data section that follows the header. Plans are
// built for every element up front, then rows stream through them in
// declared order.
func readData(br *bufio.Reader, hdr *Header, opts Options, warnings []string) (*Result, error) {
	cm := DefaultChannelMap()
	if opts.Channels != nil {
		cm = *opts.Channels
	}

	d := &decoder{
		opts: opts,
		cm:   cm,
		res:  &Result{Warnings: warnings},
	}

	vertexIdx, faceIdx := -1, -1
	for i := range hdr.Elements {
		switch hdr.Elements[i].Name {
		case "vertex":
			if vertexIdx < 0 {
				vertexIdx = i
			}
		case "face":
			if faceIdx < 0 {
				faceIdx = i
			}
		}
	}
	if vertexIdx < 0 {
		return nil, fmt.Errorf("%w: no vertex element declared", ErrNoVertexPositions)
	}

	// Elements after the last one that feeds the output are never read.
	last := vertexIdx
	if faceIdx > last {
		last = faceIdx
	}

	plans := make([][]rowOp, last+1)
	for i := 0; i <= last; i++ {
		elem := &hdr.Elements[i]
		switch i {
		case vertexIdx:
			ops, err := d.vertexOps(elem)
			if err != nil {
				return nil, err
			}
			plans[i] = ops
		case faceIdx:
			plans[i] = d.faceOps(elem)
		default:
			plans[i] = skipOps(elem)
		}
	}

	var s scanner
	switch hdr.Format {
	case FormatBinaryLittleEndian:
		s = newBinaryScanner(br, binary.LittleEndian)
	case FormatBinaryBigEndian:
		s = newBinaryScanner(br, binary.BigEndian)
	default:
		s = newASCIIScanner(br)
	}

	for i := 0; i <= last; i++ {
		elem := &hdr.Elements[i]
		for row := 0; row < elem.Count; row++ {
			for _, op := range plans[i] {
				if err := op(s, row); err != nil {
					return nil, fmt.Errorf("element %q row %d: %w", elem.Name, row, err)
				}
			}
		}
	}

	if d.skipped > 0 {
		d.res.Warnings = append(d.res.Warnings,
			fmt.Sprintf("skipped %d face(s) with fewer than 3 indices, first at row %d", d.skipped, d.firstSkipped))
	}

	// Uniform shape: absent channels are empty, never nil.
	res := d.res
	if res.Indices == nil {
		res.Indices = [][3]int32{}
	}
	if res.Normals == nil {
		res.Normals = [][3]float32{}
	}
	if res.UVs == nil {
		res.UVs = [][2]float32{}
	}
	if res.Colors == nil {
		res.Colors = [][3]uint8{}
	}
	return res, nil
}
