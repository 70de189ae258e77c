package ply

import (
	"errors"
	"strings"
	"testing"
)

func TestReadHeader_Schema(t *testing.T) {
	header := "ply\n" +
		"format binary_little_endian 1.0\n" +
		"comment made by test\n" +
		"comment  spaced   out\n" +
		"element vertex 8\n" +
		"property float x\n" +
		"property float y\n" +
		"property float z\n" +
		"property uchar red\n" +
		"element face 12\n" +
		"property list uchar int vertex_indices\n" +
		"end_header\n"

	hdr, err := ReadHeader(strings.NewReader(header + "binary bytes would follow"))
	if err != nil {
		t.Fatalf("ReadHeader failed: %v", err)
	}

	if hdr.Format != FormatBinaryLittleEndian {
		t.Errorf("Format = %v, want %v", hdr.Format, FormatBinaryLittleEndian)
	}
	if hdr.Version != "1.0" {
		t.Errorf("Version = %q, want %q", hdr.Version, "1.0")
	}
	if len(hdr.Comments) != 2 || hdr.Comments[0] != "made by test" {
		t.Errorf("Comments = %q", hdr.Comments)
	}
	if hdr.DataOffset != int64(len(header)) {
		t.Errorf("DataOffset = %d, want %d", hdr.DataOffset, len(header))
	}

	if len(hdr.Elements) != 2 {
		t.Fatalf("element count = %d, want 2", len(hdr.Elements))
	}

	vertex := hdr.Element("vertex")
	if vertex == nil {
		t.Fatal("no vertex element")
	}
	if vertex.Count != 8 {
		t.Errorf("vertex count = %d, want 8", vertex.Count)
	}
	if len(vertex.Properties) != 4 {
		t.Errorf("vertex property count = %d, want 4", len(vertex.Properties))
	}
	if p := vertex.Property("red"); p == nil || p.Type != Uint8 || p.IsList {
		t.Errorf("red property = %+v", p)
	}
	if vertex.Property("nope") != nil {
		t.Error("Property returned non-nil for missing name")
	}

	face := hdr.Element("face")
	if face == nil {
		t.Fatal("no face element")
	}
	if face.Count != 12 {
		t.Errorf("face count = %d, want 12", face.Count)
	}
	idx := face.Property("vertex_indices")
	if idx == nil || !idx.IsList {
		t.Fatalf("vertex_indices = %+v, want a list property", idx)
	}
	if idx.CountType != Uint8 || idx.Type != Int32 {
		t.Errorf("vertex_indices types = %v/%v, want uint8/int32", idx.CountType, idx.Type)
	}

	if hdr.Element("nothing") != nil {
		t.Error("Element returned non-nil for missing name")
	}
}

func TestReadHeader_CRLF(t *testing.T) {
	header := "ply\r\n" +
		"format ascii 1.0\r\n" +
		"element vertex 1\r\n" +
		"property float x\r\n" +
		"end_header\r\n"

	hdr, err := ReadHeader(strings.NewReader(header))
	if err != nil {
		t.Fatalf("ReadHeader failed: %v", err)
	}
	if hdr.DataOffset != int64(len(header)) {
		t.Errorf("DataOffset = %d, want %d", hdr.DataOffset, len(header))
	}
	if hdr.Element("vertex") == nil {
		t.Error("vertex element missing")
	}
}

func TestReadHeader_Errors(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		wantErr error
	}{
		{
			name:    "bad magic",
			header:  "obj\nformat ascii 1.0\nend_header\n",
			wantErr: ErrMalformedHeader,
		},
		{
			name:    "missing format",
			header:  "ply\nelement vertex 1\nproperty float x\nend_header\n",
			wantErr: ErrMalformedHeader,
		},
		{
			name:    "unknown format",
			header:  "ply\nformat binary_middle_endian 1.0\nend_header\n",
			wantErr: ErrUnrecognizedFormat,
		},
		{
			name:    "format without version",
			header:  "ply\nformat ascii\nend_header\n",
			wantErr: ErrMalformedHeader,
		},
		{
			name:    "property before element",
			header:  "ply\nformat ascii 1.0\nproperty float x\nend_header\n",
			wantErr: ErrMalformedHeader,
		},
		{
			name:    "unknown scalar type",
			header:  "ply\nformat ascii 1.0\nelement vertex 1\nproperty quad x\nend_header\n",
			wantErr: ErrMalformedHeader,
		},
		{
			name:    "bad element count",
			header:  "ply\nformat ascii 1.0\nelement vertex lots\nend_header\n",
			wantErr: ErrMalformedHeader,
		},
		{
			name:    "negative element count",
			header:  "ply\nformat ascii 1.0\nelement vertex -4\nend_header\n",
			wantErr: ErrMalformedHeader,
		},
		{
			name:    "missing end_header",
			header:  "ply\nformat ascii 1.0\nelement vertex 1\nproperty float x\n",
			wantErr: ErrMalformedHeader,
		},
		{
			name:    "float list count type",
			header:  "ply\nformat ascii 1.0\nelement face 1\nproperty list float int vertex_indices\nend_header\n",
			wantErr: ErrMalformedHeader,
		},
		{
			name:    "short list property",
			header:  "ply\nformat ascii 1.0\nelement face 1\nproperty list uchar int\nend_header\n",
			wantErr: ErrMalformedHeader,
		},
		{
			name:    "short scalar property",
			header:  "ply\nformat ascii 1.0\nelement vertex 1\nproperty float\nend_header\n",
			wantErr: ErrMalformedHeader,
		},
		{
			name:    "empty input",
			header:  "",
			wantErr: ErrMalformedHeader,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadHeader(strings.NewReader(tt.header))
			if err == nil {
				t.Fatalf("expected error %v, got nil", tt.wantErr)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got error %v, want %v", err, tt.wantErr)
			}
		})
	}
}
