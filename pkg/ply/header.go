package ply

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// parseHeader consumes the textual header from br, leaving br positioned
// at the first data byte. It returns the schema plus any non-fatal
// warnings (unknown keywords are skipped, not fatal).
func parseHeader(br *bufio.Reader) (*Header, []string, error) {
	hdr := &Header{}
	var warnings []string
	var offset int64

	readLine := func() (string, error) {
		line, err := br.ReadString('\n')
		offset += int64(len(line))
		if err == io.EOF && len(line) > 0 {
			// Header line without trailing newline still counts.
			err = nil
		}
		if err != nil {
			if err == io.EOF {
				return "", fmt.Errorf("%w: missing end_header", ErrMalformedHeader)
			}
			return "", fmt.Errorf("reading header: %w", err)
		}
		return strings.TrimRight(line, "\r\n"), nil
	}

	// Magic
	first, err := readLine()
	if err != nil {
		return nil, nil, err
	}
	if first != "ply" {
		return nil, nil, fmt.Errorf("%w: first line is %q, expected \"ply\"", ErrMalformedHeader, first)
	}

	formatSeen := false
	for {
		line, err := readLine()
		if err != nil {
			return nil, warnings, err
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "end_header":
			if !formatSeen {
				return nil, warnings, fmt.Errorf("%w: missing format line", ErrMalformedHeader)
			}
			hdr.DataOffset = offset
			return hdr, warnings, nil

		case "format":
			if len(fields) < 3 {
				return nil, warnings, fmt.Errorf("%w: format line needs encoding and version", ErrMalformedHeader)
			}
			switch fields[1] {
			case "ascii":
				hdr.Format = FormatASCII
			case "binary_little_endian":
				hdr.Format = FormatBinaryLittleEndian
			case "binary_big_endian":
				hdr.Format = FormatBinaryBigEndian
			default:
				return nil, warnings, fmt.Errorf("%w: %q", ErrUnrecognizedFormat, fields[1])
			}
			hdr.Version = fields[2]
			formatSeen = true

		case "comment":
			hdr.Comments = append(hdr.Comments, strings.TrimSpace(strings.TrimPrefix(line, "comment")))

		case "element":
			if len(fields) < 3 {
				return nil, warnings, fmt.Errorf("%w: element line needs name and count", ErrMalformedHeader)
			}
			count, err := strconv.Atoi(fields[2])
			if err != nil || count < 0 {
				return nil, warnings, fmt.Errorf("%w: bad element count %q", ErrMalformedHeader, fields[2])
			}
			hdr.Elements = append(hdr.Elements, Element{Name: fields[1], Count: count})

		case "property":
			if len(hdr.Elements) == 0 {
				return nil, warnings, fmt.Errorf("%w: property before any element", ErrMalformedHeader)
			}
			prop, err := parseProperty(fields)
			if err != nil {
				return nil, warnings, err
			}
			elem := &hdr.Elements[len(hdr.Elements)-1]
			elem.Properties = append(elem.Properties, prop)

		default:
			warnings = append(warnings, fmt.Sprintf("header: skipping unknown keyword %q", fields[0]))
		}
	}
}

// parseProperty parses the fields of one "property ..." header line.
func parseProperty(fields []string) (Property, error) {
	if len(fields) >= 2 && fields[1] == "list" {
		if len(fields) < 5 {
			return Property{}, fmt.Errorf("%w: list property needs count type, item type and name", ErrMalformedHeader)
		}
		countType, ok := parseScalarType(fields[2])
		if !ok {
			return Property{}, fmt.Errorf("%w: unknown scalar type %q", ErrMalformedHeader, fields[2])
		}
		if countType.IsFloat() {
			return Property{}, fmt.Errorf("%w: list count type %q is not an integer type", ErrMalformedHeader, fields[2])
		}
		itemType, ok := parseScalarType(fields[3])
		if !ok {
			return Property{}, fmt.Errorf("%w: unknown scalar type %q", ErrMalformedHeader, fields[3])
		}
		return Property{Name: fields[4], Type: itemType, IsList: true, CountType: countType}, nil
	}

	if len(fields) < 3 {
		return Property{}, fmt.Errorf("%w: property line needs type and name", ErrMalformedHeader)
	}
	typ, ok := parseScalarType(fields[1])
	if !ok {
		return Property{}, fmt.Errorf("%w: unknown scalar type %q", ErrMalformedHeader, fields[1])
	}
	return Property{Name: fields[2], Type: typ}, nil
}
