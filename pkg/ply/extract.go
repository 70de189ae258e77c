package ply

import "fmt"

// ChannelMap maps property names to semantic output channels. Custom maps
// should start from DefaultChannelMap and extend it; every field must be
// populated.
type ChannelMap struct {
	Position [3]string   // x, y, z property names
	Normal   [3]string   // normal component names
	UV       [][2]string // candidate pairs, first fully-present pair wins
	Color    [][3]string // candidate triples, first fully-present triple wins
	Indices  []string    // accepted names for the face index list
}

// DefaultChannelMap returns the conventional PLY property names.
func DefaultChannelMap() ChannelMap {
	return ChannelMap{
		Position: [3]string{"x", "y", "z"},
		Normal:   [3]string{"nx", "ny", "nz"},
		UV:       [][2]string{{"u", "v"}, {"s", "t"}},
		Color:    [][3]string{{"red", "green", "blue"}},
		Indices:  []string{"vertex_indices", "vertex_index"},
	}
}

// Output channels a vertex property can feed.
const (
	chanPosition = iota
	chanNormal
	chanUV
	chanColor
)

type chanTarget struct {
	kind int
	col  int
}

// rowOp decodes one property of one row into its destination. Ops are
// built once per element and reused for every row, so scalar-type
// dispatch happens at schema time rather than per value.
type rowOp func(s scanner, row int) error

// decoder carries the mutable state of one Read call.
type decoder struct {
	opts    Options
	cm      ChannelMap
	res     *Result
	faceBuf []int32 // reused scratch for one face's index list

	skipped      int // degenerate faces dropped
	firstSkipped int
}

// vertexTargets resolves which vertex properties feed which output
// channels. Positions are mandatory; the optional channels are used only
// when every component property is present and the channel is not
// skipped. Partial triples (say nx without nz) stay unmapped.
func (d *decoder) vertexTargets(elem *Element) (map[string]chanTarget, error) {
	targets := make(map[string]chanTarget)

	for col, name := range d.cm.Position {
		if !hasScalarProps(elem, name) {
			return nil, fmt.Errorf("%w: vertex element has no %q property", ErrNoVertexPositions, name)
		}
		targets[name] = chanTarget{chanPosition, col}
	}

	if !d.opts.SkipNormals && hasScalarProps(elem, d.cm.Normal[:]...) {
		for col, name := range d.cm.Normal {
			targets[name] = chanTarget{chanNormal, col}
		}
	}

	if !d.opts.SkipUVs {
		for _, pair := range d.cm.UV {
			if hasScalarProps(elem, pair[:]...) {
				targets[pair[0]] = chanTarget{chanUV, 0}
				targets[pair[1]] = chanTarget{chanUV, 1}
				break
			}
		}
	}

	if !d.opts.SkipColors {
		for _, triple := range d.cm.Color {
			if hasScalarProps(elem, triple[:]...) {
				for col, name := range triple {
					targets[name] = chanTarget{chanColor, col}
				}
				break
			}
		}
	}

	return targets, nil
}

// hasScalarProps reports whether the element declares every name as a
// scalar (non-list) property.
func hasScalarProps(elem *Element, names ...string) bool {
	for _, name := range names {
		p := elem.Property(name)
		if p == nil || p.IsList {
			return false
		}
	}
	return true
}

// vertexOps builds the decode plan for the vertex element and allocates
// the output channels it will fill.
func (d *decoder) vertexOps(elem *Element) ([]rowOp, error) {
	targets, err := d.vertexTargets(elem)
	if err != nil {
		return nil, err
	}

	var wantNormal, wantUV, wantColor bool
	for _, tgt := range targets {
		switch tgt.kind {
		case chanNormal:
			wantNormal = true
		case chanUV:
			wantUV = true
		case chanColor:
			wantColor = true
		}
	}

	d.res.Vertices = make([][3]float32, elem.Count)
	if wantNormal {
		d.res.Normals = make([][3]float32, elem.Count)
	}
	if wantUV {
		d.res.UVs = make([][2]float32, elem.Count)
	}
	if wantColor {
		d.res.Colors = make([][3]uint8, elem.Count)
	}

	ops := make([]rowOp, 0, len(elem.Properties))
	for _, p := range elem.Properties {
		if p.IsList {
			ops = append(ops, skipListOp(p))
			continue
		}
		tgt, ok := targets[p.Name]
		if !ok {
			ops = append(ops, discardOp(p))
			continue
		}
		switch tgt.kind {
		case chanPosition:
			ops = append(ops, storeVec3Op(p, d.res.Vertices, tgt.col))
		case chanNormal:
			ops = append(ops, storeVec3Op(p, d.res.Normals, tgt.col))
		case chanUV:
			ops = append(ops, storeVec2Op(p, d.res.UVs, tgt.col))
		case chanColor:
			ops = append(ops, storeRGBOp(p, d.res.Colors, tgt.col))
		}
	}
	return ops, nil
}

// faceOps builds the decode plan for the face element. The first list
// property with an accepted index name becomes the triangle source;
// everything else is decoded and dropped.
func (d *decoder) faceOps(elem *Element) []rowOp {
	d.res.Indices = make([][3]int32, 0, elem.Count)

	indexed := false
	ops := make([]rowOp, 0, len(elem.Properties))
	for _, p := range elem.Properties {
		switch {
		case p.IsList && !indexed && d.isIndexName(p.Name):
			indexed = true
			ops = append(ops, d.indexListOp(p))
		case p.IsList:
			ops = append(ops, skipListOp(p))
		default:
			ops = append(ops, discardOp(p))
		}
	}
	return ops
}

func (d *decoder) isIndexName(name string) bool {
	for _, n := range d.cm.Indices {
		if n == name {
			return true
		}
	}
	return false
}

// indexListOp decodes one face's index list and appends its fan
// triangulation. Faces with fewer than 3 indices are counted and
// dropped; the count surfaces as a result warning.
func (d *decoder) indexListOp(p Property) rowOp {
	return func(s scanner, row int) error {
		n, err := s.scalar(p.CountType)
		if err != nil {
			return err
		}
		count := n.asCount()
		if count < 0 {
			return fmt.Errorf("%w: negative list count %d", ErrMalformedData, count)
		}

		buf := d.faceBuf[:0]
		for i := 0; i < count; i++ {
			v, err := s.scalar(p.Type)
			if err != nil {
				return err
			}
			buf = append(buf, v.asInt32())
		}
		d.faceBuf = buf

		if count < 3 {
			if d.skipped == 0 {
				d.firstSkipped = row
			}
			d.skipped++
			return nil
		}
		d.res.Indices = appendTriangles(d.res.Indices, buf)
		return nil
	}
}

// skipOps decodes and discards every property of an element, keeping the
// cursor aligned for the elements that follow.
func skipOps(elem *Element) []rowOp {
	ops := make([]rowOp, 0, len(elem.Properties))
	for _, p := range elem.Properties {
		if p.IsList {
			ops = append(ops, skipListOp(p))
		} else {
			ops = append(ops, discardOp(p))
		}
	}
	return ops
}

func storeVec3Op(p Property, dst [][3]float32, col int) rowOp {
	return func(s scanner, row int) error {
		v, err := s.scalar(p.Type)
		if err != nil {
			return err
		}
		dst[row][col] = v.asFloat32()
		return nil
	}
}

func storeVec2Op(p Property, dst [][2]float32, col int) rowOp {
	return func(s scanner, row int) error {
		v, err := s.scalar(p.Type)
		if err != nil {
			return err
		}
		dst[row][col] = v.asFloat32()
		return nil
	}
}

func storeRGBOp(p Property, dst [][3]uint8, col int) rowOp {
	return func(s scanner, row int) error {
		v, err := s.scalar(p.Type)
		if err != nil {
			return err
		}
		dst[row][col] = v.asUint8()
		return nil
	}
}

func discardOp(p Property) rowOp {
	return func(s scanner, _ int) error {
		_, err := s.scalar(p.Type)
		return err
	}
}

func skipListOp(p Property) rowOp {
	return func(s scanner, _ int) error {
		n, err := s.scalar(p.CountType)
		if err != nil {
			return err
		}
		count := n.asCount()
		if count < 0 {
			return fmt.Errorf("%w: negative list count %d", ErrMalformedData, count)
		}
		for i := 0; i < count; i++ {
			if _, err := s.scalar(p.Type); err != nil {
				return err
			}
		}
		return nil
	}
}
