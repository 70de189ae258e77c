// Package mesh converts decoded PLY geometry into a renderable mesh with
// bounding-volume queries.
package mesh

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/plykit/pkg/ply"
)

// Mesh holds triangle geometry and its optional per-vertex attributes.
// A mesh with no triangles is a point set.
type Mesh struct {
	Points  []mgl32.Vec3
	Tris    [][3]int32
	Normals []mgl32.Vec3
	UVs     []mgl32.Vec2
	Colors  [][3]uint8
}

// FromResult builds a Mesh from a decoded PLY result. Attributes are
// attached only when the result carries them; Tris aliases the result's
// index slice.
func FromResult(res *ply.Result) *Mesh {
	m := &Mesh{
		Points: make([]mgl32.Vec3, len(res.Vertices)),
		Tris:   res.Indices,
	}
	for i, v := range res.Vertices {
		m.Points[i] = mgl32.Vec3(v)
	}

	if len(res.Normals) > 0 {
		m.Normals = make([]mgl32.Vec3, len(res.Normals))
		for i, n := range res.Normals {
			m.Normals[i] = mgl32.Vec3(n)
		}
	}
	if len(res.UVs) > 0 {
		m.UVs = make([]mgl32.Vec2, len(res.UVs))
		for i, uv := range res.UVs {
			m.UVs[i] = mgl32.Vec2(uv)
		}
	}
	if len(res.Colors) > 0 {
		m.Colors = res.Colors
	}
	return m
}

// IsPointCloud reports whether the mesh has points but no triangles.
func (m *Mesh) IsPointCloud() bool {
	return len(m.Points) > 0 && len(m.Tris) == 0
}

// PointCount returns the number of points.
func (m *Mesh) PointCount() int {
	return len(m.Points)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Tris)
}

// HasNormals reports whether per-vertex normals are attached.
func (m *Mesh) HasNormals() bool {
	return len(m.Normals) > 0
}

// HasUVs reports whether texture coordinates are attached.
func (m *Mesh) HasUVs() bool {
	return len(m.UVs) > 0
}

// HasColors reports whether vertex colors are attached.
func (m *Mesh) HasColors() bool {
	return len(m.Colors) > 0
}

// Bounds returns the axis-aligned bounding box of the points. An empty
// mesh yields zero vectors.
func (m *Mesh) Bounds() (min, max mgl32.Vec3) {
	if len(m.Points) == 0 {
		return mgl32.Vec3{}, mgl32.Vec3{}
	}

	min = mgl32.Vec3{math32.MaxFloat32, math32.MaxFloat32, math32.MaxFloat32}
	max = mgl32.Vec3{-math32.MaxFloat32, -math32.MaxFloat32, -math32.MaxFloat32}
	for _, p := range m.Points {
		for i := 0; i < 3; i++ {
			min[i] = math32.Min(min[i], p[i])
			max[i] = math32.Max(max[i], p[i])
		}
	}
	return min, max
}

// Center returns the midpoint of the bounding box.
func (m *Mesh) Center() mgl32.Vec3 {
	min, max := m.Bounds()
	return min.Add(max).Mul(0.5)
}

// Radius returns the distance from the bounding-box center to the
// farthest point, 0 for an empty mesh.
func (m *Mesh) Radius() float32 {
	if len(m.Points) == 0 {
		return 0
	}

	center := m.Center()
	var maxSq float32
	for _, p := range m.Points {
		if d := p.Sub(center).LenSqr(); d > maxSq {
			maxSq = d
		}
	}
	return math32.Sqrt(maxSq)
}
