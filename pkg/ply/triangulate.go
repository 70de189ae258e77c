package ply

// appendTriangles appends the fan triangulation of one polygon's vertex
// indices to dst. A triangle passes through unchanged; a k-gon becomes
// k-2 triangles sharing the polygon's first vertex. The caller ensures
// len(face) >= 3.
func appendTriangles(dst [][3]int32, face []int32) [][3]int32 {
	for i := 1; i < len(face)-1; i++ {
		dst = append(dst, [3]int32{face[0], face[i], face[i+1]})
	}
	return dst
}
