package envelope

import (
	"math"
	"sort"

	"github.com/fogleman/delaunay"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// DefaultAlpha is the concave-hull concavity parameter. Triangles whose
// circumradius (degrees) exceeds 1/alpha are discarded, so smaller alpha
// trends toward the convex hull while larger alpha fragments the shape.
// 0.6 was validated by sensitivity study against Atlantic storm tracks.
const DefaultAlpha = 0.6

// minTriangleArea rejects degenerate (near-collinear) triangles whose
// circumradius is numerically meaningless.
const minTriangleArea = 1e-12

// AlphaShape computes the concave hull of a point cloud: Delaunay
// triangulation, circumradius filter at 1/alpha, then the boundary of the
// surviving triangles stitched into rings. Disconnected clusters yield
// multiple polygons; interior voids become holes.
//
// Falls back to the convex hull when the cloud is too small to triangulate
// (<4 points) or when the filter rejects every triangle. Returns nil when no
// polygon can be formed at all (fewer than 3 distinct points).
//
// Deterministic: identical input yields identical ring ordering, no map
// iteration order leaks into the result.
func AlphaShape(points []orb.Point, alpha float64) orb.MultiPolygon {
	pts := dedupePoints(points)
	if len(pts) < 4 {
		return hullFallback(pts)
	}

	dpts := make([]delaunay.Point, len(pts))
	for i, p := range pts {
		dpts[i] = delaunay.Point{X: p[0], Y: p[1]}
	}
	tri, err := delaunay.Triangulate(dpts)
	if err != nil || len(tri.Triangles) == 0 {
		return hullFallback(pts)
	}

	maxCircum := math.Inf(1)
	if alpha > 0 {
		maxCircum = 1.0 / alpha
	}

	type edgeKey struct{ a, b int }
	edgeCount := make(map[edgeKey]int)
	addEdge := func(a, b int) {
		if a > b {
			a, b = b, a
		}
		edgeCount[edgeKey{a, b}]++
	}

	kept := 0
	for i := 0; i+2 < len(tri.Triangles); i += 3 {
		ia, ib, ic := tri.Triangles[i], tri.Triangles[i+1], tri.Triangles[i+2]
		r, ok := circumradius(pts[ia], pts[ib], pts[ic])
		if !ok || r >= maxCircum {
			continue
		}
		addEdge(ia, ib)
		addEdge(ib, ic)
		addEdge(ic, ia)
		kept++
	}
	if kept == 0 {
		return hullFallback(pts)
	}

	// Edges used by exactly one kept triangle form the region boundary.
	var boundary [][2]int
	for e, c := range edgeCount {
		if c == 1 {
			boundary = append(boundary, [2]int{e.a, e.b})
		}
	}
	sort.Slice(boundary, func(i, j int) bool {
		if boundary[i][0] != boundary[j][0] {
			return boundary[i][0] < boundary[j][0]
		}
		return boundary[i][1] < boundary[j][1]
	})

	rings := stitchRings(boundary, pts)
	return assemblePolygons(rings)
}

// circumradius returns the circumradius of the triangle abc, with ok=false
// for degenerate triangles.
func circumradius(a, b, c orb.Point) (float64, bool) {
	la := planar.Distance(a, b)
	lb := planar.Distance(b, c)
	lc := planar.Distance(c, a)

	s := (la + lb + lc) / 2
	areaSq := s * (s - la) * (s - lb) * (s - lc)
	if areaSq <= 0 {
		return 0, false
	}
	area := math.Sqrt(areaSq)
	if area <= minTriangleArea {
		return 0, false
	}
	return (la * lb * lc) / (4 * area), true
}

// stitchRings chains boundary edges into closed vertex loops. Pinch points
// (vertices on four boundary edges) are resolved by always taking the unused
// edge with the smallest far vertex, which keeps the walk deterministic.
func stitchRings(edges [][2]int, pts []orb.Point) []orb.Ring {
	adjacency := make(map[int][]int)
	for _, e := range edges {
		adjacency[e[0]] = append(adjacency[e[0]], e[1])
		adjacency[e[1]] = append(adjacency[e[1]], e[0])
	}

	used := make(map[[2]int]bool)
	edgeID := func(a, b int) [2]int {
		if a > b {
			a, b = b, a
		}
		return [2]int{a, b}
	}

	var rings []orb.Ring
	for _, start := range edges {
		if used[edgeID(start[0], start[1])] {
			continue
		}

		loop := []int{start[0], start[1]}
		used[edgeID(start[0], start[1])] = true
		current := start[1]

		for current != start[0] {
			next := -1
			for _, cand := range adjacency[current] {
				if used[edgeID(current, cand)] {
					continue
				}
				if next == -1 || cand < next {
					next = cand
				}
			}
			if next == -1 {
				break // open chain, discard below
			}
			used[edgeID(current, next)] = true
			current = next
			if current != start[0] {
				loop = append(loop, current)
			}
		}

		if current != start[0] || len(loop) < 3 {
			continue
		}

		ring := make(orb.Ring, 0, len(loop)+1)
		for _, idx := range loop {
			ring = append(ring, pts[idx])
		}
		ring = append(ring, ring[0])
		rings = append(rings, ring)
	}
	return rings
}

// assemblePolygons classifies rings as outers or holes by containment
// parity, attaches each hole to the smallest enclosing outer, and repairs
// winding. Rings with negligible area are dropped.
func assemblePolygons(rings []orb.Ring) orb.MultiPolygon {
	type ringInfo struct {
		ring orb.Ring
		area float64 // absolute
		hole bool
	}

	infos := make([]ringInfo, 0, len(rings))
	for _, r := range rings {
		area := math.Abs(signedArea(r))
		if area <= minTriangleArea {
			continue
		}
		infos = append(infos, ringInfo{ring: r, area: area})
	}
	if len(infos) == 0 {
		return nil
	}

	// Containment parity: a ring enclosed by an odd number of other rings
	// is a hole.
	for i := range infos {
		depth := 0
		probe := infos[i].ring[0]
		for j := range infos {
			if i == j {
				continue
			}
			if infos[j].area > infos[i].area && planar.RingContains(infos[j].ring, probe) {
				depth++
			}
		}
		infos[i].hole = depth%2 == 1
	}

	// Largest outers first so holes attach to the tightest enclosing outer
	// found last.
	order := make([]int, len(infos))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return infos[order[a]].area > infos[order[b]].area })

	var mp orb.MultiPolygon
	outerIdx := make(map[int]int) // info index -> polygon index
	for _, i := range order {
		if infos[i].hole {
			continue
		}
		outerIdx[i] = len(mp)
		mp = append(mp, orb.Polygon{orientRing(infos[i].ring, true)})
	}

	for _, i := range order {
		if !infos[i].hole {
			continue
		}
		best, bestArea := -1, math.Inf(1)
		for _, j := range order {
			pi, isOuter := outerIdx[j]
			if !isOuter {
				continue
			}
			if infos[j].area > infos[i].area && infos[j].area < bestArea &&
				planar.RingContains(infos[j].ring, infos[i].ring[0]) {
				best, bestArea = pi, infos[j].area
			}
		}
		if best >= 0 {
			mp[best] = append(mp[best], orientRing(infos[i].ring, false))
		}
	}

	return mp
}

// signedArea is the shoelace area of a closed ring: positive for
// counterclockwise winding.
func signedArea(r orb.Ring) float64 {
	if len(r) < 3 {
		return 0
	}
	sum := 0.0
	for i := 0; i+1 < len(r); i++ {
		sum += r[i][0]*r[i+1][1] - r[i+1][0]*r[i][1]
	}
	return sum / 2
}

// orientRing returns the ring wound counterclockwise (ccw=true) or
// clockwise, reversing in place if needed.
func orientRing(r orb.Ring, ccw bool) orb.Ring {
	if (signedArea(r) > 0) == ccw {
		return r
	}
	out := make(orb.Ring, len(r))
	for i, p := range r {
		out[len(r)-1-i] = p
	}
	return out
}

// hullFallback builds a convex hull polygon from a small point set, or nil
// when fewer than 3 distinct points exist.
func hullFallback(pts []orb.Point) orb.MultiPolygon {
	hull := convexHull(pts)
	if len(hull) < 3 {
		return nil
	}
	ring := make(orb.Ring, 0, len(hull)+1)
	ring = append(ring, hull...)
	ring = append(ring, hull[0])
	if math.Abs(signedArea(ring)) <= minTriangleArea {
		return nil
	}
	return orb.MultiPolygon{{orientRing(ring, true)}}
}

// convexHull is Andrew's monotone chain, returning hull vertices in
// counterclockwise order without the closing point.
func convexHull(points []orb.Point) []orb.Point {
	pts := dedupePoints(points)
	if len(pts) < 3 {
		return pts
	}
	sort.Slice(pts, func(i, j int) bool {
		if pts[i][0] != pts[j][0] {
			return pts[i][0] < pts[j][0]
		}
		return pts[i][1] < pts[j][1]
	})

	cross := func(o, a, b orb.Point) float64 {
		return (a[0]-o[0])*(b[1]-o[1]) - (a[1]-o[1])*(b[0]-o[0])
	}

	var lower []orb.Point
	for _, p := range pts {
		for len(lower) >= 2 && cross(lower[len(lower)-2], lower[len(lower)-1], p) <= 0 {
			lower = lower[:len(lower)-1]
		}
		lower = append(lower, p)
	}
	var upper []orb.Point
	for i := len(pts) - 1; i >= 0; i-- {
		p := pts[i]
		for len(upper) >= 2 && cross(upper[len(upper)-2], upper[len(upper)-1], p) <= 0 {
			upper = upper[:len(upper)-1]
		}
		upper = append(upper, p)
	}
	return append(lower[:len(lower)-1], upper[:len(upper)-1]...)
}

// dedupePoints removes exact duplicates while preserving first-seen order.
func dedupePoints(points []orb.Point) []orb.Point {
	seen := make(map[orb.Point]bool, len(points))
	out := make([]orb.Point, 0, len(points))
	for _, p := range points {
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}
