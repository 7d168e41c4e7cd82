// Package pixpath turns pairs of pixel coordinates into connected pixel runs.
package pixpath

import "image"

// Interpolate returns the pixels on the segment from a to b, both ends
// included. It steps one pixel at a time along the dominant axis and
// advances the minor axis by the slope, truncating toward zero.
func Interpolate(a, b image.Point) []image.Point {
	dx, dy := b.X-a.X, b.Y-a.Y
	steps := max(abs(dx), abs(dy))
	if steps == 0 {
		return []image.Point{a}
	}
	out := make([]image.Point, 0, steps+1)
	for i := 0; i <= steps; i++ {
		out = append(out, image.Pt(a.X+i*dx/steps, a.Y+i*dy/steps))
	}
	return out
}

// Polyline joins consecutive points with Interpolate. Shared vertices appear
// once. When closed is set the last point is joined back to the first.
func Polyline(points []image.Point, closed bool) []image.Point {
	if len(points) == 0 {
		return nil
	}
	out := []image.Point{points[0]}
	for i := 1; i < len(points); i++ {
		out = append(out, Interpolate(points[i-1], points[i])[1:]...)
	}
	if closed && len(points) > 2 {
		edge := Interpolate(points[len(points)-1], points[0])
		out = append(out, edge[1:len(edge)-1]...)
	}
	return out
}

// Bounds returns the smallest rectangle containing every point.
func Bounds(points []image.Point) image.Rectangle {
	var r image.Rectangle
	for i, p := range points {
		pr := image.Rectangle{Min: p, Max: p.Add(image.Pt(1, 1))}
		if i == 0 {
			r = pr
			continue
		}
		r = r.Union(pr)
	}
	return r
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
