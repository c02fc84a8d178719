package geometry

import "math"

// PolygonArea computes the area of a simple polygon using the shoelace
// formula. The result is always non-negative regardless of winding order.
func PolygonArea(polygon []Point2D) float64 {
	n := len(polygon)
	if n < 3 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += polygon[i].X*polygon[j].Y - polygon[j].X*polygon[i].Y
	}
	return math.Abs(sum) / 2
}

// PolygonPerimeter computes the perimeter of a closed polygon.
func PolygonPerimeter(polygon []Point2D) float64 {
	n := len(polygon)
	if n < 2 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += polygon[i].Distance(polygon[(i+1)%n])
	}
	return sum
}

// Circularity returns 4*pi*A/P^2 for a closed polygon outline, clamped to
// [0, 1]. A perfect circle scores 1; degenerate outlines score 0.
func Circularity(polygon []Point2D) float64 {
	perimeter := PolygonPerimeter(polygon)
	if perimeter <= 0 {
		return 0
	}
	c := 4 * math.Pi * PolygonArea(polygon) / (perimeter * perimeter)
	if c > 1 {
		c = 1
	}
	if c < 0 {
		c = 0
	}
	return c
}

// EquivalentDiameter returns the diameter of the circle with the same area
// as the polygon.
func EquivalentDiameter(polygon []Point2D) float64 {
	return 2 * math.Sqrt(PolygonArea(polygon)/math.Pi)
}
