package geometry

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Circle is a full circle described by center and radius.
type Circle struct {
	Center Point2D `json:"center"`
	Radius float64 `json:"radius"`
}

// Arc is a circular arc. Angles are in radians, measured from the
// positive X axis. Counterclockwise gives the sweep direction from
// StartAngle to EndAngle.
type Arc struct {
	Center           Point2D `json:"center"`
	Radius           float64 `json:"radius"`
	StartAngle       float64 `json:"startAngle"`
	EndAngle         float64 `json:"endAngle"`
	Counterclockwise bool    `json:"counterclockwise"`
}

// AngleBetween returns the signed angle in radians from vector u to
// vector v, in (-pi, pi]. Positive is counterclockwise.
func AngleBetween(u, v Point2D) float64 {
	return math.Atan2(u.Cross(v), u.Dot(v))
}

// NormalizeDegrees maps an angle in degrees into [0, 360).
func NormalizeDegrees(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

// PointOnCircle projects an angle (radians) onto a circle.
func PointOnCircle(center Point2D, radius, angle float64) Point2D {
	return Point2D{
		X: center.X + radius*math.Cos(angle),
		Y: center.Y + radius*math.Sin(angle),
	}
}

// CircleFrom3Points constructs the circumcircle through three points by
// intersecting perpendicular bisectors. Returns nil if the points are
// collinear (determinant within Epsilon of zero).
func CircleFrom3Points(p1, p2, p3 Point2D) *Circle {
	d := 2 * (p1.X*(p2.Y-p3.Y) + p2.X*(p3.Y-p1.Y) + p3.X*(p1.Y-p2.Y))
	if math.Abs(d) < Epsilon {
		return nil
	}

	sq1 := p1.X*p1.X + p1.Y*p1.Y
	sq2 := p2.X*p2.X + p2.Y*p2.Y
	sq3 := p3.X*p3.X + p3.Y*p3.Y

	cx := (sq1*(p2.Y-p3.Y) + sq2*(p3.Y-p1.Y) + sq3*(p1.Y-p2.Y)) / d
	cy := (sq1*(p3.X-p2.X) + sq2*(p1.X-p3.X) + sq3*(p2.X-p1.X)) / d

	center := Point2D{X: cx, Y: cy}
	return &Circle{Center: center, Radius: center.Distance(p1)}
}

// CircleFromChordSagitta constructs a circle from a chord (a, b) and a
// sagitta point whose perpendicular distance from the chord line is the
// bulge height. Returns nil if the chord is degenerate or the sagitta
// point lies on the chord line.
func CircleFromChordSagitta(a, b, sagitta Point2D) *Circle {
	chord := b.Sub(a)
	length := chord.Length()
	if length < Epsilon {
		return nil
	}

	// Unit normal of the chord line.
	normal := Point2D{X: -chord.Y / length, Y: chord.X / length}
	h := sagitta.Sub(a).Dot(normal)
	if math.Abs(h) < Epsilon {
		return nil
	}

	half := length / 2
	radius := (h*h + half*half) / (2 * math.Abs(h))

	// The center sits on the chord's perpendicular at the midpoint,
	// on the opposite side of the sagitta apex.
	sign := 1.0
	if h < 0 {
		sign = -1.0
	}
	mid := a.Midpoint(b)
	center := mid.Add(normal.Scale(sign * (math.Abs(h) - radius)))
	return &Circle{Center: center, Radius: radius}
}

// CircleFrom2PointsRadius constructs a circle of the given radius
// passing through a and b. Two centers generically exist; the indicator
// point selects the nearer one. Returns nil if the points coincide or
// are farther apart than the diameter.
func CircleFrom2PointsRadius(a, b Point2D, radius float64, indicator Point2D) *Circle {
	d := a.Distance(b)
	if d < Epsilon || radius < Epsilon {
		return nil
	}
	if d > 2*radius+Epsilon {
		return nil
	}

	half := d / 2
	offset := radius*radius - half*half
	if offset < 0 {
		offset = 0
	}
	offset = math.Sqrt(offset)

	chord := b.Sub(a)
	normal := Point2D{X: -chord.Y / d, Y: chord.X / d}
	mid := a.Midpoint(b)

	c1 := mid.Add(normal.Scale(offset))
	c2 := mid.Sub(normal.Scale(offset))

	center := c1
	if indicator.Distance(c2) < indicator.Distance(c1) {
		center = c2
	}
	return &Circle{Center: center, Radius: radius}
}

// CircleBestFit computes the algebraic least-squares (Kasa) circle fit
// through n >= 3 points, solving the overdetermined system
//
//	[x y 1] * [2cx 2cy k]^T = x^2 + y^2
//
// with a QR decomposition. Returns nil for fewer than three points or
// when the system is singular or ill-conditioned (near-collinear input).
func CircleBestFit(points []Point2D) *Circle {
	n := len(points)
	if n < 3 {
		return nil
	}

	a := mat.NewDense(n, 3, nil)
	rhs := mat.NewVecDense(n, nil)
	for i, p := range points {
		a.Set(i, 0, p.X)
		a.Set(i, 1, p.Y)
		a.Set(i, 2, 1)
		rhs.SetVec(i, p.X*p.X+p.Y*p.Y)
	}

	var qr mat.QR
	qr.Factorize(a)

	var sol mat.VecDense
	if err := qr.SolveVecTo(&sol, false, rhs); err != nil {
		return nil
	}

	cx := sol.AtVec(0) / 2
	cy := sol.AtVec(1) / 2
	rsq := sol.AtVec(2) + cx*cx + cy*cy
	if rsq < Epsilon || math.IsNaN(rsq) || math.IsInf(rsq, 0) {
		return nil
	}

	return &Circle{Center: Point2D{X: cx, Y: cy}, Radius: math.Sqrt(rsq)}
}

// ArcFrom3Points constructs the arc through start, mid, and end points.
// The sweep direction is chosen so the arc passes through the middle
// point. Returns nil for collinear input.
func ArcFrom3Points(start, mid, end Point2D) *Arc {
	circle := CircleFrom3Points(start, mid, end)
	if circle == nil {
		return nil
	}

	startAngle := math.Atan2(start.Y-circle.Center.Y, start.X-circle.Center.X)
	midAngle := math.Atan2(mid.Y-circle.Center.Y, mid.X-circle.Center.X)
	endAngle := math.Atan2(end.Y-circle.Center.Y, end.X-circle.Center.X)

	ccwSweep := normalizeRadians(endAngle - startAngle)
	midOffset := normalizeRadians(midAngle - startAngle)

	return &Arc{
		Center:           circle.Center,
		Radius:           circle.Radius,
		StartAngle:       startAngle,
		EndAngle:         endAngle,
		Counterclockwise: midOffset <= ccwSweep,
	}
}

// ArcFromCenterStartEnd constructs an arc from a center, a start point
// on the arc, and a point giving the end direction. The radius comes
// from the start point; the natural sweep is counterclockwise. Returns
// nil if the start coincides with the center.
func ArcFromCenterStartEnd(center, start, end Point2D) *Arc {
	radius := center.Distance(start)
	if radius < Epsilon {
		return nil
	}
	return &Arc{
		Center:           center,
		Radius:           radius,
		StartAngle:       math.Atan2(start.Y-center.Y, start.X-center.X),
		EndAngle:         math.Atan2(end.Y-center.Y, end.X-center.X),
		Counterclockwise: true,
	}
}

// ArcFromStartCenterEnd constructs an arc from a start point on the
// arc, the center, and a point giving the end direction. Returns nil if
// the start coincides with the center.
func ArcFromStartCenterEnd(start, center, end Point2D) *Arc {
	return ArcFromCenterStartEnd(center, start, end)
}

// StartPoint returns the point where the arc begins.
func (a Arc) StartPoint() Point2D {
	return PointOnCircle(a.Center, a.Radius, a.StartAngle)
}

// EndPoint returns the point where the arc ends.
func (a Arc) EndPoint() Point2D {
	return PointOnCircle(a.Center, a.Radius, a.EndAngle)
}

// Flipped returns a copy of the arc with the sweep direction inverted.
func (a Arc) Flipped() Arc {
	a.Counterclockwise = !a.Counterclockwise
	return a
}

// normalizeRadians maps an angle into [0, 2*pi).
func normalizeRadians(rad float64) float64 {
	rad = math.Mod(rad, 2*math.Pi)
	if rad < 0 {
		rad += 2 * math.Pi
	}
	return rad
}
