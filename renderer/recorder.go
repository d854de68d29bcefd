package renderer

import (
	"image/color"

	"github.com/pthm-cable/versefx/components"
)

// OpKind identifies a recorded draw call.
type OpKind uint8

const (
	OpLine OpKind = iota
	OpCircle
	OpRing
	OpGradient
	OpPolygon
	OpPolygonOutline
	OpFan
)

func (k OpKind) String() string {
	switch k {
	case OpLine:
		return "line"
	case OpCircle:
		return "circle"
	case OpRing:
		return "ring"
	case OpGradient:
		return "gradient"
	case OpPolygon:
		return "polygon"
	case OpPolygonOutline:
		return "polygon_outline"
	case OpFan:
		return "fan"
	}
	return "unknown"
}

// Op is one recorded draw call.
type Op struct {
	Kind  OpKind
	X, Y  float64
	R     float64 // radius, or line length for OpLine
	Color color.RGBA
}

// Recorder is a headless Surface that records draw calls.
// Ops holds the calls since the last Clear; Totals counts every call ever made.
type Recorder struct {
	w, h    int
	Ops     []Op
	Totals  map[OpKind]int
	Clears  int
	Resizes int
}

// NewRecorder creates a recorder with the given backing size.
func NewRecorder(w, h int) *Recorder {
	return &Recorder{w: w, h: h, Totals: make(map[OpKind]int)}
}

func (r *Recorder) Size() (int, int) { return r.w, r.h }

func (r *Recorder) Resize(w, h int) {
	r.w, r.h = w, h
	r.Resizes++
}

func (r *Recorder) Clear() {
	r.Ops = r.Ops[:0]
	r.Clears++
}

func (r *Recorder) record(op Op) {
	r.Ops = append(r.Ops, op)
	r.Totals[op.Kind]++
}

func (r *Recorder) Line(x1, y1, x2, y2, width float64, c color.RGBA) {
	dx, dy := x2-x1, y2-y1
	r.record(Op{Kind: OpLine, X: x1, Y: y1, R: components.Vector2D{X: dx, Y: dy}.Len(), Color: c})
}

func (r *Recorder) Circle(x, y, rad float64, c color.RGBA) {
	r.record(Op{Kind: OpCircle, X: x, Y: y, R: rad, Color: c})
}

func (r *Recorder) Ring(x, y, rad, width float64, c color.RGBA) {
	r.record(Op{Kind: OpRing, X: x, Y: y, R: rad, Color: c})
}

func (r *Recorder) RadialGradient(x, y, rad float64, inner, outer color.RGBA) {
	r.record(Op{Kind: OpGradient, X: x, Y: y, R: rad, Color: inner})
}

func (r *Recorder) Polygon(x, y float64, sides int, rad, rotation float64, c color.RGBA) {
	r.record(Op{Kind: OpPolygon, X: x, Y: y, R: rad, Color: c})
}

func (r *Recorder) PolygonOutline(x, y float64, sides int, rad, rotation, width float64, c color.RGBA) {
	r.record(Op{Kind: OpPolygonOutline, X: x, Y: y, R: rad, Color: c})
}

func (r *Recorder) Fan(points []components.Vector2D, c color.RGBA) {
	if len(points) < 3 {
		return
	}
	r.record(Op{Kind: OpFan, X: points[0].X, Y: points[0].Y, Color: c})
}

// Count returns the number of ops of a kind since the last Clear.
func (r *Recorder) Count(kind OpKind) int {
	n := 0
	for _, op := range r.Ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}
