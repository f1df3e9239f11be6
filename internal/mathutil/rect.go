package mathutil

// Sizei is an integer width/height pair.
type Sizei struct {
	W, H int
}

// Recti is an integer rectangle: origin plus size.
type Recti struct {
	X, Y, W, H int
}

func (r Recti) Size() Sizei {
	return Sizei{W: r.W, H: r.H}
}

// Contains reports whether the point lies inside r (min inclusive, max exclusive).
func (r Recti) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Intersects reports whether the two rectangles share any pixel.
func (r Recti) Intersects(o Recti) bool {
	return r.X < o.X+o.W && o.X < r.X+r.W && r.Y < o.Y+o.H && o.Y < r.Y+r.H
}
