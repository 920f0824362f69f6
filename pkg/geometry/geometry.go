// Package geometry resolves the render size of a control from the competing
// size sources a host exposes: the host allocation, the container element's
// own client box, and the container's parent.
//
// Hosts commonly report a zero allocation before layout has settled (flex or
// auto-sized containers), so each dimension falls through three tiers
// independently. A dimension that no tier can supply stays unset; it is never
// collapsed to zero.
package geometry

import "strconv"

// Dim is an optional, non-negative dimension in cells. The zero value is
// Unset.
type Dim struct {
	n  int
	ok bool
}

// Unset is the unresolved dimension.
var Unset = Dim{}

// Px returns a resolved dimension of n cells. Negative values cannot be
// resolved and yield Unset.
func Px(n int) Dim {
	if n < 0 {
		return Unset
	}
	return Dim{n: n, ok: true}
}

// OK reports whether the dimension has been resolved.
func (d Dim) OK() bool { return d.ok }

// Int returns the resolved value, or 0 when unset. Callers that need to
// tell the two apart must check OK first.
func (d Dim) Int() int { return d.n }

// Positive reports whether the dimension is resolved and strictly greater
// than zero.
func (d Dim) Positive() bool { return d.ok && d.n > 0 }

// Or returns d when it is positive and fallback otherwise.
func (d Dim) Or(fallback int) int {
	if d.Positive() {
		return d.n
	}
	return fallback
}

// String renders the dimension for logs: the number, or "auto" when unset.
func (d Dim) String() string {
	if !d.ok {
		return "auto"
	}
	return strconv.Itoa(d.n)
}

// Size is a resolved width/height pair. Either side may be unset.
type Size struct {
	Width  Dim
	Height Dim
}

// Complete reports whether both dimensions resolved to a positive value.
func (s Size) Complete() bool {
	return s.Width.Positive() && s.Height.Positive()
}

// String renders "WxH" with "auto" for unresolved sides.
func (s Size) String() string {
	return s.Width.String() + "x" + s.Height.String()
}

// Resolve computes the effective size. Per dimension:
//  1. the host allocation, if strictly positive
//  2. the container's client size, if strictly positive
//  3. the parent's client size, which may itself be Unset
//
// Width and height never influence each other.
func Resolve(allocW, allocH, containerW, containerH int, parentW, parentH Dim) Size {
	return Size{
		Width:  resolveDim(allocW, containerW, parentW),
		Height: resolveDim(allocH, containerH, parentH),
	}
}

func resolveDim(allocated, container int, parent Dim) Dim {
	if allocated > 0 {
		return Px(allocated)
	}
	if container > 0 {
		return Px(container)
	}
	if parent.ok && parent.n >= 0 {
		return parent
	}
	return Unset
}
