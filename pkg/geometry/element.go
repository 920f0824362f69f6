package geometry

// Element is the host's handle to a layout box. The container handed to a
// control at mount is an Element; its Parent may be nil.
type Element interface {
	ClientWidth() int
	ClientHeight() int
	Parent() Element
}

// ResolveElement resolves the size of container against the host allocation,
// reading the container and parent client sizes. A nil container behaves as
// a detached element with no parent.
func ResolveElement(allocW, allocH int, container Element) Size {
	if container == nil {
		return Resolve(allocW, allocH, 0, 0, Unset, Unset)
	}
	parentW, parentH := Unset, Unset
	if p := container.Parent(); p != nil {
		parentW, parentH = Px(p.ClientWidth()), Px(p.ClientHeight())
	}
	return Resolve(allocW, allocH, container.ClientWidth(), container.ClientHeight(), parentW, parentH)
}

// Box is a mutable Element backed by plain fields. Hosts that manage their
// own layout (and tests) use it as the container handle.
type Box struct {
	Width  int
	Height int
	Up     *Box
}

// ClientWidth returns the box's client width. A nil box has no size.
func (b *Box) ClientWidth() int {
	if b == nil {
		return 0
	}
	return b.Width
}

// ClientHeight returns the box's client height. A nil box has no size.
func (b *Box) ClientHeight() int {
	if b == nil {
		return 0
	}
	return b.Height
}

// Parent returns the enclosing box, or nil at the root or on a nil box.
func (b *Box) Parent() Element {
	if b == nil || b.Up == nil {
		return nil
	}
	return b.Up
}
