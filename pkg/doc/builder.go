package doc

// Builder accumulates the children of one element while it is parsed.
// Finish hands the sequence over; the builder cannot be appended to after.
type Builder struct {
	nodes    []Element
	finished bool
}

// Append adds elements in order
func (b *Builder) Append(elems ...Element) {
	b.check()
	b.nodes = append(b.nodes, elems...)
}

// AppendText adds a text run, merging it with a preceding run
func (b *Builder) AppendText(s string) {
	b.check()
	if s == "" {
		return
	}
	if n := len(b.nodes); n > 0 {
		if prev, ok := b.nodes[n-1].(*Text); ok {
			b.nodes[n-1] = NewText(prev.value + s)
			return
		}
	}
	b.nodes = append(b.nodes, NewText(s))
}

// Len returns the number of elements appended so far
func (b *Builder) Len() int { return len(b.nodes) }

// Finish returns the accumulated children
func (b *Builder) Finish() []Element {
	b.check()
	b.finished = true
	nodes := b.nodes
	b.nodes = nil
	return nodes
}

func (b *Builder) check() {
	if b.finished {
		panic("doc: builder used after Finish")
	}
}
