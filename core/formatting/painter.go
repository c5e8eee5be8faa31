package formatting

// Painter holds at most one copied snapshot, like a format painter button.
// The zero value is empty and ready to use.
type Painter struct {
	snap Snapshot
	held bool
}

// Copy captures the formatting at r and holds it, replacing any previous
// snapshot.
func (p *Painter) Copy(r Reader) Snapshot {
	p.snap = Capture(r)
	p.held = true
	return p.snap
}

// Snapshot returns the held snapshot, if any.
func (p *Painter) Snapshot() (Snapshot, bool) {
	return p.snap, p.held
}

// Paste applies the held snapshot to c. It returns false when nothing is
// held or Apply did not commit.
func (p *Painter) Paste(c Cursor) bool {
	if !p.held {
		return false
	}
	return Apply(c, p.snap)
}

// Clear forgets the held snapshot.
func (p *Painter) Clear() {
	p.snap = Snapshot{}
	p.held = false
}
