package main

// correlationGen mints question ids for one resolution, starting at 1 and
// strictly increasing. Each Resolve call owns its generator, so stale
// replies from abandoned attempts can never collide with another
// resolution's ids and no locking is involved.
type correlationGen struct {
	last uint64
}

func (g *correlationGen) Next() uint64 {
	g.last++
	return g.last
}
