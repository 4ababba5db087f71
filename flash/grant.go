package flash

import "sync"

// Record is the per-client state kept by the gate: the registered
// completion callback and the shared input buffer, both optional.
type Record struct {
	callback Callback
	input    []byte
}

// Grants stores one Record per live client. Records are created lazily the
// first time a client touches the gate and destroyed when the hosting
// process reports the client gone. A removed client stays dead: later
// lookups fail rather than quietly resurrecting it.
type Grants struct {
	mu   sync.Mutex
	live map[ClientID]*Record
	dead map[ClientID]bool
}

func NewGrants() *Grants {
	return &Grants{
		live: make(map[ClientID]*Record),
		dead: make(map[ClientID]bool),
	}
}

// Enter runs fn with the client's record, creating the record if this is
// the client's first touch. It returns ErrNoSuchClient if the client has
// been removed.
func (g *Grants) Enter(id ClientID, fn func(*Record)) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.dead[id] {
		return ErrNoSuchClient
	}
	rec, ok := g.live[id]
	if !ok {
		rec = &Record{}
		g.live[id] = rec
	}
	fn(rec)
	return nil
}

// Remove destroys the client's record. Client lifecycle is controlled
// externally; the gate only reacts to it.
func (g *Grants) Remove(id ClientID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.live, id)
	g.dead[id] = true
}
