package flash

import (
	"log"
	"sync"
)

// Gate mediates client access to a single flash Device. At most one write
// or erase is outstanding at a time across all clients. The pending-owner
// marker and the scratch word buffer are only touched between a successful
// acquire and the matching completion, which is what makes the shared
// buffer safe to reuse without allocation.
//
// Device completions arrive on the device's goroutine, so the marker is
// guarded by a mutex rather than a bare flag.
type Gate struct {
	dev    Device
	grants *Grants

	mu      sync.Mutex
	owner   ClientID
	pending bool
	fault   error

	// Single scratch buffer shared by all write operations.
	writeBuf [MaxWriteWords]uint32
}

var _ DeviceClient = (*Gate)(nil)

// NewGate wires a gate to its device and registers it as the device's
// completion client.
func NewGate(dev Device, grants *Grants) *Gate {
	g := &Gate{dev: dev, grants: grants}
	dev.SetClient(g)
	return g
}

// Command dispatches a syscall-style request. The returned value carries
// the result of the CmdGetInfo queries and is zero for every other command.
func (g *Gate) Command(client ClientID, cmd, arg int) (int, error) {
	switch cmd {
	case CmdProbe:
		return 0, nil
	case CmdGetInfo:
		return getInfo(arg)
	case CmdWrite:
		return 0, g.write(client, arg)
	case CmdErase:
		return 0, g.erase(client, arg)
	default:
		return 0, ErrUnsupported
	}
}

// Allow registers (or clears, with nil) the client's shared input buffer.
// The buffer is consumed by the next accepted write.
func (g *Gate) Allow(client ClientID, num int, region []byte) error {
	if num != AllowInputBuffer {
		return ErrUnsupported
	}
	return g.grants.Enter(client, func(rec *Record) {
		rec.input = region
	})
}

// Subscribe registers (or clears, with nil) the client's completion
// callback.
func (g *Gate) Subscribe(client ClientID, num int, cb Callback) error {
	if num != SubscribeDone {
		return ErrUnsupported
	}
	return g.grants.Enter(client, func(rec *Record) {
		rec.callback = cb
	})
}

func getInfo(sub int) (int, error) {
	switch sub {
	case InfoWordSize:
		return WordSize, nil
	case InfoPageSize:
		return PageSize, nil
	case InfoMaxWriteCount:
		return MaxWriteCount, nil
	case InfoMaxEraseCount:
		return MaxEraseCount, nil
	case InfoMaxWriteBytes:
		return MaxWriteBytes, nil
	default:
		return 0, ErrInvalidArgument
	}
}

// write takes the client's registered buffer (one-shot: a fresh Allow is
// needed for the next write), validates it, and starts the operation.
func (g *Gate) write(client ClientID, offset int) error {
	var region []byte
	err := g.grants.Enter(client, func(rec *Record) {
		region = rec.input
		rec.input = nil
	})
	if err != nil {
		return err
	}
	if region == nil {
		return ErrInvalidArgument
	}
	words := len(region) / WordSize
	if offset%WordSize != 0 || len(region)%WordSize != 0 || words > MaxWriteWords {
		return ErrInvalidArgument
	}
	if !g.tryStart(client) {
		return ErrBusy
	}
	// We hold exclusivity now, so the scratch buffer is ours.
	data := g.writeBuf[:packWords(g.writeBuf[:], region)]
	if err := g.dev.Write(offset/WordSize, data); err != nil {
		// A synchronous reject produces no completion; release so the
		// next request can start.
		g.release()
		return err
	}
	return nil
}

func (g *Gate) erase(client ClientID, offset int) error {
	if offset%PageSize != 0 {
		return ErrInvalidArgument
	}
	if !g.tryStart(client) {
		return ErrBusy
	}
	if err := g.dev.Erase(offset / WordSize); err != nil {
		g.release()
		return err
	}
	return nil
}

// tryStart is the single authoritative acquire of the exclusivity marker.
func (g *Gate) tryStart(client ClientID) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.pending {
		return false
	}
	g.pending = true
	g.owner = client
	return true
}

func (g *Gate) release() (ClientID, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.pending {
		return 0, false
	}
	g.pending = false
	return g.owner, true
}

// complete releases exclusivity and relays status to the owner's callback,
// if one is registered.
func (g *Gate) complete(status error) {
	owner, ok := g.release()
	if !ok {
		g.recordFault(FaultSpuriousCompletion)
		return
	}
	var cb Callback
	if err := g.grants.Enter(owner, func(rec *Record) {
		cb = rec.callback
	}); err != nil {
		// The owner died mid-operation. Exclusivity is already released;
		// drop the stale notification and keep serving.
		g.recordFault(FaultOwnerVanished)
		return
	}
	if cb != nil {
		cb(status, 0, 0)
	}
}

// WriteDone hands ownership of the scratch buffer back and relays status.
func (g *Gate) WriteDone(_ []uint32, status error) {
	g.complete(status)
}

// EraseDone relays status.
func (g *Gate) EraseDone(status error) {
	g.complete(status)
}

func (g *Gate) recordFault(f Fault) {
	g.mu.Lock()
	g.fault = f
	g.mu.Unlock()
	log.Printf("%v\n", f)
}

// Fault reports the most recent invariant violation, if any. A non-nil
// fault means the device or the client lifecycle broke protocol; the gate
// keeps serving, but operators should treat it as a bug.
func (g *Gate) Fault() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.fault
}
