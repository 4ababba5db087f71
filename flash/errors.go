package flash

import "fmt"

// Request rejection codes of the gate surface. A nil error is success.
var (
	ErrInvalidArgument = fmt.Errorf("flash: invalid argument")
	ErrBusy            = fmt.Errorf("flash: operation already pending")
	ErrUnsupported     = fmt.Errorf("flash: unsupported request")
	ErrNoSuchClient    = fmt.Errorf("flash: no such client")
)

// Fault is an invariant violation: a state the protocol between the gate,
// the device and the client lifecycle is supposed to make impossible. The
// gate records and logs faults instead of halting, so the paths stay
// testable and an operator can tell something broke.
type Fault int

const (
	// FaultSpuriousCompletion means the device delivered a completion
	// while no operation was pending.
	FaultSpuriousCompletion Fault = 1

	// FaultOwnerVanished means the owning client's record was gone when
	// its completion arrived.
	FaultOwnerVanished Fault = 2
)

func (f Fault) name() string {
	switch f {
	case FaultSpuriousCompletion:
		return "completion delivered with no operation pending"
	case FaultOwnerVanished:
		return "operation owner terminated before completion"
	default:
		return fmt.Sprintf("unknown fault code: %v", int(f))
	}
}

func (f Fault) Error() string {
	return "flash: fault: " + f.name()
}
