// Package flash implements a trusted gate in front of a raw flash device.
//
// Untrusted clients register a shared input buffer and a completion
// callback, then request word writes and page erases through a narrow
// selector-based surface. The gate validates every request, allows at most
// one outstanding operation system-wide, and relays the device's
// asynchronous completion back to the owning client.
package flash

// WordSize is the number of bytes in one machine word. Flash is addressed
// and programmed in units of words.
const WordSize = 4

// PageSize is the erase granularity in bytes. Erase requests must be
// aligned to a page boundary.
const PageSize = 2048

// MaxWriteCount is the number of times a word region may be programmed
// between erases. It is reported to clients as policy; enforcement is up to
// the device, not the gate.
const MaxWriteCount = 2

// MaxEraseCount is the rated number of erase cycles per page. Policy only,
// like MaxWriteCount.
const MaxEraseCount = 10000

// MaxWriteWords is the capacity of the shared scratch buffer, and therefore
// the largest number of words a single write may carry.
const MaxWriteWords = 32

// MaxWriteBytes is MaxWriteWords expressed in bytes (128).
const MaxWriteBytes = MaxWriteWords * WordSize

// Command selectors accepted by Gate.Command.
const (
	CmdProbe   = iota // existence check, always succeeds
	CmdGetInfo        // geometry and policy query, sub-selector in arg
	CmdWrite          // write the registered buffer at byte offset arg
	CmdErase          // erase the page at byte offset arg
)

// Sub-selectors for CmdGetInfo.
const (
	InfoWordSize = iota
	InfoPageSize
	InfoMaxWriteCount
	InfoMaxEraseCount
	InfoMaxWriteBytes
)

// AllowInputBuffer is the Allow slot holding the shared input buffer.
const AllowInputBuffer = 0

// SubscribeDone is the Subscribe slot holding the completion callback.
const SubscribeDone = 0

// ClientID identifies a requesting client. IDs are opaque to the gate; the
// process hosting it decides what they mean and when a client is gone.
type ClientID int

// Callback delivers the completion status of a write or erase. The two
// trailing arguments are always zero; they are kept for symmetry with the
// three-argument upcall convention of the syscall surface.
type Callback func(status error, arg1, arg2 int)

// Device is the raw flash capability the gate mediates access to. Write and
// Erase return an immediate accept/reject code; on accept, the outcome
// arrives later through the DeviceClient.
type Device interface {
	// Write programs words starting at the given word address. The slice
	// stays owned by the device until it is handed back via WriteDone.
	Write(wordAddr int, words []uint32) error

	// Erase erases the page containing the given word address.
	Erase(wordAddr int) error

	// SetClient registers the completion sink. It must be called before
	// any Write or Erase.
	SetClient(c DeviceClient)
}

// DeviceClient receives completion notifications from a Device.
type DeviceClient interface {
	// WriteDone returns ownership of the word buffer passed to Write,
	// along with the operation status (nil on success).
	WriteDone(words []uint32, status error)

	// EraseDone reports the outcome of an erase.
	EraseDone(status error)
}
