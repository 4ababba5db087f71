// Package mock holds hand-rolled test doubles for the hardware-facing
// interfaces: a flash device that completes only when told to, and a clock
// that advances only when told to.
package mock

import "github.com/rabidaudio/flashgate/flash"

// Flash is a manually-triggered flash device. It records the most recent
// request and does nothing until the test fires CompleteWrite or
// CompleteErase.
type Flash struct {
	WriteCalls   int
	EraseCalls   int
	LastWordAddr int
	LastWords    []uint32

	// AcceptErr, when set, is returned as the immediate code of every
	// request instead of accepting it.
	AcceptErr error

	client       flash.DeviceClient
	pendingWrite []uint32
}

var _ flash.Device = (*Flash)(nil)

func (f *Flash) SetClient(c flash.DeviceClient) { f.client = c }

func (f *Flash) Write(wordAddr int, words []uint32) error {
	if f.AcceptErr != nil {
		return f.AcceptErr
	}
	f.WriteCalls++
	f.LastWordAddr = wordAddr
	// Snapshot: the live slice is the gate's scratch buffer.
	f.LastWords = append([]uint32(nil), words...)
	f.pendingWrite = words
	return nil
}

func (f *Flash) Erase(wordAddr int) error {
	if f.AcceptErr != nil {
		return f.AcceptErr
	}
	f.EraseCalls++
	f.LastWordAddr = wordAddr
	return nil
}

// CompleteWrite reports the pending write finished with the given status,
// handing the word buffer back to the client.
func (f *Flash) CompleteWrite(status error) {
	words := f.pendingWrite
	f.pendingWrite = nil
	f.client.WriteDone(words, status)
}

// CompleteErase reports the pending erase finished with the given status.
func (f *Flash) CompleteErase(status error) {
	f.client.EraseDone(status)
}
