// Package memflash provides an in-memory flash device with NOR semantics:
// erase sets every bit of a page, programming can only clear bits, and each
// page may be programmed a limited number of times between erases.
package memflash

import (
	"fmt"
	"sync"
	"time"

	"github.com/rabidaudio/flashgate/clock"
	"github.com/rabidaudio/flashgate/flash"
)

const wordsPerPage = flash.PageSize / flash.WordSize

var (
	ErrOutOfRange = fmt.Errorf("memflash: address out of range")
	ErrDeviceBusy = fmt.Errorf("memflash: operation in progress")

	// ErrWriteLimit is reported through the completion path when a page is
	// programmed more than flash.MaxWriteCount times between erases.
	ErrWriteLimit = fmt.Errorf("memflash: page program limit exceeded")
)

type Device struct {
	// Latency between accepting an operation and reporting completion.
	WriteLatency time.Duration
	EraseLatency time.Duration

	mu     sync.Mutex
	words  []uint32
	writes []uint8 // programs since last erase, per page
	client flash.DeviceClient
	busy   bool
	clk    clock.Clock
}

var _ flash.Device = (*Device)(nil)

// New creates a device with the given number of pages, fully erased.
func New(pages int, clk clock.Clock) *Device {
	d := &Device{
		words:  make([]uint32, pages*wordsPerPage),
		writes: make([]uint8, pages),
		clk:    clk,
	}
	for i := range d.words {
		d.words[i] = 0xFFFFFFFF
	}
	return d
}

func (d *Device) SetClient(c flash.DeviceClient) { d.client = c }

func (d *Device) Write(wordAddr int, words []uint32) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.busy {
		return ErrDeviceBusy
	}
	if wordAddr < 0 || wordAddr+len(words) > len(d.words) {
		return ErrOutOfRange
	}
	d.busy = true
	// Register the timer before returning so a test clock advanced right
	// after Write returns still fires it.
	done := d.clk.After(d.WriteLatency)
	go d.finishWrite(done, wordAddr, words)
	return nil
}

func (d *Device) finishWrite(done <-chan time.Time, wordAddr int, words []uint32) {
	<-done
	d.mu.Lock()
	page := wordAddr / wordsPerPage
	var status error
	if d.writes[page] >= flash.MaxWriteCount {
		status = ErrWriteLimit
	} else {
		d.writes[page]++
		for i, w := range words {
			d.words[wordAddr+i] &= w
		}
	}
	client := d.client
	d.busy = false
	d.mu.Unlock()
	client.WriteDone(words, status)
}

func (d *Device) Erase(wordAddr int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.busy {
		return ErrDeviceBusy
	}
	if wordAddr < 0 || wordAddr >= len(d.words) {
		return ErrOutOfRange
	}
	d.busy = true
	done := d.clk.After(d.EraseLatency)
	go d.finishErase(done, wordAddr/wordsPerPage)
	return nil
}

func (d *Device) finishErase(done <-chan time.Time, page int) {
	<-done
	d.mu.Lock()
	for i := page * wordsPerPage; i < (page+1)*wordsPerPage; i++ {
		d.words[i] = 0xFFFFFFFF
	}
	d.writes[page] = 0
	client := d.client
	d.busy = false
	d.mu.Unlock()
	client.EraseDone(nil)
}

// ReadWord returns the current contents of one word, for inspection.
func (d *Device) ReadWord(wordAddr int) uint32 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.words[wordAddr]
}
