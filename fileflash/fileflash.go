// Package fileflash persists flash contents to a raw image file, one page
// after another. It gives the gate durable storage for host-side tooling
// and testing without real hardware. Writes follow NOR semantics: bits can
// only be cleared until the page is erased.
package fileflash

import (
	"encoding/binary"
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/rabidaudio/flashgate/flash"
)

var (
	ErrImageSize  = fmt.Errorf("fileflash: image size is not a whole number of pages")
	ErrOutOfRange = fmt.Errorf("fileflash: address out of range")
	ErrDeviceBusy = fmt.Errorf("fileflash: operation in progress")
)

var erasedPage [flash.PageSize]byte

func init() {
	for i := range erasedPage {
		erasedPage[i] = 0xFF
	}
}

type Device struct {
	mu     sync.Mutex
	f      *os.File
	pages  int
	client flash.DeviceClient
	busy   bool
}

var _ flash.Device = (*Device)(nil)

// Open opens an image file created by the img package, or any raw file
// sized to a whole number of pages.
func Open(path string) (*Device, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if st.Size() == 0 || st.Size()%flash.PageSize != 0 {
		f.Close()
		return nil, ErrImageSize
	}
	return &Device{f: f, pages: int(st.Size() / flash.PageSize)}, nil
}

func (d *Device) Close() error { return d.f.Close() }

// Pages reports the image capacity in pages.
func (d *Device) Pages() int { return d.pages }

func (d *Device) SetClient(c flash.DeviceClient) { d.client = c }

func (d *Device) Write(wordAddr int, words []uint32) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.busy {
		return ErrDeviceBusy
	}
	if wordAddr < 0 || (wordAddr+len(words))*flash.WordSize > d.pages*flash.PageSize {
		return ErrOutOfRange
	}
	d.busy = true
	go d.finishWrite(wordAddr, words)
	return nil
}

func (d *Device) finishWrite(wordAddr int, words []uint32) {
	off := int64(wordAddr) * flash.WordSize
	buf := make([]byte, len(words)*flash.WordSize)
	_, err := d.f.ReadAt(buf, off)
	if err == nil {
		for i, w := range words {
			cur := binary.NativeEndian.Uint32(buf[i*flash.WordSize:])
			binary.NativeEndian.PutUint32(buf[i*flash.WordSize:], cur&w)
		}
		_, err = d.f.WriteAt(buf, off)
	}
	log.Printf("%08d\t%05d\twrite\t%v\n", off, len(buf), err)
	d.mu.Lock()
	client := d.client
	d.busy = false
	d.mu.Unlock()
	client.WriteDone(words, err)
}

func (d *Device) Erase(wordAddr int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.busy {
		return ErrDeviceBusy
	}
	page := wordAddr * flash.WordSize / flash.PageSize
	if wordAddr < 0 || page >= d.pages {
		return ErrOutOfRange
	}
	d.busy = true
	go d.finishErase(page)
	return nil
}

func (d *Device) finishErase(page int) {
	_, err := d.f.WriteAt(erasedPage[:], int64(page)*flash.PageSize)
	log.Printf("%08d\t%05d\terase\t%v\n", page*flash.PageSize, flash.PageSize, err)
	d.mu.Lock()
	client := d.client
	d.busy = false
	d.mu.Unlock()
	client.EraseDone(err)
}
