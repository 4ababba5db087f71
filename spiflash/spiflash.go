// Package spiflash drives an external flash-controller MCU over SPI.
//
// On submit:
// Pi starts a transaction, writes the framed operation [WRITE | ERASE ...],
// Mcu responds [ACK | NAK [1 byte]], Pi closes the transaction.
// Pi then polls [STATUS] until the mcu reports idle and relays the final
// result to the completion client.
package spiflash

import (
	"fmt"
	"time"

	rpio "github.com/stianeikeland/go-rpio/v4"

	"github.com/rabidaudio/flashgate/clock"
	"github.com/rabidaudio/flashgate/flash"
)

const (
	NAK    = iota // 0x00
	ACK           // 0x01
	STATUS        // 0x02
	WRITE         // 0x03
	ERASE         // 0x04
)

const SPI_SPEED = 10_000_000 // 10 MHz

const pollInterval = time.Millisecond

var (
	ErrNoResponse = fmt.Errorf("spiflash: no response from mcu")
	ErrRejected   = fmt.Errorf("spiflash: mcu rejected operation")
)

type Device struct {
	dev        rpio.SpiDev
	chipSelect uint8
	clk        clock.Clock
	client     flash.DeviceClient
}

var _ flash.Device = (*Device)(nil)

func Open(clk clock.Clock) (*Device, error) {
	return OpenDevice(rpio.Spi0, 0, clk)
}

func OpenDevice(dev rpio.SpiDev, chipSelect uint8, clk clock.Clock) (d *Device, err error) {
	err = rpio.Open()
	if err != nil {
		return
	}
	err = rpio.SpiBegin(dev)
	if err != nil {
		return
	}
	rpio.SpiChipSelect(chipSelect)
	rpio.SpiSpeed(SPI_SPEED)
	d = &Device{dev: dev, chipSelect: chipSelect, clk: clk}
	return
}

func (d *Device) SetClient(c flash.DeviceClient) { d.client = c }

func (d *Device) Close() error {
	rpio.SpiEnd(d.dev)
	return nil
}

func (d *Device) Write(wordAddr int, words []uint32) error {
	if err := d.submit(encodeWrite(wordAddr, words)); err != nil {
		return err
	}
	go func() {
		d.client.WriteDone(words, d.poll())
	}()
	return nil
}

func (d *Device) Erase(wordAddr int) error {
	if err := d.submit(encodeErase(wordAddr)); err != nil {
		return err
	}
	go func() {
		d.client.EraseDone(d.poll())
	}()
	return nil
}

// submit exchanges one operation frame and interprets the trailing ACK/NAK
// byte as the immediate accept code.
func (d *Device) submit(frame []byte) error {
	frame = append(frame, 0) // room for the response byte
	rpio.SpiExchange(frame)
	switch frame[len(frame)-1] {
	case ACK:
		return nil
	case NAK:
		return ErrRejected
	default:
		return ErrNoResponse
	}
}

// status asks the mcu whether the current operation is still running.
// Response: [ACK | NAK [1 byte], result [1 byte]] — ACK while busy, NAK once
// idle with the result of the last operation.
func (d *Device) status() (busy bool, opErr error, err error) {
	bytes := make([]byte, 3)
	bytes[0] = STATUS
	rpio.SpiExchange(bytes)
	switch bytes[1] {
	case ACK:
		return true, nil, nil
	case NAK:
		if bytes[2] != 0 {
			return false, fmt.Errorf("spiflash: operation failed: code %v", bytes[2]), nil
		}
		return false, nil, nil
	default:
		for _, b := range bytes {
			if b != 0 {
				return false, nil, fmt.Errorf("spiflash: invalid response from mcu: %v", bytes)
			}
		}
		return false, nil, ErrNoResponse
	}
}

// poll blocks until the mcu reports the operation finished and returns its
// status.
func (d *Device) poll() error {
	for {
		<-d.clk.After(pollInterval)
		busy, opErr, err := d.status()
		if err != nil {
			return err
		}
		if !busy {
			return opErr
		}
	}
}
