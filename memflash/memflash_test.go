package memflash_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rabidaudio/flashgate/clock"
	"github.com/rabidaudio/flashgate/flash"
	"github.com/rabidaudio/flashgate/memflash"
	"github.com/rabidaudio/flashgate/mock"
)

// sink collects completions so tests can wait for them.
type sink struct {
	writeDone chan error
	eraseDone chan error
}

var _ flash.DeviceClient = (*sink)(nil)

func newSink() *sink {
	return &sink{
		writeDone: make(chan error, 1),
		eraseDone: make(chan error, 1),
	}
}

func (s *sink) WriteDone(_ []uint32, status error) { s.writeDone <- status }
func (s *sink) EraseDone(status error)             { s.eraseDone <- status }

func TestErasedByDefault(t *testing.T) {
	d := memflash.New(2, clock.Wall{})
	assert.Equal(t, uint32(0xFFFFFFFF), d.ReadWord(0))
	assert.Equal(t, uint32(0xFFFFFFFF), d.ReadWord(2*flash.PageSize/flash.WordSize-1))
}

func TestWriteReadBack(t *testing.T) {
	d := memflash.New(1, clock.Wall{})
	s := newSink()
	d.SetClient(s)

	assert.NoError(t, d.Write(4, []uint32{0xDEADBEEF, 0x01020304}))
	assert.NoError(t, <-s.writeDone)
	assert.Equal(t, uint32(0xDEADBEEF), d.ReadWord(4))
	assert.Equal(t, uint32(0x01020304), d.ReadWord(5))
}

func TestProgrammingOnlyClearsBits(t *testing.T) {
	d := memflash.New(1, clock.Wall{})
	s := newSink()
	d.SetClient(s)

	assert.NoError(t, d.Write(0, []uint32{0xFFFF00FF}))
	assert.NoError(t, <-s.writeDone)
	assert.NoError(t, d.Write(0, []uint32{0x00FFFFFF}))
	assert.NoError(t, <-s.writeDone)
	assert.Equal(t, uint32(0x00FF00FF), d.ReadWord(0))
}

func TestProgramLimit(t *testing.T) {
	d := memflash.New(1, clock.Wall{})
	s := newSink()
	d.SetClient(s)

	for i := 0; i < flash.MaxWriteCount; i++ {
		assert.NoError(t, d.Write(0, []uint32{0}))
		assert.NoError(t, <-s.writeDone)
	}
	assert.NoError(t, d.Write(0, []uint32{0}))
	assert.ErrorIs(t, <-s.writeDone, memflash.ErrWriteLimit)

	// erase resets the limit
	assert.NoError(t, d.Erase(0))
	assert.NoError(t, <-s.eraseDone)
	assert.NoError(t, d.Write(0, []uint32{0}))
	assert.NoError(t, <-s.writeDone)
}

func TestEraseResetsPage(t *testing.T) {
	d := memflash.New(2, clock.Wall{})
	s := newSink()
	d.SetClient(s)

	assert.NoError(t, d.Write(0, []uint32{0x12345678}))
	assert.NoError(t, <-s.writeDone)
	assert.NoError(t, d.Erase(0))
	assert.NoError(t, <-s.eraseDone)
	assert.Equal(t, uint32(0xFFFFFFFF), d.ReadWord(0))
}

func TestOutOfRange(t *testing.T) {
	d := memflash.New(1, clock.Wall{})
	d.SetClient(newSink())
	words := flash.PageSize / flash.WordSize

	assert.ErrorIs(t, d.Write(words-1, []uint32{0, 0}), memflash.ErrOutOfRange)
	assert.ErrorIs(t, d.Erase(words), memflash.ErrOutOfRange)
}

func TestCompletionWaitsForLatency(t *testing.T) {
	clk := mock.NewClock(time.Unix(0, 0))
	d := memflash.New(1, clk)
	d.WriteLatency = 10 * time.Millisecond
	s := newSink()
	d.SetClient(s)

	assert.NoError(t, d.Write(0, []uint32{0}))

	// the device is mid-operation: no completion yet, and it reports busy
	select {
	case <-s.writeDone:
		t.Fatal("completion before the write latency elapsed")
	default:
	}
	assert.ErrorIs(t, d.Write(0, []uint32{0}), memflash.ErrDeviceBusy)

	clk.Advance(10 * time.Millisecond)
	assert.NoError(t, <-s.writeDone)
}
