package flash

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPackWords(t *testing.T) {
	region := make([]byte, 12)
	for i := range region {
		region[i] = byte(i + 1)
	}
	var dst [MaxWriteWords]uint32
	n := packWords(dst[:], region)
	assert.Equal(t, 3, n)
	for i := 0; i < n; i++ {
		assert.Equal(t, binary.NativeEndian.Uint32(region[i*WordSize:]), dst[i])
	}
}

func TestPackWordsEmpty(t *testing.T) {
	var dst [MaxWriteWords]uint32
	assert.Equal(t, 0, packWords(dst[:], nil))
}

func TestPackWordsFullBuffer(t *testing.T) {
	region := make([]byte, MaxWriteBytes)
	for i := range region {
		region[i] = byte(i)
	}
	var dst [MaxWriteWords]uint32
	n := packWords(dst[:], region)
	assert.Equal(t, MaxWriteWords, n)
	assert.Equal(t, binary.NativeEndian.Uint32(region[:WordSize]), dst[0])
	assert.Equal(t, binary.NativeEndian.Uint32(region[MaxWriteBytes-WordSize:]), dst[MaxWriteWords-1])
}
