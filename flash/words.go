package flash

import "encoding/binary"

// packWords splits region into consecutive groups of WordSize bytes in
// native byte order and stores the resulting words into dst starting at
// index 0, returning the word count. The caller guarantees that len(region)
// is a whole number of words and that they fit in dst.
func packWords(dst []uint32, region []byte) int {
	n := len(region) / WordSize
	for i := 0; i < n; i++ {
		dst[i] = binary.NativeEndian.Uint32(region[i*WordSize:])
	}
	return n
}
