package spiflash

import "encoding/binary"

// encodeWrite builds a WRITE frame: command byte, little-endian word
// address, word count, then the words themselves little-endian.
func encodeWrite(wordAddr int, words []uint32) []byte {
	frame := make([]byte, 6+len(words)*4)
	frame[0] = WRITE
	binary.LittleEndian.PutUint32(frame[1:], uint32(wordAddr))
	frame[5] = uint8(len(words))
	for i, w := range words {
		binary.LittleEndian.PutUint32(frame[6+i*4:], w)
	}
	return frame
}

// encodeErase builds an ERASE frame: command byte, little-endian word
// address.
func encodeErase(wordAddr int) []byte {
	frame := make([]byte, 5)
	frame[0] = ERASE
	binary.LittleEndian.PutUint32(frame[1:], uint32(wordAddr))
	return frame
}
