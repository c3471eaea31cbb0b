package synth

import (
	"encoding/binary"
	"errors"
)

var ErrInvalidWAV = errors.New("invalid WAV data")

const wavHeaderMin = 12

// WAVDuration reads the duration in seconds from a RIFF/WAVE byte stream.
// It walks the chunk list for "fmt " (byte rate) and "data" (payload size)
// rather than assuming the canonical 44-byte header.
func WAVDuration(data []byte) (float64, error) {
	if len(data) < wavHeaderMin || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return 0, ErrInvalidWAV
	}

	var byteRate uint32
	var dataSize uint32

	offset := wavHeaderMin
	for offset+8 <= len(data) {
		chunkID := string(data[offset : offset+4])
		chunkSize := binary.LittleEndian.Uint32(data[offset+4 : offset+8])
		body := offset + 8

		switch chunkID {
		case "fmt ":
			if body+16 > len(data) {
				return 0, ErrInvalidWAV
			}
			byteRate = binary.LittleEndian.Uint32(data[body+8 : body+12])
		case "data":
			dataSize = chunkSize
		}

		// Chunks are word-aligned.
		offset = body + int(chunkSize)
		if chunkSize%2 == 1 {
			offset++
		}
	}

	if byteRate == 0 || dataSize == 0 {
		return 0, ErrInvalidWAV
	}

	return float64(dataSize) / float64(byteRate), nil
}
