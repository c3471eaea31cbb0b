package synth

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeWAV builds a minimal PCM RIFF/WAVE byte stream.
func makeWAV(t *testing.T, sampleRate, channels, bits, dataLen int) []byte {
	t.Helper()

	blockAlign := channels * bits / 8
	byteRate := sampleRate * blockAlign

	buf := make([]byte, 0, 44+dataLen)
	buf = append(buf, []byte("RIFF")...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(36+dataLen))
	buf = append(buf, []byte("WAVE")...)

	buf = append(buf, []byte("fmt ")...)
	buf = binary.LittleEndian.AppendUint32(buf, 16)
	buf = binary.LittleEndian.AppendUint16(buf, 1) // PCM
	buf = binary.LittleEndian.AppendUint16(buf, uint16(channels))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(sampleRate))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(byteRate))
	buf = binary.LittleEndian.AppendUint16(buf, uint16(blockAlign))
	buf = binary.LittleEndian.AppendUint16(buf, uint16(bits))

	buf = append(buf, []byte("data")...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(dataLen))
	buf = append(buf, make([]byte, dataLen)...)

	return buf
}

func TestWAVDuration(t *testing.T) {
	// 1 second of 16-bit mono at 22050 Hz
	data := makeWAV(t, 22050, 1, 16, 22050*2)

	duration, err := WAVDuration(data)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, duration, 0.001)
}

func TestWAVDurationStereo(t *testing.T) {
	// 0.5 seconds of 16-bit stereo at 44100 Hz
	data := makeWAV(t, 44100, 2, 16, 44100*2)

	duration, err := WAVDuration(data)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, duration, 0.001)
}

func TestWAVDurationInvalid(t *testing.T) {
	cases := map[string][]byte{
		"empty":     {},
		"not riff":  []byte("this is definitely not a wav file"),
		"truncated": makeWAV(t, 22050, 1, 16, 100)[:10],
		"no data":   makeWAV(t, 22050, 1, 16, 0),
	}

	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := WAVDuration(data)
			assert.ErrorIs(t, err, ErrInvalidWAV)
		})
	}
}
