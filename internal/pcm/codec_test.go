package pcm

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeBase64(t *testing.T) {
	data, err := DecodeBase64("aGVsbG8=")
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), data)
}

func TestDecodeBase64Invalid(t *testing.T) {
	_, err := DecodeBase64("not//==valid!!")
	assert.Error(t, err)
}

func TestEncodeBase64RoundTrip(t *testing.T) {
	raw := []byte{0x00, 0x01, 0xFE, 0xFF}
	decoded, err := DecodeBase64(EncodeBase64(raw))
	require.NoError(t, err)
	assert.Equal(t, raw, decoded)
}

func TestDecodePCMKnownSamples(t *testing.T) {
	// 0x8000 = -32768 and 0x7FFF = 32767 as little-endian int16
	raw := []byte{0x00, 0x80, 0xFF, 0x7F}

	buf, err := DecodePCM(raw, 24000, 1)
	require.NoError(t, err)
	require.Equal(t, 1, buf.NumChannels())
	require.Equal(t, 2, buf.FrameCount())

	assert.Equal(t, -1.0, buf.Channels[0][0])
	assert.Equal(t, 32767.0/32768.0, buf.Channels[0][1])
}

func TestDecodePCMDropsTrailingPartialFrame(t *testing.T) {
	// 5 bytes mono: two complete frames plus one dangling byte
	buf, err := DecodePCM([]byte{0x01, 0x00, 0x02, 0x00, 0x03}, 44100, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, buf.FrameCount())

	// 6 bytes stereo: one complete frame, the half frame is dropped
	buf, err = DecodePCM([]byte{0x01, 0x00, 0x02, 0x00, 0x03, 0x00}, 44100, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, buf.FrameCount())
}

func TestDecodePCMDeinterleavesChannels(t *testing.T) {
	// Interleaved stereo frames: (100, -100), (200, -200)
	raw := make([]byte, 8)
	for i, sample := range []int16{100, -100, 200, -200} {
		binary.LittleEndian.PutUint16(raw[i*2:], uint16(sample))
	}

	buf, err := DecodePCM(raw, 48000, 2)
	require.NoError(t, err)
	require.Equal(t, 2, buf.NumChannels())

	assert.Equal(t, 100.0/32768.0, buf.Channels[0][0])
	assert.Equal(t, 200.0/32768.0, buf.Channels[0][1])
	assert.Equal(t, -100.0/32768.0, buf.Channels[1][0])
	assert.Equal(t, -200.0/32768.0, buf.Channels[1][1])
}

func TestDecodePCMRejectsBadParams(t *testing.T) {
	_, err := DecodePCM([]byte{0, 0}, 0, 1)
	assert.Error(t, err)
	_, err = DecodePCM([]byte{0, 0}, 44100, 0)
	assert.Error(t, err)
}

func TestEncodeWAVHeader(t *testing.T) {
	buf := &Buffer{
		SampleRate: 24000,
		Channels:   [][]float64{{0, 0.5, -0.5, 0.25}},
	}

	out, err := EncodeWAV(buf)
	require.NoError(t, err)

	// 44-byte header followed by 4 mono 16-bit samples
	require.Equal(t, 44+8, len(out))

	assert.Equal(t, "RIFF", string(out[0:4]))
	assert.Equal(t, uint32(len(out)-8), binary.LittleEndian.Uint32(out[4:8]))
	assert.Equal(t, "WAVE", string(out[8:12]))
	assert.Equal(t, "fmt ", string(out[12:16]))
	assert.Equal(t, uint32(16), binary.LittleEndian.Uint32(out[16:20]))
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(out[20:22]), "format tag must be PCM")
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(out[22:24]), "channel count")
	assert.Equal(t, uint32(24000), binary.LittleEndian.Uint32(out[24:28]), "sample rate")
	assert.Equal(t, uint32(24000*2), binary.LittleEndian.Uint32(out[28:32]), "byte rate")
	assert.Equal(t, uint16(2), binary.LittleEndian.Uint16(out[32:34]), "block align")
	assert.Equal(t, uint16(16), binary.LittleEndian.Uint16(out[34:36]), "bits per sample")
	assert.Equal(t, "data", string(out[36:40]))
	assert.Equal(t, uint32(len(out)-44), binary.LittleEndian.Uint32(out[40:44]))
}

func TestEncodeWAVAsymmetricScaling(t *testing.T) {
	buf := &Buffer{
		SampleRate: 24000,
		// Out-of-range values must clamp before scaling
		Channels: [][]float64{{-1.0, 1.0, -2.0, 2.0}},
	}

	out, err := EncodeWAV(buf)
	require.NoError(t, err)

	samples := out[44:]
	assert.Equal(t, int16(-32768), int16(binary.LittleEndian.Uint16(samples[0:2])))
	assert.Equal(t, int16(32767), int16(binary.LittleEndian.Uint16(samples[2:4])))
	assert.Equal(t, int16(-32768), int16(binary.LittleEndian.Uint16(samples[4:6])))
	assert.Equal(t, int16(32767), int16(binary.LittleEndian.Uint16(samples[6:8])))
}

func TestEncodeWAVInterleavesStereo(t *testing.T) {
	buf := &Buffer{
		SampleRate: 44100,
		Channels: [][]float64{
			{0.5, 0.25},
			{-0.5, -0.25},
		},
	}

	out, err := EncodeWAV(buf)
	require.NoError(t, err)

	// The container must be readable by a standard WAV decoder
	dec := wav.NewDecoder(bytes.NewReader(out))
	require.True(t, dec.IsValidFile())

	pcmBuf, err := dec.FullPCMBuffer()
	require.NoError(t, err)
	require.Equal(t, 2, pcmBuf.Format.NumChannels)
	require.Equal(t, 44100, pcmBuf.Format.SampleRate)
	require.Len(t, pcmBuf.Data, 4)

	// Interleaved order: L0 R0 L1 R1 (quantization truncates toward zero)
	assert.Equal(t, 16383, pcmBuf.Data[0])  // 0.5 * 32767
	assert.Equal(t, -16384, pcmBuf.Data[1]) // -0.5 * 32768
	assert.Equal(t, 8191, pcmBuf.Data[2])   // 0.25 * 32767
	assert.Equal(t, -8192, pcmBuf.Data[3])  // -0.25 * 32768
}

func TestEncodeWAVEmptyBuffer(t *testing.T) {
	_, err := EncodeWAV(nil)
	assert.Error(t, err)
	_, err = EncodeWAV(&Buffer{SampleRate: 44100})
	assert.Error(t, err)
}

// Round-trip law: decoding raw PCM and re-encoding it reproduces the
// original samples to within 16-bit quantization error. Negative samples
// survive exactly (÷32768 then ×32768); non-negative samples may lose up
// to 2 LSB from the asymmetric ×32767 on the way back out.
func TestPCMRoundTrip(t *testing.T) {
	values := []int16{-32768, -12345, -1, 0, 1, 777, 12345, 32767}
	raw := make([]byte, len(values)*2)
	for i, v := range values {
		binary.LittleEndian.PutUint16(raw[i*2:], uint16(v))
	}

	buf, err := DecodePCM(raw, 24000, 1)
	require.NoError(t, err)

	out, err := EncodeWAV(buf)
	require.NoError(t, err)

	samples := out[44:]
	require.Len(t, samples, len(raw))
	for i, want := range values {
		got := int16(binary.LittleEndian.Uint16(samples[i*2:]))
		if want < 0 {
			assert.Equal(t, want, got, "negative sample %d must survive exactly", i)
		} else {
			assert.InDelta(t, float64(want), float64(got), 2, "sample %d", i)
		}
	}
}
