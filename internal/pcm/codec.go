// Package pcm converts short audio clips between the three shapes the app
// touches: base64 text from the generative service, raw interleaved 16-bit
// PCM bytes, and a de-interleaved normalized buffer that can be packaged
// into a standalone WAV container for playback or download.
package pcm

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Buffer holds decoded audio: one normalized sample slice per channel.
// Samples are in [-1.0, 1.0) after int16 decoding.
type Buffer struct {
	SampleRate int
	Channels   [][]float64
}

// NumChannels returns the channel count
func (b *Buffer) NumChannels() int {
	return len(b.Channels)
}

// FrameCount returns the number of frames (samples per channel)
func (b *Buffer) FrameCount() int {
	if len(b.Channels) == 0 {
		return 0
	}
	return len(b.Channels[0])
}

// DecodeBase64 decodes base64 text into raw bytes. Invalid input is a
// fatal decode error for the clip - there is no partial recovery.
func DecodeBase64(s string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid base64 audio payload: %w", err)
	}
	return data, nil
}

// EncodeBase64 encodes raw bytes as base64 text for outbound transmission
// to the generative service.
func EncodeBase64(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// DecodePCM interprets raw little-endian 16-bit interleaved PCM bytes as a
// normalized Buffer. A trailing partial frame is silently dropped; sample i
// of channel c is read from linear index i*numChannels+c and divided by
// 32768 to land in [-1.0, 1.0).
func DecodePCM(raw []byte, sampleRate, numChannels int) (*Buffer, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate %d", sampleRate)
	}
	if numChannels <= 0 {
		return nil, fmt.Errorf("invalid channel count %d", numChannels)
	}

	bytesPerFrame := 2 * numChannels
	frameCount := len(raw) / bytesPerFrame

	buf := &Buffer{
		SampleRate: sampleRate,
		Channels:   make([][]float64, numChannels),
	}
	for c := 0; c < numChannels; c++ {
		buf.Channels[c] = make([]float64, frameCount)
	}

	for i := 0; i < frameCount; i++ {
		for c := 0; c < numChannels; c++ {
			off := (i*numChannels + c) * 2
			sample := int16(binary.LittleEndian.Uint16(raw[off : off+2]))
			buf.Channels[c][i] = float64(sample) / 32768.0
		}
	}

	return buf, nil
}

// EncodeWAV packages a Buffer into a standalone WAV byte container: a
// 44-byte RIFF/WAVE PCM header followed by re-interleaved 16-bit
// little-endian samples. Each sample is clamped to [-1, 1] and scaled
// asymmetrically (negative values by 32768, non-negative by 32767) to stay
// bit-compatible with consumers expecting standard 16-bit PCM files.
func EncodeWAV(buf *Buffer) ([]byte, error) {
	if buf == nil || buf.NumChannels() == 0 {
		return nil, fmt.Errorf("empty audio buffer")
	}

	numChannels := buf.NumChannels()
	frameCount := buf.FrameCount()

	// Interleave and quantize into an IntBuffer for the WAV encoder
	intBuf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: numChannels,
			SampleRate:  buf.SampleRate,
		},
		SourceBitDepth: 16,
		Data:           make([]int, frameCount*numChannels),
	}

	for i := 0; i < frameCount; i++ {
		for c := 0; c < numChannels; c++ {
			intBuf.Data[i*numChannels+c] = quantize(buf.Channels[c][i])
		}
	}

	ws := newWriteSeeker()
	enc := wav.NewEncoder(ws, buf.SampleRate, 16, numChannels, 1) // 1 = PCM
	if err := enc.Write(intBuf); err != nil {
		return nil, fmt.Errorf("failed to write WAV samples: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize WAV container: %w", err)
	}

	return ws.Bytes(), nil
}

// quantize clamps a normalized sample and scales it to a signed 16-bit
// integer. The asymmetric scale matches conventional PCM round-trip
// behavior and must not be "fixed".
func quantize(sample float64) int {
	if sample < -1 {
		sample = -1
	} else if sample > 1 {
		sample = 1
	}
	if sample < 0 {
		return int(sample * 32768)
	}
	return int(sample * 32767)
}
