// Package audio decodes WAV files into the sample format the whisper
// backend consumes: 16 kHz mono float32 in [-1, 1].
package audio

import (
	"fmt"
	"os"

	"github.com/go-audio/wav"
	"github.com/zeozeozeo/gomplerate"
)

// TargetSampleRate is the sample rate whisper.cpp requires.
const TargetSampleRate = 16000

// ReadWAV decodes the WAV file at path and returns 16 kHz mono float32
// samples. Multi-channel audio is downmixed by averaging and non-16kHz
// audio is resampled.
func ReadWAV(path string) ([]float32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("audio: open %q: %w", path, err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("audio: %q is not a valid WAV file", path)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("audio: decode %q: %w", path, err)
	}
	if len(buf.Data) == 0 {
		return nil, fmt.Errorf("audio: %q contains no samples", path)
	}

	bitDepth := int(dec.BitDepth)
	if bitDepth == 0 {
		bitDepth = 16
	}

	samples, err := toInt16(buf.Data, bitDepth)
	if err != nil {
		return nil, fmt.Errorf("audio: decode %q: %w", path, err)
	}

	channels := buf.Format.NumChannels
	if channels > 1 {
		samples = downmix(samples, channels)
	}

	rate := buf.Format.SampleRate
	if rate != TargetSampleRate {
		samples, err = resample(samples, rate, TargetSampleRate)
		if err != nil {
			return nil, fmt.Errorf("audio: resample %q from %dHz: %w", path, rate, err)
		}
	}

	return toFloat32(samples), nil
}

// toInt16 normalizes integer PCM samples to int16 range. WAV 8-bit PCM is
// unsigned with silence at 128, so it is recentered before scaling; wider
// depths are signed and shifted down. Unknown depths are rejected rather
// than silently corrupted.
func toInt16(data []int, bitDepth int) ([]int16, error) {
	out := make([]int16, len(data))
	switch bitDepth {
	case 8:
		for i, s := range data {
			out[i] = int16((s - 128) << 8)
		}
	case 16:
		for i, s := range data {
			out[i] = int16(s)
		}
	case 24:
		for i, s := range data {
			out[i] = int16(s >> 8)
		}
	case 32:
		for i, s := range data {
			out[i] = int16(s >> 16)
		}
	default:
		return nil, fmt.Errorf("unsupported bit depth %d", bitDepth)
	}
	return out, nil
}

// downmix averages interleaved channels into mono.
func downmix(samples []int16, channels int) []int16 {
	mono := make([]int16, len(samples)/channels)
	for i := range mono {
		var sum int32
		for ch := 0; ch < channels; ch++ {
			sum += int32(samples[i*channels+ch])
		}
		mono[i] = int16(sum / int32(channels))
	}
	return mono
}

// resample converts mono samples from one rate to another.
func resample(samples []int16, fromRate, toRate int) ([]int16, error) {
	resampler, err := gomplerate.NewResampler(1, fromRate, toRate)
	if err != nil {
		return nil, err
	}
	return resampler.ResampleInt16(samples), nil
}

// toFloat32 converts int16 samples to float32 normalized to [-1, 1].
func toFloat32(samples []int16) []float32 {
	out := make([]float32, len(samples))
	for i, s := range samples {
		out[i] = float32(s) / 32768.0
	}
	return out
}
