package main

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"

	"github.com/cwbudde/algo-pzfilter/dsp/core"
)

var errFormat = errors.New("pzrender: unsupported audio file")

// clip is decoded audio in planar float form, full scale at +-1.
type clip struct {
	channels   [][]float64
	sampleRate int
	bitDepth   int
}

func (c *clip) frames() int {
	if len(c.channels) == 0 {
		return 0
	}
	return len(c.channels[0])
}

func readAudio(path string) (*clip, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav", ".wave":
		return readWAV(path)
	case ".mp3":
		return readMP3(path)
	default:
		return nil, fmt.Errorf("%w: %s", errFormat, path)
	}
}

func readWAV(path string) (*clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%w: %s is not a PCM WAV file", errFormat, path)
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("pzrender: decoding %s: %w", path, err)
	}

	chans := int(dec.NumChans)
	depth := int(dec.BitDepth)
	if chans <= 0 || depth <= 0 {
		return nil, fmt.Errorf("%w: %s has %d channels at %d bits", errFormat, path, chans, depth)
	}
	scale := 1 / float64(int64(1)<<(depth-1))
	offset := 0.0
	if depth == 8 {
		offset = -128 // 8-bit PCM is unsigned
	}

	frames := len(buf.Data) / chans
	c := &clip{
		channels:   make([][]float64, chans),
		sampleRate: int(dec.SampleRate),
		bitDepth:   depth,
	}
	for ch := range c.channels {
		c.channels[ch] = make([]float64, frames)
	}
	for i := range frames {
		for ch := range chans {
			c.channels[ch][i] = (float64(buf.Data[i*chans+ch]) + offset) * scale
		}
	}
	return c, nil
}

// readMP3 decodes to 16-bit stereo, the decoder's only output layout.
func readMP3(path string) (*clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec, err := mp3.NewDecoder(f)
	if err != nil {
		return nil, fmt.Errorf("pzrender: decoding %s: %w", path, err)
	}
	raw, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("pzrender: decoding %s: %w", path, err)
	}

	frames := len(raw) / 4
	c := &clip{
		channels:   [][]float64{make([]float64, frames), make([]float64, frames)},
		sampleRate: dec.SampleRate(),
		bitDepth:   16,
	}
	for i := range frames {
		for ch := range 2 {
			v := int16(binary.LittleEndian.Uint16(raw[4*i+2*ch:]))
			c.channels[ch][i] = float64(v) / 32768
		}
	}
	return c, nil
}

// writeWAV writes c as signed integer PCM, clipping to full scale. Depths
// other than 16, 24 and 32 bits are written as 16 bits.
func writeWAV(path string, c *clip) error {
	depth := c.bitDepth
	switch depth {
	case 16, 24, 32:
	default:
		depth = 16
	}

	chans := len(c.channels)
	frames := c.frames()
	peak := float64(int64(1)<<(depth-1)) - 1

	data := make([]int, frames*chans)
	for i := range frames {
		for ch := range chans {
			v := core.Clamp(c.channels[ch][i], -1, 1)
			data[i*chans+ch] = int(math.Round(v * peak))
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	enc := wav.NewEncoder(f, c.sampleRate, depth, chans, 1)
	err = enc.Write(&audio.IntBuffer{
		Format:         &audio.Format{NumChannels: chans, SampleRate: c.sampleRate},
		Data:           data,
		SourceBitDepth: depth,
	})
	if cerr := enc.Close(); err == nil {
		err = cerr
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("pzrender: writing %s: %w", path, err)
	}
	return nil
}
