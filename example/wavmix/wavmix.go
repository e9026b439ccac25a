// Package wavmix is a worked example of driving a dsptick.Interpreter
// with a real job payload: two WAV files are decoded one buffer at a
// time, mixed sample-by-sample, and the result is written to a third
// WAV file, one dsptick tick per buffer.
//
// This package is a demonstration consumer, not part of the executor
// core: it is free to allocate per tick (decoding and buffer setup),
// something the core itself never does.
package wavmix

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	dsptick "github.com/ryanmanchester/supercollider"
)

// ErrChannelMismatch is returned when the two source files don't share
// a channel count, so they can't be summed sample-for-sample.
var ErrChannelMismatch = errors.New("wavmix: input files have different channel counts")

// Mixer decodes two WAV inputs and writes their sum to a WAV output,
// one tick at a time. Build a dsptick.Graph for it with Graph, drive
// ticks with RunAll, and release file handles with Close.
type Mixer struct {
	bufferSize int

	fileA, fileB, fileOut *os.File
	decA, decB            *wav.Decoder
	enc                   *wav.Encoder

	bufA, bufB *audio.IntBuffer
	mixed      []int

	readA, readB int
	eof          bool
	err          error
}

// Open opens the two source files and the destination file and
// prepares decoders sized to bufferSize frames per channel. The
// sources must share a channel count; the output inherits sample rate,
// channel count and bit depth from the first source.
func Open(pathA, pathB, pathOut string, bufferSize int) (*Mixer, error) {
	fa, err := os.Open(pathA)
	if err != nil {
		return nil, err
	}
	fb, err := os.Open(pathB)
	if err != nil {
		fa.Close()
		return nil, err
	}

	da := wav.NewDecoder(fa)
	db := wav.NewDecoder(fb)
	if !da.IsValidFile() || !db.IsValidFile() {
		fa.Close()
		fb.Close()
		return nil, errors.New("wavmix: invalid wav input")
	}
	if da.Format().NumChannels != db.Format().NumChannels {
		fa.Close()
		fb.Close()
		return nil, ErrChannelMismatch
	}

	fo, err := os.Create(pathOut)
	if err != nil {
		fa.Close()
		fb.Close()
		return nil, err
	}
	numChannels := da.Format().NumChannels
	enc := wav.NewEncoder(fo, int(da.SampleRate), int(da.BitDepth), numChannels, 1)
	m := &Mixer{
		bufferSize: bufferSize,
		fileA:      fa,
		fileB:      fb,
		fileOut:    fo,
		decA:       da,
		decB:       db,
		enc:        enc,
		bufA: &audio.IntBuffer{
			Format: da.Format(),
			Data:   make([]int, bufferSize*numChannels),
		},
		bufB: &audio.IntBuffer{
			Format: db.Format(),
			Data:   make([]int, bufferSize*numChannels),
		},
		mixed: make([]int, bufferSize*numChannels),
	}
	return m, nil
}

// Close releases every open file handle, flushing the output encoder
// first. Safe to call once after the Mixer is done, regardless of
// whether RunAll ran to completion or stopped on error.
func (m *Mixer) Close() error {
	var errs []error
	if err := m.enc.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := m.fileOut.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := m.fileA.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := m.fileB.Close(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}

// EOF reports whether the last tick hit the end of both inputs.
func (m *Mixer) EOF() bool { return m.eof }

// Err returns the first error observed by a job, if any.
func (m *Mixer) Err() error { return m.err }

// Graph builds a four-node graph: decodeA and decodeB run in parallel,
// release mix once both have run, and mix releases encode. Build a
// fresh graph per Mixer; a Graph is not meant to be rebuilt across
// files.
func (m *Mixer) Graph() *dsptick.Graph {
	b := dsptick.NewBuilder()

	encode := b.AddNode(m.encodeJob, nil, 1)
	mix := b.AddNode(m.mixJob, []*dsptick.Node{encode}, 2)
	decodeA := b.AddNode(m.decodeJob(&m.bufA, &m.decA, &m.readA), []*dsptick.Node{mix}, 0)
	decodeB := b.AddNode(m.decodeJob(&m.bufB, &m.decB, &m.readB), []*dsptick.Node{mix}, 0)

	b.AddInitial(decodeA)
	b.AddInitial(decodeB)
	return b.Build()
}

func (m *Mixer) decodeJob(buf **audio.IntBuffer, dec **wav.Decoder, read *int) dsptick.Job {
	return func(int) {
		if m.err != nil {
			return
		}
		n, err := (*dec).PCMBuffer(*buf)
		if err != nil && err != io.EOF {
			m.err = fmt.Errorf("wavmix: decode: %w", err)
			return
		}
		*read = n
	}
}

func (m *Mixer) mixJob(int) {
	if m.err != nil {
		return
	}
	n := m.readA
	if m.readB > n {
		n = m.readB
	}
	if n == 0 {
		m.eof = true
		return
	}
	for i := 0; i < n; i++ {
		var sum int
		if i < m.readA {
			sum += m.bufA.Data[i]
		}
		if i < m.readB {
			sum += m.bufB.Data[i]
		}
		const max32 = 1<<31 - 1
		const min32 = -1 << 31
		if sum > max32 {
			sum = max32
		} else if sum < min32 {
			sum = min32
		}
		m.mixed[i] = sum
	}
	m.readA = n
}

func (m *Mixer) encodeJob(int) {
	if m.err != nil || m.eof {
		return
	}
	out := &audio.IntBuffer{
		Format: m.bufA.Format,
		Data:   m.mixed[:m.readA],
	}
	if err := m.enc.Write(out); err != nil {
		m.err = fmt.Errorf("wavmix: encode: %w", err)
	}
}

// RunAll drives it through one tick per buffer until both sources are
// exhausted or a job records an error, returning the number of ticks
// run and the first error encountered (if any). it must already have
// m.Graph() installed.
func RunAll(it *dsptick.Interpreter, m *Mixer) (ticks int, err error) {
	for {
		if !it.BeginTick() {
			return ticks, errors.New("wavmix: interpreter has no graph installed")
		}
		it.RunMaster()
		ticks++

		if m.err != nil {
			return ticks, m.err
		}
		if m.eof {
			return ticks, nil
		}
	}
}
