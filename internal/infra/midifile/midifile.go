// Package midifile renders a score as a Standard MIDI File.
package midifile

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/afero"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/aalvaropc/fluidcheck/internal/domain"
)

// Resolution is the number of ticks per quarter note.
const Resolution = smf.MetricTicks(480)

// BPM makes one quarter note last domain.QuarterNote.
const BPM = float64(time.Minute / domain.QuarterNote)

// Ticks converts a duration to ticks at BPM.
func Ticks(d time.Duration) uint32 {
	if d <= 0 {
		return 0
	}
	return uint32(int64(d) * int64(Resolution.Ticks4th()) / int64(domain.QuarterNote))
}

// Encode builds a single-track SMF for s on channel ch. The lead-in is
// playback pacing and is not part of the file.
func Encode(s domain.Score, ch uint8) (*smf.SMF, error) {
	var tr smf.Track
	tr.Add(0, smf.MetaTrackSequenceName(s.Title))
	tr.Add(0, smf.MetaTempo(BPM))

	var delta uint32
	for _, ev := range s.Events {
		if ev.IsRest() {
			delta += Ticks(ev.Duration)
			continue
		}
		for _, k := range ev.Pitches {
			tr.Add(delta, midi.NoteOn(ch, k, ev.Velocity))
			delta = 0
		}
		delta = Ticks(ev.Duration)
		for _, k := range ev.Pitches {
			tr.Add(delta, midi.NoteOff(ch, k))
			delta = 0
		}
	}
	tr.Close(delta)

	out := smf.New()
	out.TimeFormat = Resolution
	if err := out.Add(tr); err != nil {
		return nil, fmt.Errorf("add track: %w", err)
	}
	return out, nil
}

// Write encodes s to w.
func Write(w io.Writer, s domain.Score, ch uint8) error {
	f, err := Encode(s, ch)
	if err != nil {
		return err
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write smf: %w", err)
	}
	return nil
}

// Exporter writes scores to files on fs.
type Exporter struct {
	fs afero.Fs
}

type Option func(*Exporter)

func WithFs(fs afero.Fs) Option {
	return func(e *Exporter) {
		if fs != nil {
			e.fs = fs
		}
	}
}

func NewExporter(opts ...Option) *Exporter {
	e := &Exporter{fs: afero.NewOsFs()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Export writes s to path, replacing any existing file.
func (e *Exporter) Export(path string, s domain.Score, ch uint8) error {
	if path == "" {
		return &domain.OpError{Op: "midifile.export", Kind: domain.KindInvalidConfig, Err: domain.ErrInvalidConfig}
	}

	f, err := e.fs.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return &domain.OpError{Op: "midifile.export", Kind: domain.KindExecution, Path: path, Err: err}
	}
	werr := Write(f, s, ch)
	cerr := f.Close()
	if werr != nil {
		return &domain.OpError{Op: "midifile.export", Kind: domain.KindExecution, Path: path, Err: werr}
	}
	if cerr != nil {
		return &domain.OpError{Op: "midifile.export", Kind: domain.KindExecution, Path: path, Err: cerr}
	}
	return nil
}
