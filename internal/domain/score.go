package domain

import (
	"fmt"
	"time"
)

// MaxVelocity is the MIDI velocity used for every note of the score.
const MaxVelocity uint8 = 127

// QuarterNote is the length of a quarter note in the demo score.
const QuarterNote = 500 * time.Millisecond

// NoteEvent is a single note, a chord, or a rest when Pitches is empty.
type NoteEvent struct {
	Pitches  []uint8
	Velocity uint8
	Duration time.Duration
	Label    string
}

// IsRest reports whether the event only waits.
func (e NoteEvent) IsRest() bool {
	return len(e.Pitches) == 0
}

// IsChord reports whether the event sounds more than one pitch at once.
func (e NoteEvent) IsChord() bool {
	return len(e.Pitches) > 1
}

// Score is an ordered list of note events played on one channel.
type Score struct {
	Title string
	// LeadIn is waited after audio output starts and before the first event.
	LeadIn time.Duration
	Events []NoteEvent
}

// Duration is the total playing time including the lead-in.
func (s Score) Duration() time.Duration {
	total := s.LeadIn
	for _, e := range s.Events {
		total += e.Duration
	}
	return total
}

// NoteOns is the number of note-on messages the score produces.
func (s Score) NoteOns() int {
	n := 0
	for _, e := range s.Events {
		n += len(e.Pitches)
	}
	return n
}

func note(pitch uint8, d time.Duration, label string) NoteEvent {
	return NoteEvent{Pitches: []uint8{pitch}, Velocity: MaxVelocity, Duration: d, Label: label}
}

func chord(pitches []uint8, d time.Duration, label string) NoteEvent {
	return NoteEvent{Pitches: pitches, Velocity: MaxVelocity, Duration: d, Label: label}
}

func rest(d time.Duration) NoteEvent {
	return NoteEvent{Duration: d}
}

// quarters converts a number of quarter notes to a duration.
func quarters(n float64) time.Duration {
	return time.Duration(n * float64(QuarterNote))
}

// Zarathustra returns the opening motif of "Also sprach Zarathustra".
func Zarathustra() Score {
	return Score{
		Title:  "Also sprach Zarathustra",
		LeadIn: time.Second,
		Events: []NoteEvent{
			note(48, quarters(2.0), "C"),
			note(55, quarters(2.0), "G"),
			note(60, quarters(3.5), "C"),
			rest(quarters(0.25)),
			chord([]uint8{48, 52, 55, 67, 72, 76}, quarters(0.25), "C E G G C E"),
			rest(quarters(0.25)),
			chord([]uint8{48, 51, 55, 67, 72, 75}, quarters(3.75), "C Eb G G C Eb"),
			rest(250 * time.Millisecond),
		},
	}
}

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// PitchName returns the scientific pitch name of a MIDI note (60 is C4).
func PitchName(pitch uint8) string {
	return fmt.Sprintf("%s%d", noteNames[pitch%12], int(pitch)/12-1)
}
