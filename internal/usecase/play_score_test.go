package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aalvaropc/fluidcheck/internal/domain"
)

func zarathustraCalls() []string {
	var out []string
	for _, ev := range domain.Zarathustra().Events {
		for _, k := range ev.Pitches {
			out = append(out, fmt.Sprintf("noteon 0 %d 127", k))
		}
		for _, k := range ev.Pitches {
			out = append(out, fmt.Sprintf("noteoff 0 %d", k))
		}
	}
	return out
}

func TestPlayScore_FullRun(t *testing.T) {
	rep := &recordReporter{}
	sl := &sleepRecorder{}
	b := &fakeBinding{}

	var observed []domain.State
	uc := NewPlayScore(rep,
		WithSleep(sl.sleep),
		WithStateObserver(func(s domain.State) { observed = append(observed, s) }),
	)

	states, err := uc.Execute(context.Background(), b, "/usr/share/soundfonts/default.sf2")
	require.NoError(t, err)

	require.Equal(t, []domain.State{
		domain.StateIdle,
		domain.StateSynthCreated,
		domain.StateSoundfontLoaded,
		domain.StateProgramSelected,
		domain.StateStarted,
		domain.StatePlaying,
		domain.StateDeleted,
	}, states)
	require.Equal(t, states[1:], observed)
	for i := 1; i < len(states); i++ {
		require.True(t, domain.CanTransition(states[i-1], states[i]), "%s -> %s", states[i-1], states[i])
	}

	require.Equal(t, 1, b.created)
	require.Equal(t, domain.SampleRate, b.sampleRate)

	want := []string{
		"sfload /usr/share/soundfonts/default.sf2",
		"program_select 0 1 0 0",
		"start",
	}
	want = append(want, zarathustraCalls()...)
	want = append(want, "delete")
	require.Equal(t, want, b.synth.calls)

	require.Equal(t, []time.Duration{
		time.Second,
		time.Second,
		time.Second,
		1750 * time.Millisecond,
		125 * time.Millisecond,
		125 * time.Millisecond,
		125 * time.Millisecond,
		1875 * time.Millisecond,
		250 * time.Millisecond,
	}, sl.slept)

	msgs := rep.messages()
	require.Equal(t, "Creating Synth object...", msgs[0])
	require.Equal(t, "Deleting the Synth interface...", msgs[len(msgs)-1])
	require.Contains(t, msgs, "Selecting channel 0, bank 0, preset 0...")
}

func TestPlayScore_PitchOrder(t *testing.T) {
	b := &fakeBinding{}
	sl := &sleepRecorder{}

	_, err := NewPlayScore(&recordReporter{}, WithSleep(sl.sleep)).Execute(context.Background(), b, "sf.sf2")
	require.NoError(t, err)

	var ons []string
	for _, c := range b.synth.calls {
		if len(c) > 6 && c[:6] == "noteon" {
			ons = append(ons, c)
		}
	}
	require.Equal(t, []string{
		"noteon 0 48 127",
		"noteon 0 55 127",
		"noteon 0 60 127",
		"noteon 0 48 127", "noteon 0 52 127", "noteon 0 55 127", "noteon 0 67 127", "noteon 0 72 127", "noteon 0 76 127",
		"noteon 0 48 127", "noteon 0 51 127", "noteon 0 55 127", "noteon 0 67 127", "noteon 0 72 127", "noteon 0 75 127",
	}, ons)
}

func TestPlayScore_EmptySoundfontSkips(t *testing.T) {
	rep := &recordReporter{}
	b := &fakeBinding{}

	states, err := NewPlayScore(rep, WithSleep((&sleepRecorder{}).sleep)).Execute(context.Background(), b, "")
	require.NoError(t, err)
	require.Equal(t, []domain.State{domain.StateIdle}, states)
	require.Zero(t, b.created)

	f, ok := rep.find(domain.LevelFail, "Soundfont is not provided")
	require.True(t, ok)
	require.Equal(t, "Soundfont is not provided, exiting...", f.Message)
}

func TestPlayScore_LoadFailureStillDeletes(t *testing.T) {
	loadErr := errors.New("cannot read sf2")
	b := &fakeBinding{synth: &fakeSynth{loadErr: loadErr}}

	states, err := NewPlayScore(&recordReporter{}, WithSleep((&sleepRecorder{}).sleep)).Execute(context.Background(), b, "broken.sf2")
	require.ErrorIs(t, err, loadErr)
	require.Equal(t, []domain.State{domain.StateIdle, domain.StateSynthCreated, domain.StateDeleted}, states)
	require.Equal(t, 1, b.synth.deleted)
}

func TestPlayScore_NewSynthFailure(t *testing.T) {
	newErr := errors.New("no audio driver")
	b := &fakeBinding{newErr: newErr}
	rep := &recordReporter{}

	states, err := NewPlayScore(rep, WithSleep((&sleepRecorder{}).sleep)).Execute(context.Background(), b, "sf.sf2")
	require.ErrorIs(t, err, newErr)
	require.Equal(t, []domain.State{domain.StateIdle}, states)

	_, ok := rep.find(domain.LevelFail, "Could not create the synth")
	require.True(t, ok)
}

func TestPlayScore_CancelReleasesNotes(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b := &fakeBinding{}
	calls := 0
	sleep := func(ctx context.Context, _ time.Duration) error {
		calls++
		// lead-in, then cancel while the first note is held
		if calls == 2 {
			cancel()
		}
		return ctx.Err()
	}

	states, err := NewPlayScore(&recordReporter{}, WithSleep(sleep)).Execute(ctx, b, "sf.sf2")
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, domain.StateDeleted, states[len(states)-1])
	require.Equal(t, []string{
		"sfload sf.sf2",
		"program_select 0 1 0 0",
		"start",
		"noteon 0 48 127",
		"noteoff 0 48",
		"delete",
	}, b.synth.calls)
}

func TestPlayScore_NoteOnFailureReleasesHeldNotes(t *testing.T) {
	s := &fakeSynth{failNoteOnAt: 2}
	b := &fakeBinding{synth: s}
	chord := domain.Score{
		Title: "chord",
		Events: []domain.NoteEvent{
			{Pitches: []uint8{60, 64}, Velocity: domain.MaxVelocity, Duration: time.Millisecond},
		},
	}

	uc := NewPlayScore(&recordReporter{}, WithScore(chord), WithSleep((&sleepRecorder{}).sleep))
	_, err := uc.Execute(context.Background(), b, "sf.sf2")
	require.Error(t, err)
	require.Equal(t, []string{
		"sfload sf.sf2",
		"program_select 0 1 0 0",
		"start",
		"noteon 0 60 127",
		"noteon 0 64 127",
		"noteoff 0 60",
		"delete",
	}, s.calls)
}
