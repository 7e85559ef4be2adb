package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aalvaropc/fluidcheck/internal/domain"
	"github.com/aalvaropc/fluidcheck/internal/ports"
)

// SleepFunc blocks for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// PlayScore drives a synthesizer through the fixed demo score.
type PlayScore struct {
	reporter   ports.Reporter
	score      domain.Score
	program    domain.Program
	sampleRate float64
	sleep      SleepFunc
	log        *slog.Logger
	observe    func(domain.State)
}

type PlayOption func(*PlayScore)

// WithSleep replaces the wall-clock sleep, mostly for tests.
func WithSleep(sleep SleepFunc) PlayOption {
	return func(uc *PlayScore) {
		if sleep != nil {
			uc.sleep = sleep
		}
	}
}

// WithScore plays s instead of the default score.
func WithScore(s domain.Score) PlayOption {
	return func(uc *PlayScore) { uc.score = s }
}

// WithStateObserver is called on every state transition.
func WithStateObserver(fn func(domain.State)) PlayOption {
	return func(uc *PlayScore) { uc.observe = fn }
}

func WithPlayLogger(l *slog.Logger) PlayOption {
	return func(uc *PlayScore) {
		if l != nil {
			uc.log = l
		}
	}
}

func NewPlayScore(reporter ports.Reporter, opts ...PlayOption) *PlayScore {
	uc := &PlayScore{
		reporter:   reporter,
		score:      domain.Zarathustra(),
		program:    domain.DefaultProgram,
		sampleRate: domain.SampleRate,
		sleep:      sleepContext,
		log:        slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Execute plays the score through b and returns the states it went through.
// An empty soundfont path skips playback without creating a synth. Once a
// synth exists it is always deleted.
func (uc *PlayScore) Execute(ctx context.Context, b ports.Binding, soundfont string) (states []domain.State, err error) {
	states = []domain.State{domain.StateIdle}
	to := func(s domain.State) {
		from := states[len(states)-1]
		if !domain.CanTransition(from, s) {
			panic(fmt.Sprintf("playback: illegal transition %s -> %s", from, s))
		}
		uc.log.Debug("playback.state", "from", from, "to", s)
		states = append(states, s)
		if uc.observe != nil {
			uc.observe(s)
		}
	}

	if soundfont == "" {
		uc.fail("Soundfont is not provided, exiting...")
		return states, nil
	}

	uc.plain("Creating Synth object...")
	synth, err := b.NewSynth(uc.sampleRate)
	if err != nil {
		uc.fail(fmt.Sprintf("Could not create the synth: %v", err))
		return states, err
	}
	to(domain.StateSynthCreated)

	defer func() {
		uc.plain("Deleting the Synth interface...")
		if derr := synth.Delete(); derr != nil && err == nil {
			err = derr
		}
		to(domain.StateDeleted)
	}()

	uc.plain(fmt.Sprintf("Loading soundfont: %s...", soundfont))
	sfid, err := synth.LoadSoundfont(soundfont)
	if err != nil {
		uc.fail(fmt.Sprintf("Could not load the soundfont: %v", err))
		return states, err
	}
	to(domain.StateSoundfontLoaded)

	p := uc.program
	uc.plain(fmt.Sprintf("Selecting channel %d, bank %d, preset %d...", p.Channel, p.Bank, p.Preset))
	if err := synth.ProgramSelect(p.Channel, sfid, p.Bank, p.Preset); err != nil {
		uc.fail(fmt.Sprintf("Could not select the program: %v", err))
		return states, err
	}
	to(domain.StateProgramSelected)

	uc.reporter.Report(domain.Finding{
		Stage:   domain.StagePlayback,
		Level:   domain.LevelInfo,
		Message: fmt.Sprintf("Playing the opening from '%s'...", uc.score.Title),
	})
	if err := synth.Start(); err != nil {
		uc.fail(fmt.Sprintf("Could not start audio output: %v", err))
		return states, err
	}
	to(domain.StateStarted)

	if err := uc.sleep(ctx, uc.score.LeadIn); err != nil {
		return states, err
	}

	to(domain.StatePlaying)
	for _, ev := range uc.score.Events {
		if err := uc.play(ctx, synth, ev); err != nil {
			if ctx.Err() == nil {
				uc.fail(fmt.Sprintf("Playback failed: %v", err))
			}
			return states, err
		}
	}
	return states, nil
}

// play sounds one event. Notes already on are released even when the wait
// is interrupted.
func (uc *PlayScore) play(ctx context.Context, synth ports.Synth, ev domain.NoteEvent) error {
	if ev.IsRest() {
		return uc.sleep(ctx, ev.Duration)
	}

	ch := uc.program.Channel
	on := make([]uint8, 0, len(ev.Pitches))
	release := func() error {
		var first error
		for _, k := range on {
			if err := synth.NoteOff(ch, k); err != nil && first == nil {
				first = err
			}
		}
		return first
	}

	for _, k := range ev.Pitches {
		if err := synth.NoteOn(ch, k, ev.Velocity); err != nil {
			_ = release()
			return err
		}
		on = append(on, k)
	}
	uc.log.Debug("playback.event", "pitches", ev.Pitches, "label", ev.Label, "duration", ev.Duration)

	if err := uc.sleep(ctx, ev.Duration); err != nil {
		_ = release()
		return err
	}
	return release()
}

func (uc *PlayScore) plain(msg string) {
	uc.reporter.Report(domain.Finding{Stage: domain.StagePlayback, Level: domain.LevelPlain, Message: msg})
}

func (uc *PlayScore) fail(msg string) {
	uc.reporter.Report(domain.Finding{Stage: domain.StagePlayback, Level: domain.LevelFail, Message: msg})
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
