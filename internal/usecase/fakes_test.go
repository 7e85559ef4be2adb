package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aalvaropc/fluidcheck/internal/domain"
	"github.com/aalvaropc/fluidcheck/internal/ports"
)

// --- fakes shared by the check and playback tests ---

type recordReporter struct {
	findings []domain.Finding
	blanks   int
}

func (r *recordReporter) Report(f domain.Finding) { r.findings = append(r.findings, f) }
func (r *recordReporter) Blank()                  { r.blanks++ }

func (r *recordReporter) messages() []string {
	out := make([]string, 0, len(r.findings))
	for _, f := range r.findings {
		out = append(out, f.Message)
	}
	return out
}

func (r *recordReporter) find(level domain.Level, prefix string) (domain.Finding, bool) {
	for _, f := range r.findings {
		if f.Level == level && len(f.Message) >= len(prefix) && f.Message[:len(prefix)] == prefix {
			return f, true
		}
	}
	return domain.Finding{}, false
}

// fakeSynth records every native call as a string.
type fakeSynth struct {
	calls []string

	loadErr  error
	startErr error
	// failNoteOnAt makes the n-th NoteOn call fail, counting from 1.
	failNoteOnAt int
	noteOns      int
	deleted      int
}

func (s *fakeSynth) LoadSoundfont(path string) (int, error) {
	s.calls = append(s.calls, "sfload "+path)
	if s.loadErr != nil {
		return -1, s.loadErr
	}
	return 1, nil
}

func (s *fakeSynth) ProgramSelect(channel uint8, sfontID, bank, preset int) error {
	s.calls = append(s.calls, fmt.Sprintf("program_select %d %d %d %d", channel, sfontID, bank, preset))
	return nil
}

func (s *fakeSynth) Start() error {
	s.calls = append(s.calls, "start")
	return s.startErr
}

func (s *fakeSynth) NoteOn(channel, key, velocity uint8) error {
	s.calls = append(s.calls, fmt.Sprintf("noteon %d %d %d", channel, key, velocity))
	s.noteOns++
	if s.failNoteOnAt > 0 && s.noteOns == s.failNoteOnAt {
		return errors.New("noteon failed")
	}
	return nil
}

func (s *fakeSynth) NoteOff(channel, key uint8) error {
	s.calls = append(s.calls, fmt.Sprintf("noteoff %d %d", channel, key))
	return nil
}

func (s *fakeSynth) Delete() error {
	s.deleted++
	s.calls = append(s.calls, "delete")
	return nil
}

type fakeBinding struct {
	synth      *fakeSynth
	newErr     error
	sampleRate float64
	created    int
	closed     int
}

func (b *fakeBinding) APIVersion() string                       { return "1.0.0" }
func (b *fakeBinding) EngineVersion() (major, minor, micro int) { return 2, 3, 4 }
func (b *fakeBinding) Path() string                             { return "/usr/lib/libfluidsynth.so.3" }
func (b *fakeBinding) Close() error                             { b.closed++; return nil }

func (b *fakeBinding) NewSynth(sampleRate float64) (ports.Synth, error) {
	if b.newErr != nil {
		return nil, b.newErr
	}
	b.created++
	b.sampleRate = sampleRate
	if b.synth == nil {
		b.synth = &fakeSynth{}
	}
	return b.synth, nil
}

type fakeLoader struct {
	binding    *fakeBinding
	err        error
	candidates []string
}

func (l *fakeLoader) Load(candidates []string) (ports.Binding, error) {
	l.candidates = append([]string(nil), candidates...)
	if l.err != nil {
		return nil, l.err
	}
	return l.binding, nil
}

type fakePackages struct {
	version string
	ok      bool
	err     error
}

func (p fakePackages) InstalledVersion(context.Context, string) (string, bool, error) {
	return p.version, p.ok, p.err
}
func (p fakePackages) Source() string { return "dpkg-query" }

// fakeProber answers from fixed tables.
type fakeProber struct {
	engine     []string
	sfDirs     []string
	sfStatus   map[string]domain.SoundfontStatus
	engineLibs []string
	targetLibs []string
	files      map[string]bool
	links      map[string]string
}

func (p fakeProber) FindEngine() []string                    { return append([]string{}, p.engine...) }
func (p fakeProber) FindSoundfontDirs(_ []string) []string   { return append([]string{}, p.sfDirs...) }
func (p fakeProber) FindEngineLibraries(_ []string) []string { return append([]string{}, p.engineLibs...) }
func (p fakeProber) FindTargetLibraries(_ string) []string   { return append([]string{}, p.targetLibs...) }
func (p fakeProber) IsFile(path string) bool                 { return p.files[path] }
func (p fakeProber) InspectSoundfontDir(dir, _ string) domain.SoundfontStatus {
	return p.sfStatus[dir]
}

func (p fakeProber) Readlink(path string) (string, bool) {
	dst, ok := p.links[path]
	return dst, ok
}

// sleepRecorder returns immediately and remembers every requested duration.
type sleepRecorder struct{ slept []time.Duration }

func (s *sleepRecorder) sleep(ctx context.Context, d time.Duration) error {
	s.slept = append(s.slept, d)
	return ctx.Err()
}
