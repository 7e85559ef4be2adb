// Package fluidsynth is a runtime binding to libfluidsynth. The library is
// opened with the platform's dynamic loader, so the binary builds without cgo
// and a missing engine is an ordinary error instead of a link failure.
package fluidsynth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aalvaropc/fluidcheck/internal/domain"
	"github.com/aalvaropc/fluidcheck/internal/ports"
)

// APIVersion is the version of this binding's interface.
const APIVersion = "1.0.0"

const (
	fluidOK     = 0
	fluidFailed = -1
)

// symbols is the subset of the FluidSynth C API the binding calls.
type symbols struct {
	version func(major, minor, micro *int32)

	newSettings    func() uintptr
	deleteSettings func(settings uintptr)
	settingsSetnum func(settings uintptr, name string, val float64) int32

	newSynth      func(settings uintptr) uintptr
	deleteSynth   func(synth uintptr)
	sfload        func(synth uintptr, filename string, resetPresets int32) int32
	programSelect func(synth uintptr, channel, sfontID, bank, preset int32) int32
	noteOn        func(synth uintptr, channel, key, velocity int32) int32
	noteOff       func(synth uintptr, channel, key int32) int32

	newAudioDriver    func(settings, synth uintptr) uintptr
	deleteAudioDriver func(driver uintptr)
}

// Loader opens the first candidate library that exports every required
// symbol.
type Loader struct {
	open func(path string) (*symbols, func() error, error)
}

func NewLoader() *Loader {
	return &Loader{open: openLibrary}
}

var _ ports.BindingLoader = (*Loader)(nil)

func (l *Loader) Load(candidates []string) (ports.Binding, error) {
	var errs []error
	seen := map[string]bool{}
	for _, c := range candidates {
		c = strings.TrimSpace(c)
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true

		syms, closeFn, err := l.open(c)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", c, err))
			continue
		}
		return &Library{path: c, syms: syms, close: closeFn}, nil
	}

	if len(errs) == 0 {
		errs = append(errs, errors.New("no library candidates"))
	}
	return nil, &domain.OpError{
		Op:   "fluidsynth.load",
		Kind: domain.KindBindingUnavailable,
		Err:  fmt.Errorf("%w: %w", domain.ErrBindingUnavailable, errors.Join(errs...)),
	}
}

// Library is an opened libfluidsynth.
type Library struct {
	path  string
	syms  *symbols
	close func() error
}

var _ ports.Binding = (*Library)(nil)

func (l *Library) APIVersion() string { return APIVersion }

func (l *Library) Path() string { return l.path }

func (l *Library) EngineVersion() (major, minor, micro int) {
	var mj, mn, mc int32
	l.syms.version(&mj, &mn, &mc)
	return int(mj), int(mn), int(mc)
}

func (l *Library) NewSynth(sampleRate float64) (ports.Synth, error) {
	settings := l.syms.newSettings()
	if settings == 0 {
		return nil, opErr("new_fluid_settings", "", errors.New("returned NULL"))
	}
	if rc := l.syms.settingsSetnum(settings, "synth.sample-rate", sampleRate); rc != fluidOK {
		l.syms.deleteSettings(settings)
		return nil, opErr("fluid_settings_setnum", "", fmt.Errorf("synth.sample-rate=%v: rc=%d", sampleRate, rc))
	}

	synth := l.syms.newSynth(settings)
	if synth == 0 {
		l.syms.deleteSettings(settings)
		return nil, opErr("new_fluid_synth", "", errors.New("returned NULL"))
	}
	return &Synth{syms: l.syms, settings: settings, synth: synth}, nil
}

func (l *Library) Close() error {
	if l.close == nil {
		return nil
	}
	err := l.close()
	l.close = nil
	return err
}

// Synth owns a fluid_synth_t, its settings and, once started, its audio
// driver.
type Synth struct {
	syms     *symbols
	settings uintptr
	synth    uintptr
	driver   uintptr
	deleted  bool
}

var _ ports.Synth = (*Synth)(nil)

func (s *Synth) LoadSoundfont(path string) (int, error) {
	if s.deleted {
		return fluidFailed, errDeleted
	}
	id := s.syms.sfload(s.synth, path, 1)
	if id == fluidFailed {
		return fluidFailed, opErr("fluid_synth_sfload", path, errors.New("failed to load soundfont"))
	}
	return int(id), nil
}

func (s *Synth) ProgramSelect(channel uint8, sfontID, bank, preset int) error {
	if s.deleted {
		return errDeleted
	}
	if rc := s.syms.programSelect(s.synth, int32(channel), int32(sfontID), int32(bank), int32(preset)); rc != fluidOK {
		return opErr("fluid_synth_program_select", "", fmt.Errorf("channel=%d sfont=%d bank=%d preset=%d: rc=%d", channel, sfontID, bank, preset, rc))
	}
	return nil
}

// Start creates the audio driver, which renders on its own thread.
func (s *Synth) Start() error {
	if s.deleted {
		return errDeleted
	}
	if s.driver != 0 {
		return nil
	}
	d := s.syms.newAudioDriver(s.settings, s.synth)
	if d == 0 {
		return opErr("new_fluid_audio_driver", "", errors.New("no audio driver could be started"))
	}
	s.driver = d
	return nil
}

func (s *Synth) NoteOn(channel, key, velocity uint8) error {
	if s.deleted {
		return errDeleted
	}
	if rc := s.syms.noteOn(s.synth, int32(channel), int32(key), int32(velocity)); rc != fluidOK {
		return opErr("fluid_synth_noteon", "", fmt.Errorf("key=%d: rc=%d", key, rc))
	}
	return nil
}

func (s *Synth) NoteOff(channel, key uint8) error {
	if s.deleted {
		return errDeleted
	}
	if rc := s.syms.noteOff(s.synth, int32(channel), int32(key)); rc != fluidOK {
		return opErr("fluid_synth_noteoff", "", fmt.Errorf("key=%d: rc=%d", key, rc))
	}
	return nil
}

// Delete tears down driver, synth and settings in that order. Calling it
// again is a no-op.
func (s *Synth) Delete() error {
	if s.deleted {
		return nil
	}
	s.deleted = true
	if s.driver != 0 {
		s.syms.deleteAudioDriver(s.driver)
		s.driver = 0
	}
	s.syms.deleteSynth(s.synth)
	s.syms.deleteSettings(s.settings)
	s.synth, s.settings = 0, 0
	return nil
}

var errDeleted = errors.New("fluidsynth: synth already deleted")

func opErr(call, path string, err error) error {
	return &domain.OpError{
		Op:   "fluidsynth." + call,
		Kind: domain.KindExecution,
		Path: path,
		Err:  err,
	}
}
