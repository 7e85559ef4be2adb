// Package fsprobe implements the read-only filesystem probes that locate the
// FluidSynth executable, soundfonts and shared libraries.
package fsprobe

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/aalvaropc/fluidcheck/internal/domain"
	"github.com/aalvaropc/fluidcheck/internal/ports"
)

type Prober struct {
	fs      afero.Fs
	profile domain.Profile
}

type Option func(*Prober)

// WithFs swaps the filesystem, mostly for tests.
func WithFs(fs afero.Fs) Option {
	return func(p *Prober) {
		if fs != nil {
			p.fs = fs
		}
	}
}

func NewProber(profile domain.Profile, opts ...Option) *Prober {
	p := &Prober{
		fs:      afero.NewOsFs(),
		profile: profile,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var _ ports.Prober = (*Prober)(nil)

// FindEngine returns the install dirs that contain the engine executable.
func (p *Prober) FindEngine() []string {
	dirs := []string{}
	root := p.profile.EngineRoot

	if !p.profile.ScansEngineRoot() {
		if p.IsFile(filepath.Join(root, p.profile.EngineExecutable)) {
			dirs = append(dirs, root)
		}
		return dirs
	}

	if ok, _ := afero.IsDir(p.fs, root); !ok {
		return dirs
	}
	entries, err := afero.ReadDir(p.fs, root)
	if err != nil {
		return dirs
	}
	for _, e := range entries {
		dir := filepath.Join(root, e.Name())
		if p.IsFile(filepath.Join(dir, p.profile.EngineExecutable)) {
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

// FindSoundfontDirs derives the expected soundfont dirs. Existence is left to
// InspectSoundfontDir so the caller can tell a missing dir from a missing file.
func (p *Prober) FindSoundfontDirs(engineDirs []string) []string {
	dirs := []string{}
	if !p.profile.ScansEngineRoot() {
		return append(dirs, p.profile.SoundfontDir)
	}
	for _, d := range engineDirs {
		dirs = append(dirs, d+p.profile.SoundfontDir)
	}
	return dirs
}

// FindEngineLibraries lists regular library files under each install's lib
// dir, in listing order. Symlinks are skipped.
func (p *Prober) FindEngineLibraries(engineDirs []string) []string {
	libs := []string{}
	for _, d := range engineDirs {
		libDir := filepath.Join(d, "lib")
		entries, err := afero.ReadDir(p.fs, libDir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if !strings.Contains(e.Name(), p.profile.LibraryExt) {
				continue
			}
			path := filepath.Join(libDir, e.Name())
			if p.isRegular(path) {
				libs = append(libs, path)
			}
		}
	}
	return libs
}

// FindTargetLibraries returns target itself when it is a file, followed by
// every sibling whose name starts with target's base name (name.so.3, ...).
func (p *Prober) FindTargetLibraries(target string) []string {
	libs := []string{}
	target = filepath.Clean(target)
	seen := map[string]bool{}
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			libs = append(libs, path)
		}
	}

	if p.IsFile(target) {
		add(target)
	}

	dir, name := filepath.Split(target)
	entries, err := afero.ReadDir(p.fs, filepath.Clean(dir))
	if err != nil {
		return libs
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), name) {
			add(filepath.Join(dir, e.Name()))
		}
	}
	return libs
}

// InspectSoundfontDir classifies dir and the default soundfont inside it.
func (p *Prober) InspectSoundfontDir(dir, name string) domain.SoundfontStatus {
	if ok, _ := afero.IsDir(p.fs, dir); !ok {
		return domain.SoundfontDirMissing
	}
	if ok, _ := afero.Exists(p.fs, filepath.Join(dir, name)); !ok {
		return domain.SoundfontFileMissing
	}
	return domain.SoundfontFound
}

// IsFile follows symlinks.
func (p *Prober) IsFile(path string) bool {
	fi, err := p.fs.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}

func (p *Prober) Readlink(path string) (string, bool) {
	if !p.isSymlink(path) {
		return "", false
	}
	lr, ok := p.fs.(afero.LinkReader)
	if !ok {
		return "", false
	}
	dst, err := lr.ReadlinkIfPossible(path)
	if err != nil {
		return "", false
	}
	return dst, true
}

func (p *Prober) lstat(path string) (os.FileInfo, error) {
	if l, ok := p.fs.(afero.Lstater); ok {
		fi, _, err := l.LstatIfPossible(path)
		return fi, err
	}
	return p.fs.Stat(path)
}

func (p *Prober) isSymlink(path string) bool {
	fi, err := p.lstat(path)
	return err == nil && fi.Mode()&os.ModeSymlink != 0
}

// isRegular does not follow symlinks.
func (p *Prober) isRegular(path string) bool {
	fi, err := p.lstat(path)
	return err == nil && fi.Mode().IsRegular()
}
