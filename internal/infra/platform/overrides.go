package platform

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aalvaropc/fluidcheck/internal/domain"
)

// LoadOverrides reads a YAML profile file and applies it on top of p.
// Only fields present in the file replace profile values.
func LoadOverrides(path string, p domain.Profile) (domain.Profile, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return p, &domain.OpError{
			Op:   "platform.loadoverrides",
			Kind: domain.KindNotFound,
			Path: path,
			Err:  err,
		}
	}

	var y yamlProfile
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&y); err != nil && !errors.Is(err, io.EOF) {
		return p, &domain.OpError{
			Op:   "platform.loadoverrides",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}

	out, err := apply(p, y.Fluidcheck.Profile)
	if err != nil {
		return p, &domain.OpError{
			Op:   "platform.loadoverrides",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}
	return out, nil
}

func apply(p domain.Profile, o yamlProfileFields) (domain.Profile, error) {
	// Probes list the parent of these paths; a relative one would scan the
	// working directory.
	for _, f := range []struct{ key, val string }{
		{"engine_root", o.EngineRoot},
		{"soundfont_dir", o.SoundfontDir},
		{"target_library", o.TargetLibrary},
	} {
		if v := strings.TrimSpace(f.val); v != "" && !filepath.IsAbs(v) {
			return p, fmt.Errorf("%w: %s must be an absolute path, got %q", domain.ErrInvalidConfig, f.key, v)
		}
	}

	set := func(dst *string, v string) {
		if strings.TrimSpace(v) != "" {
			*dst = v
		}
	}

	set(&p.EngineRoot, o.EngineRoot)
	set(&p.EngineExecutable, o.EngineExecutable)
	set(&p.SoundfontDir, o.SoundfontDir)
	set(&p.TargetLibrary, o.TargetLibrary)
	set(&p.LibraryExt, o.LibraryExt)
	set(&p.DefaultSoundfont, o.DefaultSoundfont)
	set(&p.PackageName, o.PackageName)
	set(&p.InstallCommand, o.InstallCommand)
	if len(o.Sonames) > 0 {
		p.Sonames = append([]string(nil), o.Sonames...)
	}
	return p, nil
}

type yamlProfile struct {
	Fluidcheck struct {
		Profile yamlProfileFields `yaml:"profile"`
	} `yaml:"fluidcheck"`
}

type yamlProfileFields struct {
	EngineRoot       string   `yaml:"engine_root"`
	EngineExecutable string   `yaml:"engine_executable"`
	SoundfontDir     string   `yaml:"soundfont_dir"`
	TargetLibrary    string   `yaml:"target_library"`
	LibraryExt       string   `yaml:"library_ext"`
	DefaultSoundfont string   `yaml:"default_soundfont"`
	PackageName      string   `yaml:"package_name"`
	InstallCommand   string   `yaml:"install_command"`
	Sonames          []string `yaml:"sonames"`
}
