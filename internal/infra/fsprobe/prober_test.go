package fsprobe

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/aalvaropc/fluidcheck/internal/domain"
	"github.com/aalvaropc/fluidcheck/internal/infra/platform"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

// macProfile points the macOS layout at a temp Cellar.
func macProfile(root string) domain.Profile {
	p := platform.MacOS()
	p.EngineRoot = filepath.Join(root, "Cellar", "fluid-synth")
	p.TargetLibrary = filepath.Join(root, "usr", "local", "lib", "libfluidsynth.dylib")
	return p
}

func linuxProfile(root string) domain.Profile {
	p := platform.Linux()
	p.EngineRoot = filepath.Join(root, "usr", "bin")
	p.SoundfontDir = filepath.Join(root, "usr", "share", "soundfonts")
	p.TargetLibrary = filepath.Join(root, "usr", "lib", "libfluidsynth.so")
	return p
}

func TestFindEngine_MacOS_OneValidInstall(t *testing.T) {
	tmp := t.TempDir()
	p := macProfile(tmp)

	touch(t, filepath.Join(p.EngineRoot, "2.3.4", "bin", "fluidsynth"))
	// No executable: not an install.
	require.NoError(t, os.MkdirAll(filepath.Join(p.EngineRoot, "2.3.3", "bin"), 0o755))
	// A stray file at the root level.
	touch(t, filepath.Join(p.EngineRoot, "INSTALL_RECEIPT.json"))

	got := NewProber(p).FindEngine()
	require.Equal(t, []string{filepath.Join(p.EngineRoot, "2.3.4")}, got)
}

func TestFindEngine_MacOS_MissingRoot(t *testing.T) {
	p := macProfile(t.TempDir())

	got := NewProber(p).FindEngine()
	require.NotNil(t, got)
	require.Empty(t, got)
}

func TestFindEngine_MacOS_ExecutableIsDir(t *testing.T) {
	tmp := t.TempDir()
	p := macProfile(tmp)
	require.NoError(t, os.MkdirAll(filepath.Join(p.EngineRoot, "2.3.4", "bin", "fluidsynth"), 0o755))

	require.Empty(t, NewProber(p).FindEngine())
}

func TestFindEngine_Linux(t *testing.T) {
	tmp := t.TempDir()
	p := linuxProfile(tmp)

	require.Empty(t, NewProber(p).FindEngine())

	touch(t, filepath.Join(p.EngineRoot, "fluidsynth"))
	require.Equal(t, []string{p.EngineRoot}, NewProber(p).FindEngine())
}

func TestFindSoundfontDirs(t *testing.T) {
	mac := macProfile("/r")
	got := NewProber(mac).FindSoundfontDirs([]string{"/c/2.3.3", "/c/2.3.4"})
	require.Equal(t, []string{"/c/2.3.3/share/soundfonts", "/c/2.3.4/share/soundfonts"}, got)

	require.Empty(t, NewProber(mac).FindSoundfontDirs(nil))
	require.NotNil(t, NewProber(mac).FindSoundfontDirs(nil))

	lin := platform.Linux()
	got = NewProber(lin).FindSoundfontDirs([]string{"/usr/bin"})
	require.Equal(t, []string{"/usr/share/soundfonts"}, got)
}

func TestFindEngineLibraries_SkipsSymlinksAndOtherFiles(t *testing.T) {
	tmp := t.TempDir()
	p := macProfile(tmp)
	install := filepath.Join(p.EngineRoot, "2.3.4")
	libDir := filepath.Join(install, "lib")

	touch(t, filepath.Join(libDir, "libfluidsynth.3.2.1.dylib"))
	touch(t, filepath.Join(libDir, "libfluidsynth.a"))
	require.NoError(t, os.Symlink(
		filepath.Join(libDir, "libfluidsynth.3.2.1.dylib"),
		filepath.Join(libDir, "libfluidsynth.dylib"),
	))
	require.NoError(t, os.MkdirAll(filepath.Join(libDir, "pkgconfig.dylib"), 0o755))

	got := NewProber(p).FindEngineLibraries([]string{install})
	require.Equal(t, []string{filepath.Join(libDir, "libfluidsynth.3.2.1.dylib")}, got)

	for _, path := range got {
		fi, err := os.Lstat(path)
		require.NoError(t, err)
		require.True(t, fi.Mode().IsRegular(), "%s should be a plain file", path)
	}
}

func TestFindEngineLibraries_MissingLibDir(t *testing.T) {
	p := macProfile(t.TempDir())
	got := NewProber(p).FindEngineLibraries([]string{filepath.Join(p.EngineRoot, "nope")})
	require.NotNil(t, got)
	require.Empty(t, got)
}

func TestFindTargetLibraries_VersionedSiblings(t *testing.T) {
	tmp := t.TempDir()
	target := filepath.Join(tmp, "libfluidsynth.so")

	touch(t, target)
	touch(t, target+".1")
	touch(t, target+".2.3")
	touch(t, filepath.Join(tmp, "libsndfile.so"))

	got := NewProber(platform.Linux()).FindTargetLibraries(target)
	require.ElementsMatch(t, []string{target, target + ".1", target + ".2.3"}, got)
	require.Equal(t, target, got[0])
}

func TestFindTargetLibraries_OnlyVersionedVariant(t *testing.T) {
	tmp := t.TempDir()
	target := filepath.Join(tmp, "libfluidsynth.so")
	touch(t, target+".3")

	got := NewProber(platform.Linux()).FindTargetLibraries(target)
	require.Equal(t, []string{target + ".3"}, got)
}

func TestFindTargetLibraries_MissingDir(t *testing.T) {
	got := NewProber(platform.Linux()).FindTargetLibraries(filepath.Join(t.TempDir(), "nope", "libfluidsynth.so"))
	require.NotNil(t, got)
	require.Empty(t, got)
}

func TestInspectSoundfontDir(t *testing.T) {
	tmp := t.TempDir()
	dir := filepath.Join(tmp, "soundfonts")
	pr := NewProber(platform.Linux())

	require.Equal(t, domain.SoundfontDirMissing, pr.InspectSoundfontDir(dir, domain.DefaultSoundfont))

	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.Equal(t, domain.SoundfontFileMissing, pr.InspectSoundfontDir(dir, domain.DefaultSoundfont))

	touch(t, filepath.Join(dir, domain.DefaultSoundfont))
	require.Equal(t, domain.SoundfontFound, pr.InspectSoundfontDir(dir, domain.DefaultSoundfont))
}

func TestReadlink(t *testing.T) {
	tmp := t.TempDir()
	lib := filepath.Join(tmp, "libfluidsynth.so.3")
	link := filepath.Join(tmp, "libfluidsynth.so")
	touch(t, lib)
	require.NoError(t, os.Symlink(lib, link))

	pr := NewProber(platform.Linux())

	dst, ok := pr.Readlink(link)
	require.True(t, ok)
	require.Equal(t, lib, dst)

	_, ok = pr.Readlink(lib)
	require.False(t, ok)

	require.True(t, pr.IsFile(link))
}

func TestProber_MemMapFs(t *testing.T) {
	fs := afero.NewMemMapFs()
	p := platform.MacOS()
	require.NoError(t, afero.WriteFile(fs, p.EngineRoot+"/2.4.0/bin/fluidsynth", []byte("x"), 0o755))
	require.NoError(t, afero.WriteFile(fs, p.EngineRoot+"/2.4.0/lib/libfluidsynth.3.dylib", []byte("x"), 0o644))

	pr := NewProber(p, WithFs(fs))
	dirs := pr.FindEngine()
	require.Equal(t, []string{p.EngineRoot + "/2.4.0"}, dirs)
	require.Equal(t, []string{p.EngineRoot + "/2.4.0/lib/libfluidsynth.3.dylib"}, pr.FindEngineLibraries(dirs))
}
