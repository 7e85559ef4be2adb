package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/aalvaropc/fluidcheck/internal/domain"
	"github.com/aalvaropc/fluidcheck/internal/ports"
)

// CheckResult is what a verification run discovered.
type CheckResult struct {
	EngineDirs    []string
	SoundfontPath string
	BindingLoaded bool
	Versions      *domain.VersionInfo
	Playback      []domain.State
}

// CheckInstallation runs the discovery, reporting, binding and playback
// stages in order. Missing dependencies are reported, never returned.
type CheckInstallation struct {
	profile  domain.Profile
	prober   ports.Prober
	loader   ports.BindingLoader
	packages ports.PackageQuery
	reporter ports.Reporter
	player   *PlayScore

	soundfont string
	log       *slog.Logger
}

type CheckOption func(*CheckInstallation)

// WithPlayer enables the playback stage.
func WithPlayer(p *PlayScore) CheckOption {
	return func(uc *CheckInstallation) { uc.player = p }
}

// WithSoundfont plays path instead of the discovered default soundfont.
func WithSoundfont(path string) CheckOption {
	return func(uc *CheckInstallation) { uc.soundfont = path }
}

func WithLogger(l *slog.Logger) CheckOption {
	return func(uc *CheckInstallation) {
		if l != nil {
			uc.log = l
		}
	}
}

func NewCheckInstallation(
	profile domain.Profile,
	prober ports.Prober,
	loader ports.BindingLoader,
	packages ports.PackageQuery,
	reporter ports.Reporter,
	opts ...CheckOption,
) *CheckInstallation {
	uc := &CheckInstallation{
		profile:  profile,
		prober:   prober,
		loader:   loader,
		packages: packages,
		reporter: reporter,
		log:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

func (uc *CheckInstallation) Execute(ctx context.Context) (CheckResult, error) {
	res := CheckResult{EngineDirs: []string{}}
	p := uc.profile

	uc.say(domain.StagePlatform, "If both are installed correctly, you should hear sound in the end of the test.")
	uc.reporter.Blank()

	uc.say(domain.StageEngine, "Checking FluidSynth installation...")
	res.EngineDirs = uc.prober.FindEngine()
	uc.log.Debug("probe.engine", "dirs", res.EngineDirs)
	uc.reportEngine(res.EngineDirs)
	uc.reporter.Blank()

	var targetLibs, engineLibs []string
	if len(res.EngineDirs) > 0 {
		uc.say(domain.StageSoundfont, "Checking FluidSynth default soundfont...")
		res.SoundfontPath = uc.checkSoundfonts(res.EngineDirs)
		uc.reporter.Blank()

		uc.say(domain.StageLibrary, "Checking FluidSynth library installation...")
		if p.ScansEngineRoot() {
			engineLibs = uc.checkEngineLibraries(res.EngineDirs)
		} else {
			targetLibs = uc.checkTargetLibraries()
		}
	}
	uc.reporter.Blank()

	if err := ctx.Err(); err != nil {
		return res, err
	}

	uc.say(domain.StageBinding, "Checking FluidSynth binding...")
	binding, err := uc.loader.Load(libraryCandidates(p, targetLibs, engineLibs))
	if err != nil {
		uc.log.Debug("binding.unavailable", "err", err)
		uc.reporter.Report(domain.Finding{
			Stage:   domain.StageBinding,
			Level:   domain.LevelFail,
			Message: "FluidSynth binding could not load the FluidSynth library. Try:",
			Remedy:  []string{p.InstallCommand},
		})
		return res, nil
	}
	defer func() {
		if cerr := binding.Close(); cerr != nil {
			uc.log.Debug("binding.close", "err", cerr)
		}
	}()
	res.BindingLoaded = true

	res.Versions = uc.versions(ctx, binding)
	uc.info(domain.StageBinding, fmt.Sprintf("Per %s, %s package installed: %s. Self-reported binding API version: %s",
		res.Versions.PackageSource, p.PackageName, res.Versions.Package, res.Versions.BindingAPI))
	uc.info(domain.StageBinding, fmt.Sprintf("Per the binding, FluidSynth version is %s (loaded from %s)",
		res.Versions.Engine, res.Versions.LibraryPath))
	uc.reporter.Blank()

	if uc.player == nil {
		return res, nil
	}

	sf := res.SoundfontPath
	if uc.soundfont != "" {
		sf = uc.soundfont
	}
	uc.say(domain.StagePlayback, "Checking the playback...")
	states, perr := uc.player.Execute(ctx, binding, sf)
	res.Playback = states
	uc.reporter.Blank()
	if perr != nil {
		uc.log.Debug("playback.failed", "err", perr)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return res, ctxErr
		}
	}
	return res, nil
}

func (uc *CheckInstallation) reportEngine(dirs []string) {
	p := uc.profile
	for _, d := range dirs {
		uc.reporter.Report(domain.Finding{
			Stage:   domain.StageEngine,
			Level:   domain.LevelOK,
			Message: fmt.Sprintf("FluidSynth found: %s", filepath.Join(d, p.EngineExecutable)),
		})
	}
	if len(dirs) > 0 {
		return
	}

	f := domain.Finding{Stage: domain.StageEngine, Level: domain.LevelFail}
	if p.ScansEngineRoot() {
		f.Message = "FluidSynth is NOT found. Install with homebrew:"
	} else {
		f.Message = fmt.Sprintf("FluidSynth is NOT found in %s. Install with:", p.EngineRoot)
	}
	f.Remedy = []string{p.InstallCommand}
	uc.reporter.Report(f)
}

// checkSoundfonts reports every soundfont dir and returns the last default
// soundfont that exists.
func (uc *CheckInstallation) checkSoundfonts(engineDirs []string) string {
	p := uc.profile
	found := ""
	for _, d := range uc.prober.FindSoundfontDirs(engineDirs) {
		path := filepath.Join(d, p.DefaultSoundfont)
		switch uc.prober.InspectSoundfontDir(d, p.DefaultSoundfont) {
		case domain.SoundfontFound:
			found = path
			uc.reporter.Report(domain.Finding{
				Stage:   domain.StageSoundfont,
				Level:   domain.LevelOK,
				Message: fmt.Sprintf("Default soundfont found: %s", path),
			})
		case domain.SoundfontFileMissing:
			uc.reporter.Report(domain.Finding{
				Stage: domain.StageSoundfont,
				Level: domain.LevelWarn,
				Message: fmt.Sprintf("Default soundfont %s NOT found in: %s. Create a symlink or copy the SF2 file to the folder.",
					p.DefaultSoundfont, d),
			})
		default:
			uc.reporter.Report(domain.Finding{
				Stage:   domain.StageSoundfont,
				Level:   domain.LevelWarn,
				Message: fmt.Sprintf("Soundfont directory is NOT found: %s. Create:", d),
				Remedy:  []string{p.MkdirCommand(d)},
			})
		}
	}
	return found
}

// checkEngineLibraries handles the layout where the target library should be
// a symlink into the newest install.
func (uc *CheckInstallation) checkEngineLibraries(engineDirs []string) []string {
	p := uc.profile
	libs := uc.prober.FindEngineLibraries(engineDirs)
	uc.log.Debug("probe.engine_libraries", "libs", libs)

	for _, l := range libs {
		uc.ok(domain.StageLibrary, fmt.Sprintf("fluidsynth library found: %s", l))
	}
	if len(libs) == 0 {
		uc.reporter.Report(domain.Finding{Stage: domain.StageLibrary, Level: domain.LevelFail, Message: "fluidsynth library is NOT found."})
	}

	// Listing order, not version order: the last entry is only assumed newest.
	latest := ""
	if len(libs) > 0 {
		latest = libs[len(libs)-1]
	}

	if !uc.prober.IsFile(p.TargetLibrary) {
		f := domain.Finding{
			Stage:   domain.StageLibrary,
			Level:   domain.LevelFail,
			Message: fmt.Sprintf("fluidsynth library NOT found. On %s, the library needs to be in %s", p.DisplayName(), p.TargetLibrary),
		}
		if latest != "" {
			f.Remedy = []string{"Create a symlink:", p.SymlinkCommand(latest)}
		}
		uc.reporter.Report(f)
		return libs
	}

	dst, isLink := uc.prober.Readlink(p.TargetLibrary)
	if !isLink {
		uc.reporter.Report(domain.Finding{
			Stage:   domain.StageLibrary,
			Level:   domain.LevelWarn,
			Message: fmt.Sprintf("fluidsynth library found: %s. It is better to create a symlink than to copy the lib.", p.TargetLibrary),
		})
		return libs
	}

	uc.ok(domain.StageLibrary, fmt.Sprintf("Symlink to fluidsynth library found: %s -> %s", p.TargetLibrary, dst))
	if latest != "" && dst != latest {
		uc.reporter.Report(domain.Finding{
			Stage:   domain.StageLibrary,
			Level:   domain.LevelWarn,
			Message: fmt.Sprintf("the link does not seem to point to the latest library: %s", latest),
			Remedy:  []string{p.SymlinkCommand(latest)},
		})
	}
	return libs
}

// checkTargetLibraries handles the layout where the target and its versioned
// siblings live side by side.
func (uc *CheckInstallation) checkTargetLibraries() []string {
	p := uc.profile
	libs := uc.prober.FindTargetLibraries(p.TargetLibrary)
	uc.log.Debug("probe.target_libraries", "libs", libs)

	for _, l := range libs {
		if dst, ok := uc.prober.Readlink(l); ok {
			uc.ok(domain.StageLibrary, fmt.Sprintf("Symlink to fluidsynth library found: %s -> %s", l, dst))
		} else {
			uc.ok(domain.StageLibrary, fmt.Sprintf("fluidsynth library found: %s.", l))
		}
	}
	if len(libs) == 0 {
		uc.reporter.Report(domain.Finding{
			Stage:   domain.StageLibrary,
			Level:   domain.LevelFail,
			Message: fmt.Sprintf("fluidsynth library NOT found. On %s, the library needs to be %s.x.y", p.DisplayName(), p.TargetLibrary),
		})
	}
	return libs
}

func (uc *CheckInstallation) versions(ctx context.Context, b ports.Binding) *domain.VersionInfo {
	v := &domain.VersionInfo{
		Package:       domain.UnknownVersion,
		PackageSource: uc.packages.Source(),
		BindingAPI:    b.APIVersion(),
		Engine:        domain.EngineVersion(b.EngineVersion()),
		LibraryPath:   b.Path(),
	}

	pkg, ok, err := uc.packages.InstalledVersion(ctx, uc.profile.PackageName)
	switch {
	case err != nil:
		uc.log.Debug("pkgquery.failed", "source", v.PackageSource, "err", err)
	case ok:
		v.Package = pkg
	}
	return v
}

func (uc *CheckInstallation) say(stage domain.Stage, msg string) {
	uc.reporter.Report(domain.Finding{Stage: stage, Level: domain.LevelPlain, Message: msg})
}

func (uc *CheckInstallation) ok(stage domain.Stage, msg string) {
	uc.reporter.Report(domain.Finding{Stage: stage, Level: domain.LevelOK, Message: msg})
}

func (uc *CheckInstallation) info(stage domain.Stage, msg string) {
	uc.reporter.Report(domain.Finding{Stage: stage, Level: domain.LevelInfo, Message: msg})
}
