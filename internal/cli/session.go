package cli

import (
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/aalvaropc/fluidcheck/internal/domain"
	"github.com/aalvaropc/fluidcheck/internal/infra/console"
	"github.com/aalvaropc/fluidcheck/internal/infra/fluidsynth"
	"github.com/aalvaropc/fluidcheck/internal/infra/fsprobe"
	"github.com/aalvaropc/fluidcheck/internal/infra/logger"
	"github.com/aalvaropc/fluidcheck/internal/infra/pkgquery"
	"github.com/aalvaropc/fluidcheck/internal/infra/platform"
	"github.com/aalvaropc/fluidcheck/internal/ports"
	"github.com/aalvaropc/fluidcheck/internal/usecase"
)

const unsupportedMessage = "OS other than Linux or macOS is not supported"

const defaultColorMode = console.ColorAlways

// deps are the host-facing collaborators. Tests swap them for fakes.
type deps struct {
	goos   string
	fs     afero.Fs
	loader ports.BindingLoader
	exec   *pkgquery.Executor
	sleep  usecase.SleepFunc
}

func defaultDeps() deps {
	return deps{
		goos:   runtime.GOOS,
		fs:     afero.NewOsFs(),
		loader: fluidsynth.NewLoader(),
		exec:   pkgquery.NewExecutor(),
	}
}

type globalFlags struct {
	debug   bool
	logFile string
	config  string
	color   string
}

// session is everything a command needs once flags are validated and the
// platform is resolved.
type session struct {
	out     io.Writer
	profile domain.Profile
	prober  ports.Prober
	color   bool
	runID   string
	log     *slog.Logger
	started time.Time
}

// openOptions shape what open prints before the platform is known.
type openOptions struct {
	// title is printed first when set.
	title string
	// structured keeps stdout free for a json/yaml report; diagnostics
	// printed by open go to stderr instead.
	structured bool
}

// open validates global flags, installs the logger and resolves the platform.
// The returned func must always be called.
func (g *globalFlags) open(cmd *cobra.Command, d deps, opts openOptions) (*session, func(), error) {
	noop := func() {}
	out := cmd.OutOrStdout()

	mode, err := console.ParseColorMode(g.color)
	if err != nil {
		return nil, noop, err
	}

	cleanup, err := logger.Setup(logger.Config{
		Path:   g.logFile,
		Debug:  g.debug,
		Stderr: cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, noop, fmt.Errorf("setup logger: %w", err)
	}
	done := func() {
		if cleanup != nil {
			_ = cleanup()
		}
	}

	s := &session{
		out:     out,
		color:   mode.Enabled(out),
		runID:   uuid.NewString(),
		started: time.Now().UTC(),
	}
	s.log = logger.L().With("run_id", s.runID, "cmd", cmd.Name())

	if opts.title != "" && !opts.structured {
		s.println(console.Blue, opts.title)
	}

	profile, err := platform.Resolve(d.goos)
	if err != nil {
		s.log.Error("platform.unsupported", "goos", d.goos, "err", err)
		if opts.structured {
			errOut := cmd.ErrOrStderr()
			printColored(errOut, mode.Enabled(errOut), console.Red, unsupportedMessage)
		} else {
			s.println(console.Red, unsupportedMessage)
		}
		return nil, done, reportedError{err: err}
	}

	if g.config != "" {
		profile, err = platform.LoadOverrides(g.config, profile)
		if err != nil {
			return nil, done, err
		}
		s.log.Debug("config.loaded", "path", g.config)
	}

	s.profile = profile
	s.prober = fsprobe.NewProber(profile, fsprobe.WithFs(d.fs))
	s.log.Info("run.start", "os", profile.OS, "engine_root", profile.EngineRoot, "log_file", logger.Path())
	return s, done, nil
}

func (s *session) println(c console.Color, msg string) {
	printColored(s.out, s.color, c, msg)
}

func printColored(w io.Writer, color bool, c console.Color, msg string) {
	if color {
		msg = console.Colorize(c, msg)
	}
	fmt.Fprintln(w, msg)
}
