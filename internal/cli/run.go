package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aalvaropc/fluidcheck/internal/domain"
	"github.com/aalvaropc/fluidcheck/internal/infra/console"
	"github.com/aalvaropc/fluidcheck/internal/infra/pkgquery"
	"github.com/aalvaropc/fluidcheck/internal/ports"
	"github.com/aalvaropc/fluidcheck/internal/usecase"
)

const title = "FluidSynth installation test"

type checkFlags struct {
	format    string
	noPlay    bool
	soundfont string
}

// runCheck is the default command: every stage, in order.
func runCheck(cmd *cobra.Command, d deps, g *globalFlags, f checkFlags) error {
	format, err := console.ParseFormat(f.format)
	if err != nil {
		return err
	}

	s, done, err := g.open(cmd, d, openOptions{
		title:      title,
		structured: format != console.FormatPretty,
	})
	defer done()
	if err != nil {
		return err
	}

	pretty := console.NewPretty(s.out, s.color)
	collector := console.NewCollector()

	var rep ports.Reporter = collector
	if format == console.FormatPretty {
		rep = pretty
	}

	opts := []usecase.CheckOption{usecase.WithLogger(s.log)}
	if !f.noPlay {
		opts = append(opts, usecase.WithPlayer(usecase.NewPlayScore(rep,
			usecase.WithSleep(d.sleep),
			usecase.WithPlayLogger(s.log),
		)))
	}
	if f.soundfont != "" {
		opts = append(opts, usecase.WithSoundfont(f.soundfont))
	}

	uc := usecase.NewCheckInstallation(
		s.profile,
		s.prober,
		d.loader,
		pkgquery.ForProfile(s.profile, d.exec),
		rep,
		opts...,
	)

	res, err := uc.Execute(cmd.Context())
	s.log.Info("run.end",
		"engine_dirs", len(res.EngineDirs),
		"binding", res.BindingLoaded,
		"playback", res.Playback,
		"err", err,
	)
	if err != nil {
		return err
	}

	if format == console.FormatPretty {
		pretty.Summary()
		return nil
	}

	report := domain.Report{
		RunID:     s.runID,
		OS:        s.profile.OS,
		StartedAt: s.started,
		EndedAt:   time.Now().UTC(),
		Findings:  collector.Findings(),
		Versions:  res.Versions,
		Playback:  res.Playback,
	}
	if err := console.WriteReport(s.out, report, format); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
