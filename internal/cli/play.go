package cli

import (
	"github.com/spf13/cobra"

	"github.com/aalvaropc/fluidcheck/internal/domain"
	"github.com/aalvaropc/fluidcheck/internal/infra/console"
	"github.com/aalvaropc/fluidcheck/internal/usecase"
)

func playCmd(d deps, g *globalFlags) *cobra.Command {
	var soundfont string

	c := &cobra.Command{
		Use:   "play",
		Short: "Only play the test phrase through the FluidSynth library",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, done, err := g.open(cmd, d, openOptions{})
			defer done()
			if err != nil {
				return err
			}

			rep := console.NewPretty(s.out, s.color)

			b, err := d.loader.Load(usecase.LocateLibraries(s.profile, s.prober))
			if err != nil {
				s.log.Debug("binding.unavailable", "err", err)
				rep.Report(domain.Finding{
					Stage:   domain.StageBinding,
					Level:   domain.LevelFail,
					Message: "FluidSynth binding could not load the FluidSynth library. Try:",
					Remedy:  []string{s.profile.InstallCommand},
				})
				return nil
			}
			defer func() { _ = b.Close() }()

			sf := soundfont
			if sf == "" {
				sf = usecase.LocateSoundfont(s.profile, s.prober)
			}

			uc := usecase.NewPlayScore(rep, usecase.WithSleep(d.sleep), usecase.WithPlayLogger(s.log))
			states, err := uc.Execute(cmd.Context(), b, sf)
			s.log.Info("playback.end", "states", states, "err", err)
			if err != nil {
				return reportedError{err: err}
			}
			return nil
		},
	}

	c.Flags().StringVar(&soundfont, "soundfont", "", "SF2 file to play (defaults to the discovered default soundfont)")
	return c
}
