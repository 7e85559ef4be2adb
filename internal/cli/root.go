package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := exitCode(ctx, newRootCmd())
	stop()
	os.Exit(code)
}

// exitCode runs cmd under ctx: 0 on success, 130 when interrupted, 1 on any
// other error.
func exitCode(ctx context.Context, cmd *cobra.Command) int {
	err := cmd.ExecuteContext(ctx)
	if ctx.Err() != nil {
		return 130
	}
	if err == nil {
		return 0
	}
	var rep reportedError
	if !errors.As(err, &rep) {
		fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
	}
	return 1
}

func newRootCmd() *cobra.Command {
	return newRootCmdWith(defaultDeps())
}

func newRootCmdWith(d deps) *cobra.Command {
	g := &globalFlags{}
	var check checkFlags

	cmd := &cobra.Command{
		Use:           "fluidcheck",
		Short:         "Check a FluidSynth installation and play a short test phrase",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCheck(cmd, d, g, check)
		},
	}

	pf := cmd.PersistentFlags()
	pf.BoolVar(&g.debug, "debug", false, "log debug records to stderr")
	pf.StringVar(&g.logFile, "log-file", "", "append JSON logs to this file")
	pf.StringVar(&g.config, "config", "", "YAML file overriding platform paths")
	pf.StringVar(&g.color, "color", string(defaultColorMode), "Colored output: always|never|auto")

	cmd.Flags().StringVar(&check.format, "format", "pretty", "Output format: pretty|json|yaml")
	cmd.Flags().BoolVar(&check.noPlay, "no-play", false, "Skip the playback test")
	cmd.Flags().StringVar(&check.soundfont, "soundfont", "", "Play this SF2 file instead of the default soundfont")

	cmd.AddCommand(versionCmd())
	cmd.AddCommand(playCmd(d, g))
	cmd.AddCommand(scoreCmd(d))

	return cmd
}

// reportedError has already been shown to the user.
type reportedError struct {
	err error
}

func (e reportedError) Error() string { return e.err.Error() }
func (e reportedError) Unwrap() error { return e.err }
