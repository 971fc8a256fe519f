package commands

import (
	"context"

	"github.com/arthur-debert/dotstow/pkg/status"
)

// Status builds the read-only status report
func Status(ctx context.Context, env *Env, opts status.Options) (*status.Report, error) {
	layout, err := env.Layout()
	if err != nil {
		return nil, err
	}
	return status.New(status.Deps{
		FS:       env.FS,
		Layout:   layout,
		Config:   env.Config,
		Probe:    env.Probe,
		Runner:   env.Runner,
		Platform: env.Platform,
	}).Report(ctx, opts)
}

// Doctor runs the prerequisite checks. It works without a loadable layout.
func Doctor(ctx context.Context, env *Env, platformErr error) []status.Check {
	return status.Doctor(ctx, status.DoctorDeps{
		FS:           env.FS,
		Config:       env.Config,
		Runner:       env.Runner,
		Probe:        env.Probe,
		Platform:     env.Platform,
		PlatformErr:  platformErr,
		DotfilesRoot: env.Paths.DotfilesRoot(),
		UsedFallback: env.Paths.UsedFallback(),
		Target:       env.Paths.TargetDir(),
	})
}
