package dotstow

import (
	"fmt"
	"math/rand"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/dotstow/pkg/commands"
	"github.com/arthur-debert/dotstow/pkg/desktop"
	"github.com/arthur-debert/dotstow/pkg/history"
	"github.com/arthur-debert/dotstow/pkg/paths"
	"github.com/arthur-debert/dotstow/pkg/status"
)

func newStatusCmd(a *app) *cobra.Command {
	var (
		opts status.Options
		all  bool
	)
	cmd := &cobra.Command{
		Use:     "status",
		Short:   MsgStatusShort,
		GroupID: "info",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if all {
				opts = status.Options{Deps: true, Fonts: true, Git: true}
			}
			info, err := a.platform()
			if err != nil {
				return err
			}
			env, err := a.env(info, false)
			if err != nil {
				return err
			}
			report, err := commands.Status(cmd.Context(), env, opts)
			if err != nil {
				return err
			}
			return a.output().RenderResult(report)
		},
	}
	cmd.Flags().BoolVar(&opts.Deps, "deps", false, MsgFlagDeps)
	cmd.Flags().BoolVar(&opts.Fonts, "fonts", false, MsgFlagFonts)
	cmd.Flags().BoolVar(&opts.Git, "git", false, MsgFlagGit)
	cmd.Flags().BoolVarP(&all, "all", "a", false, MsgFlagAll)
	return cmd
}

func newHistoryCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:     "history",
		Short:   MsgHistoryShort,
		GroupID: "info",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.paths()
			if err != nil {
				return err
			}
			cfg, err := a.config(p)
			if err != nil {
				return err
			}

			store, err := history.Open(a.historyPath(p, cfg))
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			entries, err := store.List(limit)
			if err != nil {
				return err
			}
			return a.output().RenderResult(entries)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "l", 10, MsgFlagLimit)
	return cmd
}

func newDoctorCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "doctor",
		Short:   MsgDoctorShort,
		GroupID: "info",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info, platformErr := a.platform()
			env, err := a.env(info, false)
			if err != nil {
				return err
			}
			checks := commands.Doctor(cmd.Context(), env, platformErr)
			if err := a.output().RenderResult(checks); err != nil {
				return err
			}
			if status.Failed(checks) {
				return &exitError{code: 1}
			}
			return nil
		},
	}
}

func newWMStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "wm-status",
		Short:   MsgWMStatusShort,
		GroupID: "info",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := a.platform()
			if err != nil {
				return err
			}
			env, err := a.env(info, false)
			if err != nil {
				return err
			}
			st, err := desktop.Status(cmd.Context(), env.Runner, desktop.Getenv(a.deps.Getenv))
			if rerr := a.output().RenderResult(st); rerr != nil {
				return rerr
			}
			return err
		},
	}
}

func newWallpaperCmd(a *app) *cobra.Command {
	var random bool
	cmd := &cobra.Command{
		Use:     "wallpaper",
		Short:   MsgWallpaperShort,
		GroupID: "components",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := a.platform()
			if err != nil {
				return err
			}
			env, err := a.env(info, false)
			if err != nil {
				return err
			}

			rng := rand.New(rand.NewSource(a.now().UnixNano()))
			w := desktop.NewWallpaper(env.FS, env.Runner, env.Config.Wallpaper, a.choose, rng)
			file, err := w.Choose(cmd.Context(), random)
			if err != nil {
				return err
			}
			return a.output().RenderMessage(fmt.Sprintf(MsgWallpaperSet, paths.Tilde(file)))
		},
	}
	cmd.Flags().BoolVarP(&random, "random", "r", false, MsgFlagRandom)
	return cmd
}
