package dotstow

import (
	"github.com/spf13/cobra"

	"github.com/arthur-debert/dotstow/pkg/commands"
)

func newInstallCmd(a *app) *cobra.Command {
	var opts commands.Options
	cmd := &cobra.Command{
		Use:     "install",
		Short:   MsgInstallShort,
		GroupID: "link",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.dispatch(cmd.Context(), commands.CommandInstall, opts)
		},
	}
	cmd.Flags().BoolVar(&opts.WithTools, "with-tools", false, MsgFlagWithTools)
	cmd.Flags().BoolVar(&opts.UpdateSubs, "update-subs", false, MsgFlagUpdateSubs)
	cmd.Flags().BoolVar(&opts.NoBackup, "no-backup", false, MsgFlagNoBackup)
	cmd.Flags().BoolVar(&opts.Adopt, "adopt", false, MsgFlagAdopt)
	return cmd
}

func newUninstallCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:               "uninstall [app]",
		Short:             MsgUninstallShort,
		GroupID:           "link",
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: a.appNamesCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts commands.Options
			if len(args) == 1 {
				opts.App = args[0]
			}
			return a.dispatch(cmd.Context(), commands.CommandUninstall, opts)
		},
	}
}

func newRestowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "restow",
		Short:   MsgRestowShort,
		GroupID: "link",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.dispatch(cmd.Context(), commands.CommandRestow, commands.Options{})
		},
	}
}

func newStowAppCmd(a *app) *cobra.Command {
	var opts commands.Options
	cmd := &cobra.Command{
		Use:               "stow-app <app>",
		Short:             MsgStowAppShort,
		GroupID:           "link",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: a.appNamesCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.App = args[0]
			return a.dispatch(cmd.Context(), commands.CommandStowApp, opts)
		},
	}
	cmd.Flags().BoolVar(&opts.NoBackup, "no-backup", false, MsgFlagNoBackup)
	cmd.Flags().BoolVar(&opts.Adopt, "adopt", false, MsgFlagAdopt)
	return cmd
}

func newUnstowAppCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:               "unstow-app <app>",
		Short:             MsgUnstowAppShort,
		GroupID:           "link",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: a.appNamesCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.dispatch(cmd.Context(), commands.CommandUnstowApp, commands.Options{App: args[0]})
		},
	}
}

func newAdoptCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:               "adopt <app>",
		Short:             MsgAdoptShort,
		GroupID:           "link",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: a.appNamesCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.dispatch(cmd.Context(), commands.CommandAdopt, commands.Options{App: args[0]})
		},
	}
}

func newBackupCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "backup",
		Short:   MsgBackupShort,
		GroupID: "link",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.dispatch(cmd.Context(), commands.CommandBackup, commands.Options{})
		},
	}
}

func newCleanupCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "cleanup",
		Short:   MsgCleanupShort,
		GroupID: "link",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.dispatch(cmd.Context(), commands.CommandCleanup, commands.Options{})
		},
	}
}

type componentCmd struct {
	command commands.CommandType
	short   string
}

// componentCmds are the optional installers; each runs on its own
var componentCmds = []componentCmd{
	{commands.CommandTools, MsgToolsShort},
	{commands.CommandFonts, MsgFontsShort},
	{commands.CommandFish, MsgFishShort},
	{commands.CommandZellij, MsgZellijShort},
	{commands.CommandK9s, MsgK9sShort},
	{commands.CommandMCP, MsgMCPShort},
}

func newComponentCmd(a *app, c componentCmd) *cobra.Command {
	return &cobra.Command{
		Use:     string(c.command),
		Short:   c.short,
		GroupID: "components",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.dispatch(cmd.Context(), c.command, commands.Options{})
		},
	}
}

func newSubmodulesCmd(a *app) *cobra.Command {
	var opts commands.Options
	cmd := &cobra.Command{
		Use:     "submodules",
		Short:   MsgSubmodulesShort,
		GroupID: "components",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.dispatch(cmd.Context(), commands.CommandSubmodules, opts)
		},
	}
	cmd.Flags().BoolVar(&opts.Remote, "remote", false, MsgFlagRemote)
	return cmd
}

// appNamesCompletion completes the configured app names
func (a *app) appNamesCompletion(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	p, err := a.paths()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	cfg, err := a.config(p)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	return cfg.AppNames(), cobra.ShellCompDirectiveNoFileComp
}
