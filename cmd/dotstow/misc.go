package dotstow

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/arthur-debert/dotstow/internal/version"
	"github.com/arthur-debert/dotstow/pkg/cobrax/topics"
	"github.com/arthur-debert/dotstow/pkg/errors"
	"github.com/arthur-debert/dotstow/pkg/filesystem"
)

func newGenConfigCmd(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:     "genconfig",
		Short:   MsgGenConfigShort,
		GroupID: "misc",
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
			data, err := cfg.ToTOML()
			if err != nil {
				return err
			}

			if output == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := afero.WriteFile(filesystem.NewOS(), output, data, 0644); err != nil {
				return errors.Wrapf(err, errors.ErrPermission, "cannot write %s", output)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), MsgConfigWritten, output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", MsgFlagOutput)
	return cmd
}

func newTopicsCmd(tm *topics.TopicManager) *cobra.Command {
	return &cobra.Command{
		Use:     "topics",
		Short:   MsgTopicsShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			tm.WriteList(cmd.OutOrStdout(), cmd.Root().Name())
		},
	}
}

func newManCmd() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:     "man",
		Short:   MsgManShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			header := &doc.GenManHeader{
				Title:   "DOTSTOW",
				Section: "1",
				Source:  "dotstow " + version.Version,
				Manual:  "dotstow manual",
			}
			if err := doc.GenManTree(cmd.Root(), header, dir); err != nil {
				return errors.Wrapf(err, errors.ErrPermission, "cannot write man pages to %s", dir)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), MsgManWritten, dir)
			return nil
		},
	}
	cmd.Flags().StringVarP(&dir, "dir", "d", ".", MsgFlagManDir)
	return cmd
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: MsgCompletionShort,
		Long: `To load completions:

Bash:
  $ source <(dotstow completion bash)

Zsh:
  $ dotstow completion zsh > "${fpath[1]}/_dotstow"

Fish:
  $ dotstow completion fish > ~/.config/fish/completions/dotstow.fish

PowerShell:
  PS> dotstow completion powershell | Out-String | Invoke-Expression
`,
		GroupID:               "misc",
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), MsgVersionFormat, version.Version, version.Commit, version.Date)
		},
	}
}
