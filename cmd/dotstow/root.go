// Package dotstow is the dotstow command line interface. The binary lives in
// cmd/dotstow/main; this package builds the cobra command tree so the man
// page and completion generators can share it.
package dotstow

import (
	"context"
	"embed"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/dotstow/internal/version"
	"github.com/arthur-debert/dotstow/pkg/cobrax/topics"
	"github.com/arthur-debert/dotstow/pkg/commands"
	"github.com/arthur-debert/dotstow/pkg/errors"
	"github.com/arthur-debert/dotstow/pkg/logging"
)

//go:embed topics/*.md
var topicFiles embed.FS

// exitError ends the run with a code once the output already explained why
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// Run executes the CLI with the real collaborators and returns the exit code
func Run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	return DefaultDeps().Run(args, stdin, stdout, stderr)
}

// Run executes the CLI with these collaborators. args includes the program
// name, as in os.Args.
func (d Deps) Run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := newApp(d, stdin, stdout, stderr)
	defer a.close()

	if len(args) > 0 {
		args = args[1:]
	}
	a.args = args

	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	return a.exit(root.ExecuteContext(context.Background()))
}

// exit maps the error taxonomy onto exit codes: cancellations and
// recoverable failures still exit 0
func (a *app) exit(err error) int {
	var ee *exitError
	switch {
	case err == nil:
		return 0
	case stderrors.As(err, &ee):
		return ee.code
	case errors.IsCancelled(err):
		_ = a.output().RenderMessage(MsgCancelled)
		return 0
	case !errors.IsFatal(err):
		_ = a.errOutput().RenderError(err)
		return 0
	default:
		_ = a.errOutput().RenderError(err)
		return 1
	}
}

// NewRootCmd creates the command tree bound to the process streams
func NewRootCmd() *cobra.Command {
	return newRootCmd(newApp(DefaultDeps(), os.Stdin, os.Stdout, os.Stderr))
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "dotstow",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(); err != nil {
				return err
			}
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
			return nil
		},
		// Without a subcommand dotstow installs
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.dispatch(cmd.Context(), commands.CommandInstall, commands.Options{})
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	// Global flags
	pf := rootCmd.PersistentFlags()
	pf.CountVarP(&a.flags.verbosity, "verbose", "v", MsgFlagVerbose)
	pf.StringVar(&a.flags.dotfiles, "dotfiles", "", MsgFlagDotfiles)
	pf.StringVar(&a.flags.target, "target", "", MsgFlagTarget)
	pf.StringVar(&a.flags.format, "format", "auto", MsgFlagFormat)
	pf.BoolVarP(&a.flags.simulate, "simulate", "n", false, MsgFlagSimulate)
	pf.BoolVar(&a.flags.simulate, "dry-run", false, MsgFlagSimulate)
	_ = pf.MarkHidden("dry-run")
	pf.BoolVarP(&a.flags.interactive, "interactive", "i", false, MsgFlagInteractive)
	pf.StringVar(&a.flags.backend, "backend", "", MsgFlagBackend)

	rootCmd.AddGroup(
		&cobra.Group{ID: "link", Title: "LINKING:"},
		&cobra.Group{ID: "components", Title: "COMPONENTS:"},
		&cobra.Group{ID: "info", Title: "INFORMATION:"},
		&cobra.Group{ID: "misc", Title: "MISC:"},
	)

	rootCmd.AddCommand(newInstallCmd(a))
	rootCmd.AddCommand(newUninstallCmd(a))
	rootCmd.AddCommand(newRestowCmd(a))
	rootCmd.AddCommand(newStowAppCmd(a))
	rootCmd.AddCommand(newUnstowAppCmd(a))
	rootCmd.AddCommand(newAdoptCmd(a))
	rootCmd.AddCommand(newBackupCmd(a))
	rootCmd.AddCommand(newCleanupCmd(a))

	for _, c := range componentCmds {
		rootCmd.AddCommand(newComponentCmd(a, c))
	}
	rootCmd.AddCommand(newSubmodulesCmd(a))

	rootCmd.AddCommand(newStatusCmd(a))
	rootCmd.AddCommand(newHistoryCmd(a))
	rootCmd.AddCommand(newDoctorCmd(a))
	rootCmd.AddCommand(newWMStatusCmd(a))
	rootCmd.AddCommand(newWallpaperCmd(a))

	rootCmd.AddCommand(newGenConfigCmd(a))
	rootCmd.AddCommand(newManCmd())
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(newVersionCmd())

	// Topic-based help, read from the embedded markdown files
	files, err := fs.Sub(topicFiles, "topics")
	if err == nil {
		tm, err := topics.InitializeWithOptions(rootCmd, files, topics.Options{
			Extensions: []string{".md"},
			Renderer:   topics.NewGlamourRenderer(),
		})
		if err != nil {
			logger := logging.GetLogger("cli")
			logger.Debug().Err(err).Msg("Help topics unavailable")
		} else {
			rootCmd.AddCommand(newTopicsCmd(tm))
		}
	}

	return rootCmd
}
