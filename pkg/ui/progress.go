package ui

import (
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"

	"github.com/arthur-debert/dotstow/pkg/pkgmgr"
	"github.com/arthur-debert/dotstow/pkg/style"
)

// SpinnerProgress shows a spinner on w while a package manager runs.
// Without animate it only prints the start and end lines.
func SpinnerProgress(w io.Writer, animate bool) pkgmgr.Progress {
	return func(message string) func(error) {
		if !animate {
			fmt.Fprintf(w, "%s...\n", message)
			return func(err error) {
				if err != nil {
					fmt.Fprintf(w, "%s: failed\n", message)
				}
			}
		}

		s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(w))
		s.Suffix = " " + message
		_ = s.Color("cyan")
		s.Start()
		return func(err error) {
			s.Stop()
			if err != nil {
				fmt.Fprintf(w, "%s %s\n", style.ErrorIndicator, message)
				return
			}
			fmt.Fprintf(w, "%s %s\n", style.SuccessIndicator, message)
		}
	}
}
