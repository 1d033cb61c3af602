package cli

import (
	"context"
	"io"
	"os"
	"os/exec"

	"golang.org/x/term"
)

const defaultPager = "less -FRSX"

// pagerCommand resolves KENNEL_PAGER, then PAGER. "cat" disables paging.
func pagerCommand() string {
	for _, env := range []string{"KENNEL_PAGER", "PAGER"} {
		if p := os.Getenv(env); p != "" {
			return p
		}
	}
	return defaultPager
}

// withPager runs write against a pager process when out is a terminal and
// falls back to writing out directly otherwise.
func withPager(ctx context.Context, out, errOut io.Writer, write func(io.Writer) error) error {
	tty, ok := out.(*os.File)
	pager := pagerCommand()
	if !ok || pager == "cat" || !term.IsTerminal(int(tty.Fd())) {
		return write(out)
	}

	cmd := exec.CommandContext(ctx, "sh", "-c", pager)
	cmd.Stdout = tty
	cmd.Stderr = errOut
	pipe, err := cmd.StdinPipe()
	if err != nil {
		return write(out)
	}
	if err := cmd.Start(); err != nil {
		return write(out)
	}
	werr := write(pipe)
	_ = pipe.Close()
	if err := cmd.Wait(); werr == nil {
		return err
	}
	return werr
}
