package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/ardnew/tjlang/pkg"
)

const defaultEditor = "vi"

// editCommand opens the session source in the user's editor and loads the
// result into a new session. When the edited source fails, the user may
// edit again; declining keeps the current session. It implements
// [tea.ExecCommand].
type editCommand struct {
	ctx     context.Context
	session *Session
	result  *Session
	reply   Reply

	stdin          io.Reader
	stdout, stderr io.Writer
}

func (c *editCommand) SetStdin(r io.Reader)  { c.stdin = r }
func (c *editCommand) SetStdout(w io.Writer) { c.stdout = w }
func (c *editCommand) SetStderr(w io.Writer) { c.stderr = w }

func (c *editCommand) Run() error {
	f, err := os.CreateTemp("", pkg.Name+"-repl-*"+pkg.Extension)
	if err != nil {
		return err
	}

	path := f.Name()
	defer os.Remove(path)

	_, err = f.WriteString(c.session.Source())
	if cerr := f.Close(); err == nil {
		err = cerr
	}

	if err != nil {
		return err
	}

	for {
		if err := c.editor(path); err != nil {
			return err
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		src := string(data)
		if strings.TrimSpace(src) == "" {
			return nil
		}

		next, reply := c.session.Load(c.ctx, src)

		c.session.logger.TraceContext(c.ctx, "repl edit",
			slog.Int("bytes", len(data)),
			slog.Bool("failed", reply.Failed()))

		if !reply.Failed() {
			c.result, c.reply = next, reply

			return nil
		}

		fmt.Fprintln(c.stderr, reply.Problem)
		fmt.Fprint(c.stdout, "Edit again? [Y/n] ")

		answer, _ := bufio.NewReader(c.stdin).ReadString('\n')
		if a := strings.ToLower(strings.TrimSpace(answer)); a == "n" || a == "no" {
			return ErrEditDeclined
		}
	}
}

// editor runs $EDITOR on path and waits for it to exit.
func (c *editCommand) editor(path string) error {
	name := os.Getenv("EDITOR")
	if name == "" {
		name = defaultEditor
	}

	args := strings.Fields(name)

	cmd := exec.CommandContext(c.ctx, args[0], append(args[1:], path)...)
	cmd.Stdin, cmd.Stdout, cmd.Stderr = c.stdin, c.stdout, c.stderr

	return cmd.Run()
}
