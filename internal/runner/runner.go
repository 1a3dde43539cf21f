package runner

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/kballard/go-shellquote"

	"wp-init/internal/logger"
)

// CommandRunner runs an external command inside a directory
type CommandRunner interface {
	// Run executes command in dir and returns its combined output.
	// A non-zero exit is reported as an error.
	Run(ctx context.Context, dir string, command string) ([]byte, error)
}

// Exec runs commands on the local machine using os/exec
type Exec struct{}

// NewExec creates a runner for local commands
func NewExec() *Exec {
	return &Exec{}
}

// Run splits command using shell quoting rules and executes it without a shell
func (e *Exec) Run(ctx context.Context, dir string, command string) ([]byte, error) {
	args, err := shellquote.Split(command)
	if err != nil {
		return nil, fmt.Errorf("invalid command %q: %w", command, err)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("empty command")
	}

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Dir = dir
	logger.Debug("[DEBUG] Running command: %s in %s\n", strings.Join(cmd.Args, " "), dir)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return output, fmt.Errorf("%s failed: %w", args[0], err)
	}

	return output, nil
}
