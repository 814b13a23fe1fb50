package deps

import (
	"context"
	"errors"
	"os/exec"
	"strings"

	"converti/internal/services"
)

// Runner executes a tool and returns its combined output.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// Command builds an exec.Cmd with the platform launch attributes applied.
func Command(ctx context.Context, name string, args ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, name, args...)
	hideConsole(cmd)
	return cmd
}

// Run is the default Runner.
func Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return Command(ctx, name, args...).CombinedOutput()
}

// ToolError converts a failed run into an ExternalToolError carrying the exit
// code. Errors that are not exit statuses (start failures, context expiry)
// keep their exit code at -1.
func ToolError(tool string, output []byte, err error) error {
	if err == nil {
		return nil
	}
	code := -1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code = exitErr.ExitCode()
	}
	return &services.ExternalToolError{
		Tool:     tool,
		ExitCode: code,
		Output:   strings.TrimSpace(string(output)),
		Err:      err,
	}
}
