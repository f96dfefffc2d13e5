package tools

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"

	"github.com/macroman/macroman/internal/tool"
)

// dangerousFragments lists command substrings refused outright. A blocklist
// is not a sandbox; it only stops the obvious foot-guns.
var dangerousFragments = []string{
	"rm -rf",
	"sudo",
	"su ",
	"chmod 777",
	"dd if=",
	"mkfs",
}

// RegisterExecTools registers the command execution tool.
func RegisterExecTools(registry *tool.Registry) error {
	return registry.Register(tool.Descriptor{
		Name:        "execute_command",
		Description: "Execute a shell command and capture its output.",
		Params: []tool.Param{
			{Name: "command", Type: tool.TypeString, Required: true, Description: "Command line to run"},
			{Name: "timeout", Type: tool.TypeInteger, Default: 30, Description: "Timeout in seconds"},
		},
		Returns: tool.TypeObject,
	}, tool.ExecutorFunc(func(ctx context.Context, args tool.Args) (any, error) {
		return ExecuteCommand(ctx, args.String("command"), args.Int("timeout"))
	}))
}

// ExecuteCommand runs command under "sh -c" with its own timeout, capturing
// stdout, stderr, and the exit code. A non-zero exit is a payload, not an
// error; only refusing or failing to run the command is.
func ExecuteCommand(ctx context.Context, command string, timeoutSeconds int) (map[string]any, error) {
	command = strings.TrimSpace(command)
	if command == "" {
		return nil, tool.NewToolError(tool.SubkindInvalidInput, "command cannot be empty")
	}
	lowered := strings.ToLower(command)
	for _, fragment := range dangerousFragments {
		if strings.Contains(lowered, fragment) {
			return nil, tool.NewToolError(tool.SubkindInvalidInput,
				"command contains potentially dangerous operations")
		}
	}
	if timeoutSeconds <= 0 {
		return nil, tool.NewToolError(tool.SubkindInvalidInput, "timeout must be positive")
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(timeoutSeconds)*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return nil, tool.NewToolError(tool.SubkindInternal,
			"command timed out after %d seconds", timeoutSeconds)
	}

	exitCode := 0
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		} else {
			return nil, tool.WrapToolError(tool.SubkindNotFound, err, "failed to start command")
		}
	}

	return map[string]any{
		"command":     command,
		"return_code": exitCode,
		"stdout":      stdout.String(),
		"stderr":      stderr.String(),
		"success":     exitCode == 0,
	}, nil
}
