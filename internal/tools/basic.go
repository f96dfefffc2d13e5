package tools

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v4/host"

	"github.com/macroman/macroman/internal/tool"
)

// RegisterBasicTools registers the arithmetic and utility tools.
func RegisterBasicTools(registry *tool.Registry) error {
	specs := []struct {
		descriptor tool.Descriptor
		executor   tool.Executor
	}{
		{
			descriptor: tool.Descriptor{
				Name:        "add_numbers",
				Description: "Add two numbers together.",
				Params: []tool.Param{
					{Name: "a", Type: tool.TypeNumber, Required: true, Description: "First number"},
					{Name: "b", Type: tool.TypeNumber, Required: true, Description: "Second number"},
				},
				Returns: tool.TypeNumber,
			},
			executor: tool.ExecutorFunc(func(_ context.Context, args tool.Args) (any, error) {
				return args.Number("a") + args.Number("b"), nil
			}),
		},
		{
			descriptor: tool.Descriptor{
				Name:        "multiply_numbers",
				Description: "Multiply two numbers together.",
				Params: []tool.Param{
					{Name: "a", Type: tool.TypeNumber, Required: true, Description: "First number"},
					{Name: "b", Type: tool.TypeNumber, Required: true, Description: "Second number"},
				},
				Returns: tool.TypeNumber,
			},
			executor: tool.ExecutorFunc(func(_ context.Context, args tool.Args) (any, error) {
				return args.Number("a") * args.Number("b"), nil
			}),
		},
		{
			descriptor: tool.Descriptor{
				Name:        "greet_user",
				Description: "Greet a user by name.",
				Params: []tool.Param{
					{Name: "name", Type: tool.TypeString, Required: true, Description: "Name of the user to greet"},
				},
				Returns: tool.TypeString,
			},
			executor: tool.ExecutorFunc(func(_ context.Context, args tool.Args) (any, error) {
				return GreetUser(args.String("name"))
			}),
		},
		{
			descriptor: tool.Descriptor{
				Name:        "echo_message",
				Description: "Echo back a message (useful for testing).",
				Params: []tool.Param{
					{Name: "message", Type: tool.TypeString, Required: true, Description: "Message to echo back"},
				},
				Returns: tool.TypeString,
			},
			executor: tool.ExecutorFunc(func(_ context.Context, args tool.Args) (any, error) {
				return EchoMessage(args.String("message"))
			}),
		},
		{
			descriptor: tool.Descriptor{
				Name:        "get_system_info",
				Description: "Get basic information about the host system.",
				Returns:     tool.TypeObject,
			},
			executor: tool.ExecutorFunc(func(ctx context.Context, _ tool.Args) (any, error) {
				return SystemInfo(ctx)
			}),
		},
	}

	for _, spec := range specs {
		if err := registry.Register(spec.descriptor, spec.executor); err != nil {
			return err
		}
	}
	return nil
}

// GreetUser builds a personalized greeting. A blank name is invalid input.
func GreetUser(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", tool.NewToolError(tool.SubkindInvalidInput, "name cannot be empty")
	}
	return fmt.Sprintf("Hello, %s! Nice to meet you.", name), nil
}

// EchoMessage returns the message prefixed for visibility.
func EchoMessage(message string) (string, error) {
	if message == "" {
		return "", tool.NewToolError(tool.SubkindInvalidInput, "message cannot be empty")
	}
	return "Echo: " + message, nil
}

// SystemInfo reports the host platform, architecture, and current time.
func SystemInfo(ctx context.Context) (map[string]any, error) {
	info := map[string]any{
		"os":         runtime.GOOS,
		"arch":       runtime.GOARCH,
		"go_version": runtime.Version(),
		"num_cpu":    runtime.NumCPU(),
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
	}

	if hostInfo, err := host.InfoWithContext(ctx); err == nil {
		info["hostname"] = hostInfo.Hostname
		info["platform"] = hostInfo.Platform
		info["platform_version"] = hostInfo.PlatformVersion
		info["uptime_seconds"] = hostInfo.Uptime
	}

	return info, nil
}
