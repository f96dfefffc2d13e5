package tools

import (
	"context"
	"os"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/net"
	"github.com/shirou/gopsutil/v4/process"

	"github.com/macroman/macroman/internal/tool"
)

// RegisterSystemTools registers the process and host introspection tools.
func RegisterSystemTools(registry *tool.Registry) error {
	specs := []struct {
		descriptor tool.Descriptor
		executor   tool.Executor
	}{
		{
			descriptor: tool.Descriptor{
				Name:        "get_process_info",
				Description: "Get information about one process. pid 0 means the current process.",
				Params: []tool.Param{
					{Name: "pid", Type: tool.TypeInteger, Default: 0, Description: "Process ID, 0 for the current process"},
				},
				Returns: tool.TypeObject,
			},
			executor: tool.ExecutorFunc(func(ctx context.Context, args tool.Args) (any, error) {
				return ProcessInfo(ctx, args.Int("pid"))
			}),
		},
		{
			descriptor: tool.Descriptor{
				Name:        "get_system_stats",
				Description: "Get CPU, memory, disk, and network statistics for the host.",
				Returns:     tool.TypeObject,
			},
			executor: tool.ExecutorFunc(func(ctx context.Context, _ tool.Args) (any, error) {
				return SystemStats(ctx)
			}),
		},
		{
			descriptor: tool.Descriptor{
				Name:        "get_environment_variables",
				Description: "Get environment variables, optionally filtered by name prefix.",
				Params: []tool.Param{
					{Name: "prefix", Type: tool.TypeString, Default: "", Description: "Only include variables starting with this prefix"},
				},
				Returns: tool.TypeObject,
			},
			executor: tool.ExecutorFunc(func(_ context.Context, args tool.Args) (any, error) {
				return EnvironmentVariables(args.String("prefix")), nil
			}),
		},
		{
			descriptor: tool.Descriptor{
				Name:        "get_runtime_info",
				Description: "Get Go runtime information for the server process.",
				Returns:     tool.TypeObject,
			},
			executor: tool.ExecutorFunc(func(_ context.Context, _ tool.Args) (any, error) {
				return RuntimeInfo(), nil
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

// ProcessInfo reports name, status, CPU and memory usage for one process.
// An unknown pid is a not-found failure.
func ProcessInfo(ctx context.Context, pid int) (map[string]any, error) {
	if pid == 0 {
		pid = os.Getpid()
	}

	proc, err := process.NewProcessWithContext(ctx, int32(pid))
	if err != nil {
		return nil, tool.WrapToolError(tool.SubkindNotFound, err, "process with pid %d not found", pid)
	}

	info := map[string]any{"pid": pid}
	if name, err := proc.NameWithContext(ctx); err == nil {
		info["name"] = name
	}
	if status, err := proc.StatusWithContext(ctx); err == nil {
		info["status"] = status
	}
	if cpuPercent, err := proc.CPUPercentWithContext(ctx); err == nil {
		info["cpu_percent"] = cpuPercent
	}
	if memInfo, err := proc.MemoryInfoWithContext(ctx); err == nil && memInfo != nil {
		info["memory_info"] = map[string]any{"rss": memInfo.RSS, "vms": memInfo.VMS}
	}
	if created, err := proc.CreateTimeWithContext(ctx); err == nil {
		info["create_time"] = time.UnixMilli(created).UTC().Format(time.RFC3339)
	}
	if threads, err := proc.NumThreadsWithContext(ctx); err == nil {
		info["num_threads"] = threads
	}
	return info, nil
}

// SystemStats gathers CPU, memory, swap, disk, and network counters.
// Individual collectors that fail are omitted rather than failing the call.
func SystemStats(ctx context.Context) (map[string]any, error) {
	stats := map[string]any{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	cpuStats := map[string]any{"count": runtime.NumCPU()}
	if percents, err := cpu.PercentWithContext(ctx, 0, false); err == nil && len(percents) > 0 {
		cpuStats["percent"] = percents[0]
	}
	stats["cpu"] = cpuStats

	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		stats["memory"] = map[string]any{
			"total":     vm.Total,
			"available": vm.Available,
			"percent":   vm.UsedPercent,
			"used":      vm.Used,
			"free":      vm.Free,
		}
	}
	if swap, err := mem.SwapMemoryWithContext(ctx); err == nil {
		stats["swap"] = map[string]any{
			"total":   swap.Total,
			"used":    swap.Used,
			"free":    swap.Free,
			"percent": swap.UsedPercent,
		}
	}
	if usage, err := disk.UsageWithContext(ctx, "/"); err == nil {
		stats["disk"] = map[string]any{
			"total":   usage.Total,
			"used":    usage.Used,
			"free":    usage.Free,
			"percent": usage.UsedPercent,
		}
	}
	if counters, err := net.IOCountersWithContext(ctx, false); err == nil && len(counters) > 0 {
		stats["network"] = map[string]any{
			"bytes_sent":   counters[0].BytesSent,
			"bytes_recv":   counters[0].BytesRecv,
			"packets_sent": counters[0].PacketsSent,
			"packets_recv": counters[0].PacketsRecv,
		}
	}

	return stats, nil
}

// EnvironmentVariables returns the process environment, filtered by prefix
// when one is given. Keys are sorted for stable output.
func EnvironmentVariables(prefix string) map[string]string {
	out := make(map[string]string)
	env := os.Environ()
	sort.Strings(env)
	for _, pair := range env {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		if prefix != "" && !strings.HasPrefix(key, prefix) {
			continue
		}
		out[key] = value
	}
	return out
}

// RuntimeInfo reports the Go runtime hosting the server.
func RuntimeInfo() map[string]any {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	return map[string]any{
		"go_version":     runtime.Version(),
		"os":             runtime.GOOS,
		"arch":           runtime.GOARCH,
		"num_goroutine":  runtime.NumGoroutine(),
		"num_cpu":        runtime.NumCPU(),
		"heap_alloc":     memStats.HeapAlloc,
		"total_alloc":    memStats.TotalAlloc,
		"gc_cycles":      memStats.NumGC,
		"executable":     executablePath(),
		"working_dir":    workingDir(),
		"pid":            os.Getpid(),
	}
}

func executablePath() string {
	path, err := os.Executable()
	if err != nil {
		return ""
	}
	return path
}

func workingDir() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	return dir
}
