package tools

import (
	"context"
	"os"
	"testing"

	"github.com/macroman/macroman/internal/tool"
)

func TestProcessInfo_CurrentProcess(t *testing.T) {
	t.Parallel()

	info, err := ProcessInfo(context.Background(), 0)
	if err != nil {
		t.Fatalf("ProcessInfo returned error: %v", err)
	}
	if info["pid"] != os.Getpid() {
		t.Fatalf("expected current pid %d, got %v", os.Getpid(), info["pid"])
	}
	if _, ok := info["name"]; !ok {
		t.Fatalf("expected process name in %v", info)
	}
}

func TestProcessInfo_UnknownPid(t *testing.T) {
	t.Parallel()

	// Near the top of the default pid_max range; vanishingly unlikely to exist.
	_, err := ProcessInfo(context.Background(), 4194000)
	if got := toolErrSubkind(t, err); got != tool.SubkindNotFound {
		t.Fatalf("expected not_found, got %q", got)
	}
}

func TestSystemStats(t *testing.T) {
	t.Parallel()

	stats, err := SystemStats(context.Background())
	if err != nil {
		t.Fatalf("SystemStats returned error: %v", err)
	}
	if _, ok := stats["timestamp"]; !ok {
		t.Fatal("expected timestamp in stats")
	}
	cpuStats, ok := stats["cpu"].(map[string]any)
	if !ok {
		t.Fatalf("expected cpu section, got %v", stats)
	}
	if cpuStats["count"].(int) < 1 {
		t.Fatalf("expected at least one CPU, got %v", cpuStats)
	}
}

func TestEnvironmentVariables_PrefixFilter(t *testing.T) {
	t.Setenv("MACROMAN_TEST_ONE", "1")
	t.Setenv("MACROMAN_TEST_TWO", "2")
	t.Setenv("OTHER_VAR", "3")

	filtered := EnvironmentVariables("MACROMAN_TEST_")
	if len(filtered) != 2 {
		t.Fatalf("expected 2 filtered variables, got %v", filtered)
	}
	if filtered["MACROMAN_TEST_ONE"] != "1" {
		t.Fatalf("expected value preserved, got %v", filtered)
	}

	all := EnvironmentVariables("")
	if _, ok := all["OTHER_VAR"]; !ok {
		t.Fatal("expected unfiltered call to include every variable")
	}
}

func TestRuntimeInfo(t *testing.T) {
	t.Parallel()

	info := RuntimeInfo()
	for _, key := range []string{"go_version", "num_goroutine", "heap_alloc", "pid"} {
		if _, ok := info[key]; !ok {
			t.Fatalf("expected key %q in runtime info: %v", key, info)
		}
	}
	if info["pid"] != os.Getpid() {
		t.Fatalf("expected current pid, got %v", info["pid"])
	}
}

func TestRegisterSystemTools(t *testing.T) {
	t.Parallel()

	registry := tool.NewRegistry()
	if err := RegisterSystemTools(registry); err != nil {
		t.Fatalf("RegisterSystemTools returned error: %v", err)
	}
	for _, name := range []string{"get_process_info", "get_system_stats", "get_environment_variables", "get_runtime_info"} {
		if _, _, err := registry.Lookup(name); err != nil {
			t.Fatalf("expected %s registered: %v", name, err)
		}
	}
}
