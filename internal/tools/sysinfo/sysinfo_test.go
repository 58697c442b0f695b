package sysinfo

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/arlberg/toolgate/internal/tool"
)

func TestSystemInfo(t *testing.T) {
	t.Parallel()

	tools := NewTools()
	if len(tools) != 1 || tools[0].Name != "system_info" {
		t.Fatalf("unexpected tool set: %+v", tools)
	}

	res, err := tools[0].Execute(context.Background(), tool.Args{})
	if err != nil {
		t.Fatalf("system_info must not fail: %v", err)
	}

	if !strings.Contains(res.Text, runtime.GOOS) {
		t.Errorf("text should name the OS, got %q", res.Text)
	}
	if !strings.Contains(res.Text, runtime.Version()) {
		t.Errorf("text should name the Go version, got %q", res.Text)
	}

	data, ok := res.Data.(map[string]any)
	if !ok {
		t.Fatalf("data is %T, want map", res.Data)
	}
	for _, key := range []string{"os", "arch", "cpu_count", "memory_total", "go_version", "working_directory"} {
		if _, ok := data[key]; !ok {
			t.Errorf("data missing key %q", key)
		}
	}
}

func TestReadMemory(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "meminfo")
	contents := "MemTotal:       16384000 kB\nMemFree:         1000000 kB\nMemAvailable:    8192000 kB\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}

	total, available := readMemory(path)
	if total != 16384000*1024 {
		t.Errorf("total = %d", total)
	}
	if available != 8192000*1024 {
		t.Errorf("available = %d", available)
	}
}

func TestReadMemory_MissingFile(t *testing.T) {
	t.Parallel()

	total, available := readMemory(filepath.Join(t.TempDir(), "nope"))
	if total != 0 || available != 0 {
		t.Errorf("expected zeros for a missing file, got %d/%d", total, available)
	}
}
