// Package sysinfo provides the "system_info" tool: a snapshot of the host —
// OS, architecture, hostname, CPU count, memory, Go runtime version, and
// working directory — rendered as one text block.
//
// Probes that cannot be answered on the current platform degrade to
// "unknown" instead of failing the call.
package sysinfo

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/arlberg/toolgate/internal/tool"
)

// meminfoPath is the Linux kernel interface for memory statistics. Other
// platforms have no equivalent file; memory fields render as "unknown" there.
const meminfoPath = "/proc/meminfo"

// NewTools returns the descriptor for system_info.
func NewTools() []tool.Descriptor {
	return []tool.Descriptor{
		{
			Name:        "system_info",
			Description: "Returns system/OS/hardware info",
			Schema:      nil, // no input
			Effect:      tool.EffectPure,
			Execute:     systemInfo,
		},
	}
}

func systemInfo(_ context.Context, _ tool.Args) (*tool.Result, error) {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "unknown"
	}

	total, available := readMemory(meminfoPath)
	totalStr, availStr := "unknown", "unknown"
	if total > 0 {
		totalStr = humanize.IBytes(total)
	}
	if available > 0 {
		availStr = humanize.IBytes(available)
	}

	data := map[string]any{
		"os":                runtime.GOOS,
		"arch":              runtime.GOARCH,
		"hostname":          hostname,
		"cpu_count":         runtime.NumCPU(),
		"memory_total":      totalStr,
		"memory_available":  availStr,
		"go_version":        runtime.Version(),
		"working_directory": cwd,
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "OS: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	fmt.Fprintf(&sb, "Hostname: %s\n", hostname)
	fmt.Fprintf(&sb, "CPUs: %d\n", runtime.NumCPU())
	fmt.Fprintf(&sb, "Memory: %s total, %s available\n", totalStr, availStr)
	fmt.Fprintf(&sb, "Go: %s\n", runtime.Version())
	fmt.Fprintf(&sb, "Working directory: %s", cwd)

	return &tool.Result{Data: data, Text: sb.String()}, nil
}

// readMemory parses MemTotal and MemAvailable (in bytes) from a meminfo-style
// file. Returns zeros when the file is absent or unparsable.
func readMemory(path string) (total, available uint64) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		// Lines look like: "MemTotal:       16384000 kB"
		if len(fields) < 2 {
			continue
		}
		kb, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			continue
		}
		switch fields[0] {
		case "MemTotal:":
			total = kb * 1024
		case "MemAvailable:":
			available = kb * 1024
		}
		if total > 0 && available > 0 {
			break
		}
	}
	return total, available
}
