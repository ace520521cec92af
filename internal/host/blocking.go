package host

import (
	"context"
	"sort"
	"strings"

	"github.com/shirou/gopsutil/v3/process"
)

// blockingNames are processes that hold the package database lock
var blockingNames = map[string]bool{
	"apt":             true,
	"apt-get":         true,
	"dpkg":            true,
	"unattended-upgr": true,
	"dnf":             true,
	"yum":             true,
	"pacman":          true,
	"zypper":          true,
	"packagekitd":     true,
}

// BlockingProcesses returns the names of running processes that would make
// a native install wait or fail.
func BlockingProcesses(ctx context.Context) ([]string, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(procs))
	for _, proc := range procs {
		name, err := proc.NameWithContext(ctx)
		if err != nil {
			continue
		}
		names = append(names, name)
	}
	return matchBlocking(names), nil
}

// matchBlocking filters process names down to known lock holders, deduplicated
func matchBlocking(names []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if blockingNames[name] && !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}
