package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"syscall"
)

// pidFile is the daemon pid file. The runtime state is kept beside it
// with a .json suffix.
type pidFile string

func (p pidFile) statePath() string { return string(p) + ".json" }

// pid returns the process id recorded in the file.
func (p pidFile) pid() (int, error) {
	//nolint:gosec // path comes from the local user's flags
	raw, err := os.ReadFile(string(p))
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(string(raw)))
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("pid file %s is corrupt", p)
	}
	return n, nil
}

// record writes the pid and the runtime state. A failed state write is
// not fatal, status falls back to the configured address.
func (p pidFile) record(st daemonRuntimeState) error {
	if err := os.MkdirAll(filepath.Dir(string(p)), 0o750); err != nil {
		return fmt.Errorf("create daemon directory: %w", err)
	}
	if err := os.WriteFile(string(p), fmt.Appendf(nil, "%d\n", st.PID), 0o600); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	if data, err := json.MarshalIndent(st, "", "  "); err == nil {
		_ = os.WriteFile(p.statePath(), append(data, '\n'), 0o600)
	}
	return nil
}

func (p pidFile) state() (daemonRuntimeState, error) {
	var st daemonRuntimeState
	//nolint:gosec // path comes from the local user's flags
	raw, err := os.ReadFile(p.statePath())
	if err != nil {
		return st, err
	}
	err = json.Unmarshal(raw, &st)
	return st, err
}

func (p pidFile) remove() {
	_ = os.Remove(string(p))
	_ = os.Remove(p.statePath())
}

// claim fails when a live daemon owns the file and clears a stale one.
func (p pidFile) claim() error {
	n, err := p.pid()
	switch {
	case errors.Is(err, os.ErrNotExist):
		return nil
	case err != nil:
		return err
	case processAlive(n):
		return fmt.Errorf("daemon already running (pid %d)", n)
	}
	p.remove()
	return nil
}

func processAlive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = proc.Signal(syscall.Signal(0))
	return err == nil || errors.Is(err, syscall.EPERM)
}

// childArgs rewrites the current invocation for the detached child.
func childArgs(args []string) []string {
	out := slices.DeleteFunc(slices.Clone(args), func(a string) bool {
		return a == "--detach" || strings.HasPrefix(a, "--detach=")
	})
	return append(out, "--child")
}
