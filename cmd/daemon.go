package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/pickplan/internal/cli"
	"github.com/theirongolddev/pickplan/internal/daemon"
	"github.com/theirongolddev/pickplan/internal/logger"
	"github.com/theirongolddev/pickplan/internal/pipeline"
)

type daemonRuntimeState struct {
	PID       int       `json:"pid"`
	Addr      string    `json:"addr"`
	StartedAt time.Time `json:"started_at"`
	DBPath    string    `json:"db_path"`
}

var (
	flagDaemonAddr         string
	flagDaemonInterval     time.Duration
	flagDaemonDetach       bool
	flagDaemonPIDFile      string
	flagDaemonLogFile      string
	flagDaemonEventsBuffer int
	flagDaemonChild        bool
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Serve live earnings status over HTTP and SSE",
	Long: "Poll the database and publish period totals, open goals and the forecast\n" +
		"on /v1/status, /v1/events and the /v1/stream event stream. The daemon only reads.",
	RunE: runDaemon,
}

var daemonStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon process and API status",
	RunE:  runDaemonStatus,
}

var daemonStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running daemon",
	RunE:  runDaemonStop,
}

func init() {
	defaultPID := filepath.Join(pipeline.DataDir(), "pickplan-daemon.pid")
	defaultLog := filepath.Join(pipeline.DataDir(), "logs", "pickplan-daemon.out")

	daemonCmd.PersistentFlags().StringVar(&flagDaemonAddr, "addr", "", "HTTP listen address (default: config)")
	daemonCmd.PersistentFlags().DurationVar(&flagDaemonInterval, "interval", 0, "Polling interval (default: config)")
	daemonCmd.PersistentFlags().StringVar(&flagDaemonPIDFile, "pid-file", defaultPID, "PID file path")
	daemonCmd.PersistentFlags().StringVar(&flagDaemonLogFile, "log-file", defaultLog, "Output file for detached mode")
	daemonCmd.PersistentFlags().IntVar(&flagDaemonEventsBuffer, "events-buffer", 0, "Max in-memory events retained (default: config)")

	daemonCmd.Flags().BoolVar(&flagDaemonDetach, "detach", false, "Run daemon as a background process")
	daemonCmd.Flags().BoolVar(&flagDaemonChild, "child", false, "Internal: mark detached child process")
	_ = daemonCmd.Flags().MarkHidden("child")

	daemonCmd.AddCommand(daemonStatusCmd)
	daemonCmd.AddCommand(daemonStopCmd)
	rootCmd.AddCommand(daemonCmd)
}

// daemonConfig merges the daemon flags over the [daemon] config section.
func daemonConfig() daemon.Config {
	cfg := daemon.Config{
		DBPath:       dbPath(),
		Addr:         appCfg.Daemon.Addr,
		Interval:     time.Duration(appCfg.Daemon.IntervalSecs) * time.Second,
		EventsBuffer: appCfg.Daemon.EventsBuffer,
		Forecast:     forecastOptions(),
		Now:          now,
	}
	if flagDaemonAddr != "" {
		cfg.Addr = flagDaemonAddr
	}
	if flagDaemonInterval > 0 {
		cfg.Interval = flagDaemonInterval
	}
	if flagDaemonEventsBuffer > 0 {
		cfg.EventsBuffer = flagDaemonEventsBuffer
	}
	return cfg
}

func runDaemon(_ *cobra.Command, _ []string) error {
	if flagDaemonDetach && flagDaemonChild {
		return errors.New("invalid daemon launch mode")
	}

	if flagDaemonDetach {
		return startDaemonDetached()
	}

	return runDaemonForeground()
}

func startDaemonDetached() error {
	pf := pidFile(flagDaemonPIDFile)
	if err := pf.claim(); err != nil {
		return err
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve executable: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(flagDaemonLogFile), 0o750); err != nil {
		return fmt.Errorf("create daemon log directory: %w", err)
	}
	//nolint:gosec // output path comes from the local user's flags
	out, err := os.OpenFile(flagDaemonLogFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("open daemon output: %w", err)
	}
	defer func() { _ = out.Close() }()

	child := exec.Command(exe, childArgs(os.Args[1:])...) //nolint:gosec // re-runs this binary
	child.Stdout, child.Stderr = out, out
	child.Env = os.Environ()
	if err := child.Start(); err != nil {
		return fmt.Errorf("start detached daemon: %w", err)
	}

	logger.Info("daemon detached", "pid", child.Process.Pid, "output", flagDaemonLogFile)
	fmt.Printf("  Started daemon (pid %d)\n", child.Process.Pid)
	fmt.Printf("  Status: http://%s/v1/status\n", daemonConfig().Addr)
	fmt.Printf("  Output: %s\n", flagDaemonLogFile)
	return nil
}

func runDaemonForeground() error {
	pf := pidFile(flagDaemonPIDFile)
	if err := pf.claim(); err != nil {
		return err
	}

	cfg := daemonConfig()
	if err := pf.record(daemonRuntimeState{
		PID:       os.Getpid(),
		Addr:      cfg.Addr,
		StartedAt: time.Now(),
		DBPath:    cfg.DBPath,
	}); err != nil {
		return err
	}
	defer pf.remove()

	svc := daemon.New(cfg, nil)

	fmt.Printf("  pickplan daemon listening on http://%s\n", cfg.Addr)
	fmt.Printf("  Polling %s every %s\n", cfg.DBPath, cfg.Interval)
	fmt.Printf("  Stop with: pickplan daemon stop --pid-file %s\n", flagDaemonPIDFile)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := svc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func runDaemonStatus(_ *cobra.Command, _ []string) error {
	pf := pidFile(flagDaemonPIDFile)
	pid, err := pf.pid()
	switch {
	case err != nil:
		fmt.Println("  Daemon: not running")
		return nil
	case !processAlive(pid):
		fmt.Printf("  Daemon: not running (stale pid %d)\n", pid)
		return nil
	}

	addr := daemonConfig().Addr
	if st, err := pf.state(); err == nil && st.Addr != "" {
		addr = st.Addr
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	st, err := daemon.FetchStatus(ctx, addr)
	if err != nil {
		fmt.Printf("  Daemon pid %d at http://%s is not answering: %v\n", pid, addr, err)
		return nil
	}

	lastPoll := "pending"
	if !st.LastPollAt.IsZero() {
		lastPoll = st.LastPollAt.Local().Format(time.RFC3339)
	}
	sum := st.Summary
	rows := [][]string{
		{"PID", strconv.Itoa(pid)},
		{"Address", "http://" + addr},
		{"Database", st.DBPath},
		{"Last poll", lastPoll},
		{"Polls", cli.FormatNumber(st.PollCount)},
		cli.SeparatorRow,
		{"Goals", fmt.Sprintf("%d (%d open)", sum.Goals, sum.OpenGoals)},
		{"Records", strconv.Itoa(sum.Records)},
		{"This week", fmt.Sprintf("%s (%s picks)", cli.FormatMoney(sum.WeekEarnings), cli.FormatNumber(int64(sum.WeekPicks)))},
		{"This month", cli.FormatMoney(sum.MonthEarnings)},
	}
	if sum.ForecastAvailable {
		rows = append(rows, []string{"Next shift", fmt.Sprintf("%s (%s)", cli.FormatMoney(sum.ForecastNextWeek), sum.Trend)})
	}
	if st.LastError != "" {
		rows = append(rows, []string{"Last error", st.LastError})
	}
	fmt.Print(cli.RenderTable(cli.Table{Title: "Daemon", Rows: rows}))
	return nil
}

func runDaemonStop(_ *cobra.Command, _ []string) error {
	pf := pidFile(flagDaemonPIDFile)
	pid, err := pf.pid()
	if err != nil {
		return errors.New("daemon is not running")
	}

	proc, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("find daemon process: %w", err)
	}
	if err := proc.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("signal daemon process: %w", err)
	}

	deadline := time.Now().Add(8 * time.Second)
	for time.Now().Before(deadline) {
		if !processAlive(pid) {
			pf.remove()
			fmt.Printf("  Stopped daemon (pid %d)\n", pid)
			return nil
		}
		time.Sleep(150 * time.Millisecond)
	}

	return fmt.Errorf("daemon (pid %d) did not exit in time", pid)
}
