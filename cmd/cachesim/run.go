package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/archsim/cachesim/cache"
	"github.com/archsim/cachesim/internal/config"
	"github.com/archsim/cachesim/internal/driver"
	"github.com/archsim/cachesim/internal/hostinfo"
	"github.com/archsim/cachesim/internal/monitor"
	"github.com/archsim/cachesim/internal/persist"
	"github.com/archsim/cachesim/internal/report"
	"github.com/archsim/cachesim/internal/traceio"
)

const argCount = config.ArgCount

// progressEvery matches §6's "periodic progress notice every 100 000
// references".
const progressEvery = 100000

// firstN matches §6's "first five references" per-access trace lines.
const firstN = 5

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := config.Parse(args)
	if err != nil {
		return fmt.Errorf("argument error: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	hierarchy, err := cfg.BuildHierarchy()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	traceFile, err := os.Open(cfg.TraceFile)
	if err != nil {
		return fmt.Errorf("trace open failure: %w", err)
	}
	defer traceFile.Close()

	host := ""
	if h := hostinfo.Collect(); h.Platform != "" {
		host = h.String()
	}
	report.WriteConfigEcho(os.Stdout, cfg, host)

	if flagMonitor > 0 {
		m := monitor.New(hierarchy)
		if _, err := m.Serve(flagMonitor, flagOpen); err != nil {
			fmt.Fprintf(os.Stderr, "monitor: %v\n", err)
		}
	}

	scanner := traceio.NewScanner(traceFile, func(lineNumber int, raw, reason string) {
		fmt.Fprintf(os.Stderr, "warning: line %d: %s: %s\n", lineNumber, raw, reason)
	})

	d := driver.NewDriver(hierarchy.Top())
	d.AcceptHook(driver.HookFunc(func(event driver.AccessEvent) {
		if event.Index < firstN {
			fmt.Fprintf(os.Stdout, "%d: %s %08x -> %s\n",
				event.Index, event.Reference.Op, event.Reference.Address, hitOrMiss(event.Hit))
		}
		if (event.Index+1)%progressEvery == 0 {
			fmt.Fprintf(os.Stdout, "... %d references processed\n", event.Index+1)
		}
	}))

	d.Run(scanner)

	l1 := hierarchy.Top()
	l2, _ := hierarchy.L2()

	fmt.Fprintln(os.Stdout)
	report.WriteContents(os.Stdout, l1)
	if l2 != nil {
		report.WriteContents(os.Stdout, l2)
	}
	report.WriteResults(os.Stdout, l1, l2)

	if flagRecord != "" {
		if err := recordRun(cfg, l1, l2); err != nil {
			fmt.Fprintf(os.Stderr, "record: %v\n", err)
		}
	}

	return nil
}

func hitOrMiss(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}

func recordRun(cfg config.Config, l1, l2 *cache.Level) error {
	recorder, err := persist.Open(flagRecord)
	if err != nil {
		return err
	}
	defer recorder.Close()

	var l2Stats cache.Counters
	var l2Size, l2Assoc int
	if l2 != nil {
		l2Stats = l2.Stats()
		l2Size, l2Assoc = cfg.L2.Size, cfg.L2.Associativity
	}

	traffic := l1.Stats().Traffic()
	if l2 != nil {
		traffic = l2Stats.Traffic()
	}

	return recorder.Record(persist.RunResult{
		BlockSize:          cfg.L1.BlockSize,
		L1Size:             cfg.L1.Size,
		L1Assoc:            cfg.L1.Associativity,
		L2Size:             l2Size,
		L2Assoc:            l2Assoc,
		L1Stats:            l1.Stats(),
		L2Stats:            l2Stats,
		TotalMemoryTraffic: traffic,
	})
}
