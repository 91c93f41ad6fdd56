// cxemu - RISC-V Composable Extensions (CX) register subsystem emulator
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lojo/cxemu/config"
	"github.com/lojo/cxemu/cx"
	"github.com/lojo/cxemu/log"
	"github.com/lojo/cxemu/telemetry"
)

var (
	Version   = "dev"
	Commit    = "none"
	BuildTime = "unknown"
)

type emulator struct {
	catalog  *cx.Catalog
	harts    []*cx.Hart
	recorder *telemetry.Recorder
	shutdown func(context.Context) error
}

func (e *emulator) Close() {
	if e.shutdown != nil {
		if err := e.shutdown(context.Background()); err != nil {
			log.Warn(log.TelemetryMonitoring, "telemetry shutdown failed", "err", err)
		}
	}
}

func main() {
	envCfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "bad environment: %v\n", err)
		os.Exit(1)
	}

	var rootCmd = &cobra.Command{
		Use:   "cxemu",
		Short: "RISC-V Composable Extensions register subsystem emulator",
		Long: `Emulates the CX selector/index/data register protocol: a catalog of
composable extensions, the per-hart cxsel/cxidx/cxdata registers, the
cxsetsel swap instruction and the CX-class instruction router.`,
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	// Global flags
	var (
		specPath          string
		logLevel          string
		debugModules      string
		telemetryEndpoint string
		hartCount         int
	)
	rootCmd.PersistentFlags().StringVar(&specPath, "spec", "", "Catalog spec JSON (empty: builtin extension only)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log.level", envCfg.LogLevel, "Log level (trace|debug|info|warn|error|crit)")
	rootCmd.PersistentFlags().StringVar(&debugModules, "debug", envCfg.DebugModules, "Comma-separated log modules to enable (hart_mod,cat_mod,rt_mod,csr_mod,tel_mod)")
	rootCmd.PersistentFlags().StringVar(&telemetryEndpoint, "telemetry", envCfg.TelemetryEndpoint, "OTLP/HTTP trace endpoint (host:port, empty: disabled)")
	rootCmd.PersistentFlags().IntVar(&hartCount, "harts", envCfg.Harts, "Number of harts")

	setup := func() (*emulator, error) {
		log.InitLogger(logLevel)
		log.EnableModules(debugModules)

		spec := &config.CatalogSpec{}
		if specPath != "" {
			var err error
			spec, err = config.LoadCatalogSpec(specPath)
			if err != nil {
				return nil, err
			}
		}
		catalog, err := spec.Build()
		if err != nil {
			return nil, err
		}

		emu := &emulator{catalog: catalog, recorder: telemetry.NewRecorder()}
		sinks := []telemetry.Sink{emu.recorder}
		if telemetryEndpoint != "" {
			shutdown, err := telemetry.InitTracer(context.Background(), telemetryEndpoint)
			if err != nil {
				return nil, err
			}
			emu.shutdown = shutdown
			sinks = append(sinks, telemetry.NewOtelSink())
		}
		trace := telemetry.NewTraceClient(sinks...)
		router := cx.NewRouter(catalog, trace)

		if hartCount < 1 {
			hartCount = 1
		}
		for id := 0; id < hartCount; id++ {
			emu.harts = append(emu.harts, cx.NewHart(uint64(id), catalog, router, trace))
		}
		log.Info(log.HartMonitoring, "emulator configured",
			"harts", hartCount, "extensions", len(catalog.Selectors()))
		return emu, nil
	}

	var runCmd = &cobra.Command{
		Use:   "run <tracefile>",
		Short: "Execute a file of hex CX instruction words on hart 0",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			emu, err := setup()
			if err != nil {
				return err
			}
			defer emu.Close()
			return runTrace(emu.harts[0], args[0])
		},
	}

	var consoleCmd = &cobra.Command{
		Use:   "console",
		Short: "Interactive console for poking the CX registers",
		RunE: func(cmd *cobra.Command, args []string) error {
			emu, err := setup()
			if err != nil {
				return err
			}
			defer emu.Close()
			return runConsole(emu)
		},
	}

	var catalogCmd = &cobra.Command{
		Use:   "catalog",
		Short: "Print the configured extension catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			emu, err := setup()
			if err != nil {
				return err
			}
			defer emu.Close()
			fmt.Print(emu.catalog.ToTree().String())
			return nil
		},
	}

	var versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("cxemu %s (commit %s, built %s)\n", Version, Commit, BuildTime)
		},
	}

	rootCmd.AddCommand(runCmd, consoleCmd, catalogCmd, versionCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

// runTrace steps hart h through a file of instruction words, one hex
// word per line; '#' starts a comment. Faults are reported but do not
// stop the run, matching trap-and-continue semantics.
func runTrace(h *cx.Hart, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var retired, faulted int
	for lineNo, line := range strings.Split(string(data), "\n") {
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		raw, err := parseWord(line)
		if err != nil {
			return fmt.Errorf("line %d: %v", lineNo+1, err)
		}
		if err := h.Step(raw); err != nil {
			faulted++
			log.Warn(log.HartMonitoring, "instruction faulted",
				"line", lineNo+1, "raw", fmt.Sprintf("%#08x", raw), "err", err)
			continue
		}
		retired++
	}
	fmt.Printf("retired %d instruction(s), %d fault(s)\n", retired, faulted)
	fmt.Printf("hart 0: selector=%s index_defined=%v\n",
		formatSelector(h.CX().Selector()), h.CX().IndexDefined())
	return nil
}
