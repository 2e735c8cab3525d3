package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/galtonlab/quincunx/bean"
	"github.com/galtonlab/quincunx/simulation"
)

var (
	monitorFlag bool
	monitorPort int
	browserFlag bool
	outputFile  string
	seed        int64
)

var rootCmd = &cobra.Command{
	Use:   "quincunx <slot_count> <bean_count> <luck|skill> [debug]",
	Short: "Run a Galton box experiment in text mode",
	Long: `Quincunx simulates a Galton box: beans drop through a triangular board
of pegs, branch left or right at every peg, and pile up in the slots at the
bottom. In luck mode every bean branches 50/50 at each peg; in skill mode
every bean steers toward a slot fixed once at creation.

The bean count of every slot is printed when the machine finishes. With
debug, the whole board is printed after every step.`,
	Example: `  quincunx 10 400 luck
  quincunx 20 1000 skill debug`,
	Args: cobra.RangeArgs(3, 4),
	RunE: runExperiment,
}

func init() {
	rootCmd.Flags().BoolVar(&monitorFlag, "monitor", false,
		"serve the machine state over HTTP while the experiment runs")
	rootCmd.Flags().IntVar(&monitorPort, "monitor-port", 0,
		"port for the monitoring server (random if unset)")
	rootCmd.Flags().BoolVar(&browserFlag, "browser", false,
		"open the monitoring page in the default browser")
	rootCmd.Flags().StringVar(&outputFile, "output", "",
		"record results into <name>.sqlite3")
	rootCmd.Flags().Int64Var(&seed, "seed", 0,
		"random seed (time-based if unset)")
}

func parseArgs(args []string) (
	slotCount, beanCount int,
	mode bean.Mode,
	debug bool,
	err error,
) {
	slotCount, err = strconv.Atoi(args[0])
	if err != nil || slotCount <= 0 {
		err = fmt.Errorf("invalid slot count %q", args[0])
		return
	}

	beanCount, err = strconv.Atoi(args[1])
	if err != nil || beanCount < 0 {
		err = fmt.Errorf("invalid bean count %q", args[1])
		return
	}

	mode, err = bean.ParseMode(args[2])
	if err != nil {
		return
	}

	if len(args) == 4 {
		if args[3] != "debug" {
			err = fmt.Errorf("unknown argument %q, want debug", args[3])
			return
		}
		debug = true
	}

	return slotCount, beanCount, mode, debug, nil
}

func runExperiment(_ *cobra.Command, args []string) error {
	slotCount, beanCount, mode, debug, err := parseArgs(args)
	if err != nil {
		return err
	}

	builder := simulation.MakeBuilder().
		WithSlotCount(slotCount).
		WithBeanCount(beanCount).
		WithMode(mode).
		WithSeed(seed)

	if debug {
		builder = builder.WithDebug()
	}

	if outputFile != "" {
		builder = builder.WithOutputFileName(outputFile)
	}

	if monitorFlag {
		builder = builder.WithMonitoring()
		if monitorPort > 0 {
			builder = builder.WithMonitorPort(monitorPort)
		}
		if browserFlag {
			builder = builder.WithBrowser()
		}
	}

	s := builder.Build()
	defer s.Terminate()

	s.Run()

	fmt.Println("Slot bean counts:")
	fmt.Println(s.Machine().SlotString())

	return nil
}
