// cmd/root.go
package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/dvrpsim/dvrpsim/sim"
)

var (
	scenarioPath    string
	logLevel        string
	checkInvariants bool
)

var rootCmd = &cobra.Command{
	Use:   "dvrpsim",
	Short: "Discrete-event simulator for dynamic vehicle routing problems",
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a scenario to its horizon with the default reject-all routing callback",
	Run: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		cfg, err := LoadScenarioConfig(scenarioPath)
		if err != nil {
			logrus.Fatal(err)
		}
		m, err := cfg.Build()
		if err != nil {
			logrus.Fatal(err)
		}

		m.Run(cfg.Horizon)
		printSummary(m)

		if checkInvariants {
			if err := sim.CheckInvariants(m); err != nil {
				logrus.Fatalf("invariant check failed: %v", err)
			}
			logrus.Info("invariant check passed")
		}
	},
}

func printSummary(m *sim.Model) {
	counts := map[string]int{}
	for _, o := range m.Orders {
		counts[o.Status.String()]++
	}
	logrus.Infof("final order counts: %+v", counts)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	runCmd.Flags().StringVar(&scenarioPath, "scenario", "", "path to a scenario YAML file (required)")
	runCmd.Flags().StringVar(&logLevel, "log", "info", "log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&checkInvariants, "check-invariants", false, "run structural invariant checks after the simulation finishes")
	runCmd.MarkFlagRequired("scenario")

	rootCmd.AddCommand(runCmd)
}
