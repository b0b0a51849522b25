package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gridpilot/gridpilot/app"
	"github.com/gridpilot/gridpilot/config"
	"github.com/gridpilot/gridpilot/infra/logger"
)

var (
	simTicks int
	simSeed  int64
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a fixed number of ticks and exit",
	Long: `Runs the full pipeline back to back for a fixed number of ticks,
without waiting for the cadence, then prints a summary. Intended for
verification and scripted runs; no UI process is involved.`,
	RunE: simulate,
}

func init() {
	simulateCmd.Flags().IntVarP(&simTicks, "ticks", "n", 24, "number of ticks to run")
	simulateCmd.Flags().Int64Var(&simSeed, "seed", 0, "override the simulation seed")
	rootCmd.AddCommand(simulateCmd)
}

func simulate(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if simTicks < 1 {
		return fmt.Errorf("ticks must be positive")
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if simSeed != 0 {
		cfg.Simulation.Seed = simSeed
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("simulate").Errorf("service close: %v", err)
		}
	}()

	if err := svc.RunTicks(ctx, simTicks); err != nil {
		return err
	}

	cur := svc.Store.Current()
	totals := svc.Scheduler.RunTotals()
	fmt.Printf("ran %d ticks, last at %s\n", svc.Scheduler.Tick(), cur.Timestamp.Format("2006-01-02 15:04"))
	fmt.Printf("solar %.1f kWh, load %.1f kWh, soc %.1f%%\n", cur.SolarKWh, cur.LoadKWh, cur.BatterySoC)
	fmt.Printf("cumulative cost %.2f EUR, emissions %.1f kg CO2\n", totals.CostEUR, totals.CO2Kg)
	if dec, ok := svc.Scheduler.LastDecision(); ok {
		fmt.Printf("last decision: %s (%s)\n", dec.BatteryAction, dec.Rationale)
	}
	return nil
}
