// Command citysim runs the city simulation core with a demo city, serving
// read-only state over HTTP and recording daily statistics to SQLite.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/talgya/gridcity/internal/api"
	"github.com/talgya/gridcity/internal/engine"
	"github.com/talgya/gridcity/internal/entropy"
	"github.com/talgya/gridcity/internal/persistence"
	"github.com/talgya/gridcity/internal/utilities"
	"github.com/talgya/gridcity/internal/zoning"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "citysim",
		Short:         "Tile-grid city simulation core",
		Long:          "citysim runs the economic/infrastructure simulation core: RCI demand, utility propagation, zoning development, and commuter traffic on a shared tile grid.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}

	flags := cmd.Flags()
	flags.Int("width", 64, "grid width in tiles")
	flags.Int("height", 64, "grid height in tiles")
	flags.Int64("seed", 0, "deterministic seed (0 = random)")
	flags.Int("port", 8080, "HTTP API port")
	flags.String("db", "data/citysim.db", "SQLite stats log path (empty to disable)")
	flags.Float64("speed", 1.0, "simulation speed multiplier")
	flags.Uint64("days", 0, "stop after N simulated days (0 = run until interrupted)")
	flags.Bool("demo", true, "bootstrap a small demo city")

	viper.SetEnvPrefix("CITYSIM")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	if err := viper.BindPFlags(flags); err != nil {
		panic(err)
	}

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	width := viper.GetInt("width")
	height := viper.GetInt("height")
	seed := viper.GetInt64("seed")

	var rng entropy.Source
	if seed != 0 {
		rng = entropy.NewSeeded(seed)
	} else {
		rng = entropy.NewTimeSeeded()
	}

	sim, err := engine.NewSimulation(width, height, rng)
	if err != nil {
		return fmt.Errorf("create simulation: %w", err)
	}

	if seed != 0 {
		sim.Zones.SeedLandValue(seed)
	}

	if viper.GetBool("demo") {
		if err := seedCity(sim); err != nil {
			return fmt.Errorf("seed demo city: %w", err)
		}
	}

	var db *persistence.DB
	if path := viper.GetString("db"); path != "" {
		if dir := strings.TrimSuffix(path, "/"); strings.Contains(dir, "/") {
			os.MkdirAll(dir[:strings.LastIndex(dir, "/")], 0o755)
		}
		db, err = persistence.Open(path)
		if err != nil {
			return fmt.Errorf("open stats log: %w", err)
		}
		defer db.Close()
		slog.Info("stats log opened", "path", path)
	}

	server := api.NewServer(viper.GetInt("port"))
	server.Start()

	loop := engine.NewLoop()
	loop.Speed = viper.GetFloat64("speed")

	maxDays := viper.GetUint64("days")
	loop.OnDay = func(tick uint64) {
		sim.TickDay(tick, 1.0)
		sim.LogDailyReport(tick)

		server.Publish(api.Capture(sim, tick))

		if db != nil {
			if err := db.RecordDay(tick, sim.Stats); err != nil {
				slog.Error("record day failed", "tick", tick, "error", err)
			}
		}

		if maxDays > 0 && tick >= maxDays {
			loop.Stop()
		}
	}

	done := make(chan struct{})
	go func() {
		loop.Run()
		close(done)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("shutting down", "signal", sig.String())
		loop.Stop()
		<-done
	case <-done:
	}

	slog.Info("final state",
		"day", engine.SimDate(loop.Tick),
		"population", sim.Stats.Population,
		"jobs", sim.Stats.Jobs,
	)
	return nil
}

// seedCity zones a small starter layout and places utilities so growth
// starts immediately: a residential quarter, a commercial strip, an
// industrial corner, and one power plant plus one water tower between
// them.
func seedCity(sim *engine.Simulation) error {
	for y := 10; y < 18; y++ {
		for x := 10; x < 18; x++ {
			sim.Zones.SetZone(x, y, zoning.ZoneResidentialLow)
		}
	}
	for y := 10; y < 18; y++ {
		for x := 19; x < 22; x++ {
			sim.Zones.SetZone(x, y, zoning.ZoneCommercialLow)
		}
	}
	for y := 10; y < 14; y++ {
		for x := 23; x < 27; x++ {
			sim.Zones.SetZone(x, y, zoning.ZoneIndustrialManufacturing)
		}
	}

	if err := sim.Utilities.PlacePowerPlant(18, 12, utilities.PowerCoal); err != nil {
		return err
	}
	if err := sim.Utilities.PlaceWaterSource(18, 15, utilities.WaterTower); err != nil {
		return err
	}
	sim.Utilities.SyncTileFlags()

	slog.Info("demo city seeded",
		"residential", sim.Zones.ZoneCount(zoning.ZoneResidentialLow),
		"commercial", sim.Zones.ZoneCount(zoning.ZoneCommercialLow),
		"industrial", sim.Zones.ZoneCount(zoning.ZoneIndustrialManufacturing),
	)
	return nil
}
