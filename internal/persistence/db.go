// Package persistence records daily simulation statistics to SQLite.
// It is a read-only observer of the core: the recorder consumes published
// stats and never writes anything back into simulation state. The core
// itself owns no save format.
package persistence

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/gridcity/internal/engine"
)

// DB wraps a SQLite connection for the statistics log.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS daily_stats (
		tick INTEGER PRIMARY KEY,
		population INTEGER NOT NULL,
		jobs INTEGER NOT NULL,
		residential_demand REAL NOT NULL,
		commercial_demand REAL NOT NULL,
		industrial_demand REAL NOT NULL,
		average_commute_time REAL NOT NULL,
		congestion_level REAL NOT NULL,
		unemployment_rate REAL NOT NULL,
		utility_coverage REAL NOT NULL,
		average_land_value REAL NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_daily_stats_population ON daily_stats(population);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// RecordDay appends (or overwrites) one day's aggregate statistics.
func (db *DB) RecordDay(tick uint64, stats engine.SimStats) error {
	_, err := db.conn.Exec(`
		INSERT OR REPLACE INTO daily_stats (
			tick, population, jobs,
			residential_demand, commercial_demand, industrial_demand,
			average_commute_time, congestion_level, unemployment_rate,
			utility_coverage, average_land_value
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		tick, stats.Population, stats.Jobs,
		stats.ResidentialDemand, stats.CommercialDemand, stats.IndustrialDemand,
		stats.AverageCommuteTime, stats.CongestionLevel, stats.UnemploymentRate,
		stats.UtilityCoverage, stats.AverageLandValue,
	)
	if err != nil {
		return fmt.Errorf("record day %d: %w", tick, err)
	}
	return nil
}

// dayRow mirrors the daily_stats schema for sqlx scanning.
type dayRow struct {
	Tick               uint64  `db:"tick"`
	Population         int     `db:"population"`
	Jobs               int     `db:"jobs"`
	ResidentialDemand  float64 `db:"residential_demand"`
	CommercialDemand   float64 `db:"commercial_demand"`
	IndustrialDemand   float64 `db:"industrial_demand"`
	AverageCommuteTime float64 `db:"average_commute_time"`
	CongestionLevel    float64 `db:"congestion_level"`
	UnemploymentRate   float64 `db:"unemployment_rate"`
	UtilityCoverage    float64 `db:"utility_coverage"`
	AverageLandValue   float64 `db:"average_land_value"`
}

func (r dayRow) stats() engine.SimStats {
	return engine.SimStats{
		Population:         r.Population,
		Jobs:               r.Jobs,
		ResidentialDemand:  r.ResidentialDemand,
		CommercialDemand:   r.CommercialDemand,
		IndustrialDemand:   r.IndustrialDemand,
		AverageCommuteTime: r.AverageCommuteTime,
		CongestionLevel:    r.CongestionLevel,
		UnemploymentRate:   r.UnemploymentRate,
		UtilityCoverage:    r.UtilityCoverage,
		AverageLandValue:   r.AverageLandValue,
	}
}

// LatestDay returns the most recently recorded tick and its stats.
// Returns found=false on an empty log.
func (db *DB) LatestDay() (tick uint64, stats engine.SimStats, found bool, err error) {
	var row dayRow
	err = db.conn.Get(&row, `SELECT * FROM daily_stats ORDER BY tick DESC LIMIT 1`)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, engine.SimStats{}, false, nil
		}
		return 0, engine.SimStats{}, false, fmt.Errorf("latest day: %w", err)
	}
	return row.Tick, row.stats(), true, nil
}

// History returns up to limit recorded days in ascending tick order.
func (db *DB) History(limit int) (map[uint64]engine.SimStats, error) {
	var rows []dayRow
	err := db.conn.Select(&rows, `SELECT * FROM daily_stats ORDER BY tick ASC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}

	out := make(map[uint64]engine.SimStats, len(rows))
	for _, row := range rows {
		out[row.Tick] = row.stats()
	}
	return out, nil
}
