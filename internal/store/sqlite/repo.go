// Package sqlite implements a SQLite-backed store.Repository over the
// star-schema dataset file. Reads go through database/sql; the exceptions
// query joins the fact table with its dimensions and keeps only delayed
// or paused projects.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // pure-Go driver, no cgo

	"projex/internal/store"
	"projex/pkg/records"
)

const exceptionsQuery = `
SELECT f.*,
       dp.ProjectName, dp.ProjectStatus,
       dt.ContractSigned, dt.PlannedGoLive,
       dt.Año, dt.Mes, dt.Trimestre,
       dc.CustomerRegion,
       ds.SolutionArea,
       di.ISS,
       dpa.MainPartner
FROM Fact_Proyectos_LIMPIA f
LEFT JOIN Dim_Proyecto dp ON f.ProjectID = dp.ProjectID
LEFT JOIN Dim_Tiempo dt ON f.DateKey = dt.DateKey
LEFT JOIN Dim_Cliente dc ON f.CustomerID = dc.CustomerID
LEFT JOIN Dim_Solucion ds ON f.SolutionID = ds.SolutionID
LEFT JOIN Dim_Industria di ON f.IndustryID = di.IndustryID
LEFT JOIN Dim_Partner dpa ON f.PartnerID = dpa.PartnerID
WHERE f.IndicadorRetraso = 1 OR dp.ProjectStatus = 'Pausado'`

const summaryQuery = `
SELECT AVG(f.DiasRetraso) AS avg_delay_days,
       SUM(CASE WHEN f.IndicadorRetraso = 1 OR dp.ProjectStatus = 'Pausado' THEN 1 ELSE 0 END) * 1.0 / COUNT(*) AS pct_affected,
       SUM(CASE WHEN f.IndicadorRetraso = 1 OR dp.ProjectStatus = 'Pausado' THEN 1 ELSE 0 END) AS total_exceptions
FROM Fact_Proyectos_LIMPIA f
LEFT JOIN Dim_Proyecto dp ON f.ProjectID = dp.ProjectID`

// Repository reads the star-schema SQLite dataset.
type Repository struct {
	db *sql.DB
}

// NewRepository opens the SQLite file and pings it to fail fast on a
// missing or corrupt dataset. The returned cleanup closes the handle.
func NewRepository(ctx context.Context, dsn string) (*Repository, func(), error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, nil, fmt.Errorf("sqlite: DSN must not be empty")
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("sqlite: open: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("sqlite: ping: %w", err)
	}
	return &Repository{db: db}, func() { db.Close() }, nil
}

// LoadExceptions runs the star-schema join and returns one record per
// exception row.
func (r *Repository) LoadExceptions(ctx context.Context) ([]records.Record, error) {
	rows, err := r.db.QueryContext(ctx, exceptionsQuery)
	if err != nil {
		return nil, fmt.Errorf("sqlite: exceptions query: %w", err)
	}
	defer rows.Close()
	recs, err := store.ScanRecords(rows)
	if err != nil {
		return nil, fmt.Errorf("sqlite: %w", err)
	}
	return recs, nil
}

// LoadSummaryMetrics computes the dataset-level averages in SQL, over the
// full fact table rather than the exception subset.
func (r *Repository) LoadSummaryMetrics(ctx context.Context) (store.Summary, error) {
	var (
		avg, pct sql.NullFloat64
		total    sql.NullInt64
	)
	err := r.db.QueryRowContext(ctx, summaryQuery).Scan(&avg, &pct, &total)
	if err != nil {
		return store.Summary{}, fmt.Errorf("sqlite: summary query: %w", err)
	}
	return store.Summary{
		TotalExceptions: total.Int64,
		AvgDelayDays:    avg.Float64,
		PctDelayed:      pct.Float64 * 100,
	}, nil
}
