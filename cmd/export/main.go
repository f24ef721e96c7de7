// Command export writes a one-shot CSV export of a dashboard view,
// for scheduled report drops and offline analysis.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"projex/internal/app"
	"projex/internal/prepare"
	"projex/internal/report"
	"projex/pkg/records"
)

func main() {
	var (
		cfgPath string
		view    string
		outDir  string
		partner string
		region  string
		band    string
		search  string
		minDays float64
		refStr  string
	)
	flag.StringVar(&cfgPath, "config", "configs/app.json", "app config JSON path")
	flag.StringVar(&view, "view", "detalle", "view to export: retrasos, ejecutivo or detalle")
	flag.StringVar(&outDir, "out", ".", "output directory")
	flag.StringVar(&partner, "partner", "", "partner filter (retrasos)")
	flag.StringVar(&region, "region", "", "region filter (retrasos)")
	flag.StringVar(&band, "band", "", "delay band filter (retrasos): critico, moderado, leve")
	flag.StringVar(&search, "q", "", "project name search")
	flag.Float64Var(&minDays, "min-days", 0, "minimum delay days (detalle)")
	flag.StringVar(&refStr, "hoy", "", "reference date YYYY-MM-DD for delay recompute")
	flag.Parse()

	cfg, err := app.Load(cfgPath)
	if err != nil {
		fatalf("%v", err)
	}

	ctx := context.Background()
	a, err := app.Open(ctx, cfg)
	if err != nil {
		fatalf("%v", err)
	}
	defer a.Close()

	raw, err := a.Repo.LoadExceptions(ctx)
	if err != nil {
		fatalf("load dataset: %v", err)
	}
	now := time.Now()
	rows := prepare.Normalize(raw, now)
	if refStr != "" {
		ref, err := time.Parse("2006-01-02", refStr)
		if err != nil {
			fatalf("invalid -hoy date %q: %v", refStr, err)
		}
		rows = prepare.RecomputeDelay(rows, &ref)
	}

	var (
		cols   []string
		table  []records.Record
		name   string
		bldErr error
	)
	switch view {
	case "retrasos":
		v, err := report.BuildDelays(rows, report.OperationalFilters{
			Partner: partner, Region: region, Band: band, Search: search,
		})
		bldErr = err
		cols, table = report.DelayTableColumns, v.Table
		name = report.Filename("retrasos_filtrado", now)
	case "ejecutivo":
		cols, table = report.ExportColumns, rows
		name = report.Filename("proyectos_paradas", now)
	case "detalle":
		v, err := report.BuildDetail(rows, search, minDays, 1, 0)
		bldErr = err
		cols, table = report.DetailColumns, v.Export
		name = report.DailyFilename("retrasos_detalle", now)
	default:
		fatalf("unknown view %q", view)
	}
	if bldErr != nil && !errors.Is(bldErr, report.ErrEmpty) {
		fatalf("build view: %v", bldErr)
	}

	path := filepath.Join(outDir, name)
	f, err := os.Create(path)
	if err != nil {
		fatalf("create export: %v", err)
	}
	if err := report.WriteCSV(f, cols, table); err != nil {
		f.Close()
		fatalf("write export: %v", err)
	}
	if err := f.Close(); err != nil {
		fatalf("close export: %v", err)
	}

	a.Log.WithField("rows", len(table)).WithField("path", path).Info("export written")
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
