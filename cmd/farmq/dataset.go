package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"farmFilters/catalog"
	"farmFilters/schemas"
	"farmFilters/source"
	"farmFilters/types"
)

// dataset binds a schema to the fields the generic list flags act on.
type dataset struct {
	schema      schemas.Schema
	dateField   string
	bucketField string
	samples     func(now time.Time) []types.Record
}

var datasets = map[string]dataset{
	catalog.AcquisitionsName: {
		schema:      catalog.Acquisitions(),
		dateField:   "startDate",
		bucketField: "area",
		samples: func(time.Time) []types.Record {
			return catalog.AcquisitionRecords(catalog.SampleAcquisitions())
		},
	},
	catalog.ReportsName: {
		schema:      catalog.Reports(),
		dateField:   "analysisDate",
		bucketField: "violations",
		samples: func(now time.Time) []types.Record {
			return catalog.ReportRecords(catalog.SampleReports(now, 35, 1))
		},
	},
}

func lookupDataset(name string) (dataset, error) {
	ds, ok := datasets[name]
	if !ok {
		return dataset{}, fmt.Errorf("unknown dataset %q (want %s or %s)", name, catalog.AcquisitionsName, catalog.ReportsName)
	}
	return ds, nil
}

// openSource picks Postgres when a database is configured, then a data
// file, then the built-in samples. The returned close func is never nil.
func openSource(ctx context.Context, ds dataset) (source.Source, func(), error) {
	noop := func() {}
	if cfg.DatabaseURL != "" {
		pg, err := source.OpenPostgres(ctx, cfg.DatabaseURL, ds.schema, logger)
		if err != nil {
			return nil, noop, err
		}
		logger.Debug("using postgres source", zap.String("dataset", ds.schema.Name))
		return pg, func() { _ = pg.Close() }, nil
	}
	if path := cfg.DataFile(ds.schema.Name); path != "" {
		logger.Debug("using file source", zap.String("dataset", ds.schema.Name), zap.String("path", path))
		return source.File{Path: path, Schema: ds.schema}, noop, nil
	}
	logger.Debug("using sample data", zap.String("dataset", ds.schema.Name))
	return source.Static(ds.samples(time.Now())), noop, nil
}
