//-------------------------------------------------------------------------
//
// visitmetrics
//
// Copyright (c) 2025 - 2026, the visitmetrics authors
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package source

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/visitmetrics/visitmetrics/internal/dataset"
	"github.com/visitmetrics/visitmetrics/internal/db"
	"github.com/visitmetrics/visitmetrics/internal/logging"
)

// Postgres loads the dataset from the air_visits, date_info and air_stores
// tables of a PostgreSQL database.
type Postgres struct {
	ConnString string

	// Pool is set by Load/Write on first use; tests may inject one.
	Pool *pgxpool.Pool
}

// Name identifies the source type.
func (p *Postgres) Name() string { return "postgres" }

func (p *Postgres) pool(ctx context.Context) (*pgxpool.Pool, error) {
	if p.Pool != nil {
		return p.Pool, nil
	}
	pool, err := db.Connect(ctx, p.ConnString)
	if err != nil {
		return nil, err
	}
	p.Pool = pool
	return pool, nil
}

// Close releases the connection pool if one was opened.
func (p *Postgres) Close() {
	if p.Pool != nil {
		p.Pool.Close()
		p.Pool = nil
	}
}

// Load reads all three base tables.
func (p *Postgres) Load(ctx context.Context) (*dataset.Dataset, error) {
	pool, err := p.pool(ctx)
	if err != nil {
		return nil, err
	}

	ds := dataset.New()

	rows, err := pool.Query(ctx, `
        SELECT store_id, visit_datetime, reserve_datetime, reserve_visitors
        FROM air_visits
    `)
	if err != nil {
		return nil, fmt.Errorf("querying air_visits: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			storeID     *string
			visitTime   *time.Time
			reserveTime *time.Time
			visitors    *int64
		)
		if err := rows.Scan(&storeID, &visitTime, &reserveTime, &visitors); err != nil {
			return nil, fmt.Errorf("scanning air_visits: %w", err)
		}
		var v dataset.VisitRecord
		if storeID != nil {
			v.StoreID = *storeID
		}
		if visitTime != nil {
			v.VisitTime = dataset.Timestamp(visitTime.UTC())
		}
		if reserveTime != nil {
			v.ReserveTime = dataset.Timestamp(reserveTime.UTC())
		}
		if visitors != nil {
			v.Visitors = dataset.Int(*visitors)
		}
		ds.Visits = append(ds.Visits, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	dayRows, err := pool.Query(ctx, `
        SELECT calendar_date, day_of_week, holiday_flg
        FROM date_info
    `)
	if err != nil {
		return nil, fmt.Errorf("querying date_info: %w", err)
	}
	defer dayRows.Close()
	for dayRows.Next() {
		var (
			date    time.Time
			dowName string
			holiday bool
		)
		if err := dayRows.Scan(&date, &dowName, &holiday); err != nil {
			return nil, fmt.Errorf("scanning date_info: %w", err)
		}
		dow, err := parseWeekday(dowName)
		if err != nil {
			return nil, err
		}
		key := dataset.DateKey(date.UTC())
		ds.Calendar[key] = dataset.CalendarDay{Date: key, DayOfWeek: dow, Holiday: holiday}
	}
	if err := dayRows.Err(); err != nil {
		return nil, err
	}

	storeRows, err := pool.Query(ctx, `
        SELECT store_id, genre, area, latitude, longitude
        FROM air_stores
    `)
	if err != nil {
		return nil, fmt.Errorf("querying air_stores: %w", err)
	}
	defer storeRows.Close()
	for storeRows.Next() {
		var s dataset.Store
		if err := storeRows.Scan(&s.ID, &s.Genre, &s.Area, &s.Latitude, &s.Longitude); err != nil {
			return nil, fmt.Errorf("scanning air_stores: %w", err)
		}
		ds.Stores[s.ID] = s
	}
	if err := storeRows.Err(); err != nil {
		return nil, err
	}

	logging.Debug().
		Int("visits", len(ds.Visits)).
		Int("calendar_days", len(ds.Calendar)).
		Int("stores", len(ds.Stores)).
		Msg("Loaded dataset from PostgreSQL")

	return ds, nil
}

// CreateSchema creates the three base tables if they do not exist.
func (p *Postgres) CreateSchema(ctx context.Context) error {
	pool, err := p.pool(ctx)
	if err != nil {
		return err
	}

	statements := []string{
		`CREATE TABLE IF NOT EXISTS air_stores (
            store_id  text PRIMARY KEY,
            genre     text NOT NULL,
            area      text NOT NULL,
            latitude  double precision NOT NULL,
            longitude double precision NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS date_info (
            calendar_date date PRIMARY KEY,
            day_of_week   text NOT NULL,
            holiday_flg   boolean NOT NULL DEFAULT false
        )`,
		`CREATE TABLE IF NOT EXISTS air_visits (
            store_id         text,
            visit_datetime   timestamptz,
            reserve_datetime timestamptz,
            reserve_visitors bigint
        )`,
		`CREATE INDEX IF NOT EXISTS air_visits_store_idx
            ON air_visits (store_id, visit_datetime)`,
	}
	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	}
	return nil
}

// Write persists a dataset into the three base tables. The visit facts go
// through COPY since they dominate the row count; the dimensions are small
// enough for plain inserts.
func (p *Postgres) Write(ctx context.Context, ds *dataset.Dataset) error {
	pool, err := p.pool(ctx)
	if err != nil {
		return err
	}
	if err := p.CreateSchema(ctx); err != nil {
		return err
	}

	for _, s := range ds.Stores {
		if _, err := pool.Exec(ctx, `
            INSERT INTO air_stores (store_id, genre, area, latitude, longitude)
            VALUES ($1, $2, $3, $4, $5)
            ON CONFLICT (store_id) DO NOTHING
        `, s.ID, s.Genre, s.Area, s.Latitude, s.Longitude); err != nil {
			return fmt.Errorf("inserting store %s: %w", s.ID, err)
		}
	}

	for _, d := range ds.Calendar {
		if _, err := pool.Exec(ctx, `
            INSERT INTO date_info (calendar_date, day_of_week, holiday_flg)
            VALUES ($1, $2, $3)
            ON CONFLICT (calendar_date) DO NOTHING
        `, d.Date, d.DayOfWeek.String(), d.Holiday); err != nil {
			return fmt.Errorf("inserting calendar day %s: %w", d.Date.Format("2006-01-02"), err)
		}
	}

	copied, err := pool.CopyFrom(ctx,
		pgx.Identifier{"air_visits"},
		[]string{"store_id", "visit_datetime", "reserve_datetime", "reserve_visitors"},
		pgx.CopyFromSlice(len(ds.Visits), func(i int) ([]any, error) {
			v := ds.Visits[i]
			row := make([]any, 4)
			if v.StoreID != "" {
				row[0] = v.StoreID
			}
			if v.VisitTime.Valid {
				row[1] = v.VisitTime.Time
			}
			if v.ReserveTime.Valid {
				row[2] = v.ReserveTime.Time
			}
			if v.Visitors.Valid {
				row[3] = v.Visitors.Int64
			}
			return row, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("copying visits: %w", err)
	}

	logging.Info().
		Int64("visits", copied).
		Int("stores", len(ds.Stores)).
		Int("calendar_days", len(ds.Calendar)).
		Msg("Wrote dataset to PostgreSQL")

	return nil
}
