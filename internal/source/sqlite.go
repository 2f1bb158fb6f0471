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
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/visitmetrics/visitmetrics/internal/dataset"
	"github.com/visitmetrics/visitmetrics/internal/logging"
)

// SQLite loads the dataset from a local SQLite file with the same three
// tables as the PostgreSQL source. Timestamps and dates are stored as TEXT
// in the CSV layouts.
type SQLite struct {
	Path string
}

// Name identifies the source type.
func (s *SQLite) Name() string { return "sqlite" }

func (s *SQLite) open() (*sql.DB, error) {
	handle, err := sql.Open("sqlite", s.Path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}
	if _, err := handle.Exec("PRAGMA journal_mode=WAL"); err != nil {
		handle.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}
	return handle, nil
}

// Load reads all three base tables.
func (s *SQLite) Load(ctx context.Context) (*dataset.Dataset, error) {
	handle, err := s.open()
	if err != nil {
		return nil, err
	}
	defer handle.Close()

	ds := dataset.New()

	rows, err := handle.QueryContext(ctx, `
        SELECT store_id, visit_datetime, reserve_datetime, reserve_visitors
        FROM air_visits
        ORDER BY rowid
    `)
	if err != nil {
		return nil, fmt.Errorf("querying air_visits: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			storeID     sql.NullString
			visitRaw    sql.NullString
			reserveRaw  sql.NullString
			visitors    sql.NullInt64
		)
		if err := rows.Scan(&storeID, &visitRaw, &reserveRaw, &visitors); err != nil {
			return nil, fmt.Errorf("scanning air_visits: %w", err)
		}
		var v dataset.VisitRecord
		v.StoreID = storeID.String
		if visitRaw.Valid {
			if v.VisitTime, err = parseTimestampCell(visitRaw.String); err != nil {
				return nil, fmt.Errorf("bad visit_datetime %q: %w", visitRaw.String, err)
			}
		}
		if reserveRaw.Valid {
			if v.ReserveTime, err = parseTimestampCell(reserveRaw.String); err != nil {
				return nil, fmt.Errorf("bad reserve_datetime %q: %w", reserveRaw.String, err)
			}
		}
		if visitors.Valid {
			v.Visitors = dataset.Int(visitors.Int64)
		}
		ds.Visits = append(ds.Visits, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	dayRows, err := handle.QueryContext(ctx, `
        SELECT calendar_date, day_of_week, holiday_flg
        FROM date_info
    `)
	if err != nil {
		return nil, fmt.Errorf("querying date_info: %w", err)
	}
	defer dayRows.Close()
	for dayRows.Next() {
		var (
			dateRaw string
			dowName string
			holiday int
		)
		if err := dayRows.Scan(&dateRaw, &dowName, &holiday); err != nil {
			return nil, fmt.Errorf("scanning date_info: %w", err)
		}
		date, err := parseDateCell(dateRaw)
		if err != nil {
			return nil, err
		}
		dow, err := parseWeekday(dowName)
		if err != nil {
			return nil, err
		}
		ds.Calendar[date] = dataset.CalendarDay{Date: date, DayOfWeek: dow, Holiday: holiday != 0}
	}
	if err := dayRows.Err(); err != nil {
		return nil, err
	}

	storeRows, err := handle.QueryContext(ctx, `
        SELECT store_id, genre, area, latitude, longitude
        FROM air_stores
    `)
	if err != nil {
		return nil, fmt.Errorf("querying air_stores: %w", err)
	}
	defer storeRows.Close()
	for storeRows.Next() {
		var st dataset.Store
		if err := storeRows.Scan(&st.ID, &st.Genre, &st.Area, &st.Latitude, &st.Longitude); err != nil {
			return nil, fmt.Errorf("scanning air_stores: %w", err)
		}
		ds.Stores[st.ID] = st
	}
	if err := storeRows.Err(); err != nil {
		return nil, err
	}

	logging.Debug().
		Int("visits", len(ds.Visits)).
		Int("calendar_days", len(ds.Calendar)).
		Int("stores", len(ds.Stores)).
		Msg("Loaded dataset from SQLite")

	return ds, nil
}

// Write persists a dataset into a SQLite file, creating the schema first.
// All rows go in a single transaction.
func (s *SQLite) Write(ctx context.Context, ds *dataset.Dataset) error {
	handle, err := s.open()
	if err != nil {
		return err
	}
	defer handle.Close()

	schema := []string{
		`CREATE TABLE IF NOT EXISTS air_stores (
            store_id  TEXT PRIMARY KEY,
            genre     TEXT NOT NULL,
            area      TEXT NOT NULL,
            latitude  REAL NOT NULL,
            longitude REAL NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS date_info (
            calendar_date TEXT PRIMARY KEY,
            day_of_week   TEXT NOT NULL,
            holiday_flg   INTEGER NOT NULL DEFAULT 0
        )`,
		`CREATE TABLE IF NOT EXISTS air_visits (
            store_id         TEXT,
            visit_datetime   TEXT,
            reserve_datetime TEXT,
            reserve_visitors INTEGER
        )`,
	}
	for _, stmt := range schema {
		if _, err := handle.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	}

	tx, err := handle.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, st := range ds.Stores {
		if _, err := tx.ExecContext(ctx, `
            INSERT OR IGNORE INTO air_stores (store_id, genre, area, latitude, longitude)
            VALUES (?, ?, ?, ?, ?)
        `, st.ID, st.Genre, st.Area, st.Latitude, st.Longitude); err != nil {
			return fmt.Errorf("inserting store %s: %w", st.ID, err)
		}
	}

	for _, d := range ds.Calendar {
		if _, err := tx.ExecContext(ctx, `
            INSERT OR IGNORE INTO date_info (calendar_date, day_of_week, holiday_flg)
            VALUES (?, ?, ?)
        `, d.Date.Format(dateLayout), d.DayOfWeek.String(), boolToInt(d.Holiday)); err != nil {
			return fmt.Errorf("inserting calendar day: %w", err)
		}
	}

	stmt, err := tx.PrepareContext(ctx, `
        INSERT INTO air_visits (store_id, visit_datetime, reserve_datetime, reserve_visitors)
        VALUES (?, ?, ?, ?)
    `)
	if err != nil {
		return fmt.Errorf("preparing visit insert: %w", err)
	}
	defer stmt.Close()

	for _, v := range ds.Visits {
		if _, err := stmt.ExecContext(ctx,
			nullString(v.StoreID),
			timestampParam(v.VisitTime),
			timestampParam(v.ReserveTime),
			intParam(v.Visitors),
		); err != nil {
			return fmt.Errorf("inserting visit: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing: %w", err)
	}

	logging.Info().
		Int("visits", len(ds.Visits)).
		Int("stores", len(ds.Stores)).
		Int("calendar_days", len(ds.Calendar)).
		Str("path", s.Path).
		Msg("Wrote dataset to SQLite")

	return nil
}

func parseDateCell(s string) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad calendar_date %q: %w", s, err)
	}
	return dataset.DateKey(t), nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func timestampParam(t dataset.NullTime) any {
	if !t.Valid {
		return nil
	}
	return t.Time.Format(timestampLayout)
}

func intParam(n dataset.NullInt) any {
	if !n.Valid {
		return nil
	}
	return n.Int64
}
