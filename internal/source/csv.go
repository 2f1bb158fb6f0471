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
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/visitmetrics/visitmetrics/internal/dataset"
	"github.com/visitmetrics/visitmetrics/internal/logging"
)

// CSV loads the dataset from three delimited files with headers matching
// the reservation dataset export:
//
//	visits:   air_store_id, visit_datetime, reserve_datetime, reserve_visitors
//	calendar: calendar_date, day_of_week, holiday_flg
//	stores:   air_store_id, air_genre_name, air_area_name, latitude, longitude
//
// Empty cells become missing values; malformed cells are counted and logged
// but never abort the load.
type CSV struct {
	VisitsPath   string
	CalendarPath string
	StoresPath   string
}

// Name identifies the source type.
func (c *CSV) Name() string { return "csv" }

// Load reads all three files into a dataset.
func (c *CSV) Load(ctx context.Context) (*dataset.Dataset, error) {
	ds := dataset.New()

	if err := c.loadVisits(ds); err != nil {
		return nil, fmt.Errorf("loading visits: %w", err)
	}
	if err := c.loadCalendar(ds); err != nil {
		return nil, fmt.Errorf("loading calendar: %w", err)
	}
	if err := c.loadStores(ds); err != nil {
		return nil, fmt.Errorf("loading stores: %w", err)
	}

	logging.Debug().
		Int("visits", len(ds.Visits)).
		Int("calendar_days", len(ds.Calendar)).
		Int("stores", len(ds.Stores)).
		Msg("Loaded dataset from CSV")

	return ds, nil
}

// header maps column names to their index for one file.
type header map[string]int

func readHeader(r *csv.Reader) (header, error) {
	row, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	h := make(header, len(row))
	for i, name := range row {
		h[name] = i
	}
	return h, nil
}

func (h header) get(row []string, name string) (string, error) {
	i, ok := h[name]
	if !ok {
		return "", fmt.Errorf("missing column: %s", name)
	}
	if i >= len(row) {
		return "", nil
	}
	return row[i], nil
}

func (c *CSV) loadVisits(ds *dataset.Dataset) error {
	f, err := os.Open(c.VisitsPath)
	if err != nil {
		return err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	h, err := readHeader(r)
	if err != nil {
		return err
	}

	var malformed int
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		var v dataset.VisitRecord
		if v.StoreID, err = h.get(row, "air_store_id"); err != nil {
			return err
		}

		visitRaw, err := h.get(row, "visit_datetime")
		if err != nil {
			return err
		}
		v.VisitTime, err = parseTimestampCell(visitRaw)
		if err != nil {
			malformed++
		}

		reserveRaw, err := h.get(row, "reserve_datetime")
		if err != nil {
			return err
		}
		v.ReserveTime, err = parseTimestampCell(reserveRaw)
		if err != nil {
			malformed++
		}

		countRaw, err := h.get(row, "reserve_visitors")
		if err != nil {
			return err
		}
		if countRaw != "" {
			n, err := strconv.ParseInt(countRaw, 10, 64)
			if err != nil {
				malformed++
			} else {
				v.Visitors = dataset.Int(n)
			}
		}

		ds.Visits = append(ds.Visits, v)
	}

	if malformed > 0 {
		logging.Warn().
			Int("cells", malformed).
			Str("file", c.VisitsPath).
			Msg("Malformed cells treated as missing")
	}
	return nil
}

// parseTimestampCell parses an optional timestamp. Empty cells are simply
// missing; non-empty unparsable cells report an error so the caller can
// count them, but the value is still treated as missing.
func parseTimestampCell(s string) (dataset.NullTime, error) {
	if s == "" {
		return dataset.NullTime{}, nil
	}
	t, err := time.ParseInLocation(timestampLayout, s, time.UTC)
	if err != nil {
		return dataset.NullTime{}, err
	}
	return dataset.Timestamp(t), nil
}

func (c *CSV) loadCalendar(ds *dataset.Dataset) error {
	f, err := os.Open(c.CalendarPath)
	if err != nil {
		return err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	h, err := readHeader(r)
	if err != nil {
		return err
	}

	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		dateRaw, err := h.get(row, "calendar_date")
		if err != nil {
			return err
		}
		date, err := time.ParseInLocation(dateLayout, dateRaw, time.UTC)
		if err != nil {
			return fmt.Errorf("bad calendar_date %q: %w", dateRaw, err)
		}

		dowRaw, err := h.get(row, "day_of_week")
		if err != nil {
			return err
		}
		dow, err := parseWeekday(dowRaw)
		if err != nil {
			return err
		}

		flagRaw, err := h.get(row, "holiday_flg")
		if err != nil {
			return err
		}

		ds.Calendar[dataset.DateKey(date)] = dataset.CalendarDay{
			Date:      dataset.DateKey(date),
			DayOfWeek: dow,
			Holiday:   flagRaw == "1",
		}
	}
	return nil
}

func (c *CSV) loadStores(ds *dataset.Dataset) error {
	f, err := os.Open(c.StoresPath)
	if err != nil {
		return err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	h, err := readHeader(r)
	if err != nil {
		return err
	}

	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		var s dataset.Store
		if s.ID, err = h.get(row, "air_store_id"); err != nil {
			return err
		}
		if s.Genre, err = h.get(row, "air_genre_name"); err != nil {
			return err
		}
		if s.Area, err = h.get(row, "air_area_name"); err != nil {
			return err
		}

		latRaw, err := h.get(row, "latitude")
		if err != nil {
			return err
		}
		lngRaw, err := h.get(row, "longitude")
		if err != nil {
			return err
		}
		if s.Latitude, err = strconv.ParseFloat(latRaw, 64); err != nil {
			return fmt.Errorf("bad latitude for %s: %w", s.ID, err)
		}
		if s.Longitude, err = strconv.ParseFloat(lngRaw, 64); err != nil {
			return fmt.Errorf("bad longitude for %s: %w", s.ID, err)
		}

		ds.Stores[s.ID] = s
	}
	return nil
}

// Write persists a dataset as the three CSV files, overwriting existing
// files. Missing values become empty cells, the inverse of Load.
func (c *CSV) Write(ctx context.Context, ds *dataset.Dataset) error {
	if err := writeCSVFile(c.VisitsPath,
		[]string{"air_store_id", "visit_datetime", "reserve_datetime", "reserve_visitors"},
		len(ds.Visits),
		func(i int) []string {
			v := ds.Visits[i]
			return []string{
				v.StoreID,
				formatTimestampCell(v.VisitTime),
				formatTimestampCell(v.ReserveTime),
				formatIntCell(v.Visitors),
			}
		},
	); err != nil {
		return fmt.Errorf("writing visits: %w", err)
	}

	days := make([]dataset.CalendarDay, 0, len(ds.Calendar))
	for _, d := range ds.Calendar {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date.Before(days[j].Date) })
	if err := writeCSVFile(c.CalendarPath,
		[]string{"calendar_date", "day_of_week", "holiday_flg"},
		len(days),
		func(i int) []string {
			d := days[i]
			flag := "0"
			if d.Holiday {
				flag = "1"
			}
			return []string{d.Date.Format(dateLayout), d.DayOfWeek.String(), flag}
		},
	); err != nil {
		return fmt.Errorf("writing calendar: %w", err)
	}

	stores := make([]dataset.Store, 0, len(ds.Stores))
	for _, s := range ds.Stores {
		stores = append(stores, s)
	}
	sort.Slice(stores, func(i, j int) bool { return stores[i].ID < stores[j].ID })
	if err := writeCSVFile(c.StoresPath,
		[]string{"air_store_id", "air_genre_name", "air_area_name", "latitude", "longitude"},
		len(stores),
		func(i int) []string {
			s := stores[i]
			return []string{
				s.ID, s.Genre, s.Area,
				strconv.FormatFloat(s.Latitude, 'f', -1, 64),
				strconv.FormatFloat(s.Longitude, 'f', -1, 64),
			}
		},
	); err != nil {
		return fmt.Errorf("writing stores: %w", err)
	}

	return nil
}

func formatTimestampCell(t dataset.NullTime) string {
	if !t.Valid {
		return ""
	}
	return t.Time.Format(timestampLayout)
}

func formatIntCell(n dataset.NullInt) string {
	if !n.Valid {
		return ""
	}
	return strconv.FormatInt(n.Int64, 10)
}

func writeCSVFile(path string, head []string, rows int, row func(int) []string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(head); err != nil {
		return err
	}
	for i := 0; i < rows; i++ {
		if err := w.Write(row(i)); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}
