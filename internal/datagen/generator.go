//-------------------------------------------------------------------------
//
// visitmetrics
//
// Copyright (c) 2025 - 2026, the visitmetrics authors
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package datagen

import (
	"fmt"
	"sort"
	"time"

	"github.com/visitmetrics/visitmetrics/internal/dataset"
	"github.com/visitmetrics/visitmetrics/internal/logging"
)

// Config controls synthetic dataset generation.
type Config struct {
	// Stores is the number of stores to generate.
	Stores int

	// Days is the length of the generated calendar.
	Days int

	// Start is the first calendar date (defaults to 2017-01-02).
	Start time.Time
}

var genres = []string{
	"Izakaya",
	"Cafe/Sweets",
	"Dining bar",
	"Italian/French",
	"Japanese food",
	"Bar/Cocktail",
	"Yakiniku/Korean food",
	"Ramen",
	"Okonomiyaki/Monja/Takoyaki",
	"Asian",
}

// Relative genre frequency, roughly following the source dataset's skew.
var genreWeights = []int{22, 18, 15, 14, 10, 8, 5, 4, 2, 2}

type region struct {
	name string
	lat  float64
	lng  float64
}

var regions = []region{
	{"Tokyo Shibuya", 35.6620, 139.7038},
	{"Tokyo Shinjuku", 35.6896, 139.7006},
	{"Osaka Namba", 34.6627, 135.5023},
	{"Fukuoka Hakata", 33.5904, 130.4207},
	{"Hokkaido Sapporo", 43.0642, 141.3469},
	{"Hiroshima City", 34.3853, 132.4553},
}

// Generator fabricates a coherent dataset: stores spread over regions, a
// contiguous calendar with sampled holidays, and visit records with
// day-of-week and holiday effects. All output is deterministic under a
// fixed faker seed.
type Generator struct {
	faker *Faker
}

// NewGenerator creates a generator. A zero seed picks a time-based one.
func NewGenerator(seed uint64) *Generator {
	if seed == 0 {
		return &Generator{faker: NewFaker()}
	}
	return &Generator{faker: NewFakerWithSeed(seed)}
}

// Generate produces a synthetic dataset.
func (g *Generator) Generate(cfg Config) *dataset.Dataset {
	start := cfg.Start
	if start.IsZero() {
		start = time.Date(2017, 1, 2, 0, 0, 0, 0, time.UTC)
	}
	start = dataset.DateKey(start)

	ds := dataset.New()
	g.generateCalendar(ds, start, cfg.Days)
	g.generateStores(ds, cfg.Stores)
	g.generateVisits(ds, start, cfg.Days)

	logging.Debug().
		Int("stores", len(ds.Stores)).
		Int("calendar_days", len(ds.Calendar)).
		Int("visits", len(ds.Visits)).
		Msg("Generated synthetic dataset")

	return ds
}

func (g *Generator) generateCalendar(ds *dataset.Dataset, start time.Time, days int) {
	for i := 0; i < days; i++ {
		date := start.AddDate(0, 0, i)
		ds.Calendar[date] = dataset.CalendarDay{
			Date:      date,
			DayOfWeek: date.Weekday(),
			// Roughly the frequency of Japanese public holidays.
			Holiday: g.faker.Float64(0, 1) < 0.045,
		}
	}
}

func (g *Generator) generateStores(ds *dataset.Dataset, n int) {
	for i := 0; i < n; i++ {
		r := Choose(g.faker, regions)
		id := fmt.Sprintf("air_%08x%08x",
			g.faker.Int(0, 1<<31-1), g.faker.Int(0, 1<<31-1))
		ds.Stores[id] = dataset.Store{
			ID:        id,
			Genre:     ChooseWeighted(g.faker, genres, genreWeights),
			Area:      r.name,
			Latitude:  r.lat + g.faker.Float64(-0.05, 0.05),
			Longitude: r.lng + g.faker.Float64(-0.05, 0.05),
		}
	}
}

func (g *Generator) generateVisits(ds *dataset.Dataset, start time.Time, days int) {
	// Deterministic iteration order: map ranging would reorder RNG draws.
	ids := make([]string, 0, len(ds.Stores))
	for id := range ds.Stores {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		for i := 0; i < days; i++ {
			date := start.AddDate(0, 0, i)
			day := ds.Calendar[date]

			// Base reservation volume with weekend and holiday lift.
			entries := g.faker.Int(0, 3)
			if day.DayOfWeek == time.Friday || day.DayOfWeek == time.Saturday {
				entries += g.faker.Int(1, 3)
			}
			if day.Holiday {
				entries += g.faker.Int(1, 2)
			}

			for e := 0; e < entries; e++ {
				visitAt := date.Add(time.Duration(g.faker.Int(17, 22)) * time.Hour)
				reserveAt := visitAt.AddDate(0, 0, -g.faker.Int(1, 5))
				ds.Visits = append(ds.Visits, dataset.VisitRecord{
					StoreID:     id,
					VisitTime:   dataset.Timestamp(visitAt),
					ReserveTime: dataset.Timestamp(reserveAt),
					Visitors:    dataset.Int(int64(g.faker.Int(1, 8))),
				})
			}
		}
	}
}
