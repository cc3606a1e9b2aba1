package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/pevans/lectio/config"
	"github.com/pevans/lectio/mass"
	"github.com/pevans/lectio/usccb"
)

// newClient builds the readings client from configuration; LECTIO_BASE_URL
// and ~/.lectio/config.yaml are honored.
func newClient() *usccb.Client {
	var opts []usccb.Option
	if cfg, err := config.Load(); err == nil && cfg.BaseURL != "" {
		opts = append(opts, usccb.WithBaseURL(cfg.BaseURL))
	}
	return usccb.New(opts...)
}

func parseDate(value string) time.Time {
	date, err := time.Parse(mass.DateLayout, value)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid date %q (want YYYY-MM-DD)\n", value)
		os.Exit(1)
	}
	return date
}

func handleGetMass(args []string) {
	fs := flag.NewFlagSet("get-mass", flag.ExitOnError)
	dateFlag := fs.String("date", usccb.Today().Format(mass.DateLayout), "Mass date (YYYY-MM-DD)")
	typeFlag := fs.String("type", "", "Mass type (day, vigil, dawn, night, year-a, year-b, year-c)")
	save := fs.String("save", "", "Write the JSON record to this path")
	fs.Parse(args)

	date := parseDate(*dateFlag)

	client := newClient()
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	var (
		m   *mass.Mass
		err error
	)
	if *typeFlag != "" {
		t := mass.ParseType(*typeFlag)
		if t == mass.TypeUnknown {
			fmt.Fprintf(os.Stderr, "Error: unknown mass type: %s\n", *typeFlag)
			os.Exit(1)
		}
		m, err = client.GetMass(ctx, date, t)
	} else {
		m, err = client.GetMassFromDate(ctx, date)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to retrieve mass: %v\n", err)
		os.Exit(1)
	}
	if m == nil {
		fmt.Fprintf(os.Stderr, "Error: no mass readings for %s\n", date.Format(mass.DateLayout))
		os.Exit(1)
	}

	fmt.Println(m.Dump())

	if *save != "" {
		saveJSON(*save, m)
	}
}

func handleGetMassRange(args []string) {
	fs := flag.NewFlagSet("get-mass-range", flag.ExitOnError)
	startFlag := fs.String("start", usccb.Today().Format(mass.DateLayout), "Range start (YYYY-MM-DD)")
	endFlag := fs.String("end", usccb.Today().AddDate(0, 0, 7).Format(mass.DateLayout), "Range end (YYYY-MM-DD)")
	step := fs.Int("step", 7, "The number of days to step")
	save := fs.String("save", "", "Write the JSON records to this path")
	fs.Parse(args)

	dates, err := usccb.MassDates(parseDate(*startFlag), parseDate(*endFlag), time.Duration(*step)*usccb.Day)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	runRange(dates, *save)
}

func handleGetSundayMassRange(args []string) {
	fs := flag.NewFlagSet("get-sunday-mass-range", flag.ExitOnError)
	startFlag := fs.String("start", usccb.Today().Format(mass.DateLayout), "Range start (YYYY-MM-DD)")
	endFlag := fs.String("end", usccb.Today().AddDate(0, 0, 28).Format(mass.DateLayout), "Range end (YYYY-MM-DD)")
	save := fs.String("save", "", "Write the JSON records to this path")
	fs.Parse(args)

	dates, err := usccb.SundayMassDates(parseDate(*startFlag), parseDate(*endFlag))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	runRange(dates, *save)
}

func handleGetMassTypes(args []string) {
	fs := flag.NewFlagSet("get-mass-types", flag.ExitOnError)
	dateFlag := fs.String("date", usccb.Today().Format(mass.DateLayout), "Mass date (YYYY-MM-DD)")
	fs.Parse(args)

	date := parseDate(*dateFlag)

	client := newClient()
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	types, err := client.GetMassTypes(ctx, date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to resolve mass types: %v\n", err)
		os.Exit(1)
	}
	if len(types) == 0 {
		fmt.Printf("No mass published for %s\n", date.Format(mass.DateLayout))
		return
	}

	for _, t := range types {
		fmt.Println(t.String())
	}
}

// dateError pairs a failed date with its cause so batch output can report
// failures per date.
type dateError struct {
	date time.Time
	err  error
}

// runRange fetches every date in the sequence concurrently, prints the
// resolved masses in date order, reports per-date failures separately, and
// exits nonzero when any date genuinely failed. Dates with no published
// mass are skipped silently; they are valid empty results.
func runRange(dates iter.Seq[time.Time], save string) {
	client := newClient()
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		masses   []*mass.Mass
		failures []dateError
	)
	for date := range dates {
		wg.Add(1)
		go func(date time.Time) {
			defer wg.Done()

			m, err := client.GetMassFromDate(ctx, date)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures = append(failures, dateError{date: date, err: err})
				return
			}
			if m != nil {
				masses = append(masses, m)
			}
		}(date)
	}
	wg.Wait()

	// Concurrent completion order is arbitrary; present results by date.
	sort.Slice(masses, func(i, j int) bool {
		return masses[i].Date.Before(masses[j].Date)
	})

	for i, m := range masses {
		if i > 0 {
			fmt.Println()
		}
		fmt.Println(m.Dump())
	}

	if save != "" {
		saveJSON(save, masses)
	}

	if len(failures) > 0 {
		sort.Slice(failures, func(i, j int) bool {
			return failures[i].date.Before(failures[j].date)
		})
		fmt.Fprintf(os.Stderr, "\nError: %d date(s) failed:\n", len(failures))
		for _, f := range failures {
			fmt.Fprintf(os.Stderr, "  %s: %v\n", f.date.Format(mass.DateLayout), f.err)
		}
		os.Exit(1)
	}
}

// saveJSON writes the indented JSON record(s) to path, creating parent
// directories as needed.
func saveJSON(path string, v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to marshal result: %v\n", err)
		os.Exit(1)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to create directory: %v\n", err)
			os.Exit(1)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to write %s: %v\n", path, err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "Saved %s\n", path)
}
