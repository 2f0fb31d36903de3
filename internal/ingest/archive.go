package ingest

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Emmahicks2025/event-navigator-pro-sub001/internal/model"
	"github.com/Emmahicks2025/event-navigator-pro-sub001/internal/namematch"
)

// EventRow is one line of an archive's event manifest.
type EventRow struct {
	VenueName string
	EventName string
	Date      time.Time
	PriceFrom float64
	PriceTo   float64
}

// manifestName is the spreadsheet the archive may bundle alongside maps.
const manifestName = "events.csv"

// ReadArchive unpacks a zip archive into batch items (one per .svg/.txt
// entry) and manifest rows when an events.csv is present. Unreadable
// entries are skipped with an error recorded; one bad entry does not fail
// the archive.
func ReadArchive(data []byte) ([]Item, []EventRow, []ItemError, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open archive: %w", err)
	}

	var (
		items []Item
		rows  []EventRow
		errs  []ItemError
	)
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		name := filepath.Base(f.Name)
		ext := strings.ToLower(filepath.Ext(name))
		isManifest := strings.EqualFold(name, manifestName)
		if !isManifest && ext != ".svg" && ext != ".txt" {
			continue
		}
		content, err := readZipFile(f)
		if err != nil {
			errs = append(errs, ItemError{Filename: f.Name, Message: err.Error()})
			continue
		}
		if isManifest {
			parsed, perrs := parseManifest(content)
			rows = append(rows, parsed...)
			errs = append(errs, perrs...)
			continue
		}
		items = append(items, Item{Filename: name, Content: string(content)})
	}
	return items, rows, errs, nil
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// parseManifest reads rows of venue,event,date,price_from,price_to. A
// header line is tolerated; malformed rows are reported individually.
func parseManifest(content []byte) ([]EventRow, []ItemError) {
	r := csv.NewReader(bytes.NewReader(content))
	r.TrimLeadingSpace = true
	var (
		rows []EventRow
		errs []ItemError
	)
	line := 0
	for {
		line++
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			errs = append(errs, ItemError{
				Filename: manifestName,
				Message:  fmt.Sprintf("line %d: %v", line, err),
			})
			continue
		}
		if len(rec) < 5 {
			errs = append(errs, ItemError{
				Filename: manifestName,
				Message:  fmt.Sprintf("line %d: expected 5 columns, got %d", line, len(rec)),
			})
			continue
		}
		if line == 1 && strings.EqualFold(strings.TrimSpace(rec[0]), "venue") {
			continue // header
		}
		row, err := parseManifestRow(rec)
		if err != nil {
			errs = append(errs, ItemError{
				Filename: manifestName,
				Message:  fmt.Sprintf("line %d: %v", line, err),
			})
			continue
		}
		rows = append(rows, row)
	}
	return rows, errs
}

func parseManifestRow(rec []string) (EventRow, error) {
	date, err := time.Parse("2006-01-02", strings.TrimSpace(rec[2]))
	if err != nil {
		return EventRow{}, fmt.Errorf("bad date %q", rec[2])
	}
	from, err := strconv.ParseFloat(strings.TrimSpace(rec[3]), 64)
	if err != nil {
		return EventRow{}, fmt.Errorf("bad price_from %q", rec[3])
	}
	to, err := strconv.ParseFloat(strings.TrimSpace(rec[4]), 64)
	if err != nil {
		return EventRow{}, fmt.Errorf("bad price_to %q", rec[4])
	}
	return EventRow{
		VenueName: strings.TrimSpace(rec[0]),
		EventName: strings.TrimSpace(rec[1]),
		Date:      date,
		PriceFrom: from,
		PriceTo:   to,
	}, nil
}

// EventCreator inserts events resolved from a manifest.
type EventCreator interface {
	Create(ctx context.Context, ev *model.Event) error
}

// ApplyManifest resolves each manifest row's venue against the pool and
// creates the event with its price envelope. Unresolvable rows are
// reported, not fatal.
func ApplyManifest(ctx context.Context, events EventCreator, rows []EventRow, pool []namematch.Entry) (int, []ItemError) {
	created := 0
	var errs []ItemError
	for _, row := range rows {
		venueID, ok := namematch.Match(row.VenueName, pool)
		if !ok {
			errs = append(errs, ItemError{
				Filename: manifestName,
				Message:  fmt.Sprintf("event %q: no venue matched %q", row.EventName, row.VenueName),
			})
			continue
		}
		ev := &model.Event{
			VenueID:   venueID,
			Name:      row.EventName,
			StartsAt:  row.Date,
			PriceFrom: row.PriceFrom,
			PriceTo:   row.PriceTo,
		}
		if err := events.Create(ctx, ev); err != nil {
			errs = append(errs, ItemError{
				Filename: manifestName,
				Message:  fmt.Sprintf("event %q: %v", row.EventName, err),
			})
			continue
		}
		created++
	}
	return created, errs
}
