// Package ingest coordinates the end-to-end map ingestion flow: document →
// extraction → venue resolution → map attachment → catalog sync. Batch
// items are independent; one document's failure never aborts the batch, and
// partial results already written stay applied.
package ingest

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/Emmahicks2025/event-navigator-pro-sub001/internal/catalog"
	"github.com/Emmahicks2025/event-navigator-pro-sub001/internal/model"
	"github.com/Emmahicks2025/event-navigator-pro-sub001/internal/namematch"
	"github.com/Emmahicks2025/event-navigator-pro-sub001/internal/svgmap"
)

// VenueStore is the slice of the record store the orchestrator needs.
type VenueStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Venue, error)
	SetMapDocument(ctx context.Context, id uint64, content string) error
}

// maxReportedErrors bounds the per-item error list in a batch result;
// anything past the cap is only counted.
const maxReportedErrors = 20

// Item is one (filename, document content) pair of a batch.
type Item struct {
	Filename string
	Content  string
}

// Options tune a batch run.
type Options struct {
	// Force re-attaches a map to venues that already have one.
	Force bool
	// Replace forces catalog sync into create mode instead of backfill.
	Replace bool
	// Workers fans items out across goroutines; <=1 runs sequentially.
	Workers int
}

// ItemError records one document's failure without aborting the batch.
type ItemError struct {
	Filename string `json:"filename"`
	Message  string `json:"message"`
}

// Result aggregates a batch run.
type Result struct {
	RunID           string      `json:"run_id"`
	VenuesUpdated   int         `json:"venues_updated"`
	SectionsCreated int         `json:"sections_created"`
	SectionsLinked  int         `json:"sections_linked"`
	Unmatched       int         `json:"unmatched"`
	Skipped         int         `json:"skipped"`
	Warnings        []string    `json:"warnings,omitempty"`
	Errors          []ItemError `json:"errors,omitempty"`
	// Suppressed counts errors beyond the reporting cap.
	Suppressed int `json:"suppressed_errors"`
}

// Orchestrator wires the extractor, the matcher pool and the catalog
// synchronizer into the externally callable ingestion operation.
type Orchestrator struct {
	Extractor svgmap.DocumentExtractor
	Venues    VenueStore
	Catalog   *catalog.Synchronizer
}

// itemOutcome is the per-document result before aggregation.
type itemOutcome struct {
	attached  bool
	skipped   bool
	unmatched bool
	created   int
	linked    int
	warnings  []string
	err       error
}

// IngestBatch processes every document against the venue pool and returns
// aggregate counts plus a bounded error list. Items are independent, so
// with Options.Workers > 1 they fan out across goroutines; outcomes are
// aggregated in input order either way.
func (o *Orchestrator) IngestBatch(ctx context.Context, items []Item, pool []namematch.Entry, opts Options) *Result {
	res := &Result{RunID: uuid.NewString()}
	outcomes := make([]itemOutcome, len(items))

	workers := opts.Workers
	if workers <= 1 || len(items) < 2 {
		for i, it := range items {
			outcomes[i] = o.processItem(ctx, it, pool, opts)
		}
	} else {
		if workers > len(items) {
			workers = len(items)
		}
		jobs := make(chan int)
		var wg sync.WaitGroup
		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := range jobs {
					outcomes[i] = o.processItem(ctx, items[i], pool, opts)
				}
			}()
		}
		for i := range items {
			jobs <- i
		}
		close(jobs)
		wg.Wait()
	}

	for i, out := range outcomes {
		if out.err != nil {
			if len(res.Errors) < maxReportedErrors {
				res.Errors = append(res.Errors, ItemError{
					Filename: items[i].Filename,
					Message:  out.err.Error(),
				})
			} else {
				res.Suppressed++
			}
		}
		if out.unmatched {
			res.Unmatched++
		}
		if out.skipped {
			res.Skipped++
		}
		if out.attached {
			res.VenuesUpdated++
		}
		res.SectionsCreated += out.created
		res.SectionsLinked += out.linked
		res.Warnings = append(res.Warnings, out.warnings...)
	}
	return res
}

// processItem runs one document through the full flow. Venue resolution
// tries the declared venue name first and falls back to the filename.
// Cancellation is checked up front so a cancelled batch stops doing work
// between items rather than only inside store calls.
func (o *Orchestrator) processItem(ctx context.Context, it Item, pool []namematch.Entry, opts Options) itemOutcome {
	if err := ctx.Err(); err != nil {
		return itemOutcome{err: err}
	}
	doc := model.MapDocument{Filename: it.Filename, Content: it.Content}
	extracted, err := o.Extractor.Extract(ctx, doc)
	if err != nil {
		return itemOutcome{err: fmt.Errorf("parse: %w", err)}
	}

	venueID, ok := resolveVenue(extracted.VenueName, it.Filename, pool)
	if !ok {
		return itemOutcome{
			unmatched: true,
			err:       fmt.Errorf("no venue matched for %q", it.Filename),
		}
	}

	venue, err := o.Venues.GetByID(ctx, venueID)
	if err != nil {
		return itemOutcome{err: fmt.Errorf("load venue %d: %w", venueID, err)}
	}
	if venue.HasMap() && !opts.Force {
		// The venue keeps its current map; the document is held, not lost.
		return itemOutcome{skipped: true}
	}
	if err := o.Venues.SetMapDocument(ctx, venueID, it.Content); err != nil {
		return itemOutcome{err: fmt.Errorf("attach map to venue %d: %w", venueID, err)}
	}

	syncRes, err := o.Catalog.Sync(ctx, venueID, extracted.Candidates, opts.Replace)
	if err != nil {
		return itemOutcome{attached: true, err: fmt.Errorf("sync venue %d: %w", venueID, err)}
	}
	return itemOutcome{
		attached: true,
		created:  syncRes.Created,
		linked:   syncRes.Updated,
		warnings: syncRes.Warnings,
	}
}

// resolveVenue matches the extracted venue name, then the filename with its
// extension stripped, against the pool.
func resolveVenue(extractedName, filename string, pool []namematch.Entry) (uint64, bool) {
	if extractedName != "" {
		if id, ok := namematch.Match(extractedName, pool); ok {
			return id, true
		}
	}
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	return namematch.Match(base, pool)
}
