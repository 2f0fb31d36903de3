package handler

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Emmahicks2025/event-navigator-pro-sub001/internal/ingest"
	"github.com/Emmahicks2025/event-navigator-pro-sub001/internal/namematch"
	"github.com/Emmahicks2025/event-navigator-pro-sub001/internal/queue"
	"github.com/Emmahicks2025/event-navigator-pro-sub001/internal/repository"
	"github.com/Emmahicks2025/event-navigator-pro-sub001/internal/service"
)

// maxArchiveBytes caps the accepted upload size.
const maxArchiveBytes = 64 << 20

// IngestHandler runs batch map ingestion: a JSON list of documents or a
// zip archive, optionally carrying an events.csv manifest.
type IngestHandler struct {
	Orchestrator   *ingest.Orchestrator
	Venues         *repository.VenueRepo
	Events         *repository.EventRepo
	DefaultWorkers int
}

type ingestItemReq struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

type ingestReq struct {
	Items   []ingestItemReq `json:"items"`
	Force   bool            `json:"force"`
	Replace bool            `json:"replace"`
	Workers int             `json:"workers"`
}

type ingestResp struct {
	*ingest.Result
	EventsCreated int `json:"events_created"`
}

// Ingest accepts either multipart/form-data with an "archive" zip file or
// a JSON body listing documents inline. Every document is extracted,
// matched against the venue pool and synchronized; one bad document never
// aborts the batch.
func (h *IngestHandler) Ingest(c echo.Context) error {
	var (
		items []ingest.Item
		rows  []ingest.EventRow
		opts  ingest.Options
		errs  []ingest.ItemError
	)

	ct := c.Request().Header.Get(echo.HeaderContentType)
	if strings.HasPrefix(ct, echo.MIMEMultipartForm) {
		fh, err := c.FormFile("archive")
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "archive file required"})
		}
		if fh.Size > maxArchiveBytes {
			return c.JSON(http.StatusRequestEntityTooLarge, echo.Map{"error": "archive too large"})
		}
		f, err := fh.Open()
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "open archive failed"})
		}
		data, err := io.ReadAll(io.LimitReader(f, maxArchiveBytes+1))
		_ = f.Close()
		if err != nil || int64(len(data)) > maxArchiveBytes {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "read archive failed"})
		}
		items, rows, errs, err = ingest.ReadArchive(data)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid zip archive"})
		}
		opts.Force = c.FormValue("force") == "true" || c.QueryParam("force") == "true"
		opts.Replace = c.FormValue("replace") == "true" || c.QueryParam("replace") == "true"
		if w, err := strconv.Atoi(c.FormValue("workers")); err == nil {
			opts.Workers = w
		}
	} else {
		var req ingestReq
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
		}
		for _, it := range req.Items {
			items = append(items, ingest.Item{Filename: it.Filename, Content: it.Content})
		}
		opts = ingest.Options{Force: req.Force, Replace: req.Replace, Workers: req.Workers}
	}
	if len(items) == 0 && len(rows) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "no documents to ingest"})
	}
	if opts.Workers <= 0 {
		opts.Workers = h.DefaultWorkers
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Minute)
	defer cancel()

	venues, err := h.Venues.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load venue pool failed"})
	}
	pool := make([]namematch.Entry, 0, len(venues))
	for _, v := range venues {
		pool = append(pool, namematch.Entry{ID: v.ID, Name: v.Name})
	}

	res := h.Orchestrator.IngestBatch(ctx, items, pool, opts)
	res.Errors = append(errs, res.Errors...)

	created := 0
	if len(rows) > 0 {
		var evErrs []ingest.ItemError
		created, evErrs = ingest.ApplyManifest(ctx, h.Events, rows, pool)
		res.Errors = append(res.Errors, evErrs...)
	}

	if res.VenuesUpdated > 0 {
		ev := queue.CatalogSyncedEvent{
			RunID:           res.RunID,
			VenuesUpdated:   res.VenuesUpdated,
			SectionsCreated: res.SectionsCreated,
			SectionsLinked:  res.SectionsLinked,
			Warnings:        res.Warnings,
			SyncedAt:        time.Now().UTC().Format(time.RFC3339),
		}
		go func() {
			pctx, pcancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer pcancel()
			_ = service.PublishCatalogSynced(pctx, ev)
		}()
	}

	return c.JSON(http.StatusOK, ingestResp{Result: res, EventsCreated: created})
}
