package svgmap

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Emmahicks2025/event-navigator-pro-sub001/internal/model"
)

// Oracle is an optional, best-effort document interpreter (e.g. an external
// LLM service). It may fail, time out, or return nothing; the system never
// depends on it.
type Oracle interface {
	TryExtract(ctx context.Context, doc model.MapDocument) (*Result, error)
}

// DocumentExtractor is what ingestion consumes: one document in, ordered
// candidates out.
type DocumentExtractor interface {
	Extract(ctx context.Context, doc model.MapDocument) (*Result, error)
}

// EnrichedExtractor decorates the regex extractor with an oracle. The
// oracle only ever supplements the local result: extra candidates are
// appended (deduplicated by id), a venue name fills in only when the header
// had none, and any oracle error or timeout falls through silently.
type EnrichedExtractor struct {
	Base    *Extractor
	Oracle  Oracle // nil disables enrichment
	Timeout time.Duration
}

// Extract runs the local extractor and then, when an oracle is configured,
// merges whatever it returns within the timeout.
func (e *EnrichedExtractor) Extract(ctx context.Context, doc model.MapDocument) (*Result, error) {
	res, err := e.Base.Extract(doc)
	if err != nil {
		return nil, err
	}
	if e.Oracle == nil {
		return res, nil
	}

	timeout := e.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	octx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	extra, err := e.Oracle.TryExtract(octx, doc)
	if err != nil || extra == nil {
		return res, nil
	}
	seen := map[string]bool{}
	for _, c := range res.Candidates {
		seen[c.RawID] = true
	}
	for _, c := range extra.Candidates {
		id := strings.ToLower(c.RawID)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		c.RawID = id
		if c.SectionType == "" {
			c.SectionType = model.SectionStandard
		}
		res.Candidates = append(res.Candidates, c)
	}
	if res.VenueName == "" {
		res.VenueName = extra.VenueName
	}
	return res, nil
}

// HTTPOracle posts documents to an external interpretation endpoint and
// parses its JSON response. Failures are reported to the decorator, which
// discards them.
type HTTPOracle struct {
	URL    string
	Client *http.Client
}

type oracleResponse struct {
	VenueName  string `json:"venue_name"`
	Candidates []struct {
		ID                 string `json:"id"`
		DisplayName        string `json:"display_name"`
		SectionType        string `json:"section_type"`
		IsGeneralAdmission bool   `json:"general_admission"`
	} `json:"candidates"`
}

// TryExtract sends the document content and maps the response onto section
// candidates. The request honors the context deadline set by the caller.
func (o *HTTPOracle) TryExtract(ctx context.Context, doc model.MapDocument) (*Result, error) {
	body, err := json.Marshal(map[string]string{
		"filename": doc.Filename,
		"content":  doc.Content,
	})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.URL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	client := o.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("oracle returned status %d", resp.StatusCode)
	}

	var out oracleResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	res := &Result{VenueName: out.VenueName}
	for _, c := range out.Candidates {
		res.Candidates = append(res.Candidates, model.SectionCandidate{
			RawID:              strings.ToLower(strings.TrimSpace(c.ID)),
			DisplayName:        c.DisplayName,
			SectionType:        normalizeType(c.SectionType),
			IsGeneralAdmission: c.IsGeneralAdmission,
		})
	}
	return res, nil
}

func normalizeType(t string) string {
	switch strings.ToUpper(strings.TrimSpace(t)) {
	case model.SectionFloor, "PIT", "GA":
		return model.SectionFloor
	case model.SectionLower:
		return model.SectionLower
	case model.SectionUpper:
		return model.SectionUpper
	case model.SectionPremium, "VIP", "CLUB", "SUITE":
		return model.SectionPremium
	default:
		return model.SectionStandard
	}
}
