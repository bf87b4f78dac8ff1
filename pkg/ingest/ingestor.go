// Package ingest drives one ingestion run: resolve the CSV URL for a
// waste type, fetch and decode it, normalize the rows, and replace the
// stored window.
package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"golang.org/x/text/encoding/charmap"

	"github.com/zrcal/zrcal/pkg/locator"
	"github.com/zrcal/zrcal/pkg/retry"
	"github.com/zrcal/zrcal/pkg/schedule"
	"github.com/zrcal/zrcal/pkg/waste"
)

// EventStore is the slice of the store the ingestor needs.
type EventStore interface {
	ReplaceWindow(ctx context.Context, batch *schedule.Batch) error
}

type Config struct {
	Logger *slog.Logger
	Clock  clockwork.Clock
	Store  EventStore

	// BaseURL overrides the portal root, for tests.
	BaseURL string

	HTTPClient *http.Client
	Retry      retry.Config
	UserAgent  string

	// Months and AnomalousYear configure the parser; see schedule.
	Months        map[string]time.Month
	AnomalousYear int

	// Transcode decodes fetched bodies from ISO 8859-1 instead of
	// UTF-8, for replaying the earliest era's files.
	Transcode bool

	// Comma is the CSV field separator. Zero means ','. The earliest
	// era's files were semicolon separated.
	Comma rune
}

func (cfg *Config) Validate() error {
	if cfg.Logger == nil {
		return errors.New("logger is required")
	}
	if cfg.Clock == nil {
		return errors.New("clock is required")
	}
	if cfg.Store == nil {
		return errors.New("event store is required")
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	if cfg.Retry == (retry.Config{}) {
		cfg.Retry = retry.DefaultConfig()
	}
	return nil
}

type Ingestor struct {
	log    *slog.Logger
	cfg    Config
	parser *schedule.Parser
}

func New(cfg Config) (*Ingestor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	parser, err := schedule.NewParser(schedule.ParserConfig{
		Logger:        cfg.Logger,
		Months:        cfg.Months,
		AnomalousYear: cfg.AnomalousYear,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create parser: %w", err)
	}
	return &Ingestor{
		log:    cfg.Logger,
		cfg:    cfg,
		parser: parser,
	}, nil
}

// Result summarizes the outcome for one waste type.
type Result struct {
	Type        waste.Type
	URL         string
	Events      int
	SkippedRows int
	Err         error
}

// DefaultYear is the schedule year loaded when the caller names none:
// the year two months ahead of now, so next year's files are picked up
// from November on.
func (ing *Ingestor) DefaultYear() int {
	return ing.cfg.Clock.Now().AddDate(0, 2, 0).Year()
}

// Run ingests the given waste types for one schedule year. Failures
// are isolated per type: an unknown type, a transport error, or an
// unrecognized layout never stops the remaining types.
func (ing *Ingestor) Run(ctx context.Context, types []waste.Type, year int) []Result {
	log := ing.log.With("run_id", uuid.NewString(), "year", year)

	loc, err := locator.New(locator.Config{
		Logger:  log,
		BaseURL: ing.cfg.BaseURL,
		Mapping: locator.EraFor(year),
	})
	if err != nil {
		// Era tables are compiled in, so this only trips on a nil
		// logger and the like; fail every type uniformly.
		results := make([]Result, len(types))
		for i, t := range types {
			results[i] = Result{Type: t, Err: err}
		}
		return results
	}

	results := make([]Result, 0, len(types))
	for _, t := range types {
		res := ing.ingestOne(ctx, log, loc, t)
		if res.Err != nil {
			log.Error("ingestion failed", "type", t, "url", res.URL, "error", res.Err)
		} else {
			log.Info("ingestion done", "type", t, "url", res.URL,
				"events", res.Events, "skipped_rows", res.SkippedRows)
		}
		results = append(results, res)
	}
	return results
}

func (ing *Ingestor) ingestOne(ctx context.Context, log *slog.Logger, loc *locator.Locator, t waste.Type) Result {
	res := Result{Type: t}

	url, err := loc.URL(t)
	if err != nil {
		res.Err = err
		return res
	}
	res.URL = url

	log.Debug("fetching schedule", "type", t, "url", url)
	rows, err := ing.fetchRows(ctx, url)
	if err != nil {
		res.Err = fmt.Errorf("failed to fetch %s: %w", url, err)
		return res
	}

	return ing.ingestRows(ctx, t, url, rows)
}

// IngestRows parses and stores an already-decoded row source, without
// any network I/O.
func (ing *Ingestor) IngestRows(ctx context.Context, t waste.Type, sourceURL string, rows [][]string) Result {
	return ing.ingestRows(ctx, t, sourceURL, rows)
}

func (ing *Ingestor) ingestRows(ctx context.Context, t waste.Type, sourceURL string, rows [][]string) Result {
	res := Result{Type: t, URL: sourceURL}

	batch, err := ing.parser.ParseRows(t, sourceURL, rows)
	if err != nil {
		res.Err = err
		return res
	}
	res.Events = len(batch.Events)
	res.SkippedRows = batch.SkippedRows

	if err := ing.cfg.Store.ReplaceWindow(ctx, batch); err != nil {
		res.Err = fmt.Errorf("failed to store batch: %w", err)
		return res
	}
	return res
}

// httpStatusError reports a non-200 portal response.
type httpStatusError struct {
	URL  string
	Code int
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.Code)
}

func (e *httpStatusError) StatusCode() int { return e.Code }

func (ing *Ingestor) fetchRows(ctx context.Context, url string) ([][]string, error) {
	var rows [][]string
	err := retry.Do(ctx, ing.cfg.Retry, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		if ing.cfg.UserAgent != "" {
			req.Header.Set("User-Agent", ing.cfg.UserAgent)
		}

		resp, err := ing.cfg.HTTPClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return &httpStatusError{URL: url, Code: resp.StatusCode}
		}

		var body io.Reader = resp.Body
		if ing.cfg.Transcode {
			body = charmap.ISO8859_1.NewDecoder().Reader(body)
		}

		r := csv.NewReader(body)
		r.FieldsPerRecord = -1
		if ing.cfg.Comma != 0 {
			r.Comma = ing.cfg.Comma
		}
		rows, err = r.ReadAll()
		if err != nil {
			return fmt.Errorf("failed to decode CSV: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}
