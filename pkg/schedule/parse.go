// Package schedule normalizes the upstream CSV layouts into collection
// events. The parser operates on already-decoded rows so it can be
// driven without network I/O.
package schedule

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/zrcal/zrcal/pkg/waste"
)

// Event is one waste pickup or drop-off occurrence.
type Event struct {
	Zip      int
	Type     waste.Type
	Location string
	Date     time.Time
}

// Batch is the in-memory result of parsing one CSV resource.
type Batch struct {
	Type      waste.Type
	SourceURL string
	Events    []Event

	// Earliest and Latest bound the replace window. Both are zero when
	// the batch is empty.
	Earliest time.Time
	Latest   time.Time

	// SkippedRows counts data rows dropped for a missing postal code,
	// an unparseable date, or a short row.
	SkippedRows int
}

func (b *Batch) Empty() bool {
	return len(b.Events) == 0
}

func (b *Batch) noteDate(d time.Time) {
	if b.Earliest.IsZero() || d.Before(b.Earliest) {
		b.Earliest = d
	}
	if b.Latest.IsZero() || d.After(b.Latest) {
		b.Latest = d
	}
}

// LayoutError marks a header width the parser does not understand.
type LayoutError struct {
	URL     string
	Type    waste.Type
	Columns int
	Header  []string
}

func (e *LayoutError) Error() string {
	return fmt.Sprintf("resource %s for type %s has %d columns (%s) - cannot understand",
		e.URL, e.Type, e.Columns, strings.Join(e.Header, ","))
}

type ParserConfig struct {
	Logger *slog.Logger

	// Months maps localized month names to months. Defaults to the
	// German table.
	Months map[string]time.Month

	// AnomalousYear enables the day/month swap correction for one
	// calendar year. Zero disables it.
	AnomalousYear int
}

func (cfg *ParserConfig) Validate() error {
	if cfg.Logger == nil {
		return errors.New("logger is required")
	}
	if cfg.Months == nil {
		cfg.Months = GermanMonths()
	}
	return nil
}

type Parser struct {
	log *slog.Logger
	cfg ParserConfig
}

func NewParser(cfg ParserConfig) (*Parser, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Parser{
		log: cfg.Logger,
		cfg: cfg,
	}, nil
}

// collectionPoint is the width-5 row shape: a drop-off site with marker
// columns for the materials it accepts. The flags carry no event
// semantics yet, so they are parsed and discarded.
type collectionPoint struct {
	Zip      string
	Location string
	Oel      bool
	Glas     bool
	Metall   bool
}

// ParseRows turns decoded CSV rows (header first) into a Batch. The
// column layout is detected from the header row's width alone. Rows
// with zero fields are benign trailing padding; rows that cannot be
// normalized are dropped and counted, never stored half-parsed.
func (p *Parser) ParseRows(t waste.Type, sourceURL string, rows [][]string) (*Batch, error) {
	if len(rows) == 0 {
		return nil, &LayoutError{URL: sourceURL, Type: t}
	}

	header := rows[0]
	batch := &Batch{Type: t, SourceURL: sourceURL}

	switch len(header) {
	case 2:
		for _, row := range rows[1:] {
			if len(row) == 0 {
				continue // the 2016 files end with an empty line
			}
			if len(row) < 2 {
				p.log.Warn("short row", "url", sourceURL, "fields", len(row))
				batch.SkippedRows++
				continue
			}
			if row[0] == "" {
				p.log.Warn("missing PLZ", "url", sourceURL)
				batch.SkippedRows++
				continue
			}
			p.appendEvent(batch, row[0], "", row[1])
		}

	case 3:
		for _, row := range rows[1:] {
			if len(row) == 0 {
				continue
			}
			if len(row) < 3 {
				p.log.Warn("short row", "url", sourceURL, "fields", len(row))
				batch.SkippedRows++
				continue
			}
			p.appendEvent(batch, row[0], row[1], row[2])
		}

	case 5:
		for _, row := range rows[1:] {
			if len(row) == 0 {
				continue
			}
			if len(row) < 5 {
				batch.SkippedRows++
				continue
			}
			_ = collectionPoint{
				Zip:      row[0],
				Location: row[1],
				Oel:      row[2] == "X",
				Glas:     row[3] == "X",
				Metall:   row[4] == "X",
			}
		}

	default:
		return nil, &LayoutError{
			URL:     sourceURL,
			Type:    t,
			Columns: len(header),
			Header:  header,
		}
	}

	return batch, nil
}

func (p *Parser) appendEvent(batch *Batch, plz, loc, date string) {
	d, err := p.ParseDate(date)
	if err != nil {
		p.log.Error("dropping row with unparseable date",
			"url", batch.SourceURL, "date", date)
		batch.SkippedRows++
		return
	}

	zip, err := strconv.Atoi(strings.TrimSpace(plz))
	if err != nil {
		p.log.Warn("dropping row with non-numeric PLZ",
			"url", batch.SourceURL, "plz", plz)
		batch.SkippedRows++
		return
	}

	batch.Events = append(batch.Events, Event{
		Zip:      zip,
		Type:     batch.Type,
		Location: loc,
		Date:     d,
	})
	batch.noteDate(d)
}
