// Package ical renders stored collection events as an iCalendar
// document.
package ical

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/zrcal/zrcal/pkg/schedule"
	"github.com/zrcal/zrcal/pkg/waste"
)

const (
	ProdID  = "-//zrcal//leinen.ch//"
	uidHost = "zrcal.leinen.ch"
	portal  = "https://data.stadt-zuerich.ch/"
)

// Render writes a calendar with one all-day event per collection
// event. now is only used for DTSTAMP.
func Render(w io.Writer, zip int, events []schedule.Event, now time.Time) {
	name := fmt.Sprintf("Entsorgung %d", zip)
	desc := fmt.Sprintf("Entsorgungskalender für PLZ %d. "+
		"Erzeugt von https://%s/ basierend auf Open Government Data der Stadt Zürich (%s)",
		zip, uidHost, portal)

	fmt.Fprintln(w, "BEGIN:VCALENDAR")
	fmt.Fprintln(w, "VERSION:2.0")
	fmt.Fprintf(w, "PRODID:%s\n", ProdID)
	// X-WR-* for older clients, NAME/DESCRIPTION per calext-extensions.
	fmt.Fprintf(w, "X-WR-CALNAME;LANGUAGE=de:%s\n", name)
	fmt.Fprintf(w, "NAME;LANGUAGE=de:%s\n", name)
	fmt.Fprintf(w, "X-WR-CALDESC;LANGUAGE=de:%s\n", desc)
	fmt.Fprintf(w, "DESCRIPTION;LANGUAGE=de:%s\n", desc)
	fmt.Fprintln(w, "CALSCALE:GREGORIAN")

	stamp := now.UTC().Format("20060102T150405Z")
	for _, ev := range events {
		fmt.Fprintln(w, "BEGIN:VEVENT")
		fmt.Fprintf(w, "UID:%s\n", eventUID(ev))
		fmt.Fprintf(w, "DTSTAMP:%s\n", stamp)
		fmt.Fprintf(w, "DTSTART;VALUE=DATE:%s\n", ev.Date.Format("20060102"))
		fmt.Fprintf(w, "DTEND;VALUE=DATE:%s\n", ev.Date.AddDate(0, 0, 1).Format("20060102"))
		fmt.Fprintf(w, "SUMMARY;LANGUAGE=de:%s\n", waste.Label(ev.Type))
		if ev.Location != "" {
			fmt.Fprintf(w, "LOCATION;LANGUAGE=de:%s, %d\n", ev.Location, ev.Zip)
		} else {
			fmt.Fprintf(w, "LOCATION;LANGUAGE=de:%d\n", ev.Zip)
		}
		fmt.Fprintln(w, "END:VEVENT")
	}

	fmt.Fprintln(w, "END:VCALENDAR")
}

// eventUID must be stable across re-ingestion so subscribed clients
// update events in place instead of duplicating them.
func eventUID(ev schedule.Event) string {
	parts := []string{
		ev.Date.Format("2006-01-02"),
		string(ev.Type),
		fmt.Sprintf("%d", ev.Zip),
	}
	if ev.Location != "" {
		parts = append(parts, strings.ReplaceAll(ev.Location, " ", "-"))
	}
	return strings.Join(parts, "-") + "@" + uidHost
}
