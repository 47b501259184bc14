package service

import (
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/dto"
)

// ── Tee sheet calendar ──────────────────────────────────────
//
// Renders the public Pro-Am tee sheet as an iCalendar (RFC 5545) feed so
// players and caddies can subscribe from a phone calendar. Only the fields
// of PublicTeeTimeResponse are exposed; occupants never leave the server.
// Rows without a tee date cannot be placed on a calendar and are skipped.
// ─────────────────────────────────────────────────────────────

const (
	tournamentTimezone = "Africa/Nairobi"
	teeSheetProductID  = "-//Magical Kenya Open//Pro-Am Tee Sheet//EN"
	teeInterval        = 10 * time.Minute
)

func tournamentLocation() *time.Location {
	loc, err := time.LoadLocation(tournamentTimezone)
	if err != nil {
		return time.FixedZone("EAT", 3*60*60)
	}
	return loc
}

// TeeSheetCalendar serialises rows into an iCalendar document. stamp is
// written as DTSTAMP on every event.
func TeeSheetCalendar(rows []dto.PublicTeeTimeResponse, stamp time.Time) (string, error) {
	loc := tournamentLocation()

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(teeSheetProductID)

	for _, row := range rows {
		if row.TeeDate == "" || row.TeeTime == "" {
			continue
		}
		start, err := time.ParseInLocation("2006-01-02 15:04", row.TeeDate+" "+row.TeeTime, loc)
		if err != nil {
			return "", fmt.Errorf("tee time %s: %w", row.ID, err)
		}

		evt := cal.AddEvent(row.ID + "@magicalkenyaopen.com")
		evt.SetDtStampTime(stamp.UTC())
		evt.SetStartAt(start)
		evt.SetEndAt(start.Add(teeInterval))
		evt.SetSummary(teeSheetSummary(row))
		evt.SetLocation(fmt.Sprintf("Tee %d", row.TeeNumber))
		evt.SetDescription(fmt.Sprintf("%d booked, %d available", row.BookedSpots, row.AvailableSpots))
	}

	return cal.Serialize(), nil
}

func teeSheetSummary(row dto.PublicTeeTimeResponse) string {
	if row.Professional == "" {
		return "Pro-Am tee time"
	}
	return "Pro-Am: " + row.Professional
}
