package service

import (
	"strings"
	"testing"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/dto"
)

func TestTeeSheetCalendar(t *testing.T) {
	rows := []dto.PublicTeeTimeResponse{
		{ID: "s1", TeeDate: "2026-03-02", TeeTime: "07:30", TeeNumber: 1, Professional: "A. Pro", BookedSpots: 2, AvailableSpots: 1},
		{ID: "s2", TeeDate: "2026-03-02", TeeTime: "07:40", TeeNumber: 10, AvailableSpots: 3},
		{ID: "undated", TeeTime: "08:00", TeeNumber: 1, AvailableSpots: 3},
	}

	out, err := TeeSheetCalendar(rows, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	cal, err := ics.ParseCalendar(strings.NewReader(out))
	require.NoError(t, err)

	events := cal.Events()
	require.Len(t, events, 2)

	first := events[0]
	assert.Equal(t, "s1@magicalkenyaopen.com", first.Id())
	assert.Equal(t, "Pro-Am: A. Pro", first.GetProperty(ics.ComponentPropertySummary).Value)
	assert.Equal(t, "Tee 1", first.GetProperty(ics.ComponentPropertyLocation).Value)

	start, err := first.GetStartAt()
	require.NoError(t, err)
	// 07:30 in Nairobi (UTC+3)
	assert.Equal(t, time.Date(2026, 3, 2, 4, 30, 0, 0, time.UTC), start.UTC())

	end, err := first.GetEndAt()
	require.NoError(t, err)
	assert.Equal(t, teeInterval, end.Sub(start))

	assert.Equal(t, "Pro-Am tee time", events[1].GetProperty(ics.ComponentPropertySummary).Value)
	assert.NotContains(t, out, "undated")
}

func TestTeeSheetCalendar_RejectsMalformedTime(t *testing.T) {
	_, err := TeeSheetCalendar([]dto.PublicTeeTimeResponse{
		{ID: "bad", TeeDate: "2026-03-02", TeeTime: "7h30"},
	}, time.Now())
	assert.Error(t, err)
}
