package scheduling

import (
	"time"

	"github.com/fieldline/salesdesk/internal/models"
)

// Window is one day's open period for a staff member.
type Window struct {
	Open  time.Time
	Close time.Time
}

func (w Window) Contains(iv Interval) bool {
	return !iv.Start.Before(w.Open) && !iv.End.After(w.Close)
}

// BuildWindow anchors "15:04" open/close strings onto a concrete date.
func BuildWindow(date time.Time, openHM, closeHM string) (Window, bool) {
	open, ok1 := anchorHM(date, openHM)
	close, ok2 := anchorHM(date, closeHM)
	if !ok1 || !ok2 || !close.After(open) {
		return Window{}, false
	}
	return Window{Open: open, Close: close}, true
}

func anchorHM(date time.Time, hm string) (time.Time, bool) {
	t, err := time.Parse("15:04", hm)
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(
		date.Year(), date.Month(), date.Day(),
		t.Hour(), t.Minute(), 0, 0,
		date.Location(),
	), true
}

// WindowFromHours turns a BusinessHours row into a concrete window for date.
// Inactive or malformed rows mean closed.
func WindowFromHours(wh *models.BusinessHours, date time.Time) (Window, bool) {
	if wh == nil || !wh.Active || wh.OpenTime == "" || wh.CloseTime == "" {
		return Window{}, false
	}
	return BuildWindow(date, wh.OpenTime, wh.CloseTime)
}
