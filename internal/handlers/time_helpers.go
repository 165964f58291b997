package handlers

import (
	"time"

	"github.com/fieldline/salesdesk/internal/config"
	"github.com/fieldline/salesdesk/internal/timezone"
)

// All request dates and times are interpreted in the company timezone.

func companyLocation(cfg *config.Config) *time.Location {
	return timezone.Location(cfg.CompanyTimezone)
}

func parseDate(cfg *config.Config, dateStr string) (time.Time, error) {
	return time.ParseInLocation(
		"2006-01-02",
		dateStr,
		companyLocation(cfg),
	)
}

func parseDateTime(
	cfg *config.Config,
	dateStr string,
	timeStr string,
) (time.Time, error) {
	return time.ParseInLocation(
		"2006-01-02 15:04",
		dateStr+" "+timeStr,
		companyLocation(cfg),
	)
}
