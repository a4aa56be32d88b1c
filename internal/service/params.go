package service

import (
	"fmt"
	"time"
)

// paramDateLayout is the wire format of report parameter dates
const paramDateLayout = "2006-01-02"

// WaterBalanceParams are the request parameters of a water balance report.
// An empty SectorIDs means all sectors of the farm.
type WaterBalanceParams struct {
	FarmID    int64   `json:"farm_id"`
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
	SectorIDs []int64 `json:"sector_ids,omitempty"`
}

// OperationsLogParams are the request parameters of an operations log
// report. KindFilter matches entry kind labels case-insensitively; Actor
// is passed through to the record fetches.
type OperationsLogParams struct {
	FarmID     int64  `json:"farm_id"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	KindFilter string `json:"kind_filter,omitempty"`
	Actor      string `json:"actor,omitempty"`
}

// PeriodSummaryParams are the request parameters of a period summary report
type PeriodSummaryParams struct {
	FarmID    int64  `json:"farm_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// parsePeriod parses an inclusive date range. Both bounds are interpreted
// in the system local zone, consistently with how record timestamps are
// bucketed into calendar days.
func parsePeriod(startDate, endDate string) (time.Time, time.Time, error) {
	start, err := time.ParseInLocation(paramDateLayout, startDate, time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid start date %q: %w", startDate, err)
	}
	end, err := time.ParseInLocation(paramDateLayout, endDate, time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid end date %q: %w", endDate, err)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("end date %s is before start date %s", endDate, startDate)
	}
	return start, end, nil
}

// dayKey buckets a timestamp into its local calendar day
func dayKey(t time.Time) string {
	return t.In(time.Local).Format(paramDateLayout)
}
