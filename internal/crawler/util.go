package crawler

import (
	"time"
)

// Giờ Việt Nam, dùng khi máy không có tzdata
var vnZone = func() *time.Location {
	loc, err := time.LoadLocation("Asia/Ho_Chi_Minh")
	if err != nil {
		return time.FixedZone("ICT", 7*60*60)
	}
	return loc
}()

// Today trả về ngày hiện tại theo giờ Việt Nam, ở 00:00 UTC
func Today(now time.Time) time.Time {
	local := now.In(vnZone)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

// DateRange trả về days ngày kết thúc ở end, cũ trước mới sau
func DateRange(end time.Time, days int) []time.Time {
	if days <= 0 {
		return nil
	}
	end = time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	dates := make([]time.Time, 0, days)
	for i := days - 1; i >= 0; i-- {
		dates = append(dates, end.AddDate(0, 0, -i))
	}
	return dates
}
