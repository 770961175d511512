package util

// PreviousMonth returns the year and month for the previous month
func PreviousMonth(year, month int) (int, int) {
	return ShiftMonth(year, month, -1)
}

// NextMonth returns the year and month for the following month
func NextMonth(year, month int) (int, int) {
	return ShiftMonth(year, month, 1)
}

// ShiftMonth moves year/month by delta months (negative goes back),
// normalizing the month into 1..12 by repeated ±12 adjustment
func ShiftMonth(year, month, delta int) (int, int) {
	month += delta
	for month < 1 {
		month += 12
		year--
	}
	for month > 12 {
		month -= 12
		year++
	}
	return year, month
}

// WindowStart returns the first month of a window of count months that ends
// (inclusive) at endYear/endMonth
func WindowStart(endYear, endMonth, count int) (int, int) {
	if count < 1 {
		count = 1
	}
	return ShiftMonth(endYear, endMonth, -(count - 1))
}
