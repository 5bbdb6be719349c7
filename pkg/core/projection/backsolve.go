package projection

import "time"

// RecognitionFactor is the share of a unit booking recognized in year.
func RecognitionFactor(start, end time.Time, year int) float64 {
	return Sum(Allocate(start, end, 1.0, year))
}

// SolveBooking returns the booking whose recognition equals desired given the
// in-year factor per unit booked. Gap-fill passes a weighted factor across
// twelve monthly windows; Backsolve passes the factor of a single window.
// It returns 0 when either side is non-positive.
func SolveBooking(desired, factor float64) float64 {
	if desired <= 0 || factor <= 0 {
		return 0
	}
	return desired / factor
}

// Backsolve returns the booking amount whose in-year recognition equals
// desired for one service window. It returns 0 when nothing of the window
// lands in year.
func Backsolve(start, end time.Time, desired float64, year int) float64 {
	return SolveBooking(desired, RecognitionFactor(start, end, year))
}
