// Package schedule implements the time-driven Functions: a weekday
// selector and a daily table of clock points with optional ramps.
//
// Both read the wall time passed to Update, so they follow whatever
// timezone the node clock is configured for.
package schedule
