// Package streaks computes streak and challenge statistics from session
// records.
//
// All functions are pure: they take the session list and a reference time
// and return derived numbers, with no storage or clock access. A day
// qualifies when its total recorded minutes meet the user's threshold;
// the current streak walks backward from the reference day, skipping a
// today that has not qualified yet rather than treating it as a break.
package streaks
