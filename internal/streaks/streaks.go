// ABOUTME: Pure streak and challenge analytics over recorded focus sessions
// ABOUTME: Aggregates minutes per calendar day and derives streak summaries

package streaks

import (
	"sort"
	"time"

	"github.com/focusflow/focusflow/internal/records"
)

// DayFormat is the calendar-day key format used by session records.
const DayFormat = "2006-01-02"

// Summary is the derived streak state for one user.
type Summary struct {
	Current            int `json:"current"`
	Best               int `json:"best"`
	Threshold          int `json:"threshold"`
	MinutesNeededToday int `json:"minutesNeededToday"`
}

// ChallengeProgress is the monthly challenge state for one user.
type ChallengeProgress struct {
	Reached     int `json:"reached"`
	TotalDays   int `json:"totalDays"`
	GoalMinutes int `json:"goalMinutes"`
}

// MinutesPerDay sums session minutes per calendar-day key. Multiple
// sessions on the same day add up.
func MinutesPerDay(sessions []records.SessionRecord) map[string]int {
	perDay := make(map[string]int, len(sessions))
	for _, s := range sessions {
		perDay[s.Date] += s.Minutes
	}
	return perDay
}

// Compute derives the streak summary for the given sessions and threshold,
// with "today" taken from the provided instant.
//
// The current streak walks backward one calendar day at a time starting at
// today and counts consecutive qualifying days. A today that has not yet
// reached the threshold is skipped rather than treated as a break, so the
// streak accumulated through yesterday still shows.
func Compute(sessions []records.SessionRecord, threshold int, today time.Time) Summary {
	perDay := MinutesPerDay(sessions)

	qualifies := func(day time.Time) bool {
		minutes, ok := perDay[day.Format(DayFormat)]
		if !ok {
			return false
		}
		return minutes >= threshold
	}

	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)

	current := 0
	probe := day
	if !qualifies(probe) {
		probe = probe.AddDate(0, 0, -1)
	}
	for qualifies(probe) {
		current++
		probe = probe.AddDate(0, 0, -1)
	}

	minutesToday := perDay[day.Format(DayFormat)]
	needed := threshold - minutesToday
	if needed < 0 {
		needed = 0
	}

	return Summary{
		Current:            current,
		Best:               bestStreak(perDay, threshold),
		Threshold:          threshold,
		MinutesNeededToday: needed,
	}
}

// bestStreak is the longest run of qualifying days each exactly one
// calendar day after the previous, over the full history.
func bestStreak(perDay map[string]int, threshold int) int {
	qualifying := make([]time.Time, 0, len(perDay))
	for key, minutes := range perDay {
		if minutes < threshold {
			continue
		}
		day, err := time.Parse(DayFormat, key)
		if err != nil {
			continue
		}
		qualifying = append(qualifying, day)
	}
	sort.Slice(qualifying, func(i, j int) bool { return qualifying[i].Before(qualifying[j]) })

	best, run := 0, 0
	var prev time.Time
	for i, day := range qualifying {
		if i > 0 && day.Equal(prev.AddDate(0, 0, 1)) {
			run++
		} else {
			run = 1
		}
		if run > best {
			best = run
		}
		prev = day
	}
	return best
}

// ComputeChallenge counts, over the full grid of the given month, the days
// whose aggregated minutes reach goalMinutes. Days without any recorded
// session count as not reached; sessions dated outside the month are
// ignored.
func ComputeChallenge(sessions []records.SessionRecord, goalMinutes int, year int, month time.Month) ChallengeProgress {
	perDay := MinutesPerDay(sessions)

	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	totalDays := first.AddDate(0, 1, -1).Day()

	reached := 0
	for d := 0; d < totalDays; d++ {
		key := first.AddDate(0, 0, d).Format(DayFormat)
		if perDay[key] >= goalMinutes {
			reached++
		}
	}

	return ChallengeProgress{
		Reached:     reached,
		TotalDays:   totalDays,
		GoalMinutes: goalMinutes,
	}
}
