// ABOUTME: Typed record definitions for the per-user kv namespace
// ABOUTME: Declares the six well-known keys and the structs stored under them

package records

import "time"

// Key identifies a well-known kv entry within a user's namespace.
type Key string

// The six keys provisioned for every user. List keys hold JSON arrays,
// object keys hold a single JSON object.
const (
	KeyTasks     Key = "tasks"
	KeyTags      Key = "tags"
	KeySessions  Key = "sessions"
	KeySettings  Key = "settings"
	KeyChallenge Key = "challenge"
	KeyDraft     Key = "draft"
)

// ListKeys are the keys whose values are ordered lists.
var ListKeys = []Key{KeyTasks, KeyTags, KeySessions}

// ObjectKeys are the keys whose values are single objects.
var ObjectKeys = []Key{KeySettings, KeyChallenge, KeyDraft}

// Task is a todo item.
type Task struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Done      bool   `json:"done"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// Tag labels sessions. Sessions reference tags weakly by id; deleting a
// tag nulls the reference on sessions instead of deleting them.
type Tag struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// SessionRecord is one recorded focus session. Date is the calendar day
// the session is attributed to, which may differ from the day of Start
// (records can be back-dated).
type SessionRecord struct {
	ID          string  `json:"id"`
	Date        string  `json:"date"` // YYYY-MM-DD
	Start       string  `json:"start,omitempty"`
	End         string  `json:"end,omitempty"`
	Minutes     int     `json:"minutes"`
	TagID       *string `json:"tagId"`
	TaskID      *string `json:"taskId"`
	Title       string  `json:"title,omitempty"`
	Description string  `json:"description,omitempty"`
}

// Settings holds per-user timer and streak preferences.
type Settings struct {
	FocusMinutes    int  `json:"focusMinutes"`
	BreakMinutes    int  `json:"breakMinutes"`
	Sound           bool `json:"sound"`
	AutoStartBreak  bool `json:"autoStartBreak"`
	StreakThreshold int  `json:"streakThreshold"` // minutes/day to count as focused
	Pro             bool `json:"pro"`
}

// Challenge is the monthly focus challenge. Month is 1-based.
type Challenge struct {
	Month       int    `json:"month"`
	Year        int    `json:"year"`
	Enrolled    bool   `json:"enrolled"`
	GoalMinutes int    `json:"goalMinutes"`
	Start       string `json:"start"`
	End         string `json:"end"`
}

// Draft is the freeform annotation template for new sessions.
type Draft struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// DefaultSettings returns the settings seeded for a new user.
func DefaultSettings() Settings {
	return Settings{
		FocusMinutes:    25,
		BreakMinutes:    5,
		Sound:           true,
		AutoStartBreak:  false,
		StreakThreshold: 5,
		Pro:             true,
	}
}

// DefaultTags returns the three starter tags seeded for a new user.
func DefaultTags() []Tag {
	return []Tag{
		{ID: "tag-deep", Name: "Deep Work", Color: "#34d399"},
		{ID: "tag-study", Name: "Study", Color: "#60a5fa"},
		{ID: "tag-admin", Name: "Admin", Color: "#fbbf24"},
	}
}

// DefaultDraft returns the annotation template seeded for a new user.
func DefaultDraft() Draft {
	return Draft{Title: "Focused Work", Description: ""}
}

// DefaultChallenge returns the challenge for the month containing now,
// spanning the first and last calendar day of that month.
func DefaultChallenge(now time.Time) Challenge {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)
	return Challenge{
		Month:       int(now.Month()),
		Year:        now.Year(),
		Enrolled:    false,
		GoalMinutes: 25,
		Start:       start.Format(time.RFC3339),
		End:         end.Format(time.RFC3339),
	}
}

// RemoveTag returns the tag list without the given tag and the session list
// with every reference to it nulled out. Sessions are never deleted by tag
// removal. The two resulting lists are persisted as two independent writes;
// a crash between them can leave sessions pointing at a deleted tag.
func RemoveTag(tags []Tag, sessions []SessionRecord, tagID string) ([]Tag, []SessionRecord) {
	kept := make([]Tag, 0, len(tags))
	for _, tag := range tags {
		if tag.ID != tagID {
			kept = append(kept, tag)
		}
	}

	rewritten := make([]SessionRecord, len(sessions))
	for i, sess := range sessions {
		if sess.TagID != nil && *sess.TagID == tagID {
			sess.TagID = nil
		}
		rewritten[i] = sess
	}

	return kept, rewritten
}
