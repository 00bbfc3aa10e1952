package schedule

// WeekStatus is the lifecycle state of a schedule week.
//
// A week starts in StatusDraft and moves to StatusPublished exactly once
// via the PublishController. Published weeks are edit-locked; the only
// way back is the audited Reopen override.
type WeekStatus int

const (
	// StatusDraft allows grid mutation and day/week saves.
	StatusDraft WeekStatus = iota

	// StatusPublished locks every grid mutation.
	StatusPublished
)

// String returns the persisted representation of the status.
func (s WeekStatus) String() string {
	switch s {
	case StatusPublished:
		return "published"
	default:
		return "draft"
	}
}

// ParseStatus maps a persisted status string back to a WeekStatus.
// Unknown values fall back to draft, the safe state.
func ParseStatus(s string) WeekStatus {
	if s == "published" {
		return StatusPublished
	}
	return StatusDraft
}
