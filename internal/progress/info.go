package progress

import "time"

// TaskInfo is a point-in-time copy of a task, safe to keep and marshal.
type TaskInfo struct {
	ID          int       `json:"id"`
	Kind        string    `json:"kind"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	Message     string    `json:"message,omitempty"`
	Percent     *int      `json:"percent,omitempty"`
	StartedAt   time.Time `json:"started_at"`
	EndedAt     time.Time `json:"ended_at,omitzero"`
}

// Finished reports whether the copied status is terminal.
func (i TaskInfo) Finished() bool {
	return i.Status != StatusRunning.String()
}

// Duration returns how long the task ran, measured up to now while it is
// still running.
func (i TaskInfo) Duration(now time.Time) time.Duration {
	if i.EndedAt.IsZero() {
		return now.Sub(i.StartedAt)
	}
	return i.EndedAt.Sub(i.StartedAt)
}

// Info returns a copy of the task's current state.
func (t *Task) Info() TaskInfo {
	t.owner.mu.Lock()
	defer t.owner.mu.Unlock()
	return t.infoLocked()
}

func (t *Task) infoLocked() TaskInfo {
	info := TaskInfo{
		ID:          t.id,
		Kind:        t.kind.String(),
		Description: t.description,
		Status:      t.status.String(),
		Message:     t.message,
		StartedAt:   t.startedAt,
		EndedAt:     t.endedAt,
	}
	if t.kind == KindBar {
		p := t.percentLocked()
		info.Percent = &p
	}
	return info
}

// Snapshot copies every registered task in display order under one lock,
// so the result is consistent across tasks.
func (ind *Indicators) Snapshot() []TaskInfo {
	ind.mu.Lock()
	defer ind.mu.Unlock()
	out := make([]TaskInfo, 0, len(ind.tasks))
	for _, t := range ind.tasks {
		out = append(out, t.infoLocked())
	}
	return out
}

// Now returns the current time on the indicators' clock.
func (ind *Indicators) Now() time.Time {
	return ind.now()
}
