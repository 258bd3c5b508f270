package ui

import "sync"

const (
	maxPendingNotices = 50
	maxHistory        = 50
)

// Recorder remembers the last navigation target and buffers notices until a
// view drains them. It backs the polling endpoint and is handy in tests.
type Recorder struct {
	mu      sync.Mutex
	last    View
	history []View
	notices []Notice
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Navigate(view View) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.last = view
	r.history = append(r.history, view)
	if len(r.history) > maxHistory {
		r.history = r.history[len(r.history)-maxHistory:]
	}
}

func (r *Recorder) Notify(notice Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, notice)
	if len(r.notices) > maxPendingNotices {
		r.notices = r.notices[len(r.notices)-maxPendingNotices:]
	}
}

// Last returns the most recent navigation target, or "" if none was issued.
func (r *Recorder) Last() View {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

// History returns the most recent navigation targets, oldest first.
func (r *Recorder) History() []View {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]View, len(r.history))
	copy(out, r.history)
	return out
}

// Notices returns the buffered notices without draining them.
func (r *Recorder) Notices() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notice, len(r.notices))
	copy(out, r.notices)
	return out
}

// Drain returns and clears the buffered notices.
func (r *Recorder) Drain() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.notices
	r.notices = nil
	return out
}
