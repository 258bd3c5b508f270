// Package ui holds the outward signals the state stores emit towards the
// view layer: navigation targets and user-visible notices.
package ui

import "time"

// View is a client-side route path.
type View string

const (
	ViewHome         View = "/"
	ViewLogin        View = "/login"
	ViewRegister     View = "/register"
	ViewCart         View = "/cart"
	ViewAdmin        View = "/admin"
	ViewOrderSuccess View = "/order-success"
)

type NoticeLevel string

const (
	NoticeInfo    NoticeLevel = "info"
	NoticeSuccess NoticeLevel = "success"
	NoticeError   NoticeLevel = "error"
)

// Notice is a short user-visible message, shown as an alert by the view.
type Notice struct {
	Level     NoticeLevel `json:"level"`
	Message   string      `json:"message"`
	CreatedAt time.Time   `json:"created_at"`
}

func NewNotice(level NoticeLevel, message string) Notice {
	return Notice{Level: level, Message: message, CreatedAt: time.Now()}
}

// Navigator is the imperative "go to view X" capability.
type Navigator interface {
	Navigate(view View)
}

// Notifier surfaces notices to the user.
type Notifier interface {
	Notify(notice Notice)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(View)

func (f NavigatorFunc) Navigate(view View) { f(view) }

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notice)

func (f NotifierFunc) Notify(notice Notice) { f(notice) }

// Fanout forwards every signal to each of its members in order.
type Fanout struct {
	Navigators []Navigator
	Notifiers  []Notifier
}

func (f *Fanout) Navigate(view View) {
	for _, n := range f.Navigators {
		n.Navigate(view)
	}
}

func (f *Fanout) Notify(notice Notice) {
	for _, n := range f.Notifiers {
		n.Notify(notice)
	}
}
