package ui

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderKeepsBoundedHistory(t *testing.T) {
	r := NewRecorder()
	for i := 0; i < maxHistory+20; i++ {
		r.Navigate(View(fmt.Sprintf("/orders/%d", i)))
	}

	history := r.History()
	require.Len(t, history, maxHistory)
	assert.Equal(t, View("/orders/20"), history[0])
	assert.Equal(t, View(fmt.Sprintf("/orders/%d", maxHistory+19)), r.Last())
}

func TestRecorderDrainsNotices(t *testing.T) {
	r := NewRecorder()
	for i := 0; i < maxPendingNotices+5; i++ {
		r.Notify(NewNotice(NoticeInfo, fmt.Sprintf("n%d", i)))
	}

	assert.Len(t, r.Notices(), maxPendingNotices)
	drained := r.Drain()
	require.Len(t, drained, maxPendingNotices)
	assert.Equal(t, "n5", drained[0].Message)
	assert.Empty(t, r.Drain())
}

func TestFanoutForwardsInOrder(t *testing.T) {
	var seen []string
	f := &Fanout{
		Navigators: []Navigator{
			NavigatorFunc(func(v View) { seen = append(seen, "a:"+string(v)) }),
			NavigatorFunc(func(v View) { seen = append(seen, "b:"+string(v)) }),
		},
		Notifiers: []Notifier{
			NotifierFunc(func(n Notice) { seen = append(seen, "n:"+n.Message) }),
		},
	}

	f.Navigate(ViewCart)
	f.Notify(NewNotice(NoticeSuccess, "added"))

	assert.Equal(t, []string{"a:/cart", "b:/cart", "n:added"}, seen)
}
