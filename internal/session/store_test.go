package session

import (
	"sync"
	"testing"
	"time"

	"github.com/cadolab/giftbot/internal/dialog"
	"github.com/cadolab/giftbot/internal/texts"
)

func TestDoRetainsMutations(t *testing.T) {
	s := NewStore()
	s.Do(42, func(sess *dialog.Session) {
		sess.Lang = texts.LangRU
		sess.Flow = dialog.FlowGift
		sess.State = dialog.GiftAwaitWho
	})
	got := s.Snapshot(42)
	if got.Lang != texts.LangRU || got.Flow != dialog.FlowGift {
		t.Fatalf("snapshot = %+v", got)
	}
}

func TestUsersAreIsolated(t *testing.T) {
	s := NewStore()
	s.Do(1, func(sess *dialog.Session) { sess.Flow = dialog.FlowOrder })
	s.Do(2, func(sess *dialog.Session) { sess.Flow = dialog.FlowSupport })
	if got := s.Snapshot(1).Flow; got != dialog.FlowOrder {
		t.Errorf("user 1 flow = %q", got)
	}
	if got := s.Snapshot(2).Flow; got != dialog.FlowSupport {
		t.Errorf("user 2 flow = %q", got)
	}
	if s.Len() != 2 {
		t.Errorf("Len() = %d", s.Len())
	}
}

func TestDoSerializesSameUser(t *testing.T) {
	s := NewStore()
	const workers = 8
	const perWorker = 50

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				s.Do(7, func(sess *dialog.Session) {
					// A read-modify-write that loses updates without
					// the per-user lock.
					cur := sess.Draft.Price
					sess.Draft.Price = cur + 1
				})
			}
		}()
	}
	wg.Wait()

	if got := s.Snapshot(7).Draft.Price; got != workers*perWorker {
		t.Fatalf("price = %d, want %d", got, workers*perWorker)
	}
}

func TestDoDoesNotBlockOtherUsers(t *testing.T) {
	s := NewStore()
	slowEntered := make(chan struct{})
	release := make(chan struct{})

	go s.Do(1, func(sess *dialog.Session) {
		close(slowEntered)
		<-release
	})

	<-slowEntered
	done := make(chan struct{})
	go func() {
		s.Do(2, func(sess *dialog.Session) {})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("second user blocked behind first user's session lock")
	}
	close(release)
}
