package orders

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cadolab/giftbot/internal/dialog"
	"github.com/cadolab/giftbot/internal/texts"
)

type recordingNotifier struct {
	mu   sync.Mutex
	got  []Record
	done chan struct{}
}

func (n *recordingNotifier) NewOrder(_ context.Context, rec Record) error {
	n.mu.Lock()
	n.got = append(n.got, rec)
	n.mu.Unlock()
	close(n.done)
	return nil
}

type recordingInvoicer struct {
	mu   sync.Mutex
	got  []Record
	done chan struct{}
}

func (i *recordingInvoicer) SendInvoice(_ context.Context, rec Record) error {
	i.mu.Lock()
	i.got = append(i.got, rec)
	i.mu.Unlock()
	close(i.done)
	return nil
}

func waitOn(t *testing.T, ch chan struct{}, what string) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %s", what)
	}
}

func TestCommitNotifiesOperator(t *testing.T) {
	l := testLedgerAt(t, time.Now())
	notifier := &recordingNotifier{done: make(chan struct{})}
	f := NewFinalizer(l, nil, notifier, nil)

	rec := f.Commit(context.Background(), 42, "ana", texts.LangRO, draftFor("BOX_SWEET", 650))
	if rec.ID == "" {
		t.Fatal("empty order id")
	}
	waitOn(t, notifier.done, "operator notification")

	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	if len(notifier.got) != 1 || notifier.got[0].ID != rec.ID {
		t.Fatalf("notified = %+v", notifier.got)
	}
}

func TestCommitInvoicesCardPaymentsOnly(t *testing.T) {
	l := testLedgerAt(t, time.Now())
	inv := &recordingInvoicer{done: make(chan struct{})}
	f := NewFinalizer(l, nil, nil, inv)

	cash := draftFor("BOX_SWEET", 650)
	f.Commit(context.Background(), 1, "", texts.LangRO, cash)

	card := draftFor("BOX_LOVE", 820)
	card.Payment = dialog.PayCard
	rec := f.Commit(context.Background(), 2, "", texts.LangRO, card)

	waitOn(t, inv.done, "invoice")
	inv.mu.Lock()
	defer inv.mu.Unlock()
	if len(inv.got) != 1 || inv.got[0].ID != rec.ID {
		t.Fatalf("invoiced = %+v", inv.got)
	}
}

func TestDecideUpdatesLedger(t *testing.T) {
	l := testLedgerAt(t, time.Now())
	f := NewFinalizer(l, nil, nil, nil)
	rec := f.Commit(context.Background(), 1, "", texts.LangRO, draftFor("BOX_SWEET", 650))

	decided, ok := f.Decide(context.Background(), rec.ID, StatusAccepted)
	if !ok || decided.Status != StatusAccepted {
		t.Fatalf("Decide = %+v, %v", decided, ok)
	}
	if _, ok := f.Decide(context.Background(), "09999999-01", StatusRejected); ok {
		t.Error("Decide on unknown order succeeded")
	}
}
