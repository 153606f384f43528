package orders

import (
	"context"
	"log/slog"
	"time"

	"github.com/cadolab/giftbot/core/logger"
	"github.com/cadolab/giftbot/internal/dialog"
	"github.com/cadolab/giftbot/internal/texts"
)

// Notifier delivers a new-order notification to the operator chat.
type Notifier interface {
	NewOrder(ctx context.Context, rec Record) error
}

// Invoicer issues a payment invoice to the customer.
type Invoicer interface {
	SendInvoice(ctx context.Context, rec Record) error
}

// Mirror persists orders to durable storage.
type Mirror interface {
	Save(ctx context.Context, rec Record) error
	SetStatus(ctx context.Context, id string, status Status) error
}

// Finalizer commits confirmed drafts: the ledger append is synchronous
// and authoritative, while the operator notification, invoice and
// database mirror run in the background so a slow side channel never
// delays the customer's confirmation.
type Finalizer struct {
	ledger  *Ledger
	mirror  Mirror
	notify  Notifier
	invoice Invoicer
}

const sideEffectTimeout = 30 * time.Second

// NewFinalizer wires the finalization pipeline. mirror, notify and
// invoice may each be nil when the deployment lacks them.
func NewFinalizer(ledger *Ledger, mirror Mirror, notify Notifier, invoice Invoicer) *Finalizer {
	return &Finalizer{ledger: ledger, mirror: mirror, notify: notify, invoice: invoice}
}

// Commit appends the order and fans out its side effects.
func (f *Finalizer) Commit(ctx context.Context, userID int64, username string, lang texts.Language, draft dialog.OrderDraft) Record {
	rec := f.ledger.Append(userID, username, lang, draft)
	logger.LogEvent(ctx, logger.Orders, slog.LevelInfo, "order_committed",
		slog.String("order_id", rec.ID),
		slog.Int64("user_id", rec.UserID),
		slog.String("product_id", rec.ProductID),
		slog.Int("amount", rec.Total),
	)

	if f.mirror != nil {
		go f.background("mirror_save", rec.ID, func(ctx context.Context) error {
			return f.mirror.Save(ctx, rec)
		})
	}
	if f.notify != nil {
		go f.background("notify_operator", rec.ID, func(ctx context.Context) error {
			return f.notify.NewOrder(ctx, rec)
		})
	}
	if f.invoice != nil && rec.Payment == string(dialog.PayCard) {
		go f.background("send_invoice", rec.ID, func(ctx context.Context) error {
			return f.invoice.SendInvoice(ctx, rec)
		})
	}
	return rec
}

// Decide applies the operator decision and mirrors it.
func (f *Finalizer) Decide(ctx context.Context, orderID string, status Status) (Record, bool) {
	rec, ok := f.ledger.SetStatus(orderID, status)
	if !ok {
		logger.LogEvent(ctx, logger.Orders, slog.LevelWarn, "decision_unknown_order",
			slog.String("order_id", orderID))
		return Record{}, false
	}
	logger.LogEvent(ctx, logger.Orders, slog.LevelInfo, "order_decided",
		slog.String("order_id", orderID),
		slog.String("decision", string(status)),
	)
	if f.mirror != nil {
		go f.background("mirror_status", orderID, func(ctx context.Context) error {
			return f.mirror.SetStatus(ctx, orderID, status)
		})
	}
	return rec, true
}

// background runs a side effect detached from the triggering update,
// with its own timeout.
func (f *Finalizer) background(op, orderID string, fn func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), sideEffectTimeout)
	defer cancel()
	if err := fn(ctx); err != nil {
		logger.LogEvent(ctx, logger.Orders, slog.LevelError, op+"_failed",
			slog.String("order_id", orderID),
			slog.String("err", err.Error()),
		)
	}
}
