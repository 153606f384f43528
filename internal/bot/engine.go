// Package bot wires the dialog engine, ledger and side channels to the
// Telegram transport.
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	tele "gopkg.in/telebot.v4"

	"github.com/cadolab/giftbot/core/logger"
	tghelpers "github.com/cadolab/giftbot/core/telegram/helpers"
	"github.com/cadolab/giftbot/internal/catalog"
	"github.com/cadolab/giftbot/internal/dialog"
	"github.com/cadolab/giftbot/internal/notify"
	"github.com/cadolab/giftbot/internal/orders"
	"github.com/cadolab/giftbot/internal/recommend"
	"github.com/cadolab/giftbot/internal/session"
	"github.com/cadolab/giftbot/internal/texts"
)

// Recommender is the slice of the recommendation adapter the engine uses.
type Recommender interface {
	Recommend(ctx context.Context, lang texts.Language, profile dialog.GiftProfile) (recommend.Result, error)
}

// Engine applies dialog transitions to sessions and renders their
// effects. It satisfies the message router's FSM interface, so any
// text from a user with an active flow lands in ManagerHandler.
type Engine struct {
	store     *session.Store
	finalizer *orders.Finalizer
	rec       Recommender
	gate      *notify.Gateway
	opts      dialog.Options
}

// NewEngine wires the engine. rec and gate may be nil in reduced deployments.
func NewEngine(store *session.Store, finalizer *orders.Finalizer, rec Recommender, gate *notify.Gateway, opts dialog.Options) *Engine {
	return &Engine{store: store, finalizer: finalizer, rec: rec, gate: gate, opts: opts}
}

// InProgress reports whether the user has an active flow.
func (e *Engine) InProgress(userID int64) bool {
	sess := e.store.Snapshot(userID)
	return sess.InFlow()
}

// ManagerHandler feeds message text into the active flow.
func (e *Engine) ManagerHandler(c tele.Context) error {
	return e.Dispatch(c, dialog.TextEvent(c.Text()))
}

// Dispatch applies one event under the user's session lock. Holding
// the lock across effect rendering (including the generation call)
// serializes a user's events end to end.
func (e *Engine) Dispatch(c tele.Context, ev dialog.Event) error {
	userID := c.Sender().ID
	e.store.Do(userID, func(sess *dialog.Session) {
		before := sess.State
		effs := dialog.Next(sess, ev, e.opts)
		logger.LogEvent(tghelpers.BuildContext(c), logger.Dialog, slog.LevelDebug, "transition",
			slog.String("flow", string(sess.Flow)),
			slog.String("state", string(before)),
			slog.Int64("user_id", userID),
		)
		e.apply(c, sess, effs)
	})
	return nil
}

// Start enters a flow from a command or menu button.
func (e *Engine) Start(c tele.Context, start func(*dialog.Session) []dialog.Effect) error {
	e.store.Do(c.Sender().ID, func(sess *dialog.Session) {
		e.apply(c, sess, start(sess))
	})
	return nil
}

// Cancel drops the active flow.
func (e *Engine) Cancel(c tele.Context) error {
	e.store.Do(c.Sender().ID, func(sess *dialog.Session) {
		sess.Reset()
		e.apply(c, sess, []dialog.Effect{{Kind: dialog.EffMenu}})
	})
	return nil
}

// WithSession runs fn under the user's session lock.
func (e *Engine) WithSession(userID int64, fn func(*dialog.Session)) {
	e.store.Do(userID, fn)
}

func (e *Engine) apply(c tele.Context, sess *dialog.Session, effs []dialog.Effect) {
	for _, eff := range effs {
		switch eff.Kind {
		case dialog.EffPrompt:
			_ = tghelpers.SendText(c, texts.Tf(sess.Lang, eff.Key, eff.Args...), sendOpts(markupFor(sess, eff.Markup)))
		case dialog.EffSummary:
			_ = tghelpers.SendText(c, RenderSummary(sess), sendOpts(markupFor(sess, dialog.MarkupConfirm)))
		case dialog.EffGenerate:
			e.generate(c, sess)
		case dialog.EffFinalize:
			e.finalize(c, sess)
		case dialog.EffForward:
			e.forward(c, eff.Text)
		case dialog.EffMenu:
			_ = SendMenu(c, sess.Lang)
		}
	}
}

// generate runs the recommendation synchronously under the session
// lock; a second message from the same user waits and then sees the
// advanced state.
func (e *Engine) generate(c tele.Context, sess *dialog.Session) {
	ctx := tghelpers.BuildContext(c)
	if e.rec == nil {
		e.apply(c, sess, dialog.FinishGift(sess, false))
		return
	}
	res, err := e.rec.Recommend(ctx, sess.Lang, sess.Gift)
	if err != nil {
		logger.LogEvent(ctx, logger.AI, slog.LevelError, "recommend_failed",
			slog.Int64("user_id", c.Sender().ID),
			slog.String("err", err.Error()),
		)
		e.apply(c, sess, dialog.FinishGift(sess, false))
		return
	}
	_ = tghelpers.SendText(c, recommend.Render(sess.Lang, res))
	e.apply(c, sess, dialog.FinishGift(sess, true))
}

func (e *Engine) finalize(c tele.Context, sess *dialog.Session) {
	ctx := tghelpers.BuildContext(c)
	rec := e.finalizer.Commit(ctx, c.Sender().ID, senderUsername(c), sess.Lang, sess.Draft)
	e.apply(c, sess, dialog.FinishOrder(sess, rec.ID))
}

func (e *Engine) forward(c tele.Context, text string) {
	if e.gate == nil {
		return
	}
	userID := c.Sender().ID
	username := senderUsername(c)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if err := e.gate.Support(ctx, userID, username, text); err != nil {
			logger.LogEvent(ctx, logger.Notify, slog.LevelError, "support_forward_failed",
				slog.Int64("user_id", userID),
				slog.String("err", err.Error()),
			)
		}
	}()
}

func senderUsername(c tele.Context) string {
	if s := c.Sender(); s != nil {
		return s.Username
	}
	return ""
}

func sendOpts(markup *tele.ReplyMarkup) *tele.SendOptions {
	return &tele.SendOptions{ReplyMarkup: markup}
}

// RenderSummary builds the customer-facing confirmation summary.
func RenderSummary(sess *dialog.Session) string {
	lang := sess.Lang
	d := sess.Draft

	var b strings.Builder
	b.WriteString(texts.T(lang, "order_summary_title"))
	b.WriteString("\n\n")

	product := d.ProductText
	if d.Price > 0 {
		product = fmt.Sprintf("%s (%d %s)", d.ProductText, d.Price, catalog.Currency)
	}
	b.WriteString(texts.Tf(lang, "summary_product", product))
	b.WriteString("\n")
	if d.UpsellID != "" {
		label := d.UpsellID
		if p, ok := catalog.ByID(d.UpsellID); ok {
			label = fmt.Sprintf("%s (%d %s)", p.Name(lang), p.Price, catalog.Currency)
		}
		b.WriteString(texts.Tf(lang, "summary_extra", label))
		b.WriteString("\n")
	}
	b.WriteString(texts.Tf(lang, "summary_name", d.Name))
	b.WriteString("\n")
	b.WriteString(texts.Tf(lang, "summary_phone", d.Phone))
	b.WriteString("\n")
	b.WriteString(texts.Tf(lang, "summary_city", d.City))
	b.WriteString("\n")
	if d.Delivery == dialog.DeliveryPickup {
		b.WriteString(texts.Tf(lang, "summary_delivery", texts.T(lang, "pickup_label")))
		b.WriteString("\n")
	} else {
		b.WriteString(texts.Tf(lang, "summary_delivery", texts.T(lang, "courier_label")))
		b.WriteString("\n")
		b.WriteString(texts.Tf(lang, "summary_address", d.Address))
		b.WriteString("\n")
	}
	b.WriteString(texts.Tf(lang, "summary_date", d.Date))
	b.WriteString("\n")
	payment := texts.T(lang, "pay_cash_label")
	if d.Payment == dialog.PayCard {
		payment = texts.T(lang, "pay_card_label")
	}
	b.WriteString(texts.Tf(lang, "summary_payment", payment))
	b.WriteString("\n")
	if d.Comments != "" && d.Comments != "-" {
		b.WriteString(texts.Tf(lang, "summary_comments", d.Comments))
		b.WriteString("\n")
	}
	b.WriteString(texts.Tf(lang, "summary_occasion", d.Occasion))
	b.WriteString("\n")
	b.WriteString(texts.Tf(lang, "summary_source", d.Source))
	b.WriteString("\n")
	if total := d.Total(); total > 0 {
		b.WriteString(texts.Tf(lang, "summary_total", total))
	}
	return strings.TrimRight(b.String(), "\n")
}
