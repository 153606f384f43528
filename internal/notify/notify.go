// Package notify delivers operator-facing messages: new-order
// summaries with decision buttons, forwarded support requests, daily
// reports and ledger exports.
package notify

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	tele "gopkg.in/telebot.v4"

	tghelpers "github.com/cadolab/giftbot/core/telegram/helpers"
	"github.com/cadolab/giftbot/internal/catalog"
	"github.com/cadolab/giftbot/internal/dialog"
	"github.com/cadolab/giftbot/internal/orders"
)

// DecisionKey is the callback unique carried by the accept and reject
// buttons under a new-order summary.
const DecisionKey = "opdec"

const (
	DecisionAccept = "accept"
	DecisionReject = "reject"
)

// Sender is the slice of tele.Bot the gateway needs.
type Sender interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

// Gateway sends to the configured operator chat.
type Gateway struct {
	sender Sender
	chatID int64
}

// New builds a gateway; a zero chat id disables delivery.
func New(sender Sender, chatID int64) *Gateway {
	return &Gateway{sender: sender, chatID: chatID}
}

// Enabled reports whether an operator chat is configured.
func (g *Gateway) Enabled() bool {
	return g != nil && g.sender != nil && g.chatID != 0
}

func (g *Gateway) chat() *tele.Chat {
	return &tele.Chat{ID: g.chatID}
}

// NewOrder sends the order summary with accept/reject buttons.
func (g *Gateway) NewOrder(_ context.Context, rec orders.Record) error {
	if !g.Enabled() {
		return nil
	}
	markup := &tele.ReplyMarkup{}
	accept := markup.Data("✅ Acceptă", DecisionKey, rec.ID, DecisionAccept, strconv.FormatInt(rec.UserID, 10))
	reject := markup.Data("❌ Refuză", DecisionKey, rec.ID, DecisionReject, strconv.FormatInt(rec.UserID, 10))
	markup.Inline(markup.Row(accept, reject))

	_, err := g.sender.Send(g.chat(), FormatOrder(rec), markup)
	if err != nil {
		return fmt.Errorf("notify: new order %s: %w", rec.ID, err)
	}
	return nil
}

// Support forwards a support request.
func (g *Gateway) Support(_ context.Context, userID int64, username, text string) error {
	if !g.Enabled() {
		return nil
	}
	var b strings.Builder
	b.WriteString("💬 Mesaj de suport\n")
	if username != "" {
		fmt.Fprintf(&b, "👤 @%s (%d)\n", username, userID)
	} else {
		fmt.Fprintf(&b, "👤 id %d\n", userID)
	}
	b.WriteString("\n")
	b.WriteString(text)
	if _, err := g.sender.Send(g.chat(), b.String()); err != nil {
		return fmt.Errorf("notify: support from %d: %w", userID, err)
	}
	return nil
}

// Report sends a daily report.
func (g *Gateway) Report(_ context.Context, rep orders.Report) error {
	if !g.Enabled() {
		return nil
	}
	if _, err := g.sender.Send(g.chat(), rep.Format()); err != nil {
		return fmt.Errorf("notify: report: %w", err)
	}
	return nil
}

// Workbook sends an orders export as a document.
func (g *Gateway) Workbook(_ context.Context, name string, records []orders.Record) error {
	if !g.Enabled() {
		return nil
	}
	var buf bytes.Buffer
	if err := orders.Export(&buf, records); err != nil {
		return fmt.Errorf("notify: workbook: %w", err)
	}
	doc := &tele.Document{
		File:     tele.FromReader(&buf),
		FileName: name,
	}
	if _, err := g.sender.Send(g.chat(), doc); err != nil {
		return fmt.Errorf("notify: workbook: %w", err)
	}
	return nil
}

// FormatOrder renders the operator-facing order summary.
func FormatOrder(rec orders.Record) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📥 Comandă nouă %s\n\n", rec.ID)
	fmt.Fprintf(&b, "👤 Nume: %s\n", rec.Name)
	fmt.Fprintf(&b, "📞 Telefon: %s\n", rec.Phone)
	fmt.Fprintf(&b, "🏙 Oraș: %s\n", rec.City)

	if rec.Price > 0 {
		fmt.Fprintf(&b, "🎁 Produs: %s (%d %s)\n", rec.ProductText, rec.Price, catalog.Currency)
	} else {
		fmt.Fprintf(&b, "🎁 Produs: %s (în afara catalogului)\n", rec.ProductText)
	}
	if rec.UpsellID != "" {
		label := rec.UpsellID
		if p, ok := catalog.ByID(rec.UpsellID); ok {
			label = p.NameRO
		}
		fmt.Fprintf(&b, "➕ Extra: %s (%d %s)\n", label, rec.UpsellPrice, catalog.Currency)
	}

	if rec.Delivery == string(dialog.DeliveryPickup) {
		b.WriteString("🚚 Livrare: ridicare din magazin\n")
	} else {
		b.WriteString("🚚 Livrare: curier\n")
		fmt.Fprintf(&b, "📍 Adresă: %s\n", rec.Address)
	}
	if when, ok := tghelpers.ParseFlexibleDate(rec.Date); ok {
		fmt.Fprintf(&b, "📅 Data dorită: %s\n", when.Format("02.01.2006"))
	} else {
		fmt.Fprintf(&b, "📅 Data dorită: %s\n", rec.Date)
	}
	fmt.Fprintf(&b, "💳 Plată: %s\n", rec.Payment)
	fmt.Fprintf(&b, "🎉 Ocazie: %s\n", rec.Occasion)
	fmt.Fprintf(&b, "📣 Sursă: %s\n", rec.Source)
	if rec.Comments != "" && rec.Comments != "-" {
		fmt.Fprintf(&b, "✍️ Comentarii: %s\n", rec.Comments)
	}
	fmt.Fprintf(&b, "💰 Total: %d %s\n", rec.Total, catalog.Currency)

	if rec.Username != "" {
		fmt.Fprintf(&b, "\n@%s (%d), limba: %s", rec.Username, rec.UserID, rec.Lang)
	} else {
		fmt.Fprintf(&b, "\nid %d, limba: %s", rec.UserID, rec.Lang)
	}
	return b.String()
}
