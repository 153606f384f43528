// Package payments issues Telegram invoices for card orders.
package payments

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	tele "gopkg.in/telebot.v4"

	"github.com/cadolab/giftbot/internal/catalog"
	"github.com/cadolab/giftbot/internal/orders"
	"github.com/cadolab/giftbot/internal/texts"
)

// Sender is the slice of tele.Bot the issuer needs.
type Sender interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

// Issuer sends invoices through the configured payment provider.
type Issuer struct {
	sender Sender
	token  string
}

// New builds an issuer; an empty provider token disables it.
func New(sender Sender, providerToken string) *Issuer {
	return &Issuer{sender: sender, token: strings.TrimSpace(providerToken)}
}

// Enabled reports whether a payment provider is configured.
func (i *Issuer) Enabled() bool {
	return i != nil && i.sender != nil && i.token != ""
}

// SendInvoice issues an invoice for the order total to the customer.
// Each invoice carries a fresh uuid payload so provider callbacks can
// be correlated without exposing the order id.
func (i *Issuer) SendInvoice(_ context.Context, rec orders.Record) error {
	if !i.Enabled() {
		return nil
	}
	if rec.Total <= 0 {
		return fmt.Errorf("payments: order %s has no payable total", rec.ID)
	}

	prices := []tele.Price{{
		Label: rec.ProductText,
		// Telegram expects the amount in the currency's minor units.
		Amount: rec.Price * 100,
	}}
	if rec.UpsellID != "" {
		label := rec.UpsellID
		if p, ok := catalog.ByID(rec.UpsellID); ok {
			label = p.NameRO
		}
		prices = append(prices, tele.Price{Label: label, Amount: rec.UpsellPrice * 100})
	}

	inv := &tele.Invoice{
		Title:       fmt.Sprintf("Comanda %s", rec.ID),
		Description: rec.ProductText,
		Payload:     uuid.NewString(),
		Currency:    catalog.Currency,
		Token:       i.token,
		Prices:      prices,
	}

	customer := &tele.User{ID: rec.UserID}
	if _, err := i.sender.Send(customer, inv); err != nil {
		return fmt.Errorf("payments: invoice for %s: %w", rec.ID, err)
	}
	// The notice is best effort; the invoice itself already went out.
	lang := texts.ParseLanguage(rec.Lang)
	_, _ = i.sender.Send(customer, texts.T(lang, "invoice_sent"))
	return nil
}
