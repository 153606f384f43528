package dialog

import (
	"fmt"
	"strings"

	"github.com/cadolab/giftbot/internal/catalog"
)

// StartOrder enters the order interview. When a previous order left a
// snapshot, the reuse offer is made right away; accepting or declining
// it is a transition within the product step, not a state of its own.
func StartOrder(sess *Session) []Effect {
	sess.Flow = FlowOrder
	sess.State = OrderAwaitProduct
	sess.Draft = OrderDraft{}
	if sess.LastDone != nil {
		return []Effect{reuseOffer(sess), prompt("order_ask_product")}
	}
	return []Effect{prompt("order_ask_product")}
}

// StartOrderWith enters the order interview with the product already
// chosen, e.g. from a catalog button.
func StartOrderWith(sess *Session, p catalog.Product) []Effect {
	sess.Flow = FlowOrder
	sess.State = OrderAwaitProduct
	sess.Draft = OrderDraft{
		ProductID:   p.ID,
		ProductText: p.Name(sess.Lang),
		Price:       p.Price,
	}
	if sess.LastDone != nil {
		return []Effect{reuseOffer(sess)}
	}
	return afterProduct(sess)
}

func nextOrder(sess *Session, ev Event, opts Options) []Effect {
	switch sess.State {
	case OrderAwaitProduct:
		return orderProduct(sess, ev)
	case OrderAwaitName:
		return orderText(sess, ev, &sess.Draft.Name, OrderAwaitPhone, "order_ask_phone", MarkupNone)
	case OrderAwaitPhone:
		return orderText(sess, ev, &sess.Draft.Phone, OrderAwaitCity, "order_ask_city", MarkupNone)
	case OrderAwaitCity:
		return orderText(sess, ev, &sess.Draft.City, OrderAwaitDelivery, "order_ask_delivery", MarkupDelivery)
	case OrderAwaitDelivery:
		return orderDelivery(sess, ev)
	case OrderAwaitAddress:
		return orderText(sess, ev, &sess.Draft.Address, OrderAwaitDate, "order_ask_date", MarkupNone)
	case OrderAwaitDate:
		return orderDate(sess, ev, opts)
	case OrderAwaitPayment:
		return orderPayment(sess, ev)
	case OrderAwaitComments:
		return orderText(sess, ev, &sess.Draft.Comments, OrderAwaitOccasion, "order_ask_occasion", MarkupNone)
	case OrderAwaitOccasion:
		return orderText(sess, ev, &sess.Draft.Occasion, OrderAwaitSource, "order_ask_source", MarkupNone)
	case OrderAwaitSource:
		return orderText(sess, ev, &sess.Draft.Source, OrderAwaitUpsell, "order_ask_upsell", MarkupUpsell)
	case OrderAwaitUpsell:
		return orderUpsell(sess, ev)
	case OrderConfirm:
		return orderConfirm(sess, ev)
	default:
		sess.Reset()
		return []Effect{{Kind: EffMenu}}
	}
}

func orderProduct(sess *Session, ev Event) []Effect {
	if ev.Kind == EventChoice {
		switch ev.Choice {
		case "reuse":
			if snap := sess.LastDone; snap != nil {
				sess.Draft.Name = snap.Name
				sess.Draft.Phone = snap.Phone
				sess.Draft.City = snap.City
				sess.Draft.Delivery = snap.Delivery
				sess.Draft.Address = snap.Address
				sess.Draft.Payment = snap.Payment
			}
			return continueProduct(sess)
		case "fresh":
			sess.Draft.Name = ""
			sess.Draft.Phone = ""
			sess.Draft.City = ""
			sess.Draft.Delivery = ""
			sess.Draft.Address = ""
			sess.Draft.Payment = ""
			return continueProduct(sess)
		}
		p, ok := catalog.ByID(ev.Choice)
		if !ok {
			return []Effect{prompt("order_ask_product")}
		}
		sess.Draft.ProductID = p.ID
		sess.Draft.ProductText = p.Name(sess.Lang)
		sess.Draft.Price = p.Price
		return afterProduct(sess)
	}
	text := strings.TrimSpace(ev.Text)
	if text == "" {
		return []Effect{prompt("order_ask_product")}
	}
	sess.Draft.ProductText = text
	if p, ok := catalog.Match(text); ok {
		sess.Draft.ProductID = p.ID
		sess.Draft.ProductText = p.Name(sess.Lang)
		sess.Draft.Price = p.Price
		return afterProduct(sess)
	}
	// Custom request: kept verbatim for the operator, no catalog price.
	return append([]Effect{prompt("order_unknown_product", text)}, afterProduct(sess)...)
}

func reuseOffer(sess *Session) Effect {
	snap := sess.LastDone
	summary := fmt.Sprintf("%s\n%s\n%s", snap.Name, snap.Phone, snap.City)
	return promptKb("order_reuse_offer", MarkupReuse, summary)
}

// continueProduct resumes after the reuse decision: when the product
// was pre-chosen from the catalog the interview advances, otherwise the
// product question is still open.
func continueProduct(sess *Session) []Effect {
	if sess.Draft.ProductText != "" {
		return afterProduct(sess)
	}
	return []Effect{prompt("order_ask_product")}
}

// afterProduct advances past the product step. A name pre-filled by the
// reuse shortcut means delivery, address and payment came along with
// it, so the interview jumps straight to the date question.
func afterProduct(sess *Session) []Effect {
	if sess.Draft.Name != "" {
		sess.State = OrderAwaitDate
		return []Effect{prompt("order_ask_date")}
	}
	sess.State = OrderAwaitName
	return []Effect{prompt("order_ask_name")}
}

func orderText(sess *Session, ev Event, field *string, next State, nextKey string, kb Markup) []Effect {
	if ev.Kind != EventText || strings.TrimSpace(ev.Text) == "" {
		return []Effect{promptKb(orderPromptKey(sess.State), orderPromptMarkup(sess.State))}
	}
	*field = strings.TrimSpace(ev.Text)
	sess.State = next
	return []Effect{promptKb(nextKey, kb)}
}

func orderDelivery(sess *Session, ev Event) []Effect {
	if ev.Kind != EventChoice {
		return []Effect{promptKb("order_ask_delivery", MarkupDelivery)}
	}
	switch DeliveryMethod(ev.Choice) {
	case DeliveryCourier:
		sess.Draft.Delivery = DeliveryCourier
		sess.State = OrderAwaitAddress
		return []Effect{prompt("order_ask_address")}
	case DeliveryPickup:
		sess.Draft.Delivery = DeliveryPickup
		sess.Draft.Address = PickupAddress
		sess.State = OrderAwaitDate
		return []Effect{prompt("order_ask_date")}
	default:
		return []Effect{promptKb("order_ask_delivery", MarkupDelivery)}
	}
}

func orderDate(sess *Session, ev Event, opts Options) []Effect {
	if ev.Kind != EventText || strings.TrimSpace(ev.Text) == "" {
		return []Effect{prompt("order_ask_date")}
	}
	sess.Draft.Date = strings.TrimSpace(ev.Text)
	if sess.Draft.Payment != "" {
		// Payment came from the reuse snapshot; nothing to ask.
		sess.State = OrderAwaitComments
		return []Effect{prompt("order_ask_comments")}
	}
	if opts.AskPayment {
		sess.State = OrderAwaitPayment
		return []Effect{promptKb("order_ask_payment", MarkupPayment)}
	}
	sess.Draft.Payment = PayCash
	sess.State = OrderAwaitComments
	return []Effect{prompt("order_ask_comments")}
}

func orderPayment(sess *Session, ev Event) []Effect {
	if ev.Kind != EventChoice {
		return []Effect{promptKb("order_ask_payment", MarkupPayment)}
	}
	switch PaymentMethod(ev.Choice) {
	case PayCash, PayCard:
		sess.Draft.Payment = PaymentMethod(ev.Choice)
		sess.State = OrderAwaitComments
		return []Effect{prompt("order_ask_comments")}
	default:
		return []Effect{promptKb("order_ask_payment", MarkupPayment)}
	}
}

func orderUpsell(sess *Session, ev Event) []Effect {
	if ev.Kind != EventChoice {
		return []Effect{promptKb("order_ask_upsell", MarkupUpsell)}
	}
	switch {
	case ev.Choice == "skip":
	default:
		p, ok := catalog.ByID(ev.Choice)
		if !ok {
			return []Effect{promptKb("order_ask_upsell", MarkupUpsell)}
		}
		sess.Draft.UpsellID = p.ID
		sess.Draft.UpsellPrice = p.Price
	}
	sess.State = OrderConfirm
	return []Effect{{Kind: EffSummary, Markup: MarkupConfirm}}
}

func orderConfirm(sess *Session, ev Event) []Effect {
	if ev.Kind != EventChoice {
		return []Effect{{Kind: EffSummary, Markup: MarkupConfirm}}
	}
	switch ev.Choice {
	case "confirm":
		return []Effect{{Kind: EffFinalize}}
	case "edit":
		sess.Draft = OrderDraft{}
		sess.State = OrderAwaitProduct
		effs := []Effect{prompt("order_restart")}
		if sess.LastDone != nil {
			effs = append(effs, reuseOffer(sess))
		}
		return append(effs, prompt("order_ask_product"))
	case "cancel":
		sess.Reset()
		return []Effect{prompt("order_cancelled"), {Kind: EffMenu}}
	default:
		return []Effect{{Kind: EffSummary, Markup: MarkupConfirm}}
	}
}

// FinishOrder leaves the flow after a successful commit and refreshes
// the contact snapshot for the reuse shortcut.
func FinishOrder(sess *Session, orderID string) []Effect {
	sess.LastDone = &ContactSnapshot{
		Name:     sess.Draft.Name,
		Phone:    sess.Draft.Phone,
		City:     sess.Draft.City,
		Delivery: sess.Draft.Delivery,
		Address:  sess.Draft.Address,
		Payment:  sess.Draft.Payment,
	}
	sess.Reset()
	return []Effect{prompt("order_confirmed", orderID), {Kind: EffMenu}}
}

func orderPromptKey(st State) string {
	switch st {
	case OrderAwaitProduct:
		return "order_ask_product"
	case OrderAwaitName:
		return "order_ask_name"
	case OrderAwaitPhone:
		return "order_ask_phone"
	case OrderAwaitCity:
		return "order_ask_city"
	case OrderAwaitDelivery:
		return "order_ask_delivery"
	case OrderAwaitAddress:
		return "order_ask_address"
	case OrderAwaitDate:
		return "order_ask_date"
	case OrderAwaitPayment:
		return "order_ask_payment"
	case OrderAwaitComments:
		return "order_ask_comments"
	case OrderAwaitOccasion:
		return "order_ask_occasion"
	case OrderAwaitSource:
		return "order_ask_source"
	case OrderAwaitUpsell:
		return "order_ask_upsell"
	default:
		return "choose_option"
	}
}

func orderPromptMarkup(st State) Markup {
	switch st {
	case OrderAwaitDelivery:
		return MarkupDelivery
	case OrderAwaitPayment:
		return MarkupPayment
	case OrderAwaitUpsell:
		return MarkupUpsell
	case OrderConfirm:
		return MarkupConfirm
	default:
		return MarkupNone
	}
}
