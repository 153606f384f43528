// Package dialog implements the conversation state machines of the bot.
// The package is transport-free: transitions consume events and return
// effects, and the telegram layer renders effects into messages. Only
// code in this package mutates session flow state.
package dialog

import (
	"github.com/cadolab/giftbot/internal/texts"
)

// Flow identifies which conversation owns the session.
type Flow string

const (
	FlowNone    Flow = ""
	FlowGift    Flow = "gift"
	FlowOrder   Flow = "order"
	FlowSupport Flow = "support"
)

// State is the position inside the owning flow.
type State string

const (
	StateIdle State = ""

	GiftAwaitWho       State = "gift_await_who"
	GiftAwaitOccasion  State = "gift_await_occasion"
	GiftAwaitAge       State = "gift_await_age"
	GiftAwaitRelation  State = "gift_await_relation"
	GiftAwaitBudget    State = "gift_await_budget"
	GiftAwaitInterests State = "gift_await_interests"
	GiftGenerating     State = "gift_generating"
	GiftDone           State = "gift_done"

	OrderAwaitProduct  State = "order_await_product"
	OrderAwaitName     State = "order_await_name"
	OrderAwaitPhone    State = "order_await_phone"
	OrderAwaitCity     State = "order_await_city"
	OrderAwaitDelivery State = "order_await_delivery"
	OrderAwaitAddress  State = "order_await_address"
	OrderAwaitDate     State = "order_await_date"
	OrderAwaitPayment  State = "order_await_payment"
	OrderAwaitComments State = "order_await_comments"
	OrderAwaitOccasion State = "order_await_occasion"
	OrderAwaitSource   State = "order_await_source"
	OrderAwaitUpsell   State = "order_await_upsell"
	OrderConfirm       State = "order_confirm"

	SupportAwaitMessage State = "support_await_message"
)

// DeliveryMethod selects how the order reaches the customer.
type DeliveryMethod string

const (
	DeliveryCourier DeliveryMethod = "courier"
	DeliveryPickup  DeliveryMethod = "pickup"
)

// PickupAddress is the sentinel stored instead of a street address
// when the customer collects the order from the shop.
const PickupAddress = "pickup"

// PaymentMethod selects how the customer pays.
type PaymentMethod string

const (
	PayCash PaymentMethod = "cash"
	PayCard PaymentMethod = "card"
)

// GiftProfile accumulates the answers of the recommendation interview.
type GiftProfile struct {
	Who       string
	Occasion  string
	Age       string
	Relation  string
	Budget    string
	Interests string
}

// OrderDraft accumulates the answers of the order interview.
type OrderDraft struct {
	ProductID   string // catalog id, empty for a custom request
	ProductText string // raw text the customer typed
	Price       int    // catalog price, 0 for custom requests

	Name     string
	Phone    string
	City     string
	Delivery DeliveryMethod
	Address  string
	Date     string
	Payment  PaymentMethod
	Comments string
	Occasion string
	Source   string

	UpsellID    string // second catalog product, empty when skipped
	UpsellPrice int
}

// Total is the known order total; custom requests without a catalog
// price contribute zero.
func (d OrderDraft) Total() int {
	return d.Price + d.UpsellPrice
}

// ContactSnapshot is the reusable part of a completed order: contact
// data plus the delivery and payment choices from the last confirmed
// draft.
type ContactSnapshot struct {
	Name     string
	Phone    string
	City     string
	Delivery DeliveryMethod
	Address  string
	Payment  PaymentMethod
}

// Session is the per-user conversation state.
type Session struct {
	Lang     texts.Language
	LangSet  bool
	Flow     Flow
	State    State
	Gift     GiftProfile
	Draft    OrderDraft
	LastDone *ContactSnapshot
}

// Reset drops the active flow but keeps language and the snapshot.
func (s *Session) Reset() {
	s.Flow = FlowNone
	s.State = StateIdle
	s.Gift = GiftProfile{}
	s.Draft = OrderDraft{}
}

// InFlow reports whether a conversation is in progress.
func (s *Session) InFlow() bool {
	return s.Flow != FlowNone
}

// EventKind distinguishes typed text from button presses.
type EventKind int

const (
	EventText EventKind = iota
	EventChoice
)

// Event is one user input delivered to the active flow.
type Event struct {
	Kind   EventKind
	Text   string
	Choice string
}

// TextEvent wraps free text as an event.
func TextEvent(text string) Event { return Event{Kind: EventText, Text: text} }

// ChoiceEvent wraps a button press as an event.
func ChoiceEvent(value string) Event { return Event{Kind: EventChoice, Choice: value} }

// Markup names the inline keyboard to attach to a prompt.
type Markup int

const (
	MarkupNone Markup = iota
	MarkupReuse
	MarkupDelivery
	MarkupPayment
	MarkupUpsell
	MarkupConfirm
	MarkupMenu
)

// EffectKind tells the telegram layer what to do.
type EffectKind int

const (
	// EffPrompt sends a localized message, optionally with a keyboard.
	EffPrompt EffectKind = iota
	// EffSummary renders the order summary with confirm buttons.
	EffSummary
	// EffGenerate runs the gift recommendation for the session profile.
	EffGenerate
	// EffFinalize commits the confirmed order draft.
	EffFinalize
	// EffForward relays a support message to the operator.
	EffForward
	// EffMenu shows the main menu.
	EffMenu
)

// Effect is one action the transition asks the transport to perform.
type Effect struct {
	Kind   EffectKind
	Key    string // texts key for EffPrompt
	Args   []any
	Markup Markup
	Text   string // forwarded text for EffForward
}

func prompt(key string, args ...any) Effect {
	return Effect{Kind: EffPrompt, Key: key, Args: args}
}

func promptKb(key string, kb Markup, args ...any) Effect {
	return Effect{Kind: EffPrompt, Key: key, Args: args, Markup: kb}
}

// Options carries deployment toggles that shape the flows.
type Options struct {
	// AskPayment enables the payment method step; without a payment
	// provider all orders default to cash on delivery.
	AskPayment bool
}

// Next routes one event into the active flow and returns the effects.
// Events arriving outside any flow yield a menu hint.
func Next(sess *Session, ev Event, opts Options) []Effect {
	switch sess.Flow {
	case FlowGift:
		return nextGift(sess, ev)
	case FlowOrder:
		return nextOrder(sess, ev, opts)
	case FlowSupport:
		return nextSupport(sess, ev)
	default:
		return []Effect{{Kind: EffMenu}}
	}
}
