package bot

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/cadolab/giftbot/internal/dialog"
	"github.com/cadolab/giftbot/internal/notify"
	"github.com/cadolab/giftbot/internal/orders"
	"github.com/cadolab/giftbot/internal/recommend"
	"github.com/cadolab/giftbot/internal/session"
	"github.com/cadolab/giftbot/internal/texts"
)

// fakeCtx implements the slice of tele.Context the engine touches.
// Unimplemented methods panic via the embedded nil interface, which is
// what we want: the engine must not depend on more than this.
type fakeCtx struct {
	tele.Context
	user  *tele.User
	text  string
	store map[string]interface{}
	sent  []interface{}
}

func newFakeCtx(userID int64) *fakeCtx {
	return &fakeCtx{
		user:  &tele.User{ID: userID, Username: "tester"},
		store: make(map[string]interface{}),
	}
}

func (f *fakeCtx) Sender() *tele.User  { return f.user }
func (f *fakeCtx) Chat() *tele.Chat    { return &tele.Chat{ID: f.user.ID} }
func (f *fakeCtx) Update() tele.Update { return tele.Update{ID: 1} }
func (f *fakeCtx) Text() string        { return f.text }
func (f *fakeCtx) Get(key string) interface{} {
	return f.store[key]
}
func (f *fakeCtx) Set(key string, v interface{}) {
	f.store[key] = v
}
func (f *fakeCtx) Send(what interface{}, _ ...interface{}) error {
	f.sent = append(f.sent, what)
	return nil
}

func (f *fakeCtx) sentTexts() []string {
	var out []string
	for _, s := range f.sent {
		if txt, ok := s.(string); ok {
			out = append(out, txt)
		}
	}
	return out
}

func (f *fakeCtx) lastText(t *testing.T) string {
	t.Helper()
	txts := f.sentTexts()
	if len(txts) == 0 {
		t.Fatal("nothing sent")
	}
	return txts[len(txts)-1]
}

type fakeRecommender struct {
	res recommend.Result
	err error
}

func (f *fakeRecommender) Recommend(context.Context, texts.Language, dialog.GiftProfile) (recommend.Result, error) {
	return f.res, f.err
}

func newTestEngine(rec Recommender, notifier orders.Notifier) (*Engine, *orders.Ledger) {
	ledger := orders.NewLedger()
	fin := orders.NewFinalizer(ledger, nil, notifier, nil)
	e := NewEngine(session.NewStore(), fin, rec, nil, dialog.Options{AskPayment: false})
	return e, ledger
}

func (e *Engine) sendText(t *testing.T, c *fakeCtx, text string) {
	t.Helper()
	c.text = text
	if err := e.Dispatch(c, dialog.TextEvent(text)); err != nil {
		t.Fatalf("Dispatch(%q): %v", text, err)
	}
}

func (e *Engine) sendChoice(t *testing.T, c *fakeCtx, value string) {
	t.Helper()
	if err := e.Dispatch(c, dialog.ChoiceEvent(value)); err != nil {
		t.Fatalf("Dispatch(choice %q): %v", value, err)
	}
}

type doneNotifier struct{ ch chan orders.Record }

func (n *doneNotifier) NewOrder(_ context.Context, rec orders.Record) error {
	n.ch <- rec
	return nil
}

func TestEngineOrderEndToEnd(t *testing.T) {
	notifier := &doneNotifier{ch: make(chan orders.Record, 1)}
	e, ledger := newTestEngine(nil, notifier)
	c := newFakeCtx(42)

	if err := e.Start(c, dialog.StartOrder); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !e.InProgress(42) {
		t.Fatal("flow not in progress after start")
	}

	e.sendText(t, c, "love box")
	e.sendText(t, c, "Ana")
	e.sendText(t, c, "069123456")
	e.sendText(t, c, "Chișinău")
	e.sendChoice(t, c, "pickup")
	e.sendText(t, c, "mâine")
	e.sendText(t, c, "-")
	e.sendText(t, c, "aniversare")
	e.sendText(t, c, "Instagram")
	e.sendChoice(t, c, "skip")

	// Summary is on screen now; confirm commits the order.
	summary := c.lastText(t)
	if !strings.Contains(summary, "Love Box") || !strings.Contains(summary, "820") {
		t.Fatalf("summary = %q", summary)
	}
	e.sendChoice(t, c, "confirm")

	if e.InProgress(42) {
		t.Fatal("flow still in progress after confirm")
	}
	all := ledger.All()
	if len(all) != 1 {
		t.Fatalf("ledger has %d records", len(all))
	}
	rec := all[0]
	if rec.ProductID != "BOX_LOVE" || rec.Name != "Ana" || rec.Address != dialog.PickupAddress {
		t.Fatalf("record = %+v", rec)
	}

	select {
	case got := <-notifier.ch:
		if got.ID != rec.ID {
			t.Errorf("notified id = %q, want %q", got.ID, rec.ID)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("operator notification never sent")
	}

	// The confirmation message carries the order id.
	var confirmed bool
	for _, txt := range c.sentTexts() {
		if strings.Contains(txt, rec.ID) {
			confirmed = true
		}
	}
	if !confirmed {
		t.Errorf("no confirmation with order id %q in %v", rec.ID, c.sentTexts())
	}
}

func TestEngineGiftFlowRendersRecommendation(t *testing.T) {
	rec := &fakeRecommender{res: recommend.Result{Raw: "Îți recomand Love Box!"}}
	e, _ := newTestEngine(rec, nil)
	c := newFakeCtx(7)

	if err := e.Start(c, dialog.StartGift); err != nil {
		t.Fatalf("Start: %v", err)
	}
	for _, answer := range []string{"mama", "ziua ei", "52", "mama", "800"} {
		e.sendText(t, c, answer)
	}
	e.sendText(t, c, "flori")

	if e.InProgress(7) {
		t.Fatal("gift flow still in progress after generation")
	}
	var found bool
	for _, txt := range c.sentTexts() {
		if txt == "Îți recomand Love Box!" {
			found = true
		}
	}
	if !found {
		t.Fatalf("recommendation not sent; got %v", c.sentTexts())
	}
}

func TestEngineGiftFlowSurvivesGeneratorFailure(t *testing.T) {
	rec := &fakeRecommender{err: errors.New("backend down")}
	e, _ := newTestEngine(rec, nil)
	c := newFakeCtx(7)

	_ = e.Start(c, dialog.StartGift)
	for _, answer := range []string{"mama", "ziua ei", "52", "mama", "800", "flori"} {
		e.sendText(t, c, answer)
	}
	if e.InProgress(7) {
		t.Fatal("flow stuck after generator failure")
	}
	if !strings.Contains(strings.Join(c.sentTexts(), "\n"), texts.T(texts.LangRO, "gift_error")) {
		t.Errorf("error message not sent; got %v", c.sentTexts())
	}
}

func TestEngineCancelResetsFlow(t *testing.T) {
	e, _ := newTestEngine(nil, nil)
	c := newFakeCtx(9)
	_ = e.Start(c, dialog.StartOrder)
	if err := e.Cancel(c); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if e.InProgress(9) {
		t.Fatal("flow survived cancel")
	}
}

func TestEngineSupportForwardsToGateway(t *testing.T) {
	sent := make(chan string, 1)
	gate := notify.New(senderFunc(func(_ tele.Recipient, what interface{}, _ ...interface{}) (*tele.Message, error) {
		if txt, ok := what.(string); ok {
			sent <- txt
		}
		return &tele.Message{}, nil
	}), -100123)

	ledger := orders.NewLedger()
	fin := orders.NewFinalizer(ledger, nil, nil, nil)
	e := NewEngine(session.NewStore(), fin, nil, gate, dialog.Options{})
	c := newFakeCtx(11)

	_ = e.Start(c, dialog.StartSupport)
	e.sendText(t, c, "aveți livrare duminică?")

	select {
	case txt := <-sent:
		if !strings.Contains(txt, "aveți livrare duminică?") {
			t.Errorf("forwarded = %q", txt)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("support message never forwarded")
	}
}

type senderFunc func(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)

func (f senderFunc) Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error) {
	return f(to, what, opts...)
}

func TestRenderSummaryLocalized(t *testing.T) {
	sess := &dialog.Session{Lang: texts.LangRU}
	sess.Draft = dialog.OrderDraft{
		ProductID: "BOX_LOVE", ProductText: "Love Box", Price: 820,
		Name: "Анна", Phone: "069123456", City: "Кишинёв",
		Delivery: dialog.DeliveryCourier, Address: "ул. Цветов 5",
		Date: "завтра", Payment: dialog.PayCard,
		Occasion: "юбилей", Source: "Instagram",
	}
	out := RenderSummary(sess)
	for _, want := range []string{"Проверьте ваш заказ", "Love Box", "820", "Анна", "ул. Цветов 5", "карта", "Итого: 820 MDL"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestRenderSummaryPickupOmitsAddress(t *testing.T) {
	sess := &dialog.Session{Lang: texts.LangRO}
	sess.Draft = dialog.OrderDraft{
		ProductText: "tort", Name: "Ana", Phone: "069", City: "Orhei",
		Delivery: dialog.DeliveryPickup, Address: dialog.PickupAddress,
		Date: "azi", Payment: dialog.PayCash, Occasion: "x", Source: "y",
	}
	out := RenderSummary(sess)
	if strings.Contains(out, "Adresă") {
		t.Errorf("pickup summary shows address:\n%s", out)
	}
	if !strings.Contains(out, "ridicare din magazin") {
		t.Errorf("pickup label missing:\n%s", out)
	}
}

func TestMarkupForUpsellExcludesChosenProduct(t *testing.T) {
	sess := &dialog.Session{Lang: texts.LangRO}
	sess.Draft.ProductID = "BOX_LOVE"
	markup := markupFor(sess, dialog.MarkupUpsell)
	if markup == nil {
		t.Fatal("nil markup")
	}
	// 3 remaining products + skip, one per row.
	if len(markup.InlineKeyboard) != 4 {
		t.Fatalf("rows = %d", len(markup.InlineKeyboard))
	}
	for _, row := range markup.InlineKeyboard {
		for _, btn := range row {
			if strings.Contains(btn.Data, "BOX_LOVE") {
				t.Errorf("chosen product offered as upsell: %q", btn.Data)
			}
		}
	}
}
