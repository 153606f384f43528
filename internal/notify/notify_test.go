package notify

import (
	"context"
	"strings"
	"testing"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/cadolab/giftbot/internal/orders"
)

type sentItem struct {
	to    tele.Recipient
	what  interface{}
	opts  []interface{}
}

type fakeSender struct {
	sent []sentItem
}

func (f *fakeSender) Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error) {
	f.sent = append(f.sent, sentItem{to: to, what: what, opts: opts})
	return &tele.Message{}, nil
}

func sampleRecord() orders.Record {
	return orders.Record{
		ID:          "31082026-01",
		UserID:      42,
		Username:    "ana",
		Lang:        "ro",
		ProductID:   "BOX_LOVE",
		ProductText: "Love Box",
		Price:       820,
		Total:       820,
		Name:        "Ana",
		Phone:       "069123456",
		City:        "Chișinău",
		Delivery:    "courier",
		Address:     "str. Florilor 5",
		Date:        "mâine",
		Payment:     "cash",
		Occasion:    "aniversare",
		Source:      "Instagram",
		Status:      orders.StatusPending,
		CreatedAt:   time.Now(),
	}
}

func TestNewOrderSendsSummaryWithDecisionButtons(t *testing.T) {
	sender := &fakeSender{}
	g := New(sender, -100123)

	if err := g.NewOrder(context.Background(), sampleRecord()); err != nil {
		t.Fatalf("NewOrder: %v", err)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("sent %d messages", len(sender.sent))
	}

	text, ok := sender.sent[0].what.(string)
	if !ok {
		t.Fatalf("sent %T, want string", sender.sent[0].what)
	}
	for _, want := range []string{"Comandă nouă 31082026-01", "Ana", "069123456", "Love Box", "820 MDL", "@ana"} {
		if !strings.Contains(text, want) {
			t.Errorf("summary missing %q:\n%s", want, text)
		}
	}

	if len(sender.sent[0].opts) != 1 {
		t.Fatalf("opts = %v", sender.sent[0].opts)
	}
	markup, ok := sender.sent[0].opts[0].(*tele.ReplyMarkup)
	if !ok {
		t.Fatalf("opt is %T", sender.sent[0].opts[0])
	}
	if len(markup.InlineKeyboard) != 1 || len(markup.InlineKeyboard[0]) != 2 {
		t.Fatalf("keyboard shape = %+v", markup.InlineKeyboard)
	}
	accept := markup.InlineKeyboard[0][0]
	if !strings.Contains(accept.Data, "31082026-01") || !strings.Contains(accept.Data, DecisionAccept) || !strings.Contains(accept.Data, "42") {
		t.Errorf("accept data = %q", accept.Data)
	}
}

func TestFormatOrderPickupHidesAddress(t *testing.T) {
	rec := sampleRecord()
	rec.Delivery = "pickup"
	rec.Address = "pickup"
	text := FormatOrder(rec)
	if strings.Contains(text, "Adresă") {
		t.Errorf("pickup summary shows address:\n%s", text)
	}
	if !strings.Contains(text, "ridicare din magazin") {
		t.Errorf("pickup summary missing pickup label:\n%s", text)
	}
}

func TestFormatOrderCustomProduct(t *testing.T) {
	rec := sampleRecord()
	rec.ProductID = ""
	rec.ProductText = "tort cu căpșuni"
	rec.Price = 0
	rec.Total = 0
	text := FormatOrder(rec)
	if !strings.Contains(text, "tort cu căpșuni") || !strings.Contains(text, "în afara catalogului") {
		t.Errorf("custom summary = %s", text)
	}
}

func TestFormatOrderNormalizesParsableDates(t *testing.T) {
	rec := sampleRecord()
	rec.Date = "2026-09-05 14:00"
	text := FormatOrder(rec)
	if !strings.Contains(text, "Data dorită: 05.09.2026") {
		t.Errorf("date not normalized:\n%s", text)
	}

	rec.Date = "mâine după amiază"
	text = FormatOrder(rec)
	if !strings.Contains(text, "mâine după amiază") {
		t.Errorf("free-form date lost:\n%s", text)
	}
}

func TestSupportForward(t *testing.T) {
	sender := &fakeSender{}
	g := New(sender, -100123)
	if err := g.Support(context.Background(), 7, "ion", "unde e comanda?"); err != nil {
		t.Fatalf("Support: %v", err)
	}
	text := sender.sent[0].what.(string)
	if !strings.Contains(text, "@ion") || !strings.Contains(text, "unde e comanda?") {
		t.Errorf("forwarded = %q", text)
	}
}

func TestDisabledGatewayIsNoop(t *testing.T) {
	g := New(nil, 0)
	if g.Enabled() {
		t.Fatal("gateway with no sender reports enabled")
	}
	if err := g.NewOrder(context.Background(), sampleRecord()); err != nil {
		t.Fatalf("NewOrder on disabled gateway: %v", err)
	}
	if err := g.Report(context.Background(), orders.Report{}); err != nil {
		t.Fatalf("Report on disabled gateway: %v", err)
	}
}

func TestWorkbookSendsDocument(t *testing.T) {
	sender := &fakeSender{}
	g := New(sender, -100123)
	if err := g.Workbook(context.Background(), "orders.xlsx", []orders.Record{sampleRecord()}); err != nil {
		t.Fatalf("Workbook: %v", err)
	}
	doc, ok := sender.sent[0].what.(*tele.Document)
	if !ok {
		t.Fatalf("sent %T, want *tele.Document", sender.sent[0].what)
	}
	if doc.FileName != "orders.xlsx" {
		t.Errorf("file name = %q", doc.FileName)
	}
}
