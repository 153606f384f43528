// Package orders keeps the order ledger: committed orders, their
// operator decisions, and daily reporting over them.
package orders

import (
	"fmt"
	"sync"
	"time"

	"github.com/cadolab/giftbot/internal/dialog"
	"github.com/cadolab/giftbot/internal/texts"
)

// Status tracks the operator decision on an order.
type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

// Record is one committed order.
type Record struct {
	ID       string `db:"id"`
	UserID   int64  `db:"user_id"`
	Username string `db:"username"`
	Lang     string `db:"lang"`

	ProductID   string `db:"product_id"`
	ProductText string `db:"product_text"`
	Price       int    `db:"price"`
	UpsellID    string `db:"upsell_id"`
	UpsellPrice int    `db:"upsell_price"`
	Total       int    `db:"total"`

	Name     string `db:"name"`
	Phone    string `db:"phone"`
	City     string `db:"city"`
	Delivery string `db:"delivery"`
	Address  string `db:"address"`
	Date     string `db:"date"`
	Payment  string `db:"payment"`
	Comments string `db:"comments"`
	Occasion string `db:"occasion"`
	Source   string `db:"source"`

	Status    Status    `db:"status"`
	CreatedAt time.Time `db:"created_at"`
}

// ShopTimezone is the business timezone: order ids and daily reports
// roll over at local midnight, not UTC.
const ShopTimezone = "Europe/Chisinau"

// Ledger is the in-memory order store. It survives for the process
// lifetime; an optional database mirror provides durability.
type Ledger struct {
	mu      sync.Mutex
	records []Record
	byID    map[string]int
	daySeq  map[string]int

	loc *time.Location
	now func() time.Time
}

// NewLedger builds an empty ledger in the shop timezone.
func NewLedger() *Ledger {
	loc, err := time.LoadLocation(ShopTimezone)
	if err != nil {
		loc = time.UTC
	}
	return &Ledger{
		byID:   make(map[string]int),
		daySeq: make(map[string]int),
		loc:    loc,
		now:    time.Now,
	}
}

// Append commits a confirmed draft as a new pending order and assigns
// its id: the local date as DDMMYYYY plus a per-day sequence number.
func (l *Ledger) Append(userID int64, username string, lang texts.Language, draft dialog.OrderDraft) Record {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now().In(l.loc)
	day := now.Format("02012006")
	l.daySeq[day]++

	rec := Record{
		ID:          fmt.Sprintf("%s-%02d", day, l.daySeq[day]),
		UserID:      userID,
		Username:    username,
		Lang:        string(lang),
		ProductID:   draft.ProductID,
		ProductText: draft.ProductText,
		Price:       draft.Price,
		UpsellID:    draft.UpsellID,
		UpsellPrice: draft.UpsellPrice,
		Total:       draft.Total(),
		Name:        draft.Name,
		Phone:       draft.Phone,
		City:        draft.City,
		Delivery:    string(draft.Delivery),
		Address:     draft.Address,
		Date:        draft.Date,
		Payment:     string(draft.Payment),
		Comments:    draft.Comments,
		Occasion:    draft.Occasion,
		Source:      draft.Source,
		Status:      StatusPending,
		CreatedAt:   now,
	}
	l.byID[rec.ID] = len(l.records)
	l.records = append(l.records, rec)
	return rec
}

// Get returns the order with the given id.
func (l *Ledger) Get(id string) (Record, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	idx, ok := l.byID[id]
	if !ok {
		return Record{}, false
	}
	return l.records[idx], true
}

// SetStatus records the operator decision on an order.
func (l *Ledger) SetStatus(id string, status Status) (Record, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	idx, ok := l.byID[id]
	if !ok {
		return Record{}, false
	}
	l.records[idx].Status = status
	return l.records[idx], true
}

// All returns all orders in commit order.
func (l *Ledger) All() []Record {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Record, len(l.records))
	copy(out, l.records)
	return out
}

// Location exposes the ledger's business timezone.
func (l *Ledger) Location() *time.Location {
	return l.loc
}
