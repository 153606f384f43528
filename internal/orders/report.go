package orders

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/cadolab/giftbot/internal/catalog"
	"github.com/cadolab/giftbot/internal/texts"
)

// ProductCount is one line of the daily top.
type ProductCount struct {
	Label string
	Count int
	Total int
}

// Report summarizes one business day of the ledger.
type Report struct {
	Day   time.Time
	Count int
	Total int
	Top   []ProductCount
}

const topSize = 3

// DailyReport aggregates orders committed on the given day. Day
// boundaries follow the ledger's business timezone. Rejected orders
// are excluded; pending and accepted ones count.
func (l *Ledger) DailyReport(day time.Time) Report {
	local := day.In(l.loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, l.loc)
	end := start.AddDate(0, 0, 1)

	rep := Report{Day: start}
	counts := make(map[string]*ProductCount)

	l.mu.Lock()
	for _, rec := range l.records {
		if rec.Status == StatusRejected {
			continue
		}
		if rec.CreatedAt.Before(start) || !rec.CreatedAt.Before(end) {
			continue
		}
		rep.Count++
		rep.Total += rec.Total
		bump(counts, rec.ProductID, rec.ProductText, rec.Price)
		if rec.UpsellID != "" {
			bump(counts, rec.UpsellID, "", rec.UpsellPrice)
		}
	}
	l.mu.Unlock()

	top := make([]ProductCount, 0, len(counts))
	for _, pc := range counts {
		top = append(top, *pc)
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].Count != top[j].Count {
			return top[i].Count > top[j].Count
		}
		if top[i].Total != top[j].Total {
			return top[i].Total > top[j].Total
		}
		return top[i].Label < top[j].Label
	})
	if len(top) > topSize {
		top = top[:topSize]
	}
	rep.Top = top
	return rep
}

func bump(counts map[string]*ProductCount, productID, fallbackLabel string, price int) {
	label := fallbackLabel
	if p, ok := catalog.ByID(productID); ok {
		label = p.NameRO
	}
	if label == "" {
		label = productID
	}
	key := productID
	if key == "" {
		key = "custom:" + label
	}
	pc, ok := counts[key]
	if !ok {
		pc = &ProductCount{Label: label}
		counts[key] = pc
	}
	pc.Count++
	pc.Total += price
}

// Format renders the report as the operator-facing message. A day
// without orders says so explicitly instead of showing zero figures.
func (r Report) Format() string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 Raport %s\n", r.Day.Format("02.01.2006"))
	if r.Count == 0 {
		b.WriteString(texts.T(texts.LangRO, "report_empty"))
		return b.String()
	}
	fmt.Fprintf(&b, "Comenzi: %d\n", r.Count)
	fmt.Fprintf(&b, "Total: %d %s\n", r.Total, catalog.Currency)
	if len(r.Top) > 0 {
		b.WriteString("Top produse:\n")
		for i, pc := range r.Top {
			fmt.Fprintf(&b, "%d. %s — %d buc., %d %s\n", i+1, pc.Label, pc.Count, pc.Total, catalog.Currency)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
