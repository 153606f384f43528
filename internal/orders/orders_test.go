package orders

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cadolab/giftbot/internal/dialog"
	"github.com/cadolab/giftbot/internal/texts"
)

func testLedgerAt(t *testing.T, at time.Time) *Ledger {
	t.Helper()
	l := NewLedger()
	l.now = func() time.Time { return at }
	return l
}

func draftFor(productID string, price int) dialog.OrderDraft {
	return dialog.OrderDraft{
		ProductID:   productID,
		ProductText: productID,
		Price:       price,
		Name:        "Ana",
		Phone:       "069123456",
		City:        "Chișinău",
		Delivery:    dialog.DeliveryCourier,
		Address:     "str. Florilor 5",
		Date:        "mâine",
		Payment:     dialog.PayCash,
	}
}

func TestAppendAssignsDailyIDs(t *testing.T) {
	day := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	l := testLedgerAt(t, day)

	first := l.Append(1, "ana", texts.LangRO, draftFor("BOX_SWEET", 650))
	second := l.Append(2, "ion", texts.LangRO, draftFor("BOX_LOVE", 820))

	wantDay := day.In(l.Location()).Format("02012006")
	if first.ID != wantDay+"-01" {
		t.Errorf("first id = %q, want %q", first.ID, wantDay+"-01")
	}
	if second.ID != wantDay+"-02" {
		t.Errorf("second id = %q, want %q", second.ID, wantDay+"-02")
	}
	if first.Status != StatusPending {
		t.Errorf("status = %q", first.Status)
	}
}

func TestAppendCounterResetsNextDay(t *testing.T) {
	l := NewLedger()
	day1 := time.Date(2026, 8, 30, 12, 0, 0, 0, l.Location())
	day2 := day1.AddDate(0, 0, 1)

	l.now = func() time.Time { return day1 }
	a := l.Append(1, "", texts.LangRO, draftFor("BOX_SWEET", 650))
	l.now = func() time.Time { return day2 }
	b := l.Append(1, "", texts.LangRO, draftFor("BOX_SWEET", 650))

	if !strings.HasSuffix(a.ID, "-01") || !strings.HasSuffix(b.ID, "-01") {
		t.Errorf("ids = %q, %q; want both to end in -01", a.ID, b.ID)
	}
	if a.ID == b.ID {
		t.Errorf("ids collide across days: %q", a.ID)
	}
}

func TestAppendConcurrentIDsAreUnique(t *testing.T) {
	l := testLedgerAt(t, time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC))
	const n = 40

	var wg sync.WaitGroup
	ids := make(chan string, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rec := l.Append(int64(i), "", texts.LangRO, draftFor("BOX_PARTY", 540))
			ids <- rec.ID
		}(i)
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]bool, n)
	for id := range ids {
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
	if len(seen) != n {
		t.Fatalf("got %d unique ids, want %d", len(seen), n)
	}
}

func TestSetStatus(t *testing.T) {
	l := testLedgerAt(t, time.Now())
	rec := l.Append(1, "", texts.LangRO, draftFor("BOX_SWEET", 650))

	updated, ok := l.SetStatus(rec.ID, StatusAccepted)
	if !ok || updated.Status != StatusAccepted {
		t.Fatalf("SetStatus = %+v, %v", updated, ok)
	}
	got, _ := l.Get(rec.ID)
	if got.Status != StatusAccepted {
		t.Errorf("Get after SetStatus: %q", got.Status)
	}
	if _, ok := l.SetStatus("09999999-99", StatusAccepted); ok {
		t.Error("SetStatus on unknown id succeeded")
	}
}

func TestDailyReport(t *testing.T) {
	noon := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	l := testLedgerAt(t, noon)

	l.Append(1, "", texts.LangRO, draftFor("BOX_LOVE", 820))
	l.Append(2, "", texts.LangRO, draftFor("BOX_PARTY", 540))
	rejected := l.Append(3, "", texts.LangRO, draftFor("BOX_DELUXE", 1200))
	l.SetStatus(rejected.ID, StatusRejected)

	rep := l.DailyReport(noon)
	if rep.Count != 2 {
		t.Errorf("count = %d, want 2", rep.Count)
	}
	if rep.Total != 820+540 {
		t.Errorf("total = %d, want %d", rep.Total, 820+540)
	}
	if len(rep.Top) != 2 {
		t.Fatalf("top = %+v", rep.Top)
	}
	// Equal counts: the higher-revenue product ranks first.
	if rep.Top[0].Label != "Love Box" || rep.Top[1].Label != "Party Box" {
		t.Errorf("top order = %q, %q", rep.Top[0].Label, rep.Top[1].Label)
	}
}

func TestDailyReportCountsUpsell(t *testing.T) {
	noon := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	l := testLedgerAt(t, noon)

	draft := draftFor("BOX_SWEET", 650)
	draft.UpsellID = "BOX_SWEET"
	draft.UpsellPrice = 650
	l.Append(1, "", texts.LangRO, draft)
	l.Append(2, "", texts.LangRO, draftFor("BOX_LOVE", 820))

	rep := l.DailyReport(noon)
	if rep.Total != 650+650+820 {
		t.Errorf("total = %d", rep.Total)
	}
	// Sweet Box counted twice (main + upsell) outranks Love Box.
	if rep.Top[0].Label != "Sweet Box" || rep.Top[0].Count != 2 {
		t.Errorf("top[0] = %+v", rep.Top[0])
	}
}

func TestDailyReportDayBoundary(t *testing.T) {
	l := NewLedger()
	loc := l.Location()
	lateYesterday := time.Date(2026, 8, 30, 23, 59, 0, 0, loc)
	earlyToday := time.Date(2026, 8, 31, 0, 1, 0, 0, loc)

	l.now = func() time.Time { return lateYesterday }
	l.Append(1, "", texts.LangRO, draftFor("BOX_SWEET", 650))
	l.now = func() time.Time { return earlyToday }
	l.Append(2, "", texts.LangRO, draftFor("BOX_LOVE", 820))

	rep := l.DailyReport(earlyToday)
	if rep.Count != 1 || rep.Total != 820 {
		t.Errorf("report = %+v", rep)
	}
}

func TestDailyReportEmpty(t *testing.T) {
	l := NewLedger()
	rep := l.DailyReport(time.Now())
	if rep.Count != 0 || rep.Total != 0 || len(rep.Top) != 0 {
		t.Errorf("report = %+v", rep)
	}
	got := rep.Format()
	if !strings.Contains(got, "Nicio comandă astăzi") {
		t.Errorf("empty day not announced: %q", got)
	}
	if strings.Contains(got, "Comenzi: 0") || strings.Contains(got, "Total: 0") {
		t.Errorf("empty day shows zero figures: %q", got)
	}
}

func TestReportFormat(t *testing.T) {
	noon := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	l := testLedgerAt(t, noon)
	l.Append(1, "", texts.LangRO, draftFor("BOX_DELUXE", 1200))

	out := l.DailyReport(noon).Format()
	for _, want := range []string{"Comenzi: 1", "Total: 1200 MDL", "Deluxe Box"} {
		if !strings.Contains(out, want) {
			t.Errorf("Format missing %q in %q", want, out)
		}
	}
}

func TestExportWritesWorkbook(t *testing.T) {
	l := testLedgerAt(t, time.Now())
	for i := 0; i < 3; i++ {
		l.Append(int64(i), fmt.Sprintf("user%d", i), texts.LangRO, draftFor("BOX_SWEET", 650))
	}

	var buf bytes.Buffer
	if err := Export(&buf, l.All()); err != nil {
		t.Fatalf("Export: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatal("empty workbook")
	}
	// XLSX files are zip archives.
	if !bytes.HasPrefix(buf.Bytes(), []byte("PK")) {
		t.Errorf("not a zip archive: % x", buf.Bytes()[:4])
	}
}
