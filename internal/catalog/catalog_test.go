package catalog

import (
	"testing"

	"github.com/cadolab/giftbot/internal/texts"
)

func TestAllReturnsAssortment(t *testing.T) {
	all := All()
	if len(all) != 4 {
		t.Fatalf("len(All()) = %d, want 4", len(all))
	}
	wantPrices := map[string]int{
		"BOX_SWEET":  650,
		"BOX_LOVE":   820,
		"BOX_PARTY":  540,
		"BOX_DELUXE": 1200,
	}
	for _, p := range all {
		want, ok := wantPrices[p.ID]
		if !ok {
			t.Errorf("unexpected product %q", p.ID)
			continue
		}
		if p.Price != want {
			t.Errorf("%s price = %d, want %d", p.ID, p.Price, want)
		}
	}
}

func TestByID(t *testing.T) {
	p, ok := ByID("BOX_LOVE")
	if !ok {
		t.Fatal("BOX_LOVE not found")
	}
	if p.Name(texts.LangRO) != "Love Box" {
		t.Errorf("name = %q", p.Name(texts.LangRO))
	}
	if _, ok := ByID("BOX_NOPE"); ok {
		t.Error("unknown id resolved")
	}
}

func TestMatch(t *testing.T) {
	cases := []struct {
		text   string
		wantID string
		found  bool
	}{
		{"vreau un sweet box va rog", "BOX_SWEET", true},
		{"LOVE BOX", "BOX_LOVE", true},
		{"хочу заказать party box", "BOX_PARTY", true},
		{"deluxe box pentru mama", "BOX_DELUXE", true},
		{"un tort de ciocolata", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		p, ok := Match(tc.text)
		if ok != tc.found {
			t.Errorf("Match(%q) found = %v, want %v", tc.text, ok, tc.found)
			continue
		}
		if ok && p.ID != tc.wantID {
			t.Errorf("Match(%q) = %s, want %s", tc.text, p.ID, tc.wantID)
		}
	}
}
