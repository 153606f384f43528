package bot

import (
	"strings"
	"testing"

	tg "github.com/cadolab/giftbot/core/telegram"
	"github.com/cadolab/giftbot/internal/notify"
	"github.com/cadolab/giftbot/internal/texts"
)

func TestRegisterWiresCommandsAndCallbacks(t *testing.T) {
	e, ledger := newTestEngine(nil, nil)
	reg := tg.NewRegistry()
	Register(reg, Deps{Engine: e, Ledger: ledger, Finalizer: nil})

	for _, cmd := range []string{"/start", "/menu", "/gift", "/order", "/support", "/cancel", "/report", "/export"} {
		if _, _, ok := reg.LookupCommand(cmd); !ok {
			t.Errorf("command %s not registered", cmd)
		}
	}
	wantCallbacks := []string{cbLang, cbMenu, cbOrder, cbFlow, notify.DecisionKey}
	got := reg.ListCallbacks()
	for _, key := range wantCallbacks {
		found := false
		for _, k := range got {
			if k == key {
				found = true
			}
		}
		if !found {
			t.Errorf("callback %q not registered; got %v", key, got)
		}
	}
	if reg.TextFallback() == nil {
		t.Error("text fallback not set")
	}
}

func TestAdminCommandsAreHidden(t *testing.T) {
	e, ledger := newTestEngine(nil, nil)
	reg := tg.NewRegistry()
	Register(reg, Deps{Engine: e, Ledger: ledger})

	visible := reg.ListCommands(true)
	for _, cmd := range visible {
		if cmd.Text == "/report" || cmd.Text == "/export" {
			t.Errorf("admin command %s listed as visible", cmd.Text)
		}
	}
}

func TestFormatCatalogLocalized(t *testing.T) {
	ro := formatCatalog(texts.LangRO)
	for _, want := range []string{"Sweet Box", "650", "Love Box", "820", "Party Box", "540", "Deluxe Box", "1200"} {
		if !strings.Contains(ro, want) {
			t.Errorf("catalog missing %q", want)
		}
	}
	ru := formatCatalog(texts.LangRU)
	if !strings.Contains(ru, "Наш каталог") {
		t.Errorf("russian catalog header missing:\n%s", ru)
	}
}

func TestCatalogMarkupOffersEveryProduct(t *testing.T) {
	markup := catalogMarkup(texts.LangRO)
	if len(markup.InlineKeyboard) != 4 {
		t.Fatalf("rows = %d", len(markup.InlineKeyboard))
	}
	joined := ""
	for _, row := range markup.InlineKeyboard {
		for _, btn := range row {
			joined += btn.Data + " "
		}
	}
	for _, id := range []string{"BOX_SWEET", "BOX_LOVE", "BOX_PARTY", "BOX_DELUXE"} {
		if !strings.Contains(joined, id) {
			t.Errorf("catalog markup missing %s", id)
		}
	}
}
