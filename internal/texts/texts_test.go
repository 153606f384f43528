package texts

import (
	"strings"
	"testing"
)

func TestParseLanguage(t *testing.T) {
	cases := []struct {
		in   string
		want Language
	}{
		{"ro", LangRO},
		{"ru", LangRU},
		{"en", LangRO},
		{"", LangRO},
	}
	for _, tc := range cases {
		if got := ParseLanguage(tc.in); got != tc.want {
			t.Errorf("ParseLanguage(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCatalogsAreComplete(t *testing.T) {
	ro := Keys(LangRO)
	ru := Keys(LangRU)
	if len(ro) == 0 || len(ru) == 0 {
		t.Fatalf("empty catalog: ro=%d ru=%d", len(ro), len(ru))
	}
	ruSet := make(map[string]bool, len(ru))
	for _, k := range ru {
		ruSet[k] = true
	}
	for _, k := range ro {
		if !ruSet[k] {
			t.Errorf("key %q missing from Russian catalog", k)
		}
	}
	roSet := make(map[string]bool, len(ro))
	for _, k := range ro {
		roSet[k] = true
	}
	for _, k := range ru {
		if !roSet[k] {
			t.Errorf("key %q missing from Romanian catalog", k)
		}
	}
}

func TestTFallsBackToRomanian(t *testing.T) {
	if got := T(Language("en"), "menu_title"); got != T(LangRO, "menu_title") {
		t.Errorf("unknown language did not fall back to Romanian: %q", got)
	}
}

func TestTUnknownKeyReturnsKey(t *testing.T) {
	if got := T(LangRO, "no_such_key"); got != "no_such_key" {
		t.Errorf("T(unknown) = %q, want key echoed back", got)
	}
}

func TestTfFormats(t *testing.T) {
	got := Tf(LangRO, "catalog_item", "Sweet Box", 650)
	if !strings.Contains(got, "Sweet Box") || !strings.Contains(got, "650") {
		t.Errorf("Tf(catalog_item) = %q", got)
	}
}
