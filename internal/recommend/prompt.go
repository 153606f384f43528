package recommend

import (
	"fmt"
	"strings"

	"github.com/cadolab/giftbot/internal/catalog"
	"github.com/cadolab/giftbot/internal/dialog"
	"github.com/cadolab/giftbot/internal/texts"
)

func systemPrompt(lang texts.Language) string {
	var b strings.Builder
	if lang == texts.LangRU {
		b.WriteString("Ты — консультант магазина подарков Cadolab в Молдове. ")
		b.WriteString("Подбирай подарки только из каталога ниже. Отвечай по-русски.\n\n")
	} else {
		b.WriteString("Ești consultantul magazinului de cadouri Cadolab din Moldova. ")
		b.WriteString("Recomandă doar produse din catalogul de mai jos. Răspunde în română.\n\n")
	}
	b.WriteString("CATALOG:\n")
	for _, p := range catalog.All() {
		fmt.Fprintf(&b, "- id=%s name=%s price=%d %s: %s\n",
			p.ID, p.Name(lang), p.Price, catalog.Currency, p.Description(lang))
	}
	b.WriteString("\nRăspunde STRICT cu un obiect JSON de forma:\n")
	b.WriteString(`{"recommended_ids": ["..."], "reasoning": "...", "upsell_text": "..."}` + "\n")
	b.WriteString("recommended_ids conține 1-2 id-uri din catalog, reasoning explică alegerea pe scurt, upsell_text propune un al doilea produs potrivit.")
	return b.String()
}

func userPrompt(lang texts.Language, p dialog.GiftProfile) string {
	label := func(ro, ru string) string {
		if lang == texts.LangRU {
			return ru
		}
		return ro
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s\n", label("Pentru cine", "Для кого"), p.Who)
	fmt.Fprintf(&b, "%s: %s\n", label("Ocazia", "Повод"), p.Occasion)
	fmt.Fprintf(&b, "%s: %s\n", label("Vârsta", "Возраст"), p.Age)
	fmt.Fprintf(&b, "%s: %s\n", label("Relația", "Отношение"), p.Relation)
	fmt.Fprintf(&b, "%s: %s %s\n", label("Bugetul", "Бюджет"), p.Budget, catalog.Currency)
	fmt.Fprintf(&b, "%s: %s\n", label("Interese", "Интересы"), p.Interests)
	return b.String()
}
