package bot

import (
	"fmt"
	"time"

	tele "gopkg.in/telebot.v4"

	tghelpers "github.com/cadolab/giftbot/core/telegram/helpers"
	"github.com/cadolab/giftbot/core/telegram/keyboard"
	"github.com/cadolab/giftbot/internal/catalog"
	"github.com/cadolab/giftbot/internal/dialog"
	"github.com/cadolab/giftbot/internal/texts"
)

// Callback uniques understood by the registry.
const (
	cbLang  = "lang"  // payload: ro|ru
	cbMenu  = "menu"  // payload: catalog|gift|order|info|support
	cbOrder = "order" // payload: catalog product id
	cbFlow  = "flow"  // payload: a choice value for the active flow
)

const notifyTimeout = 30 * time.Second

// markupFor renders the inline keyboard a dialog prompt asks for. All
// in-flow buttons share the cbFlow unique; the payload is the choice
// value the state machine understands.
func markupFor(sess *dialog.Session, m dialog.Markup) *tele.ReplyMarkup {
	lang := sess.Lang
	flowBtn := func(key, value string) keyboard.InlineBtn {
		return keyboard.InlineBtn{Text: texts.T(lang, key), Unique: cbFlow, Data: value}
	}
	switch m {
	case dialog.MarkupReuse:
		return keyboard.InlineButtons([]keyboard.InlineBtn{
			flowBtn("btn_reuse", "reuse"),
			flowBtn("btn_fresh", "fresh"),
		})
	case dialog.MarkupDelivery:
		return keyboard.InlineButtons([]keyboard.InlineBtn{
			flowBtn("btn_courier", string(dialog.DeliveryCourier)),
			flowBtn("btn_pickup", string(dialog.DeliveryPickup)),
		})
	case dialog.MarkupPayment:
		return keyboard.InlineButtonsRows([]keyboard.InlineBtn{
			flowBtn("btn_pay_cash", string(dialog.PayCash)),
			flowBtn("btn_pay_card", string(dialog.PayCard)),
		})
	case dialog.MarkupUpsell:
		var btns []keyboard.InlineBtn
		for _, p := range catalog.All() {
			if p.ID == sess.Draft.ProductID {
				continue
			}
			btns = append(btns, keyboard.InlineBtn{
				Text:   fmt.Sprintf("%s — %d %s", p.Name(lang), p.Price, catalog.Currency),
				Unique: cbFlow,
				Data:   p.ID,
			})
		}
		btns = append(btns, flowBtn("btn_skip_upsell", "skip"))
		return keyboard.InlineButtons(btns)
	case dialog.MarkupConfirm:
		return keyboard.InlineButtonsRows(
			[]keyboard.InlineBtn{
				flowBtn("btn_confirm", "confirm"),
				flowBtn("btn_edit", "edit"),
			},
			[]keyboard.InlineBtn{flowBtn("btn_cancel", "cancel")},
		)
	case dialog.MarkupMenu:
		return menuMarkup(lang)
	default:
		return nil
	}
}

func menuMarkup(lang texts.Language) *tele.ReplyMarkup {
	btn := func(key, action string) keyboard.InlineBtn {
		return keyboard.InlineBtn{Text: texts.T(lang, key), Unique: cbMenu, Data: action}
	}
	return keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{btn("btn_catalog", "catalog"), btn("btn_gift", "gift")},
		[]keyboard.InlineBtn{btn("btn_order", "order"), btn("btn_info", "info")},
		[]keyboard.InlineBtn{btn("btn_support", "support")},
	)
}

func langMarkup() *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows([]keyboard.InlineBtn{
		{Text: "🇷🇴 Română", Unique: cbLang, Data: string(texts.LangRO)},
		{Text: "🇷🇺 Русский", Unique: cbLang, Data: string(texts.LangRU)},
	})
}

func catalogMarkup(lang texts.Language) *tele.ReplyMarkup {
	btns := make([]keyboard.InlineBtn, 0, len(catalog.All()))
	for _, p := range catalog.All() {
		btns = append(btns, keyboard.InlineBtn{
			Text:   texts.Tf(lang, "btn_order_this", p.Name(lang)),
			Unique: cbOrder,
			Data:   p.ID,
		})
	}
	return keyboard.InlineButtons(btns)
}

// SendMenu shows the main menu.
func SendMenu(c tele.Context, lang texts.Language) error {
	return tghelpers.SendText(c, texts.T(lang, "menu_title"), sendOpts(menuMarkup(lang)))
}
