package bot

import (
	"bytes"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/cadolab/giftbot/core/logger"
	tg "github.com/cadolab/giftbot/core/telegram"
	"github.com/cadolab/giftbot/core/telegram/callbacks"
	"github.com/cadolab/giftbot/core/telegram/commands"
	"github.com/cadolab/giftbot/core/telegram/format"
	tghelpers "github.com/cadolab/giftbot/core/telegram/helpers"
	"github.com/cadolab/giftbot/internal/catalog"
	"github.com/cadolab/giftbot/internal/dialog"
	"github.com/cadolab/giftbot/internal/notify"
	"github.com/cadolab/giftbot/internal/orders"
	"github.com/cadolab/giftbot/internal/texts"
)

// Deps aggregates what the handlers need besides the engine.
type Deps struct {
	Engine    *Engine
	Ledger    *orders.Ledger
	Finalizer *orders.Finalizer
}

// Register wires all commands and callbacks into the registry.
func Register(reg *tg.Registry, d Deps) {
	e := d.Engine

	reg.RegisterCommand("/start", commands.Command{
		Description: "Start the bot",
		Handler:     startHandler(e),
	})
	reg.RegisterCommand("/menu", commands.Command{
		Description: "Show the main menu",
		Handler:     menuHandler(e),
	})
	reg.RegisterCommand("/gift", commands.Command{
		Description: "Get a gift idea",
		Handler: func(c tele.Context) error {
			return e.Start(c, dialog.StartGift)
		},
	})
	reg.RegisterCommand("/order", commands.Command{
		Description: "Place an order",
		Handler: func(c tele.Context) error {
			return e.Start(c, dialog.StartOrder)
		},
	})
	reg.RegisterCommand("/support", commands.Command{
		Description: "Contact support",
		Handler: func(c tele.Context) error {
			return e.Start(c, dialog.StartSupport)
		},
	})
	reg.RegisterCommand("/cancel", commands.Command{
		Description: "Cancel the current conversation",
		Handler:     e.Cancel,
	})
	reg.RegisterCommand("/report", commands.Command{
		Description: "Daily order report",
		AdminOnly:   true,
		Hidden:      true,
		Handler:     reportHandler(d.Ledger),
	})
	reg.RegisterCommand("/export", commands.Command{
		Description: "Export orders as XLSX",
		AdminOnly:   true,
		Hidden:      true,
		Handler:     exportHandler(d.Ledger),
	})

	mustCallback(reg, cbLang, langCallback(e))
	mustCallback(reg, cbMenu, menuCallback(e))
	mustCallback(reg, cbOrder, orderCallback(e))
	mustCallback(reg, cbFlow, func(c tele.Context) error {
		return e.Dispatch(c, dialog.ChoiceEvent(callbacks.CallbackPayload(c)))
	})
	mustCallback(reg, notify.DecisionKey, decisionCallback(d.Finalizer))

	reg.SetTextFallback(func(c tele.Context) error {
		return e.Dispatch(c, dialog.TextEvent(c.Text()))
	})
}

func mustCallback(reg *tg.Registry, key string, h tele.HandlerFunc) {
	if err := reg.RegisterCallback(key, h); err != nil {
		logger.TWire.LogAttrs(logger.Background(), slog.LevelError, "register.callback.failed",
			slog.String("key", key),
			slog.String("err", err.Error()),
		)
	}
}

func startHandler(e *Engine) tele.HandlerFunc {
	return func(c tele.Context) error {
		var langSet bool
		var lang texts.Language
		e.WithSession(c.Sender().ID, func(sess *dialog.Session) {
			sess.Reset()
			langSet = sess.LangSet
			lang = sess.Lang
		})
		if !langSet {
			return tghelpers.SendText(c, texts.T(texts.LangRO, "choose_lang"), sendOpts(langMarkup()))
		}
		return SendMenu(c, lang)
	}
}

func menuHandler(e *Engine) tele.HandlerFunc {
	return func(c tele.Context) error {
		lang := sessionLang(e, c)
		return SendMenu(c, lang)
	}
}

func sessionLang(e *Engine, c tele.Context) texts.Language {
	var lang texts.Language
	e.WithSession(c.Sender().ID, func(sess *dialog.Session) {
		lang = sess.Lang
	})
	return lang
}

func langCallback(e *Engine) tele.HandlerFunc {
	return func(c tele.Context) error {
		lang := texts.ParseLanguage(callbacks.CallbackPayload(c))
		e.WithSession(c.Sender().ID, func(sess *dialog.Session) {
			sess.Lang = lang
			sess.LangSet = true
		})
		return SendMenu(c, lang)
	}
}

func menuCallback(e *Engine) tele.HandlerFunc {
	return func(c tele.Context) error {
		action := callbacks.CallbackPayload(c)
		lang := sessionLang(e, c)
		switch action {
		case "catalog":
			return tghelpers.SendMD(c, formatCatalog(lang), catalogMarkup(lang))
		case "gift":
			return e.Start(c, dialog.StartGift)
		case "order":
			return e.Start(c, dialog.StartOrder)
		case "info":
			return tghelpers.SendText(c, texts.T(lang, "info"))
		case "support":
			return e.Start(c, dialog.StartSupport)
		default:
			return SendMenu(c, lang)
		}
	}
}

func orderCallback(e *Engine) tele.HandlerFunc {
	return func(c tele.Context) error {
		p, ok := catalog.ByID(callbacks.CallbackPayload(c))
		if !ok {
			return SendMenu(c, sessionLang(e, c))
		}
		return e.Start(c, func(sess *dialog.Session) []dialog.Effect {
			return dialog.StartOrderWith(sess, p)
		})
	}
}

// decisionCallback handles the accept/reject buttons under an order
// summary in the operator chat. Payload: <orderID>|<decision>|<userID>.
func decisionCallback(fin *orders.Finalizer) tele.HandlerFunc {
	return func(c tele.Context) error {
		parts, err := callbacks.PayloadParts(c, "|")
		if err != nil || len(parts) != 3 {
			return tghelpers.SendText(c, "Invalid decision payload")
		}
		orderID, decision := parts[0], parts[1]
		userID, err := strconv.ParseInt(parts[2], 10, 64)
		if err != nil {
			return tghelpers.SendText(c, "Invalid decision payload")
		}

		status := orders.StatusAccepted
		customerKey := "order_accepted"
		if decision == notify.DecisionReject {
			status = orders.StatusRejected
			customerKey = "order_rejected"
		}

		ctx := tghelpers.BuildContext(c)
		rec, ok := fin.Decide(ctx, orderID, status)
		if !ok {
			return tghelpers.SendText(c, fmt.Sprintf("Order %s not found", orderID))
		}

		// Inform the customer in their own language.
		lang := texts.ParseLanguage(rec.Lang)
		if _, err := c.Bot().Send(&tele.User{ID: userID}, texts.Tf(lang, customerKey, rec.ID)); err != nil {
			logger.LogEvent(ctx, logger.Notify, slog.LevelError, "decision_inform_failed",
				slog.String("order_id", orderID),
				slog.Int64("user_id", userID),
				slog.String("err", err.Error()),
			)
		}

		// Pin the decision onto the operator message.
		label := "✅ Acceptată"
		if status == orders.StatusRejected {
			label = "❌ Refuzată"
		}
		if msg := c.Message(); msg != nil {
			_ = c.Edit(msg.Text + "\n\n" + label)
		}
		return nil
	}
}

func reportHandler(ledger *orders.Ledger) tele.HandlerFunc {
	return func(c tele.Context) error {
		rep := ledger.DailyReport(time.Now())
		return tghelpers.SendText(c, rep.Format())
	}
}

func exportHandler(ledger *orders.Ledger) tele.HandlerFunc {
	return func(c tele.Context) error {
		var buf bytes.Buffer
		if err := orders.Export(&buf, ledger.All()); err != nil {
			return err
		}
		doc := &tele.Document{
			File:     tele.FromReader(&buf),
			FileName: fmt.Sprintf("orders-%s.xlsx", time.Now().Format("02012006")),
		}
		return c.Send(doc)
	}
}

func formatCatalog(lang texts.Language) string {
	var b strings.Builder
	b.WriteString(texts.T(lang, "catalog_header"))
	for _, p := range catalog.All() {
		name := p.Name(lang)
		if escaped, err := format.EscapeMarkdown(name, format.MarkdownV1, ""); err == nil {
			name = escaped
		}
		b.WriteString("\n\n*")
		b.WriteString(texts.Tf(lang, "catalog_item", name, p.Price))
		b.WriteString("*\n")
		b.WriteString(p.Description(lang))
	}
	return b.String()
}
