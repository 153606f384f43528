// Package app assembles the gift bot from its parts and exposes the
// runtime options consumed by the shared runner.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/jmoiron/sqlx"
	tele "gopkg.in/telebot.v4"

	"github.com/cadolab/giftbot/core/bootstrap"
	"github.com/cadolab/giftbot/core/logger"
	coretelegram "github.com/cadolab/giftbot/core/telegram"
	"github.com/cadolab/giftbot/core/telegram/router"
	"github.com/cadolab/giftbot/internal/ai/gemini"
	"github.com/cadolab/giftbot/internal/bot"
	"github.com/cadolab/giftbot/internal/dialog"
	"github.com/cadolab/giftbot/internal/notify"
	"github.com/cadolab/giftbot/internal/orders"
	"github.com/cadolab/giftbot/internal/payments"
	"github.com/cadolab/giftbot/internal/recommend"
	"github.com/cadolab/giftbot/internal/session"
)

// lateSender forwards sends to the bot once the runtime exists. Side
// channels are constructed before the bot, so they hold this instead.
type lateSender struct {
	bot atomic.Pointer[tele.Bot]
}

func (s *lateSender) Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error) {
	b := s.bot.Load()
	if b == nil {
		return nil, fmt.Errorf("app: bot not started yet")
	}
	return b.Send(to, what, opts...)
}

// App is the assembled bot.
type App struct {
	cfg *Config
	db  *sqlx.DB

	sender    *lateSender
	gate      *notify.Gateway
	ledger    *orders.Ledger
	finalizer *orders.Finalizer
	engine    *bot.Engine
	ai        *gemini.Client
}

// Bootstrap initializes logging, storage and the dialog engine.
func Bootstrap(cfg *Config) (*App, error) {
	res, err := bootstrap.Run(bootstrap.Options{
		Config:   cfg.CoreConfig(),
		Database: cfg.Database,
	})
	if err != nil {
		return nil, err
	}

	a := &App{
		cfg:    cfg,
		db:     res.DB,
		sender: &lateSender{},
		ledger: orders.NewLedger(),
	}

	a.gate = notify.New(a.sender, cfg.OperatorChatID())

	var mirror orders.Mirror
	if a.db != nil {
		mirror = orders.NewPGMirror(a.db)
	}
	var invoicer orders.Invoicer
	issuer := payments.New(a.sender, cfg.Payments.ProviderToken)
	if issuer.Enabled() {
		invoicer = issuer
	}
	a.finalizer = orders.NewFinalizer(a.ledger, mirror, a.gate, invoicer)

	var rec bot.Recommender
	if cfg.AI.APIKey != "" {
		client, err := gemini.New(context.Background(), cfg.AI.APIKey, cfg.AI.Model)
		if err != nil {
			return nil, fmt.Errorf("app: gemini init: %w", err)
		}
		a.ai = client
		timeout := time.Duration(cfg.AI.TimeoutSeconds) * time.Second
		rec = recommend.New(client, timeout)
	}

	a.engine = bot.NewEngine(
		session.NewStore(),
		a.finalizer,
		rec,
		a.gate,
		dialog.Options{AskPayment: issuer.Enabled()},
	)

	return a, nil
}

// TelegramRunOptions builds the transport wiring for the runner.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	cfg := a.cfg.CoreConfig()
	reg := coretelegram.NewRegistry()

	bot.Register(reg, bot.Deps{
		Engine:    a.engine,
		Ledger:    a.ledger,
		Finalizer: a.finalizer,
	})

	routes := router.CommandRoutes(reg, router.CommandRouteOptions{
		AdminID: cfg.Telegram.AdminID,
	})
	routes = append(routes, router.TextRoutes(a.engine, reg, router.TextOptions{})...)
	routes = append(routes, router.CallbackRoute(reg, router.CallbackOptions{}))

	opts := coretelegram.RunOptions{
		Config:      cfg,
		Registry:    reg,
		Middlewares: coretelegram.DefaultMiddlewares(cfg, nil),
		Routes:      routes,
		OnStart: func(ctx context.Context, rt coretelegram.Runtime) error {
			a.sender.bot.Store(rt.Bot)
			if a.cfg.Operator.DailyReport && a.gate.Enabled() {
				go a.reportLoop(ctx)
			}
			return nil
		},
		OnStop: func(ctx context.Context, rt coretelegram.Runtime) error {
			return a.Close()
		},
	}
	return opts, nil
}

// reportLoop sends the daily report at the configured local hour until
// the runtime context ends.
func (a *App) reportLoop(ctx context.Context) {
	loc := a.ledger.Location()
	for {
		now := time.Now().In(loc)
		next := time.Date(now.Year(), now.Month(), now.Day(), a.cfg.Operator.ReportHour, 0, 0, 0, loc)
		if !next.After(now) {
			next = next.AddDate(0, 0, 1)
		}

		timer := time.NewTimer(next.Sub(now))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		rep := a.ledger.DailyReport(time.Now())
		if err := a.gate.Report(ctx, rep); err != nil {
			logger.LogEvent(ctx, logger.Notify, slog.LevelError, "daily_report_failed",
				slog.String("err", err.Error()),
			)
		} else {
			logger.LogEvent(ctx, logger.Notify, slog.LevelInfo, "daily_report_sent",
				slog.Int("count", rep.Count),
				slog.Int("amount", rep.Total),
			)
		}
	}
}

// Close releases external resources.
func (a *App) Close() error {
	if a.ai != nil {
		if err := a.ai.Close(); err != nil {
			logger.LogEvent(context.Background(), logger.AI, slog.LevelWarn, "close_failed",
				slog.String("err", err.Error()),
			)
		}
	}
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}
