// Command newsrelay runs the scheduled news relay: it fetches,
// translates and delivers news digests every hour and on demand.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/hk-newsdesk/newsrelay/internal/bot"
	"github.com/hk-newsdesk/newsrelay/internal/config"
	"github.com/hk-newsdesk/newsrelay/internal/delivery"
	"github.com/hk-newsdesk/newsrelay/internal/enrich"
	"github.com/hk-newsdesk/newsrelay/internal/journal"
	"github.com/hk-newsdesk/newsrelay/internal/logger"
	"github.com/hk-newsdesk/newsrelay/internal/pipeline"
	"github.com/hk-newsdesk/newsrelay/internal/scheduler"
	"github.com/hk-newsdesk/newsrelay/internal/source"
	"github.com/hk-newsdesk/newsrelay/internal/translate"
	"github.com/hk-newsdesk/newsrelay/pkg/httpclient"
	"github.com/hk-newsdesk/newsrelay/pkg/sinks"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "newsrelay:", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to config.yaml (optional)")
	flag.Parse()

	// .env is a local-development convenience; a missing file is fine.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := httpclient.NewRestyClient(15 * time.Second)

	reg, err := sinks.LoadRegistry(cfg.SinksFile)
	if err != nil {
		return fmt.Errorf("load sinks: %w", err)
	}
	sinkList, err := sinks.BuildAll(ctx, sinks.DefaultRegistry(), reg.Enabled(), log)
	if err != nil {
		return fmt.Errorf("build sinks: %w", err)
	}

	var jnl *journal.Journal
	if cfg.JournalPath != "" {
		jnl, err = journal.Open(cfg.JournalPath)
		if err != nil {
			return err
		}
		defer jnl.Close()
	}

	translatorOpts := []translate.Option{translate.WithTarget(cfg.TranslateTarget)}
	if cfg.TranslatePlaceholder != "" {
		translatorOpts = append(translatorOpts, translate.WithPlaceholder(cfg.TranslatePlaceholder))
	}
	translator := translate.New(client, cfg.GoogleAPIKey, log, translatorOpts...)

	var enricher pipeline.Enricher
	if cfg.EnrichArticles {
		enricher = enrich.New(client, log)
	}

	newsSource := source.NewNewsAPI(client, "", cfg.NewsAPIKey, log)
	pipe := pipeline.New(newsSource, translator, enricher, log)
	dispatcher := delivery.New(sinkList, jnl, log)
	sched := scheduler.New(cfg.Feeds, pipe, dispatcher, log)

	if cfg.TelegramBotToken != "" {
		commandBot, err := bot.New(cfg.TelegramBotToken, sched, log)
		if err != nil {
			return fmt.Errorf("init command bot: %w", err)
		}
		go commandBot.Start(ctx)
	} else {
		log.WarnObj("no bot token configured, command triggers disabled", "bot_disabled", nil)
	}

	log.InfoObj("news relay starting", "relay_start", map[string]any{
		"feeds": len(cfg.Feeds),
		"sinks": len(sinkList),
	})

	sched.Start(ctx)
	return nil
}
