package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/partsdesk/partsdesk/internal/logger"
	"github.com/partsdesk/partsdesk/pkg/agent"
	"github.com/partsdesk/partsdesk/pkg/cache"
	"github.com/partsdesk/partsdesk/pkg/catalog"
	"github.com/partsdesk/partsdesk/pkg/config"
	"github.com/partsdesk/partsdesk/pkg/guardrail"
	"github.com/partsdesk/partsdesk/pkg/infra/providers"
	"github.com/partsdesk/partsdesk/pkg/infra/providers/factory"
)

func main() {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		log.Println("no .env file found, using system environment variables")
	}

	l := logger.New(os.Getenv("LOG_LEVEL"))

	if err := config.Load("./config"); err != nil {
		l.WithError(err).Fatal("failed to load config")
	}
	cfg := config.GetConfig()

	locator := factory.NewProviderLocator()
	responderClient, err := locator.Get(cfg.Agent.Provider)
	if err != nil {
		l.WithError(err).Fatal("failed to initialize responder provider")
	}
	evalClient, err := locator.Get(cfg.Agent.EvalProvider)
	if err != nil {
		l.WithError(err).Fatal("failed to initialize evaluator provider")
	}

	responderCfg := &providers.Config{
		Credentials: providers.Credentials{
			ApiKey:  cfg.Agent.ApiKey,
			BaseURL: cfg.Agent.BaseURL,
		},
		Model:     cfg.Agent.Model,
		MaxTokens: cfg.Agent.MaxTokens,
	}
	evalCfg := &providers.Config{
		Credentials: providers.Credentials{
			ApiKey:  cfg.Agent.EvalApiKey,
			BaseURL: cfg.Agent.EvalBaseURL,
		},
		Model:     cfg.Agent.EvalModel,
		MaxTokens: cfg.Agent.EvalMaxTokens,
	}

	var verdicts *cache.VerdictCache
	if cfg.Redis.Host != "" {
		verdicts = cache.NewVerdictCache(cfg.Redis)
		l.WithField("host", cfg.Redis.Host).Info("verdict cache enabled")
	}

	evaluator := guardrail.NewEvaluator(l, evalClient, evalCfg, cfg.Guardrail)
	pipeline := guardrail.NewPipeline(l, evaluator, cfg.Guardrail, verdicts)

	store, err := catalog.NewStore(l, cfg.Catalog.DataFile)
	if err != nil {
		l.WithError(err).Fatal("failed to load parts catalog")
	}

	registry := agent.NewRegistry(l, store)
	triage := agent.NewTriage(l, responderClient, responderCfg)
	bot := agent.New(l, responderClient, responderCfg, triage, registry, pipeline)

	if addr := os.Getenv("METRICS_ADDR"); addr != "" {
		go serveMetrics(l, addr)
	}

	l.WithFields(map[string]interface{}{
		"provider":          cfg.Agent.Provider,
		"model":             cfg.Agent.Model,
		"guardrail_enabled": cfg.Guardrail.Enabled,
		"guardrail_preset":  cfg.Guardrail.Preset,
	}).Info("partsdesk started")

	runChatLoop(bot)
}

func serveMetrics(l *logrus.Logger, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	l.WithField("addr", addr).Info("serving prometheus metrics")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		l.WithError(err).Error("metrics server stopped")
	}
}

func runChatLoop(bot *agent.Agent) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Println("PartsDesk support assistant. Type your question, or 'quit' to exit.")

	scanner := bufio.NewScanner(os.Stdin)
	conversationID := ""

	for {
		fmt.Print("\nyou> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			return
		}

		reply := bot.ProcessMessage(ctx, conversationID, line)
		conversationID = reply.ConversationID

		fmt.Printf("\nassistant> %s\n", reply.Message)
		if reply.Evaluated && reply.Action != guardrail.ActionAllow {
			fmt.Printf("[guardrail: %s, confidence %.2f]\n", reply.Action, reply.Confidence)
		}

		select {
		case <-ctx.Done():
			return
		default:
		}
	}
}
