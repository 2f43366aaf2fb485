package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"nyaya-sahayak/api/handler"
	"nyaya-sahayak/api/middleware"
	"nyaya-sahayak/api/router"
	"nyaya-sahayak/job"
	"nyaya-sahayak/logging"
	"nyaya-sahayak/logic/advice"
	"nyaya-sahayak/logic/chat"
	"nyaya-sahayak/logic/embed"
	"nyaya-sahayak/logic/ingestion/loaders"
	"nyaya-sahayak/logic/ingestion/parser"
	"nyaya-sahayak/logic/ingestion/transform"
	"nyaya-sahayak/logic/structure"
	"nyaya-sahayak/service"
	"nyaya-sahayak/storage/files"
	"nyaya-sahayak/storage/postgres"
	"nyaya-sahayak/storage/vectorstore"
	"nyaya-sahayak/vars"
)

func main() {
	logging.Init(logging.ParseLevel(vars.LOG_LEVEL), vars.LOG_FORMAT)
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	log := logging.New("main")

	// 1. 初始化 DB
	db, err := postgres.InitDB(postgres.DSN(vars.PGHOST, vars.PGUSER, vars.PGPWD, vars.PGDB, vars.PGPORT))
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	repo := postgres.NewLegalRepo(db)

	// 2. 初始化 LLM 和 embedding
	completer, err := chat.NewCompleter(ctx, chat.Config{
		Provider:      vars.LLM_PROVIDER,
		Model:         vars.CHAT_MODEL,
		OllamaURL:     vars.OLLAMA_PATH,
		OpenAIKey:     vars.OPENAI_API_KEY,
		OpenAIBaseURL: vars.OPENAI_BASE_URL,
		GeminiKey:     vars.GEMINI_API_KEY,
		Timeout:       vars.LLM_TIMEOUT,
	})
	if err != nil {
		return err
	}
	defer chat.Close(completer)
	embedder, err := embed.New(ctx, embed.Config{
		Provider:  vars.EMBED_PROVIDER,
		Model:     vars.EMBED_MODEL,
		OllamaURL: vars.OLLAMA_PATH,
		GeminiKey: vars.GEMINI_API_KEY,
		Timeout:   vars.EMBED_TIMEOUT,
	})
	if err != nil {
		return err
	}

	// 3. 向量库，不可用时以兜底文档继续服务
	store, err := vectorstore.Open(ctx, vectorstore.ConfigFromEnv(), embedder)
	if err != nil {
		return err
	}
	defer store.Close()

	probeCtx, cancel := context.WithTimeout(ctx, vars.PROBE_TIMEOUT)
	if err := store.Searcher.Probe(probeCtx); err != nil {
		log.Warn("vector store unavailable at startup, serving fallback documents",
			"backend", store.Backend, "error", err)
	}
	cancel()

	archive, err := files.New(ctx, files.Config{
		Type:      files.Type(vars.STORAGE_TYPE),
		LocalPath: vars.STORAGE_LOCAL_PATH,
		S3Bucket:  vars.AWS_S3_BUCKET,
		S3Region:  vars.AWS_REGION,
	})
	if err != nil {
		return err
	}

	p, err := parser.New(ctx)
	if err != nil {
		return err
	}
	loader, err := loaders.New(ctx, p)
	if err != nil {
		return err
	}
	splitter, err := transform.NewSplitter(ctx, embedder)
	if err != nil {
		return err
	}

	// 4. 初始化 Service (业务层)
	retrievalSvc := service.NewRetrievalService(embed.NewQueryEmbedder(embedder, vars.EMBED_TIMEOUT), store.Searcher)
	pipeline := service.NewResponseService(repo, retrievalSvc, advice.NewGenerator(completer), structure.NewStructurer(completer))
	conversationSvc := service.NewConversationService(repo)
	feedbackSvc := service.NewFeedbackService(repo)
	ingestionSvc := service.NewIngestionService(loader, p, splitter, archive, store.Indexers...)

	// 启动定时任务
	cron, err := job.StartCronJob(job.Config{
		ProbeSpec:    vars.HEALTH_PROBE_SPEC,
		ProbeTimeout: vars.PROBE_TIMEOUT,
		ArchiveSpec:  vars.ARCHIVE_SPEC,
	}, store.Searcher, conversationSvc)
	if err != nil {
		return err
	}
	defer cron.Stop()

	// 5. 初始化 Handler (API 层) 并启动 Web Server
	r := gin.New()
	r.Use(gin.Recovery())
	router.RegisterRoutes(r, router.Handlers{
		Legal:        handler.NewLegalHandler(pipeline, retrievalSvc, ingestionSvc),
		Conversation: handler.NewConversationHandler(conversationSvc),
		Feedback:     handler.NewFeedbackHandler(feedbackSvc),
		Health:       handler.NewHealthHandler(store.Backend, store.Searcher),
	}, middleware.NewRateLimiter(vars.RATE_LIMIT_RPS, vars.RATE_LIMIT_BURST))

	srv := &http.Server{
		Addr:              ":" + vars.PORT,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		log.Info("server running", "addr", srv.Addr, "search_backend", store.Backend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
