package cmd

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/benchanjamin/cf-ai-group-scheduler/internal/actor"
	"github.com/benchanjamin/cf-ai-group-scheduler/internal/adapter/llm"
	"github.com/benchanjamin/cf-ai-group-scheduler/internal/adapter/sessionclient"
	"github.com/benchanjamin/cf-ai-group-scheduler/internal/config"
	"github.com/benchanjamin/cf-ai-group-scheduler/internal/repository"
	"github.com/benchanjamin/cf-ai-group-scheduler/internal/service"
	handler "github.com/benchanjamin/cf-ai-group-scheduler/internal/transport/http"
	"github.com/benchanjamin/cf-ai-group-scheduler/policy"
)

// internalCallTimeout bounds one call from the orchestration layer to an actor.
const internalCallTimeout = 10 * time.Second

func newServeCmd(v *viper.Viper, load func() (*config.Config, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the external and internal HTTP servers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}

	cmd.Flags().Int("http-port", 8080, "External HTTP port")
	cmd.Flags().Int("internal-port", 8081, "Internal HTTP port")
	cmd.Flags().String("internal-url", "http://localhost:8081", "URL the orchestration layer uses to reach the internal server")
	cmd.Flags().String("database-url", "file:scheduler.db?cache=shared&mode=rwc", "SQLite DSN")
	cmd.Flags().String("llm-model", "llama-3.3-70b-instruct", "Model requested from the LLM gateway")
	for key, flag := range map[string]string{
		config.KeyHTTPPort:     "http-port",
		config.KeyInternalPort: "internal-port",
		config.KeyInternalURL:  "internal-url",
		config.KeyDatabaseURL:  "database-url",
		config.KeyLLMModel:     "llm-model",
	} {
		_ = v.BindPFlag(key, cmd.Flags().Lookup(flag))
	}

	return cmd
}

func serve(ctx context.Context, cfg *config.Config) error {
	log.Printf("Starting scheduler...")
	log.Printf("External HTTP Port: %d", cfg.HTTPPort)
	log.Printf("Internal HTTP Port: %d", cfg.InternalPort)
	log.Printf("Database: %s", cfg.DatabaseURL)
	log.Printf("LiteLLM URL: %s", cfg.LiteLLMURL)
	log.Printf("Inactivity period: %s", cfg.InactivityPeriod)

	// Initialize store
	db, err := repository.NewSQLiteStore(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}
	defer db.Close()

	// Initialize actors
	namespace := actor.NewNamespace(db, actor.Options{InactivityPeriod: cfg.InactivityPeriod})

	// Initialize LLM client
	llmClient := llm.NewLLMClient(cfg.LiteLLMURL, cfg.LiteLLMAPIKey, cfg.LLMTimeout, cfg.MockLLM)

	// Initialize policy engine
	policyEngine, err := policy.NewEngine(ctx, policy.DefaultPolicy)
	if err != nil {
		return fmt.Errorf("failed to initialize policy engine: %w", err)
	}

	// Initialize service
	sessions := sessionclient.NewClient(cfg.InternalURL, internalCallTimeout)
	svc := service.New(sessions, llmClient, cfg, policyEngine)
	if err := svc.CheckModel(ctx); err != nil {
		log.Printf("WARN: %v", err)
	}

	externalServer := handler.NewExternalServer(svc)
	internalServer := handler.NewInternalServer(namespace)

	errCh := make(chan error, 2)

	// Start external server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := externalServer.Start(addr); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("external server: %w", err)
		}
	}()

	// Start internal server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.InternalPort)
		if err := internalServer.Start(addr); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("internal server: %w", err)
		}
	}()

	// Deliver inactivity alarms
	monitorCtx, stopMonitor := context.WithCancel(ctx)
	defer stopMonitor()
	go namespace.RunAlarmMonitor(monitorCtx, cfg.AlarmPollInterval)

	log.Printf("External API started on port %d", cfg.HTTPPort)
	log.Printf("Internal API started on port %d", cfg.InternalPort)

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errCh:
		log.Printf("ERROR: %v", runErr)
	}

	log.Println("Shutting down scheduler...")
	stopMonitor()

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown both servers
	if err := externalServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Failed to shutdown external server gracefully: %v", err)
	}
	if err := internalServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Failed to shutdown internal server gracefully: %v", err)
	}

	log.Println("Scheduler stopped")
	return runErr
}
