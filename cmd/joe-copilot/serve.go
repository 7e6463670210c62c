package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/joestump/joe-copilot/internal/auth"
	"github.com/joestump/joe-copilot/internal/copilot"
	"github.com/joestump/joe-copilot/internal/handler"
	"github.com/joestump/joe-copilot/internal/llm"
	"github.com/joestump/joe-copilot/internal/store"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, database, err := openDB()
			if err != nil {
				return err
			}
			defer func() { _ = database.Close() }()

			client, err := llm.New(cfg)
			if err != nil {
				return err
			}
			if client == nil {
				log.Println("no LLM provider configured; chat endpoint disabled")
			}

			bearer := auth.NewBearerTokenMiddleware(cfg.API.Tokens)
			if !bearer.Enabled() {
				log.Println("no API tokens configured; /api/v1 is open")
			}

			catalogs := store.NewCatalogStore(database)
			svc := &copilot.Service{
				Catalogs:        catalogs,
				LLM:             client,
				DefaultLanguage: cfg.Copilot.DefaultLanguage,
			}

			router := handler.NewRouter(handler.Deps{
				DB:         database,
				BearerAuth: bearer,
				Orgs:       store.NewOrgStore(database),
				Pages:      store.NewPageStore(database),
				Actions:    store.NewActionStore(database),
				Catalogs:   catalogs,
				Copilot:    svc,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv := &http.Server{Addr: cfg.HTTP.Addr, Handler: router}
			errCh := make(chan error, 1)
			go func() {
				log.Printf("listening on %s", cfg.HTTP.Addr)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return err
			}
			if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			log.Println("server stopped")
			return nil
		},
	}
}
