package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/joeyaochen/portfolio/internal/chat"
	"github.com/joeyaochen/portfolio/internal/clock"
	"github.com/joeyaochen/portfolio/internal/completion"
	"github.com/joeyaochen/portfolio/internal/config"
	"github.com/joeyaochen/portfolio/internal/logging"
	"github.com/joeyaochen/portfolio/internal/mcpserver"
	"github.com/joeyaochen/portfolio/internal/profile"
	"github.com/joeyaochen/portfolio/internal/responder"
	"github.com/joeyaochen/portfolio/internal/store"
)

var version = "dev"

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var port int
	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the portfolio web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), port)
		},
	}
	serve.Flags().IntVarP(&port, "port", "p", 0, "listen port (overrides PORT)")

	root := &cobra.Command{
		Use:           "portfolio",
		Short:         "Joe Yaochen's portfolio site and assistant",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          serve.RunE,
	}
	root.Flags().AddFlagSet(serve.Flags())
	root.AddCommand(serve, askCmd(), mcpCmd())
	return root
}

func askCmd() *cobra.Command {
	var plain bool
	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask the portfolio assistant a question from the terminal",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			logger, err := logging.New(cfg.LogLevel, true)
			if err != nil {
				return err
			}
			defer logger.Sync()

			p, err := profile.Default()
			if err != nil {
				return err
			}
			question := strings.TrimSpace(strings.Join(args, " "))
			if question == "" {
				return chat.ErrEmpty
			}

			answer, err := newResolver(cfg, p, logger).Resolve(cmd.Context(), nil, question)
			if err != nil {
				answer = chat.Apology(p.Personal.Email)
			}
			if plain {
				fmt.Fprintln(cmd.OutOrStdout(), answer)
				return nil
			}

			renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(80))
			if err != nil {
				return fmt.Errorf("creating renderer: %w", err)
			}
			out, err := renderer.Render(answer)
			if err != nil {
				return fmt.Errorf("rendering answer: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "print raw markdown")
	return cmd
}

func mcpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the assistant over MCP (stdio)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			// stdout carries the protocol, so logs go to stderr only.
			logger, err := logging.New(cfg.LogLevel, false)
			if err != nil {
				return err
			}
			defer logger.Sync()

			p, err := profile.Default()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv := mcpserver.New(mcpserver.Deps{Profile: p, Resolver: newResolver(cfg, p, logger), Version: version})
			logger.Info("MCP server started (stdio transport)")
			return mcpserver.Serve(ctx, srv, os.Stdin, os.Stdout)
		},
	}
}

// newResolver wires the local rules with the remote backend when an API key
// is configured.
func newResolver(cfg config.Config, p *profile.Profile, logger *zap.Logger) *chat.TieredResolver {
	local := responder.New(p)
	client := completion.New(completion.Config{
		APIKey:  cfg.OpenAIAPIKey,
		BaseURL: cfg.OpenAIBaseURL,
		Model:   cfg.OpenAIModel,
	}, p)
	if client == nil {
		return chat.NewTieredResolver(local, nil, logger)
	}
	logger.Info("remote completion enabled", zap.String("model", client.Model()))
	return chat.NewTieredResolver(local, client, logger)
}

func runServe(parent context.Context, port int) error {
	cfg := config.Load()
	if port > 0 {
		cfg.Port = port
	}
	gin.SetMode(cfg.GinMode)

	logger, err := logging.New(cfg.LogLevel, cfg.GinMode != gin.ReleaseMode)
	if err != nil {
		return err
	}
	defer logger.Sync()
	logger.Info("starting portfolio", zap.String("version", version))

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	p, err := profile.Default()
	if err != nil {
		return fmt.Errorf("loading profile: %w", err)
	}

	st, err := store.Open(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Warn("closing storage", zap.Error(err))
		}
	}()

	a, err := newApp(cfg, logger, clock.Real{}, p, st, newResolver(cfg, p, logger))
	if err != nil {
		return err
	}
	router, err := a.routes()
	if err != nil {
		return fmt.Errorf("building routes: %w", err)
	}

	srv := newHTTPServer(fmt.Sprintf(":%d", cfg.Port), router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error { return a.sessions.Run(gctx, time.Minute) })
	g.Go(func() error { return a.runRetention(gctx, 24*time.Hour) })

	return g.Wait()
}

// newHTTPServer leaves request contexts detached from the shutdown signal so
// Shutdown can drain requests already in flight.
func newHTTPServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
}
