// Gmail triage server suggests actions for unread Gmail messages over HTTP and MCP.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"

	"github.com/hal9000y/gmail-triage/internal/api"
	"github.com/hal9000y/gmail-triage/internal/auth"
	"github.com/hal9000y/gmail-triage/internal/config"
	"github.com/hal9000y/gmail-triage/internal/gservice"
	"github.com/hal9000y/gmail-triage/internal/llm"
	"github.com/hal9000y/gmail-triage/internal/logger"
	"github.com/hal9000y/gmail-triage/internal/mailimport"
	"github.com/hal9000y/gmail-triage/internal/metrics"
	"github.com/hal9000y/gmail-triage/internal/tool"
	"github.com/hal9000y/gmail-triage/internal/triage"
)

func main() {
	httpAddr := flag.String("http-addr", "localhost:3001", "HTTP SERVER listen addr")
	envFileParam := flag.String("env-file", "", "Path to env file")
	enableStdio := flag.Bool("stdio", false, "Enable stdio transport for MCP (disables stdout logging)")
	logFile := flag.String("log-file", "", "Path to log file (otherwise logs to stdout unless stdio is enabled)")
	logPretty := flag.Bool("log-pretty", false, "Human readable console logs")
	openConsent := flag.Bool("open-browser", false, "Open the Google consent page on startup")

	flag.Parse()

	mustLoadEnv(envFileParam)
	cfg := config.Load()

	out, closeLogs := logOutput(enableStdio, logFile)
	defer closeLogs()

	lg := logger.New(logger.Config{Level: cfg.LogLevel, Pretty: *logPretty, Output: out})

	if err := cfg.Validate(); err != nil {
		lg.Error().Err(err).Msg("Invalid configuration")
		closeLogs()
		os.Exit(1)
	}

	ln := mustListen(httpAddr)
	m := metrics.New()

	completer := llm.NewCompleter(cfg.MockMode(), llm.Config{
		APIKey:  cfg.OpenAIAPIKey,
		BaseURL: cfg.OpenAIBaseURL,
		Model:   cfg.OpenAIModel,
		Timeout: cfg.OpenAITimeout,
	})
	triageSvc := triage.NewService(completer, m, logger.Component(lg, "triage"))

	oauthCfg := cfg.OAuth2()
	importer := mailimport.NewImporter(
		auth.NewConsent(oauthCfg),
		func(ctx context.Context, tok *oauth2.Token) (mailimport.Mailbox, error) {
			mb, err := gservice.NewGmail(ctx, oauthCfg, tok)
			if err != nil {
				return nil, err
			}
			return mb, nil
		},
		m,
		logger.Component(lg, "mailimport"),
	)

	triageT := tool.NewServer(triageSvc)
	mcpHTTP := mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server { return triageT }, nil)

	router := api.NewRouter(api.RouterConfig{
		Triage:         triageSvc,
		Import:         importer,
		FrontendURL:    cfg.FrontendURL,
		AllowedOrigins: cfg.AllowedOrigins,
		Metrics:        m,
		MCP:            mcpHTTP,
		Logger:         logger.Component(lg, "http"),
	})

	srv := &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	shutdown := make(chan os.Signal, 1)

	signal.Notify(shutdown, syscall.SIGTERM, syscall.SIGINT)

	stopHTTP, errHTTPCh := serveHTTP(srv, ln)
	defer stopHTTP()

	if *openConsent {
		openBrowser(fmt.Sprintf("http://%s/auth/google", ln.Addr().String()))
	}

	var errStdioCh <-chan error
	if *enableStdio {
		var stopStdio func()
		stopStdio, errStdioCh = serveStdio(triageT)
		defer stopStdio()
	}

	select {
	case err := <-errHTTPCh:
		log.Error().Err(err).Msg("Error http server")
	case err := <-errStdioCh:
		log.Error().Err(err).Msg("Error stdio")
	case <-shutdown:
		log.Info().Msg("Shutdown signal received")
	}
}

func serveStdio(srv *mcp.Server) (func(), <-chan error) {
	errStdioCh := make(chan error, 1)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		defer close(errStdioCh)
		log.Info().Msg("Starting stdio transport")

		if err := srv.Run(ctx, &mcp.StdioTransport{}); err != nil {
			err = fmt.Errorf("srv.Run failed: %w", err)
			errStdioCh <- err
		}
	}()

	return func() {
		cancel()

		<-errStdioCh
		log.Info().Msg("Stdio transport stopped")
	}, errStdioCh
}

func serveHTTP(srv *http.Server, ln net.Listener) (func(), <-chan error) {
	errHTTPCh := make(chan error, 1)
	go func() {
		defer close(errHTTPCh)

		log.Info().Str("addr", ln.Addr().String()).Msg("Starting http server")

		err := srv.Serve(ln)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			err = fmt.Errorf("srv.Serve failed: %w", err)
			errHTTPCh <- err
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("srv.Shutdown failed")
		}

		<-errHTTPCh
		log.Info().Msg("HTTP server stopped")
	}, errHTTPCh
}

func mustListen(httpAddr *string) net.Listener {
	if httpAddr == nil {
		panic("-http-addr must be provided")
	}

	ln, err := net.Listen("tcp", *httpAddr)
	if err != nil {
		panic(fmt.Errorf("net.Listen failed: %w", err))
	}

	return ln
}

func mustLoadEnv(envFileParam *string) {
	if envFileParam != nil && *envFileParam != "" {
		if err := godotenv.Load(*envFileParam); err != nil {
			panic(fmt.Errorf("godotenv.Load failed: %w", err))
		}
	}
}

// logOutput picks where logs go. Stdout is reserved for MCP when stdio is on.
func logOutput(enableStdio *bool, logFile *string) (io.Writer, func()) {
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			panic(fmt.Errorf("failed to open log file: %w", err))
		}

		return f, func() {
			if err := f.Close(); err != nil {
				fmt.Fprintln(os.Stderr, fmt.Errorf("f.Close failed: %w", err))
			}
		}
	}

	if *enableStdio {
		return io.Discard, func() {}
	}

	return os.Stdout, func() {}
}

func openBrowser(url string) {
	var err error
	switch runtime.GOOS {
	case "linux":
		err = exec.Command("xdg-open", url).Start()
	case "windows":
		err = exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	case "darwin":
		err = exec.Command("open", url).Start()
	default:
		err = fmt.Errorf("unsupported platform")
	}

	if err != nil {
		log.Warn().Err(err).Str("url", url).Msg("Could not open browser automatically, please open the link manually")
	}
}
