package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ClearDemand/tempo-utils/config"
	"github.com/ClearDemand/tempo-utils/tempo"
	"github.com/ClearDemand/tempo-utils/web"
)

var (
	servePort    int
	serveURL     string
	serveTimeout time.Duration
	serveNoOpen  bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start local web UI for browsing and copying Tempo weeks",
	Long: `Start a local HTTP server with a single page for browsing a week of
worklogs and copying it onto another week, with an optional dry-run preview.

The server is meant for localhost use by the configured account only.`,
	Example: `
  # Start local server on default port
  tempoutils serve

  # Custom port, do not open the browser
  tempoutils serve --port 9090 --no-open
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}

		client, err := tempo.NewClient(tempo.ClientConfig{
			BaseURL:   resolveBaseURL(cfg, serveURL),
			APIToken:  cfg.Tempo.APIToken,
			UserAgent: "tempoutils-serve/1.0",
		})
		if err != nil {
			return err
		}

		logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

		addr := fmt.Sprintf(":%d", servePort)
		server := &http.Server{
			Addr: addr,
			Handler: web.NewServer(logger, client, web.Config{
				AccountID: cfg.Tempo.AccountID,
				Timeout:   serveTimeout,
			}),
		}

		errCh := make(chan error, 1)
		go func() {
			errCh <- server.ListenAndServe()
		}()

		listenURL := fmt.Sprintf("http://localhost:%d", servePort)
		logger.Info().Str("addr", listenURL).Msg("starting server")
		if !serveNoOpen {
			if openErr := openURLInBrowser(listenURL); openErr != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to open browser: %v\n", openErr)
			}
		}

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(sigCh)

		select {
		case err := <-errCh:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		case <-sigCh:
			logger.Info().Msg("shutdown initiated")
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(ctx); err != nil {
				return fmt.Errorf("shutdown server: %w", err)
			}
			err := <-errCh
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntVar(&servePort, "port", 8080, "HTTP port for the local web server")
	serveCmd.Flags().StringVar(&serveURL, "url", "", "Override Tempo API base URL from config")
	serveCmd.Flags().DurationVar(&serveTimeout, "timeout", 60*time.Second, "Timeout per Tempo API operation")
	serveCmd.Flags().BoolVar(&serveNoOpen, "no-open", false, "Do not open browser automatically")
}

func openURLInBrowser(rawURL string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", rawURL)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", rawURL)
	default:
		cmd = exec.Command("xdg-open", rawURL)
	}
	return cmd.Start()
}
