package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sessionkit/sessionkit-go/internal/server"
)

func cmdServe() *cobra.Command {
	var addr, token string
	var enableCORS bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the demo resource server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if token == "" {
				return errors.New("--token is required, the server needs one value to accept")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv := &http.Server{
				Addr:    addr,
				Handler: server.BuildRouter(server.Options{Token: token, EnableCORS: enableCORS}),
			}

			errc := make(chan error, 1)
			go func() { errc <- srv.ListenAndServe() }()
			slog.Info("serve", "addr", addr)

			select {
			case err := <-errc:
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8094", "listen address")
	cmd.Flags().StringVar(&token, "token", "", "bearer token the server accepts")
	cmd.Flags().BoolVar(&enableCORS, "cors", false, "enable permissive CORS")
	return cmd
}
