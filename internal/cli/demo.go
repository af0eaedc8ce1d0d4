package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/sessionkit/sessionkit-go/internal/authorize"
	"github.com/sessionkit/sessionkit-go/internal/intercept"
	"github.com/sessionkit/sessionkit-go/internal/server"
	"github.com/sessionkit/sessionkit-go/internal/session"
)

// cmdDemo runs the whole stack in one process: the resource server, a
// file-backed session and an intercepted client, then walks through the
// authenticate / 401 / invalidate lifecycle.
func cmdDemo() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Run a scripted client against an in-process resource server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(cmd.Context())
		},
	}
}

func runDemo(ctx context.Context) error {
	const goodToken = "demo-token"

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return err
	}
	srv := &http.Server{Handler: server.BuildRouter(server.Options{Token: goodToken, DevNoStore: true})}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	baseURL := "http://" + ln.Addr().String()
	fmt.Println("resource server on", baseURL)

	dir, err := os.MkdirTemp("", "sessionkit-demo-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)

	store, err := session.NewFileStore(filepath.Join(dir, "session.json"))
	if err != nil {
		return err
	}
	sess, err := session.New(store, nil)
	if err != nil {
		return err
	}
	sess.OnInvalidate(func() { fmt.Println(">> session invalidated") })

	watchCtx, stopWatch := context.WithCancel(ctx)
	defer stopWatch()
	if err := store.Watch(watchCtx, func(*session.State) { _ = sess.Reload() }); err != nil {
		return err
	}

	client := &http.Client{
		Transport: intercept.New(sess, "bearer").Transport(nil),
		Timeout:   10 * time.Second,
	}
	get := func(path string) error {
		resp, err := client.Get(baseURL + path)
		if err != nil {
			return err
		}
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		fmt.Printf("GET %-11s -> %d %s (authenticated=%v)\n",
			path, resp.StatusCode, string(body), sess.IsAuthenticated())
		return nil
	}

	fmt.Println("\n-- login with the accepted token")
	if err := sess.Authenticate(authorize.Credentials{authorize.KeyAccessToken: goodToken}); err != nil {
		return err
	}
	if err := get("/protected"); err != nil {
		return err
	}

	fmt.Println("\n-- login with a revoked token: the 401 invalidates the session")
	if err := sess.Authenticate(authorize.Credentials{authorize.KeyAccessToken: "revoked"}); err != nil {
		return err
	}
	if err := get("/protected"); err != nil {
		return err
	}

	fmt.Println("\n-- anonymous 401 on a public endpoint is a no-op")
	if err := get("/public"); err != nil {
		return err
	}

	fmt.Println("\n-- external logout: another process clears the session file")
	if err := sess.Authenticate(authorize.Credentials{authorize.KeyAccessToken: goodToken}); err != nil {
		return err
	}
	if err := store.Clear(); err != nil {
		return err
	}
	// give the watcher a beat to observe the removal
	time.Sleep(500 * time.Millisecond)
	fmt.Printf("authenticated=%v\n", sess.IsAuthenticated())

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return g.Wait()
}
