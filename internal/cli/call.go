package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/sessionkit/sessionkit-go/internal/intercept"
	"github.com/sessionkit/sessionkit-go/internal/trace"
)

func cmdCall() *cobra.Command {
	return &cobra.Command{
		Use:   "call [path-or-url]",
		Short: "Perform an authenticated GET through the interceptor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := effectiveConfig()
			if err != nil {
				return err
			}
			sess, _, err := openSession(cfg)
			if err != nil {
				return err
			}
			sess.OnInvalidate(func() {
				fmt.Println("session invalidated: server rejected the credentials")
			})

			ic := intercept.New(sess, cfg.Authorizer)
			client := &http.Client{
				Transport: ic.Transport(nil),
				Timeout:   30 * time.Second,
			}

			url := args[0]
			if strings.HasPrefix(url, "/") {
				url = strings.TrimSuffix(cfg.BaseURL, "/") + url
			}

			req, err := http.NewRequestWithContext(cmd.Context(), http.MethodGet, url, nil)
			if err != nil {
				return err
			}
			req.Header.Set("Accept", "application/json")
			req.Header.Set(trace.Header, trace.NewID())

			resp, err := client.Do(req)
			if err != nil {
				return fmt.Errorf("request failed: %w", err)
			}
			defer resp.Body.Close()

			body, _ := io.ReadAll(resp.Body)
			fmt.Printf("HTTP %d\n", resp.StatusCode)
			return printJSON(body)
		},
	}
}

func printJSON(b []byte) error {
	var any interface{}
	if err := json.Unmarshal(b, &any); err != nil {
		// not JSON, print raw
		fmt.Println(string(b))
		return nil
	}
	enc, _ := json.MarshalIndent(any, "", "  ")
	fmt.Println(string(enc))
	return nil
}

func marshalIndent(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}
