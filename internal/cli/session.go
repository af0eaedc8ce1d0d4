package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sessionkit/sessionkit-go/internal/authorize"
	"github.com/sessionkit/sessionkit-go/internal/session"
)

func openSession(cfg *Config) (*session.Session, *session.FileStore, error) {
	store, err := session.NewFileStore(cfg.SessionFile)
	if err != nil {
		return nil, nil, err
	}
	sess, err := session.New(store, nil)
	if err != nil {
		return nil, nil, err
	}
	return sess, store, nil
}

func cmdLogin() *cobra.Command {
	var token, user, password, apiKey string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store credentials and mark the session authenticated",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := effectiveConfig()
			if err != nil {
				return err
			}
			creds := authorize.Credentials{}
			if token != "" {
				creds[authorize.KeyAccessToken] = token
			}
			if user != "" {
				creds[authorize.KeyUsername] = user
				creds[authorize.KeyPassword] = password
			}
			if apiKey != "" {
				creds[authorize.KeyAPIKey] = apiKey
			}
			if len(creds) == 0 {
				return errors.New("nothing to store: pass --token, --user/--password or --api-key")
			}

			sess, _, err := openSession(cfg)
			if err != nil {
				return err
			}
			if err := sess.Authenticate(creds); err != nil {
				return fmt.Errorf("persist session: %w", err)
			}
			fmt.Printf("logged in, session %s (%s)\n", sess.ID(), cfg.SessionFile)
			return nil
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "bearer access token")
	cmd.Flags().StringVar(&user, "user", "", "basic auth username")
	cmd.Flags().StringVar(&password, "password", "", "basic auth password")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "api key")
	return cmd
}

func cmdLogout() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Invalidate the session and clear stored credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := effectiveConfig()
			if err != nil {
				return err
			}
			sess, _, err := openSession(cfg)
			if err != nil {
				return err
			}
			if !sess.IsAuthenticated() {
				fmt.Println("already logged out")
				return nil
			}
			sess.Invalidate()
			fmt.Println("logged out")
			return nil
		},
	}
}

func cmdStatus() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show current session state",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := effectiveConfig()
			if err != nil {
				return err
			}
			_, store, err := openSession(cfg)
			if err != nil {
				return err
			}
			st, err := store.Load()
			if err != nil {
				return err
			}
			if st == nil {
				fmt.Println("no session stored")
				return nil
			}
			// never print credential values
			st.Credentials = nil
			b, _ := marshalIndent(st)
			fmt.Println(string(b))
			return nil
		},
	}
}
