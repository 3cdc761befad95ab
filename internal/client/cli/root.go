// Package cli is the bookswap command line front end.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"bookswap/internal/client"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Server      string
	SessionPath string
	Format      string // "json" | "text"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

func defaultServer() string {
	if s := os.Getenv("BOOKSWAP_SERVER"); s != "" {
		return s
	}
	return "http://localhost:5000"
}

// NewRootCommand creates the bookswap root command.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "bookswap",
		Short: "Browse, list and exchange books",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			if opts.SessionPath == "" {
				path, err := client.DefaultSessionPath()
				if err != nil {
					return err
				}
				opts.SessionPath = path
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.Server, "server", defaultServer(), "API base URL (env BOOKSWAP_SERVER)")
	cmd.PersistentFlags().StringVar(&opts.SessionPath, "session", "", "session file (default ~/.bookswap/session.json)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewRegisterCommand(opts))
	cmd.AddCommand(NewLoginCommand(opts))
	cmd.AddCommand(NewLogoutCommand(opts))
	cmd.AddCommand(NewWhoamiCommand(opts))
	cmd.AddCommand(NewBooksCommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

func (o *RootOptions) sessions() *client.SessionStore {
	return client.NewSessionStore(o.SessionPath)
}

// api returns a client carrying the saved token, if any.
func (o *RootOptions) api() (*client.Client, *client.Session, error) {
	c := client.New(o.Server)
	sess, err := o.sessions().Load()
	if errors.Is(err, client.ErrNoSession) {
		return c, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	c.SetToken(sess.Token)
	return c, sess, nil
}

// authed is api for commands that need a logged-in user.
func (o *RootOptions) authed() (*client.Client, *client.Session, error) {
	c, sess, err := o.api()
	if err != nil {
		return nil, nil, err
	}
	if sess == nil {
		return nil, nil, fmt.Errorf("%w: run 'bookswap login' first", client.ErrNoSession)
	}
	return c, sess, nil
}

func (o *RootOptions) out(cmd *cobra.Command) *output {
	return &output{format: o.Format, w: cmd.OutOrStdout()}
}

func background(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
