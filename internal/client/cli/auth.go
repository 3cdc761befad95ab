package cli

import (
	"bookswap/internal/client"
	"bookswap/internal/domain/model"

	"github.com/spf13/cobra"
)

type registerOptions struct {
	*RootOptions
	Name     string
	Email    string
	Phone    string
	Role     string
	Password string
}

func NewRegisterCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &registerOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and log in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := opts.password(cmd, opts.Password)
			if err != nil {
				return err
			}
			c := client.New(opts.Server)
			res, err := c.Register(background(cmd), client.RegisterRequest{
				Name: opts.Name, Email: opts.Email, Password: password, Phone: opts.Phone, Role: opts.Role,
			})
			if err != nil {
				return err
			}
			return opts.remember(cmd, res)
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "display name")
	cmd.Flags().StringVar(&opts.Email, "email", "", "email address")
	cmd.Flags().StringVar(&opts.Phone, "phone", "", "phone number")
	cmd.Flags().StringVar(&opts.Role, "role", model.RoleSeeker, "owner or seeker")
	cmd.Flags().StringVar(&opts.Password, "password", "", "password (prompted when empty)")
	for _, f := range []string{"name", "email", "phone"} {
		_ = cmd.MarkFlagRequired(f)
	}
	return cmd
}

type loginOptions struct {
	*RootOptions
	Email    string
	Password string
}

func NewLoginCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &loginOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and save the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := opts.password(cmd, opts.Password)
			if err != nil {
				return err
			}
			res, err := client.New(opts.Server).Login(background(cmd), opts.Email, password)
			if err != nil {
				return err
			}
			return opts.remember(cmd, res)
		},
	}

	cmd.Flags().StringVar(&opts.Email, "email", "", "email address")
	cmd.Flags().StringVar(&opts.Password, "password", "", "password (prompted when empty)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func NewLogoutCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.sessions().Clear(); err != nil {
				return err
			}
			return opts.out(cmd).message("Logged out")
		},
	}
}

func NewWhoamiCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, sess, err := opts.authed()
			if err != nil {
				return err
			}
			return opts.out(cmd).user(&sess.User)
		},
	}
}

func (o *RootOptions) password(cmd *cobra.Command, flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	return readPassword(cmd.InOrStdin(), cmd.ErrOrStderr(), "Password: ")
}

func (o *RootOptions) remember(cmd *cobra.Command, res *client.AuthResult) error {
	if err := o.sessions().Save(client.Session{User: res.User, Token: res.Token}); err != nil {
		return err
	}
	return o.out(cmd).user(&res.User)
}
