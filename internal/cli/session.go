package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ayushprajapati1403/OneFlow-sub001/pkg/api/client"
	"github.com/ayushprajapati1403/OneFlow-sub001/pkg/auth"
	"github.com/ayushprajapati1403/OneFlow-sub001/pkg/jwt"
)

func (a *App) loginCommand() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			secret, err := a.secret(password)
			if err != nil {
				return err
			}
			if apiErr := a.env.auth.SignIn(cmd.Context(), email, secret); apiErr != nil {
				return apiErr
			}
			return a.printUser("signed in as", a.env.auth.User())
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "password (prompted when omitted)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func (a *App) signupCommand() *cobra.Command {
	var input auth.SignUpInput
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Register a new company account and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			secret, err := a.secret(input.Password)
			if err != nil {
				return err
			}
			input.Password = secret
			if apiErr := a.env.auth.SignUp(cmd.Context(), input); apiErr != nil {
				return apiErr
			}
			return a.printUser("registered and signed in as", a.env.auth.User())
		},
	}
	cmd.Flags().StringVar(&input.Email, "email", "", "account email")
	cmd.Flags().StringVar(&input.FullName, "name", "", "full name")
	cmd.Flags().StringVar(&input.CompanyName, "company", "", "company name")
	cmd.Flags().StringVar(&input.Password, "password", "", "password (prompted when omitted)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func (a *App) logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a.env.auth.SignOut(cmd.Context())
			return a.env.out.message("signed out")
		},
	}
}

type statusView struct {
	State     string              `json:"state"`
	API       string              `json:"api"`
	Backend   string              `json:"session_backend"`
	User      *client.UserProfile `json:"user,omitempty"`
	ExpiresAt *time.Time          `json:"token_expires_at,omitempty"`
}

func (a *App) statusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Validate the stored session and show who is signed in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a.env.auth.Bootstrap(cmd.Context())
			snap := a.env.auth.Snapshot()
			view := statusView{
				State:   snap.State.String(),
				API:     a.env.client.Endpoint(),
				Backend: a.env.cfg.Session.Backend,
				User:    snap.User,
			}
			if snap.Token != "" {
				if claims, err := jwt.Inspect(snap.Token); err == nil {
					if exp := claims.ExpiresAtTime(); !exp.IsZero() {
						view.ExpiresAt = &exp
					}
				} else {
					a.env.logger.Debug("token is not inspectable", "error", err)
				}
			}
			if a.env.out.json() {
				return a.env.out.render(view, nil, nil)
			}
			rows := [][]string{
				{"state", view.State},
				{"api", view.API},
				{"session", view.Backend},
			}
			if view.User != nil {
				rows = append(rows,
					[]string{"user", fmt.Sprintf("%s <%s>", view.User.FullName, view.User.Email)},
					[]string{"role", string(view.User.Role)},
				)
			}
			if view.ExpiresAt != nil {
				rows = append(rows, []string{"expires", view.ExpiresAt.Local().Format(time.RFC1123)})
			}
			return a.env.out.render(view, []string{"FIELD", "VALUE"}, rows)
		},
	}
}

func (a *App) whoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Print the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireSession(cmd.Context()); err != nil {
				return err
			}
			return a.printUser("", a.env.auth.User())
		},
	}
}

func (a *App) printUser(prefix string, u *client.UserProfile) error {
	if u == nil {
		return errNotSignedIn
	}
	if a.env.out.json() {
		return a.env.out.render(u, nil, nil)
	}
	line := fmt.Sprintf("%s <%s> role=%s company=%s", u.FullName, u.Email, u.Role, orDash(u.CompanyName))
	if prefix != "" {
		line = prefix + " " + line
	}
	return a.env.out.message("%s", line)
}

// secret returns flagValue or prompts for it.
func (a *App) secret(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	secret, err := a.readPassword("Password: ")
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(secret) == "" {
		return "", fmt.Errorf("password is required")
	}
	return secret, nil
}
