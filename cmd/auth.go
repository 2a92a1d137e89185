package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cinebook/model"
	"cinebook/validate"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

var errNotSignedIn = errors.New("not signed in, run `cinebook login` first")

func newLoginCmd() *cobra.Command {
	loginCmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and remember the session",
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			email, _ := cmd.Flags().GetString("email")
			if email == "" {
				var err error
				if email, err = promptText("Email", false); err != nil {
					return err
				}
			}
			password, err := promptText("Password", true)
			if err != nil {
				return err
			}
			if _, err := a.ctrl.Login(context.Background(), email, password); err != nil {
				return err
			}
			s := a.ctrl.Session()
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s (%s)\n", s.User.Name, s.User.Role)
			return nil
		}),
	}
	loginCmd.Flags().String("email", "", "account email")
	return loginCmd
}

func newRegisterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "register",
		Short: "Create a user or theatre owner account",
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			role, err := promptRole()
			if err != nil {
				return err
			}
			form := validate.RegisterForm{Role: role}
			if form.Name, err = promptText("Name", false); err != nil {
				return err
			}
			if form.Email, err = promptText("Email", false); err != nil {
				return err
			}
			if form.Password, err = promptText("Password", true); err != nil {
				return err
			}
			if role == model.RoleOwner {
				if form.TheatreName, err = promptText("Theatre name", false); err != nil {
					return err
				}
			}
			result, err := a.ctrl.Register(context.Background(), form)
			if err != nil {
				return err
			}
			if result.Message != "" {
				fmt.Fprintln(cmd.OutOrStdout(), result.Message)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Welcome, %s\n", result.Session.User.Name)
			return nil
		}),
	}
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session",
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			a.ctrl.Logout()
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		}),
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed in account",
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			s := a.ctrl.Session()
			if !s.Authenticated {
				fmt.Fprintln(cmd.OutOrStdout(), "Not signed in")
				return nil
			}
			lines := []string{fmt.Sprintf("%s <%s>", s.User.Name, s.User.Email), "Role: " + string(s.User.Role)}
			if s.User.TheatreName != "" {
				lines = append(lines, "Theatre: "+s.User.TheatreName)
			}
			if s.User.Location != "" {
				lines = append(lines, "Location: "+s.User.Location)
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(lines, "\n"))
			return nil
		}),
	}
}

func promptText(label string, secret bool) (string, error) {
	prompt := promptui.Prompt{
		Label: label,
		Validate: func(input string) error {
			if strings.TrimSpace(input) == "" {
				return errors.New(label + " is required")
			}
			return nil
		},
	}
	if secret {
		prompt.Mask = '*'
	}
	value, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("%s prompt: %w", strings.ToLower(label), err)
	}
	if secret {
		return value, nil
	}
	return strings.TrimSpace(value), nil
}

func promptRole() (model.Role, error) {
	roles := []model.Role{model.RoleUser, model.RoleOwner}
	selectRole := promptui.Select{
		Label: "Account type",
		Items: []string{"User", "Theatre owner"},
	}
	index, _, err := selectRole.Run()
	if err != nil {
		return "", fmt.Errorf("account type prompt: %w", err)
	}
	return roles[index], nil
}
