// Package cli implements the taskctl command tree.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"taskboard/internal/core/model/response"
	"taskboard/pkg/client"
)

const DefaultServer = "http://localhost:3000"

// API is the part of the HTTP client the commands use.
type API interface {
	Register(ctx context.Context, name, email, password string) (response.UserResponse, error)
	Login(ctx context.Context, email, password string) (client.Session, error)
	Logout() error
	ListTasks(ctx context.Context) ([]response.TaskResponse, error)
	CreateTask(ctx context.Context, title, description string) (response.TaskResponse, error)
	SetStatus(ctx context.Context, id, status string) (response.TaskResponse, error)
	ToggleTask(ctx context.Context, id string) (response.TaskResponse, error)
	DeleteTask(ctx context.Context, id string) error
}

// APIFactory builds an API for the configured server URL.
type APIFactory func(server string) (API, error)

type app struct {
	v        *viper.Viper
	factory  APIFactory
	in       *bufio.Reader
	renderer *Renderer
}

func (a *app) api() (API, error) {
	return a.factory(a.v.GetString("server"))
}

// refresh re-reads the whole list after a mutation.
func (a *app) refresh(ctx context.Context, api API) error {
	tasks, err := api.ListTasks(ctx)

	if err != nil {
		return explain(err)
	}

	return a.renderer.Tasks(tasks)
}

func NewRootCommand(factory APIFactory, in io.Reader, out io.Writer) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("TASKCTL")
	v.AutomaticEnv()
	v.SetDefault("server", DefaultServer)

	a := &app{
		v:        v,
		factory:  factory,
		in:       bufio.NewReader(in),
		renderer: NewRenderer(out),
	}

	root := &cobra.Command{
		Use:           "taskctl",
		Short:         "Manage your tasks from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.SetOut(out)
	root.SetErr(out)
	root.SetIn(in)

	root.PersistentFlags().String("server", DefaultServer, "API base URL (env TASKCTL_SERVER)")
	v.BindPFlag("server", root.PersistentFlags().Lookup("server"))

	root.AddCommand(
		newRegisterCommand(a),
		newLoginCommand(a),
		newLogoutCommand(a),
		newListCommand(a),
		newAddCommand(a),
		newStatusCommand(a, "done", "Mark a task as done", "Done"),
		newStatusCommand(a, "undo", "Mark a task as pending", "Pending"),
		newToggleCommand(a),
		newRemoveCommand(a),
	)

	return root
}

func newRegisterCommand(a *app) *cobra.Command {
	var name, email, password string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := a.api()
			if err != nil {
				return err
			}

			user, err := api.Register(cmd.Context(), name, email, password)
			if err != nil {
				return explain(err)
			}

			a.renderer.Message("Registered %s. Run `taskctl login` to sign in.", user.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")

	return cmd
}

func newLoginCommand(a *app) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and remember the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := a.api()
			if err != nil {
				return err
			}

			session, err := api.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}

			a.renderer.Message("Signed in as %s.", session.User.Name)
			return a.refresh(cmd.Context(), api)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")

	return cmd
}

func newLogoutCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := a.api()
			if err != nil {
				return err
			}

			if err := api.Logout(); err != nil {
				return err
			}

			a.renderer.Message("Signed out.")
			return nil
		},
	}
}

func newListCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List your tasks, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := a.api()
			if err != nil {
				return err
			}

			return a.refresh(cmd.Context(), api)
		},
	}
}

func newAddCommand(a *app) *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := a.api()
			if err != nil {
				return err
			}

			if _, err := api.CreateTask(cmd.Context(), strings.Join(args, " "), description); err != nil {
				return explain(err)
			}

			return a.refresh(cmd.Context(), api)
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "optional description")

	return cmd
}

func newStatusCommand(a *app, use, short, status string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := a.api()
			if err != nil {
				return err
			}

			if _, err := api.SetStatus(cmd.Context(), args[0], status); err != nil {
				return explain(err)
			}

			return a.refresh(cmd.Context(), api)
		},
	}
}

func newToggleCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Flip a task between pending and done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := a.api()
			if err != nil {
				return err
			}

			if _, err := api.ToggleTask(cmd.Context(), args[0]); err != nil {
				return explain(err)
			}

			return a.refresh(cmd.Context(), api)
		},
	}
}

func newRemoveCommand(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes && !a.confirm(fmt.Sprintf("Delete task %s? [y/N] ", args[0])) {
				a.renderer.Message("Aborted.")
				return nil
			}

			api, err := a.api()
			if err != nil {
				return err
			}

			if err := api.DeleteTask(cmd.Context(), args[0]); err != nil {
				return explain(err)
			}

			return a.refresh(cmd.Context(), api)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")

	return cmd
}

func (a *app) confirm(prompt string) bool {
	fmt.Fprint(a.renderer.out, prompt)

	answer, err := a.in.ReadString('\n')

	if err != nil && !errors.Is(err, io.EOF) {
		return false
	}

	answer = strings.ToLower(strings.TrimSpace(answer))

	return answer == "y" || answer == "yes"
}

func explain(err error) error {
	if errors.Is(err, client.ErrNotLoggedIn) || client.IsUnauthorized(err) {
		return fmt.Errorf("%w: run `taskctl login` first", err)
	}

	return err
}
