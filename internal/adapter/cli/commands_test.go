package cli

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"taskboard/internal/core/model/response"
	"taskboard/pkg/client"
)

type fakeAPI struct {
	server   string
	loggedIn bool
	tasks    []response.TaskResponse
	seq      int
	calls    []string
}

func (f *fakeAPI) Register(ctx context.Context, name, email, password string) (response.UserResponse, error) {
	f.calls = append(f.calls, "register")
	return response.UserResponse{ID: "u1", Name: name, Email: email}, nil
}

func (f *fakeAPI) Login(ctx context.Context, email, password string) (client.Session, error) {
	f.calls = append(f.calls, "login")

	if password != "secret123" {
		return client.Session{}, &client.APIError{StatusCode: 401, Message: "Invalid credentials"}
	}

	f.loggedIn = true
	return client.Session{Token: "t", User: response.UserResponse{ID: "u1", Name: "Ana", Email: email}}, nil
}

func (f *fakeAPI) Logout() error {
	f.calls = append(f.calls, "logout")
	f.loggedIn = false
	return nil
}

func (f *fakeAPI) ListTasks(ctx context.Context) ([]response.TaskResponse, error) {
	f.calls = append(f.calls, "list")

	if !f.loggedIn {
		return nil, client.ErrNotLoggedIn
	}

	return f.tasks, nil
}

func (f *fakeAPI) CreateTask(ctx context.Context, title, description string) (response.TaskResponse, error) {
	f.calls = append(f.calls, "create")
	f.seq++

	task := response.TaskResponse{
		ID:          fmt.Sprintf("t%d", f.seq),
		Title:       title,
		Description: description,
		Status:      "Pending",
		CreatedAt:   time.Now(),
	}
	f.tasks = append([]response.TaskResponse{task}, f.tasks...)

	return task, nil
}

func (f *fakeAPI) find(id string) (int, error) {
	for i, task := range f.tasks {
		if task.ID == id {
			return i, nil
		}
	}

	return -1, &client.APIError{StatusCode: 404, Message: "Task not found"}
}

func (f *fakeAPI) SetStatus(ctx context.Context, id, status string) (response.TaskResponse, error) {
	f.calls = append(f.calls, "status:"+status)

	i, err := f.find(id)
	if err != nil {
		return response.TaskResponse{}, err
	}

	f.tasks[i].Status = status
	return f.tasks[i], nil
}

func (f *fakeAPI) ToggleTask(ctx context.Context, id string) (response.TaskResponse, error) {
	f.calls = append(f.calls, "toggle")

	i, err := f.find(id)
	if err != nil {
		return response.TaskResponse{}, err
	}

	if f.tasks[i].Status == "Done" {
		f.tasks[i].Status = "Pending"
	} else {
		f.tasks[i].Status = "Done"
	}

	return f.tasks[i], nil
}

func (f *fakeAPI) DeleteTask(ctx context.Context, id string) error {
	f.calls = append(f.calls, "delete")

	i, err := f.find(id)
	if err != nil {
		return err
	}

	f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
	return nil
}

type CommandSuite struct {
	suite.Suite
	api *fakeAPI
	out *bytes.Buffer
}

func (s *CommandSuite) SetupTest() {
	s.api = &fakeAPI{loggedIn: true}
	s.out = &bytes.Buffer{}
}

func (s *CommandSuite) run(stdin string, args ...string) error {
	s.out.Reset()

	root := NewRootCommand(func(server string) (API, error) {
		s.api.server = server
		return s.api, nil
	}, strings.NewReader(stdin), s.out)

	root.SetArgs(args)

	return root.Execute()
}

func (s *CommandSuite) TestEmptyList() {
	s.NoError(s.run("", "list"))
	s.Contains(s.out.String(), "Total: 0  Completed: 0  Pending: 0")
	s.Contains(s.out.String(), "No tasks yet.")
}

func (s *CommandSuite) TestAddRerendersList() {
	s.NoError(s.run("", "add", "Buy", "milk", "-d", "2 liters"))

	s.Equal([]string{"create", "list"}, s.api.calls)
	s.Contains(s.out.String(), "ID")
	s.Contains(s.out.String(), "Buy milk")
	s.Contains(s.out.String(), "2 liters")
	s.Contains(s.out.String(), "Total: 1  Completed: 0  Pending: 1")
}

func (s *CommandSuite) TestDoneUndoToggle() {
	s.api.CreateTask(context.Background(), "Write report", "")
	s.api.calls = nil

	s.NoError(s.run("", "done", "t1"))
	s.Contains(s.out.String(), "Completed: 1")

	s.NoError(s.run("", "undo", "t1"))
	s.Contains(s.out.String(), "Completed: 0")

	s.NoError(s.run("", "toggle", "t1"))
	s.Contains(s.out.String(), "Completed: 1")

	s.Equal([]string{"status:Done", "list", "status:Pending", "list", "toggle", "list"}, s.api.calls)
}

func (s *CommandSuite) TestRemoveAsksForConfirmation() {
	s.api.CreateTask(context.Background(), "Keep me", "")
	s.api.calls = nil

	s.NoError(s.run("n\n", "rm", "t1"))
	s.Contains(s.out.String(), "Delete task t1? [y/N]")
	s.Contains(s.out.String(), "Aborted.")
	s.Len(s.api.tasks, 1)
	s.Empty(s.api.calls)

	s.NoError(s.run("y\n", "rm", "t1"))
	s.Empty(s.api.tasks)
	s.Equal([]string{"delete", "list"}, s.api.calls)
}

func (s *CommandSuite) TestRemoveWithYesFlag() {
	s.api.CreateTask(context.Background(), "Gone", "")

	s.NoError(s.run("", "rm", "--yes", "t1"))
	s.NotContains(s.out.String(), "[y/N]")
	s.Empty(s.api.tasks)
}

func (s *CommandSuite) TestUnknownTask() {
	err := s.run("", "done", "nope")

	s.Error(err)
	s.Contains(err.Error(), "Task not found")
}

func (s *CommandSuite) TestLoginAndLogout() {
	s.api.loggedIn = false

	err := s.run("", "login", "--email", "ana@example.com", "--password", "wrong")
	s.Error(err)
	s.True(client.IsUnauthorized(err))
	s.Contains(err.Error(), "Invalid credentials")

	s.NoError(s.run("", "login", "--email", "ana@example.com", "--password", "secret123"))
	s.Contains(s.out.String(), "Signed in as Ana.")

	s.NoError(s.run("", "logout"))
	s.Contains(s.out.String(), "Signed out.")

	err = s.run("", "list")
	s.ErrorIs(err, client.ErrNotLoggedIn)
}

func (s *CommandSuite) TestRegisterRequiresFlags() {
	s.Error(s.run("", "register", "--email", "ana@example.com"))

	s.NoError(s.run("", "register", "--name", "Ana", "--email", "ana@example.com", "--password", "secret123"))
	s.Contains(s.out.String(), "Registered ana@example.com.")
}

func (s *CommandSuite) TestServerFlagAndEnv() {
	s.NoError(s.run("", "list"))
	s.Equal(DefaultServer, s.api.server)

	s.T().Setenv("TASKCTL_SERVER", "http://env.example:4000")
	s.NoError(s.run("", "list"))
	s.Equal("http://env.example:4000", s.api.server)

	s.NoError(s.run("", "--server", "http://flag.example:5000", "list"))
	s.Equal("http://flag.example:5000", s.api.server)
}

func TestCommandSuite(t *testing.T) {
	suite.Run(t, new(CommandSuite))
}

func TestRendererAlignsColumns(t *testing.T) {
	out := &bytes.Buffer{}

	err := NewRenderer(out).Tasks([]response.TaskResponse{
		{ID: "1", Title: "a", Status: "Done"},
		{ID: "22", Title: "longer title", Status: "Pending"},
	})

	assert.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Equal(t, "Total: 2  Completed: 1  Pending: 1", lines[0])
	assert.Equal(t, strings.Index(lines[2], "STATUS"), strings.Index(lines[3], "Done"))
	assert.Equal(t, strings.Index(lines[3], "Done"), strings.Index(lines[4], "Pending"))
}
