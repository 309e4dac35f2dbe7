package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/suite"

	"taskboard/internal/adapter/database/sqlite"
	"taskboard/internal/adapter/database/sqlite/repository"
	"taskboard/internal/adapter/http/middleware"
	"taskboard/internal/core/domain"
	"taskboard/internal/core/model/response"
	"taskboard/internal/core/port"
	"taskboard/internal/core/service"
	"taskboard/internal/core/telemetry"
	"taskboard/pkg/auth"
	"taskboard/pkg/logger"
	. "taskboard/pkg/test"
	"taskboard/pkg/test/factory"
)

var ctx = context.Background()

type TaskHandlerSuite struct {
	suite.Suite
	DB       *sqlite.DB
	TaskRepo port.TaskRepository
	JWT      *auth.JWT
	Router   *gin.Engine
}

func (s *TaskHandlerSuite) SetupTest() {
	s.DB = InitTestDB()
	probe := telemetry.NewNoOpProbe()

	s.TaskRepo = repository.NewTaskRepository(s.DB, probe)
	s.JWT = auth.NewJWT("secret", time.Hour)

	taskHandler := NewTaskHandler(service.NewTaskService(s.TaskRepo, probe), logger.NewNop(), nil)
	s.Router = setupTaskTestRouter(taskHandler, middleware.JwtMiddleware(s.JWT))
}

func (s *TaskHandlerSuite) TearDownTest() {
	s.DB.Close()
}

func TestTaskHandlerSuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(TaskHandlerSuite))
}

func setupTaskTestRouter(h *TaskHandler, gate gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	tasks := router.Group("/api/tasks")
	tasks.Use(middleware.CurrentMiddleware(), gate)
	{
		tasks.GET("", h.List)
		tasks.POST("", h.Create)
		tasks.PATCH("/:id", h.UpdateStatus)
		tasks.POST("/:id/toggle", h.Toggle)
		tasks.DELETE("/:id", h.Delete)
	}

	return router
}

func (s *TaskHandlerSuite) request(method, path, userID, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	if userID != "" {
		token, err := s.JWT.CreateToken(userID)
		s.Require().NoError(err)

		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	s.Router.ServeHTTP(rr, req)

	return rr
}

func (s *TaskHandlerSuite) createTask(userID string, title string, createdAt time.Time) domain.Task {
	task, err := s.TaskRepo.Create(ctx, factory.NewTask(map[string]any{
		"Title":     title,
		"UserID":    userID,
		"CreatedAt": createdAt,
		"UpdatedAt": createdAt,
	}))
	s.Require().NoError(err)

	return task
}

func (s *TaskHandlerSuite) TestListOrdersNewestFirst() {
	now := time.Now().UTC()
	s.createTask("u1", "older", now.Add(-time.Minute))
	s.createTask("u1", "newer", now)
	s.createTask("u2", "foreign", now)

	rr := s.request(http.MethodGet, "/api/tasks", "u1", "")

	var body response.TaskListResponse
	json.Unmarshal(rr.Body.Bytes(), &body)

	Expect(rr.Code).To(Equal(http.StatusOK))
	Expect(body.Success).To(BeTrue())
	Expect(body.Tasks).To(HaveLen(2))
	Expect(body.Tasks[0].Title).To(Equal("newer"))
	Expect(body.Tasks[1].Title).To(Equal("older"))
}

func (s *TaskHandlerSuite) TestListEmpty() {
	rr := s.request(http.MethodGet, "/api/tasks", "u1", "")

	Expect(rr.Code).To(Equal(http.StatusOK))
	Expect(rr.Body.String()).To(MatchJSON(`{"success":true,"tasks":[]}`))
}

func (s *TaskHandlerSuite) TestCreate() {
	rr := s.request(http.MethodPost, "/api/tasks", "u1", `{"title":"  Buy milk  ","description":"2 litres"}`)

	var body response.TaskEnvelope
	json.Unmarshal(rr.Body.Bytes(), &body)

	Expect(rr.Code).To(Equal(http.StatusCreated))
	Expect(body.Success).To(BeTrue())
	Expect(body.Task.ID).ToNot(BeEmpty())
	Expect(body.Task.Title).To(Equal("Buy milk"))
	Expect(body.Task.Description).To(Equal("2 litres"))
	Expect(body.Task.Status).To(Equal("Pending"))
	Expect(body.Task.UserID).To(Equal("u1"))
}

func (s *TaskHandlerSuite) TestCreateRejectsBlankTitle() {
	for _, payload := range []string{`{"title":""}`, `{"title":"   "}`, `{}`, ``} {
		rr := s.request(http.MethodPost, "/api/tasks", "u1", payload)

		var body response.ErrorResponse
		json.Unmarshal(rr.Body.Bytes(), &body)

		Expect(rr.Code).To(Equal(http.StatusBadRequest), payload)
		Expect(body.Success).To(BeFalse())
		Expect(body.Message).To(Equal("Title is required"))
	}

	tasks, err := s.TaskRepo.ListByOwner(ctx, "u1")

	Expect(err).ToNot(HaveOccurred())
	Expect(tasks).To(BeEmpty())
}

func (s *TaskHandlerSuite) TestCreateRejectsLongTitle() {
	rr := s.request(http.MethodPost, "/api/tasks", "u1", `{"title":"`+strings.Repeat("x", 256)+`"}`)

	Expect(rr.Code).To(Equal(http.StatusBadRequest))
}

func (s *TaskHandlerSuite) TestCreateAcceptsMultibyteTitle() {
	title := strings.Repeat("日", 100)
	rr := s.request(http.MethodPost, "/api/tasks", "u1", `{"title":"`+title+`"}`)

	var body response.TaskEnvelope
	json.Unmarshal(rr.Body.Bytes(), &body)

	Expect(rr.Code).To(Equal(http.StatusCreated))
	Expect(body.Task.Title).To(Equal(title))

	rr = s.request(http.MethodPost, "/api/tasks", "u1", `{"title":"`+strings.Repeat("日", 256)+`"}`)

	Expect(rr.Code).To(Equal(http.StatusBadRequest))
}

func (s *TaskHandlerSuite) TestCreateRejectsMalformedJSON() {
	rr := s.request(http.MethodPost, "/api/tasks", "u1", `{"title":`)

	var body response.ErrorResponse
	json.Unmarshal(rr.Body.Bytes(), &body)

	Expect(rr.Code).To(Equal(http.StatusBadRequest))
	Expect(body.Message).To(Equal("Invalid request body"))
}

func (s *TaskHandlerSuite) TestUpdateStatus() {
	task := s.createTask("u1", "task", time.Now().UTC())

	s.Run("sets the given status", func() {
		rr := s.request(http.MethodPatch, "/api/tasks/"+task.ID, "u1", `{"status":"Done"}`)

		var body response.TaskEnvelope
		json.Unmarshal(rr.Body.Bytes(), &body)

		Expect(rr.Code).To(Equal(http.StatusOK))
		Expect(body.Task.Status).To(Equal("Done"))

		rr = s.request(http.MethodPatch, "/api/tasks/"+task.ID, "u1", `{"status":"Pending"}`)
		json.Unmarshal(rr.Body.Bytes(), &body)

		Expect(body.Task.Status).To(Equal("Pending"))
	})

	s.Run("defaults to done without a body", func() {
		rr := s.request(http.MethodPatch, "/api/tasks/"+task.ID, "u1", "")

		var body response.TaskEnvelope
		json.Unmarshal(rr.Body.Bytes(), &body)

		Expect(rr.Code).To(Equal(http.StatusOK))
		Expect(body.Task.Status).To(Equal("Done"))
	})

	s.Run("rejects unknown status", func() {
		for _, payload := range []string{`{"status":"Archived"}`, `{"status":""}`, `{"status":"done"}`} {
			rr := s.request(http.MethodPatch, "/api/tasks/"+task.ID, "u1", payload)

			var body response.ErrorResponse
			json.Unmarshal(rr.Body.Bytes(), &body)

			Expect(rr.Code).To(Equal(http.StatusBadRequest), payload)
			Expect(body.Message).To(Equal("Invalid status. Must be Pending or Done"))
		}
	})

	s.Run("hides other users' tasks", func() {
		rr := s.request(http.MethodPatch, "/api/tasks/"+task.ID, "u2", `{"status":"Done"}`)

		Expect(rr.Code).To(Equal(http.StatusNotFound))
	})
}

func (s *TaskHandlerSuite) TestToggleTwiceRestoresStatus() {
	task := s.createTask("u1", "task", time.Now().UTC())

	var body response.TaskEnvelope

	rr := s.request(http.MethodPost, "/api/tasks/"+task.ID+"/toggle", "u1", "")
	json.Unmarshal(rr.Body.Bytes(), &body)

	Expect(rr.Code).To(Equal(http.StatusOK))
	Expect(body.Task.Status).To(Equal("Done"))

	rr = s.request(http.MethodPost, "/api/tasks/"+task.ID+"/toggle", "u1", "")
	json.Unmarshal(rr.Body.Bytes(), &body)

	Expect(body.Task.Status).To(Equal("Pending"))
}

func (s *TaskHandlerSuite) TestToggleUnknownTask() {
	rr := s.request(http.MethodPost, "/api/tasks/missing/toggle", "u1", "")

	var body response.ErrorResponse
	json.Unmarshal(rr.Body.Bytes(), &body)

	Expect(rr.Code).To(Equal(http.StatusNotFound))
	Expect(body.Message).To(Equal("Task not found"))
}

func (s *TaskHandlerSuite) TestDelete() {
	task := s.createTask("u1", "task", time.Now().UTC())

	rr := s.request(http.MethodDelete, "/api/tasks/"+task.ID, "u2", "")
	Expect(rr.Code).To(Equal(http.StatusNotFound))

	rr = s.request(http.MethodDelete, "/api/tasks/"+task.ID, "u1", "")
	Expect(rr.Code).To(Equal(http.StatusOK))
	Expect(rr.Body.String()).To(MatchJSON(`{"success":true,"message":"Task deleted"}`))

	rr = s.request(http.MethodDelete, "/api/tasks/"+task.ID, "u1", "")
	Expect(rr.Code).To(Equal(http.StatusNotFound))

	tasks, _ := s.TaskRepo.ListByOwner(ctx, "u1")
	Expect(tasks).To(BeEmpty())
}

func (s *TaskHandlerSuite) TestRequiresToken() {
	rr := s.request(http.MethodGet, "/api/tasks", "", "")

	Expect(rr.Code).To(Equal(http.StatusUnauthorized))
	Expect(rr.Body.String()).To(MatchJSON(`{"success":false,"message":"No token provided"}`))
}

type failingTaskService struct {
	port.TaskService
}

func (failingTaskService) List(context.Context, string) ([]domain.Task, error) {
	return nil, io.ErrUnexpectedEOF
}

func TestTaskHandler_ListHidesInternalErrors(t *testing.T) {
	RegisterTestingT(t)

	jwt := auth.NewJWT("secret", time.Hour)
	router := setupTaskTestRouter(NewTaskHandler(failingTaskService{}, logger.NewNop(), nil), middleware.JwtMiddleware(jwt))

	token, _ := jwt.CreateToken("u1")
	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	Expect(rr.Code).To(Equal(http.StatusInternalServerError))
	Expect(rr.Body.String()).To(MatchJSON(`{"success":false,"message":"Error fetching tasks"}`))
}
