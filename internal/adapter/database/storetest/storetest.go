// Package storetest holds the behaviour every port.Store implementation must
// share. Adapter packages run it against their own backend.
package storetest

import (
	"context"
	"errors"
	"sync"
	"time"

	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/suite"

	"taskboard/internal/core/domain"
	"taskboard/internal/core/port"
	"taskboard/pkg/test/factory"
)

// StoreSuite exercises a fresh store built by NewStore for every test.
type StoreSuite struct {
	suite.Suite
	NewStore func() port.Store
	// MissingID is a well-formed id that no task or user has.
	MissingID string

	Store port.Store
	ctx   context.Context
}

func (s *StoreSuite) SetupTest() {
	RegisterTestingT(s.T())

	s.ctx = context.Background()
	s.Store = s.NewStore()
}

func (s *StoreSuite) TearDownTest() {
	if s.Store != nil {
		s.Store.Close()
	}
}

func (s *StoreSuite) createTask(userID string, title string, createdAt time.Time) domain.Task {
	task, err := s.Store.Tasks().Create(s.ctx, factory.NewTask(map[string]any{
		"Title":       title,
		"Description": "",
		"UserID":      userID,
		"CreatedAt":   createdAt,
		"UpdatedAt":   createdAt,
	}))
	s.Require().NoError(err)

	return task
}

func (s *StoreSuite) TestPing() {
	Expect(s.Store.Ping(s.ctx)).To(Succeed())
}

func (s *StoreSuite) TestCreateAssignsID() {
	task := s.createTask("u1", "write report", time.Now().UTC())

	Expect(task.ID).ToNot(BeEmpty())
	Expect(task.Status).To(Equal(domain.TaskStatusPending))
	Expect(task.UserID).To(Equal("u1"))
}

func (s *StoreSuite) TestListByOwnerOrdersNewestFirst() {
	now := time.Now().UTC().Truncate(time.Millisecond)

	s.createTask("u1", "first", now.Add(-2*time.Minute))
	s.createTask("u1", "third", now)
	s.createTask("u1", "second", now.Add(-time.Minute))
	s.createTask("u2", "other", now)

	tasks, err := s.Store.Tasks().ListByOwner(s.ctx, "u1")

	Expect(err).ToNot(HaveOccurred())
	Expect(tasks).To(HaveLen(3))
	Expect(tasks[0].Title).To(Equal("third"))
	Expect(tasks[1].Title).To(Equal("second"))
	Expect(tasks[2].Title).To(Equal("first"))
}

func (s *StoreSuite) TestListByOwnerBreaksTiesByInsertion() {
	now := time.Now().UTC().Truncate(time.Millisecond)

	s.createTask("u1", "a", now)
	s.createTask("u1", "b", now)

	tasks, err := s.Store.Tasks().ListByOwner(s.ctx, "u1")

	Expect(err).ToNot(HaveOccurred())
	Expect(tasks).To(HaveLen(2))
	Expect(tasks[0].Title).To(Equal("b"))
}

func (s *StoreSuite) TestListByOwnerEmpty() {
	tasks, err := s.Store.Tasks().ListByOwner(s.ctx, "nobody")

	Expect(err).ToNot(HaveOccurred())
	Expect(tasks).ToNot(BeNil())
	Expect(tasks).To(BeEmpty())
}

func (s *StoreSuite) TestAnonymousOwnerIsSeparate() {
	s.createTask(domain.AnonymousOwner, "shared", time.Now().UTC())
	s.createTask("u1", "mine", time.Now().UTC())

	tasks, err := s.Store.Tasks().ListByOwner(s.ctx, domain.AnonymousOwner)

	Expect(err).ToNot(HaveOccurred())
	Expect(tasks).To(HaveLen(1))
	Expect(tasks[0].Title).To(Equal("shared"))
}

func (s *StoreSuite) TestUpdateStatus() {
	task := s.createTask("u1", "task", time.Now().UTC())

	updated, err := s.Store.Tasks().UpdateStatus(s.ctx, "u1", task.ID, domain.TaskStatusDone)

	Expect(err).ToNot(HaveOccurred())
	Expect(updated.ID).To(Equal(task.ID))
	Expect(updated.Status).To(Equal(domain.TaskStatusDone))
	Expect(updated.Title).To(Equal("task"))
	Expect(updated.UpdatedAt).ToNot(BeTemporally("<", task.UpdatedAt.Truncate(time.Millisecond)))
}

func (s *StoreSuite) TestUpdateStatusScopedToOwner() {
	task := s.createTask("u1", "task", time.Now().UTC())

	_, err := s.Store.Tasks().UpdateStatus(s.ctx, "u2", task.ID, domain.TaskStatusDone)
	Expect(errors.Is(err, domain.ErrTaskNotFound)).To(BeTrue())

	tasks, _ := s.Store.Tasks().ListByOwner(s.ctx, "u1")
	Expect(tasks[0].Status).To(Equal(domain.TaskStatusPending))
}

func (s *StoreSuite) TestUnknownAndMalformedIDs() {
	for _, id := range []string{s.MissingID, "not-an-id", ""} {
		_, err := s.Store.Tasks().UpdateStatus(s.ctx, "u1", id, domain.TaskStatusDone)
		Expect(errors.Is(err, domain.ErrTaskNotFound)).To(BeTrue(), id)

		_, err = s.Store.Tasks().ToggleStatus(s.ctx, "u1", id)
		Expect(errors.Is(err, domain.ErrTaskNotFound)).To(BeTrue(), id)

		err = s.Store.Tasks().Delete(s.ctx, "u1", id)
		Expect(errors.Is(err, domain.ErrTaskNotFound)).To(BeTrue(), id)
	}
}

func (s *StoreSuite) TestToggleStatus() {
	task := s.createTask("u1", "task", time.Now().UTC())

	toggled, err := s.Store.Tasks().ToggleStatus(s.ctx, "u1", task.ID)
	Expect(err).ToNot(HaveOccurred())
	Expect(toggled.Status).To(Equal(domain.TaskStatusDone))

	toggled, err = s.Store.Tasks().ToggleStatus(s.ctx, "u1", task.ID)
	Expect(err).ToNot(HaveOccurred())
	Expect(toggled.Status).To(Equal(domain.TaskStatusPending))
}

func (s *StoreSuite) TestConcurrentTogglesAreSerialised() {
	task := s.createTask("u1", "task", time.Now().UTC())

	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()
			s.Store.Tasks().ToggleStatus(s.ctx, "u1", task.ID)
		}()
	}

	wg.Wait()

	tasks, err := s.Store.Tasks().ListByOwner(s.ctx, "u1")

	Expect(err).ToNot(HaveOccurred())
	Expect(tasks[0].Status).To(Equal(domain.TaskStatusPending))
}

func (s *StoreSuite) TestDelete() {
	task := s.createTask("u1", "task", time.Now().UTC())

	Expect(errors.Is(s.Store.Tasks().Delete(s.ctx, "u2", task.ID), domain.ErrTaskNotFound)).To(BeTrue())
	Expect(s.Store.Tasks().Delete(s.ctx, "u1", task.ID)).To(Succeed())
	Expect(errors.Is(s.Store.Tasks().Delete(s.ctx, "u1", task.ID), domain.ErrTaskNotFound)).To(BeTrue())

	tasks, _ := s.Store.Tasks().ListByOwner(s.ctx, "u1")
	Expect(tasks).To(BeEmpty())
}

func (s *StoreSuite) TestUsers() {
	users := s.Store.Users()

	created, err := users.Create(s.ctx, factory.NewUser[domain.User](map[string]any{
		"Name":  "Jane",
		"Email": "jane@example.com",
	}))
	Expect(err).ToNot(HaveOccurred())
	Expect(created.ID).ToNot(BeEmpty())

	byEmail, err := users.GetByEmail(s.ctx, "jane@example.com")
	Expect(err).ToNot(HaveOccurred())
	Expect(byEmail.ID).To(Equal(created.ID))
	Expect(byEmail.EncryptedPassword).To(Equal(created.EncryptedPassword))

	byID, err := users.GetByID(s.ctx, created.ID)
	Expect(err).ToNot(HaveOccurred())
	Expect(byID.Email).To(Equal("jane@example.com"))

	_, err = users.Create(s.ctx, factory.NewUser[domain.User](map[string]any{
		"Name":  "Jane again",
		"Email": "jane@example.com",
	}))
	Expect(errors.Is(err, domain.ErrUserAlreadyExists)).To(BeTrue())

	_, err = users.GetByEmail(s.ctx, "missing@example.com")
	Expect(errors.Is(err, domain.ErrUserNotFound)).To(BeTrue())

	for _, id := range []string{s.MissingID, "not-an-id"} {
		_, err = users.GetByID(s.ctx, id)
		Expect(errors.Is(err, domain.ErrUserNotFound)).To(BeTrue(), id)
	}
}
