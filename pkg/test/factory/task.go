package factory

import (
	"time"

	fab "github.com/Goldziher/fabricator"

	"taskboard/internal/core/domain"
)

func NewTask(customData ...map[string]any) domain.Task {
	instance := fab.New(domain.Task{})
	now := time.Now().UTC()

	data := map[string]any{
		"Title":     "Task",
		"Status":    domain.TaskStatusPending,
		"UserID":    domain.AnonymousOwner,
		"CreatedAt": now,
		"UpdatedAt": now,
	}

	for _, custom := range customData {
		for key, value := range custom {
			data[key] = value
		}
	}

	return instance.Build(data)
}
