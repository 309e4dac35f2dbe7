package logger

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New("svc", "loud", "")

	assert.Error(t, err)
}

func TestLogger_PushesToLoki(t *testing.T) {
	RegisterTestingT(t)

	received := make(chan LokiLogEntry, 1)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)

		var entry LokiLogEntry
		json.Unmarshal(body, &entry)

		Expect(r.URL.Path).To(Equal("/loki/api/v1/push"))
		received <- entry
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	l, err := New("taskboard", "info", server.URL)
	assert.NoError(t, err)

	l.Info(context.Background(), "Task created", zap.String("task_id", "t1"))

	var entry LokiLogEntry
	Eventually(received, time.Second).Should(Receive(&entry))

	Expect(entry.Streams).To(HaveLen(1))
	Expect(entry.Streams[0].Stream["service"]).To(Equal("taskboard"))

	var line map[string]any
	json.Unmarshal([]byte(entry.Streams[0].Values[0][1]), &line)

	Expect(line["message"]).To(Equal("Task created"))
	Expect(line["task_id"]).To(Equal("t1"))
	Expect(line["level"]).To(Equal("info"))
}

func TestLogger_SkipsLokiBelowLevel(t *testing.T) {
	RegisterTestingT(t)

	calls := make(chan struct{}, 1)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls <- struct{}{}
	}))
	defer server.Close()

	l, _ := New("taskboard", "error", server.URL)
	l.Info(context.Background(), "ignored")

	Consistently(calls, 200*time.Millisecond).ShouldNot(Receive())
}

func TestNewNop(t *testing.T) {
	l := NewNop()

	assert.NotPanics(t, func() {
		l.Error(context.Background(), "nothing")
		zl := l.Zerolog("debug")
		zl.Info().Msg("through zap")
	})
}
