package scheduler

import (
	"context"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
)

type stubConfig struct {
	redisURL string
}

func (s stubConfig) GetRedisURL() string       { return s.redisURL }
func (s stubConfig) GetRedisTLSInsecure() bool { return false }
func (s stubConfig) GetAsynqQueueName() string { return "intel" }
func (s stubConfig) GetAsynqConcurrency() int  { return 2 }

func TestNewClientWithoutRedisURL(t *testing.T) {
	if _, err := NewClient(stubConfig{}); err == nil {
		t.Fatal("expected error without redis url")
	}
}

func TestEnqueueExtract(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewClient(stubConfig{redisURL: "redis://" + mr.Addr()})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	defer client.Close()

	if err := client.EnqueueExtract(context.Background(), "acme.io"); err != nil {
		t.Fatalf("EnqueueExtract: %v", err)
	}

	var queued bool
	for _, key := range mr.Keys() {
		if strings.Contains(key, "asynq") && strings.Contains(key, "intel") {
			queued = true
			break
		}
	}
	if !queued {
		t.Fatalf("no task queued, redis keys: %v", mr.Keys())
	}
}

func TestIntelExtractTaskRoundTrip(t *testing.T) {
	task, err := NewIntelExtractTask(IntelExtractPayload{Domain: "acme.io"})
	if err != nil {
		t.Fatalf("NewIntelExtractTask: %v", err)
	}
	if task.Type() != TaskIntelExtract {
		t.Fatalf("task type = %q", task.Type())
	}

	payload, err := ParseIntelExtractPayload(task)
	if err != nil {
		t.Fatalf("ParseIntelExtractPayload: %v", err)
	}
	if payload.Domain != "acme.io" {
		t.Fatalf("domain = %q", payload.Domain)
	}
}
