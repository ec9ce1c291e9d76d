package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

// TaskIntelExtract runs signal extraction for one domain out of band.
const TaskIntelExtract = "intel.extract"

// IntelExtractPayload identifies the domain to extract.
type IntelExtractPayload struct {
	Domain string `json:"domain"`
}

func NewIntelExtractTask(payload IntelExtractPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskIntelExtract, data), nil
}

func ParseIntelExtractPayload(task *asynq.Task) (IntelExtractPayload, error) {
	var payload IntelExtractPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return IntelExtractPayload{}, err
	}
	return payload, nil
}
