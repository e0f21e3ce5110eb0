package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskExtractSite = "extraction.site"

const TaskIngestRun = "extraction.ingest_run"

// ExtractSitePayload queues extraction over a single scraped site directory.
type ExtractSitePayload struct {
	SiteDir string `json:"siteDir"`
	SiteURL string `json:"siteUrl"`
	OwnerID string `json:"ownerId,omitempty"`
}

// IngestRunPayload queues a full walk of a scraping data directory.
type IngestRunPayload struct {
	Root string `json:"root"`
}

func NewExtractSiteTask(payload ExtractSitePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskExtractSite, data), nil
}

func ParseExtractSitePayload(task *asynq.Task) (ExtractSitePayload, error) {
	var payload ExtractSitePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return ExtractSitePayload{}, err
	}
	return payload, nil
}

func NewIngestRunTask(payload IngestRunPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskIngestRun, data), nil
}

func ParseIngestRunPayload(task *asynq.Task) (IngestRunPayload, error) {
	var payload IngestRunPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return IngestRunPayload{}, err
	}
	return payload, nil
}
