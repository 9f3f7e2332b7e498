package transport

import (
	"encoding/json"
	"time"

	"github.com/unfazed-dev/n8n-go/domain"
)

// executionJSON is the engine's wire shape for a single execution, the
// "execution JSON" response named in spec §6's table.
type executionJSON struct {
	ID              string         `json:"id"`
	WorkflowID      string         `json:"workflowId"`
	WorkflowName    string         `json:"workflowName"`
	Mode            string         `json:"mode"`
	Status          string         `json:"status"`
	StartedAt       time.Time      `json:"startedAt"`
	FinishedAt      *time.Time     `json:"finishedAt,omitempty"`
	Data            map[string]any `json:"data,omitempty"`
	WaitingForInput bool           `json:"waitingForInput,omitempty"`
	WaitNodeData    *struct {
		FormTitle  string `json:"formTitle"`
		FormFields []struct {
			Name     string `json:"name"`
			Type     string `json:"type"`
			Required bool   `json:"required"`
		} `json:"formFields"`
	} `json:"waitNodeData,omitempty"`
}

func (e executionJSON) toDomain() domain.WorkflowExecution {
	exec := domain.WorkflowExecution{
		ID:              domain.ParseExecutionID(e.ID),
		WorkflowID:      e.WorkflowID,
		WorkflowName:    e.WorkflowName,
		Mode:            e.Mode,
		Status:          domain.Status(e.Status),
		StartedAt:       e.StartedAt,
		FinishedAt:      e.FinishedAt,
		Data:            e.Data,
		WaitingForInput: e.WaitingForInput,
	}
	if e.WaitNodeData != nil {
		wnd := &domain.WaitNodeData{FormTitle: e.WaitNodeData.FormTitle}
		for _, f := range e.WaitNodeData.FormFields {
			wnd.FormFields = append(wnd.FormFields, domain.WaitFormField{
				Name: f.Name, Type: f.Type, Required: f.Required,
			})
		}
		exec.WaitNodeData = wnd
	}
	return exec
}

// executionsListingJSON is the `{data:[{id, ...}]}` shape for the
// executions-listing endpoint.
type executionsListingJSON struct {
	Data []executionJSON `json:"data"`
}

// WorkflowSummary is the per-item shape of the workflows-listing endpoint
// (`{data:[{id,name,active,...}]}`, spec §6).
type WorkflowSummary struct {
	ID     string
	Name   string
	Active bool
}

type workflowSummaryJSON struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

type workflowsListingJSON struct {
	Data []workflowSummaryJSON `json:"data"`
}

// WorkflowDetail is the workflow-detail endpoint's node list (spec §6:
// `{nodes:[{type, parameters:{path,httpMethod,...}}], ...}`), kept opaque
// beyond the node type/webhook parameters a discovery helper would need.
type WorkflowDetail struct {
	Nodes []WorkflowNode
}

// WorkflowNode is one node of a workflow-detail response.
type WorkflowNode struct {
	Type       string
	Parameters map[string]any
}

type workflowNodeJSON struct {
	Type       string         `json:"type"`
	Parameters map[string]any `json:"parameters"`
}

type workflowDetailJSON struct {
	Nodes []workflowNodeJSON `json:"nodes"`
}

func decodeJSON[T any](body []byte) (T, error) {
	var v T
	if len(body) == 0 {
		return v, nil
	}
	err := json.Unmarshal(body, &v)
	return v, err
}
