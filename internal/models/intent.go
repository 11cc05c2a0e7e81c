package models

// SyncOperation enumerates the operations a data-integration plan can perform.
type SyncOperation string

const (
	SyncCreate SyncOperation = "create"
	SyncUpdate SyncOperation = "update"
	SyncDelete SyncOperation = "delete"
	SyncRead   SyncOperation = "read"
	SyncSync   SyncOperation = "sync"
)

// IntentDefinition is one entry of the active intent catalog. Definitions are
// mutated only by append (training); they are never deleted.
type IntentDefinition struct {
	Name                 string               `json:"name"`
	Description          string               `json:"description,omitempty"`
	Patterns             []string             `json:"patterns"`
	Examples             []string             `json:"examples,omitempty"`
	EntityTypes          []string             `json:"entityTypes,omitempty"`
	Action               string               `json:"action"`
	WorkflowID           string               `json:"workflowId,omitempty"`
	RequiresConfirmation bool                 `json:"requiresConfirmation,omitempty"`
	Platforms            []string             `json:"platforms,omitempty"`
	CrossPlatform        bool                 `json:"crossPlatform,omitempty"`
	DataIntegration      *DataIntegrationPlan `json:"dataIntegration,omitempty"`
}

// DataIntegrationPlan describes how data moves between platforms for a
// cross-platform action. Platform lists are ordered; EntityMapping keys
// (source fields) are distinct by construction of the map type.
type DataIntegrationPlan struct {
	SourcePlatforms     []string          `json:"sourcePlatforms"`
	TargetPlatforms     []string          `json:"targetPlatforms"`
	SyncOperation       SyncOperation     `json:"syncOperation"`
	EntityMapping       map[string]string `json:"entityMapping,omitempty"`
	TransformationRules []string          `json:"transformationRules,omitempty"`
}

// Clone returns a deep copy so catalog templates are never shared with
// per-request results.
func (p *DataIntegrationPlan) Clone() *DataIntegrationPlan {
	if p == nil {
		return nil
	}
	cp := &DataIntegrationPlan{
		SourcePlatforms:     append([]string(nil), p.SourcePlatforms...),
		TargetPlatforms:     append([]string(nil), p.TargetPlatforms...),
		SyncOperation:       p.SyncOperation,
		TransformationRules: append([]string(nil), p.TransformationRules...),
	}
	if p.EntityMapping != nil {
		cp.EntityMapping = make(map[string]string, len(p.EntityMapping))
		for k, v := range p.EntityMapping {
			cp.EntityMapping[k] = v
		}
	}
	return cp
}
