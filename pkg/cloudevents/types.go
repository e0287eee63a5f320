package cloudevents

import "time"

// Event types published by the dispatch service
const (
	PalletsAssigned = "wms.tarima.pallets-assigned"
	ReleaseCreated  = "wms.tarima.release-created"
	ReleaseFailed   = "wms.tarima.release-failed"
)

// SourceDispatch is the CloudEvents source of every event this service emits
const SourceDispatch = "/wms/tarima-dispatch"

// WMSCloudEvent represents a CloudEvents v1.0 compliant event
type WMSCloudEvent struct {
	SpecVersion     string      `json:"specversion"`
	Type            string      `json:"type"`
	Source          string      `json:"source"`
	Subject         string      `json:"subject,omitempty"`
	ID              string      `json:"id"`
	Time            time.Time   `json:"time"`
	DataContentType string      `json:"datacontenttype"`
	Data            interface{} `json:"data"`

	CorrelationID string `json:"wmscorrelationid,omitempty"`
	WorkflowID    string `json:"wmsworkflowid,omitempty"`
	TraceParent   string `json:"traceparent,omitempty"`
}

// PalletsAssignedData is the payload of PalletsAssigned
type PalletsAssignedData struct {
	PalletIDs     []int64 `json:"palletIds"`
	GrossWeightKg float64 `json:"grossWeightKg"`
	AssignedBy    string  `json:"assignedBy"`
}

// ReleaseCreatedData is the payload of ReleaseCreated
type ReleaseCreatedData struct {
	ReleaseID     string  `json:"releaseId"`
	Name          string  `json:"name"`
	LineItems     int     `json:"lineItems"`
	Pallets       int     `json:"pallets"`
	GrossWeightKg float64 `json:"grossWeightKg"`
	CreatedBy     string  `json:"createdBy"`
}

// ReleaseFailedData is the payload of ReleaseFailed. The listed pallets are
// assigned remotely but no release references them.
type ReleaseFailedData struct {
	Name       string  `json:"name"`
	PalletIDs  []int64 `json:"palletIds"`
	StatusCode int     `json:"statusCode,omitempty"`
	Reason     string  `json:"reason"`
}
