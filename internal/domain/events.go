package domain

import "time"

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	EventType() string
	OccurredAt() time.Time
}

// PalletsAssignedEvent is published when the remote inventory accepted a status update
type PalletsAssignedEvent struct {
	PalletIDs     []int64   `json:"palletIds"`
	GrossWeightKg float64   `json:"grossWeightKg"`
	AssignedBy    string    `json:"assignedBy"`
	AssignedAt    time.Time `json:"assignedAt"`
}

func (e *PalletsAssignedEvent) EventType() string    { return "wms.tarima.pallets-assigned" }
func (e *PalletsAssignedEvent) OccurredAt() time.Time { return e.AssignedAt }

// ReleaseCreatedEvent is published when a release was created for processed pallets
type ReleaseCreatedEvent struct {
	ReleaseID     int64     `json:"releaseId"`
	Name          string    `json:"name"`
	LineItems     int       `json:"lineItems"`
	Pallets       int       `json:"pallets"`
	GrossWeightKg float64   `json:"grossWeightKg"`
	CreatedBy     string    `json:"createdBy"`
	CreatedAt     time.Time `json:"createdAt"`
}

func (e *ReleaseCreatedEvent) EventType() string    { return "wms.tarima.release-created" }
func (e *ReleaseCreatedEvent) OccurredAt() time.Time { return e.CreatedAt }

// ReleaseFailedEvent is published when release creation failed after the
// pallets were already assigned
type ReleaseFailedEvent struct {
	Name       string    `json:"name"`
	PalletIDs  []int64   `json:"palletIds"`
	StatusCode int       `json:"statusCode,omitempty"`
	Reason     string    `json:"reason"`
	FailedAt   time.Time `json:"failedAt"`
}

func (e *ReleaseFailedEvent) EventType() string    { return "wms.tarima.release-failed" }
func (e *ReleaseFailedEvent) OccurredAt() time.Time { return e.FailedAt }
