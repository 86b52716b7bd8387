// Package events carries the bulk-operation lifecycle events the client
// announces to the dashboard's state layer.
package events

import "encoding/json"

// Event is implemented by every lifecycle event the client dispatches.
type Event interface {
	EventName() string
}

// BulkDeleteStarted announces an optimistic delete before the network call
// completes.
type BulkDeleteStarted struct {
	OperationID string
	ItemIDs     []string
}

func (BulkDeleteStarted) EventName() string { return "bulk.delete.started" }

// BulkUpdateStarted announces an optimistic update before the network call
// completes.
type BulkUpdateStarted struct {
	OperationID string
	ItemIDs     []string
	Data        any
}

func (BulkUpdateStarted) EventName() string { return "bulk.update.started" }

// MergeStarted announces an optimistic merge before the network call
// completes.
type MergeStarted struct {
	OperationID string
	ItemIDs     []string
}

func (MergeStarted) EventName() string { return "merge.started" }

// BulkDeleteSucceeded carries the backend response of a finished delete.
type BulkDeleteSucceeded struct {
	OperationID string
	Response    json.RawMessage
}

func (BulkDeleteSucceeded) EventName() string { return "bulk.delete.succeeded" }

// BulkUpdateSucceeded carries the backend response of a finished update.
type BulkUpdateSucceeded struct {
	OperationID string
	Response    json.RawMessage
}

func (BulkUpdateSucceeded) EventName() string { return "bulk.update.succeeded" }

// MergeSucceeded carries the backend response of a finished merge.
type MergeSucceeded struct {
	OperationID string
	Response    json.RawMessage
}

func (MergeSucceeded) EventName() string { return "merge.succeeded" }

// BulkDeleteFailed reports a failed delete.
type BulkDeleteFailed struct {
	OperationID string
	Err         error
}

func (BulkDeleteFailed) EventName() string { return "bulk.delete.failed" }

// BulkUpdateFailed reports a failed update. FailSilently tells the UI layer
// not to surface an error toast.
type BulkUpdateFailed struct {
	OperationID  string
	Err          error
	FailSilently bool
}

func (BulkUpdateFailed) EventName() string { return "bulk.update.failed" }

// MergeFailed reports a failed merge.
type MergeFailed struct {
	OperationID string
	Err         error
}

func (MergeFailed) EventName() string { return "merge.failed" }
