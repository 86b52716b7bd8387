package apiclient

import (
	"encoding/json"
	nethttp "net/http"

	"github.com/google/uuid"

	"github.com/dashware/go-apiclient/events"
	"github.com/dashware/go-apiclient/query"
	"github.com/dashware/go-apiclient/transport"
)

// BulkOptions targets a bulk operation at a collection of items within an
// organization, optionally scoped to one project.
type BulkOptions struct {
	OrgID     string
	ProjectID string
	Params    query.Params

	Success  SuccessFunc
	Error    ErrorFunc
	Complete CompleteFunc
}

// BulkUpdateOptions extends BulkOptions with the caller's update payload.
// FailSilently tells the UI layer not to surface the failure.
type BulkUpdateOptions struct {
	BulkOptions
	Data         any
	FailSilently bool
}

// collectionPath computes the target collection from an organization id and
// optional project id.
func collectionPath(orgID, projectID string) string {
	if projectID != "" {
		return "/projects/" + orgID + "/" + projectID + "/issues/"
	}
	return "/organizations/" + orgID + "/issues/"
}

// BulkDelete deletes the items selected by the params. A start event is
// announced optimistically before the network call; the outcome event and any
// caller callbacks both run on completion.
func (c *Client) BulkDelete(opts BulkOptions) (*Handle, error) {
	args := query.ParamsToArgs(opts.Params)
	opID := uuid.NewString()

	c.dispatcher.Dispatch(events.BulkDeleteStarted{
		OperationID: opID,
		ItemIDs:     opts.Params.Filter.IDs(),
	})

	return c.Do(collectionPath(opts.OrgID, opts.ProjectID), RequestOptions{
		Method: nethttp.MethodDelete,
		Query:  args.Values(),
		Success: chainSuccess(func(data json.RawMessage, _ *transport.Response) {
			c.dispatcher.Dispatch(events.BulkDeleteSucceeded{OperationID: opID, Response: data})
		}, opts.Success),
		Error: chainError(func(err *RequestError) {
			c.dispatcher.Dispatch(events.BulkDeleteFailed{OperationID: opID, Err: err})
		}, opts.Error),
		Complete: opts.Complete,
	})
}

// BulkUpdate applies the caller's data to the items selected by the params.
func (c *Client) BulkUpdate(opts BulkUpdateOptions) (*Handle, error) {
	args := query.ParamsToArgs(opts.Params)
	opID := uuid.NewString()

	c.dispatcher.Dispatch(events.BulkUpdateStarted{
		OperationID: opID,
		ItemIDs:     opts.Params.Filter.IDs(),
		Data:        opts.Data,
	})

	return c.Do(collectionPath(opts.OrgID, opts.ProjectID), RequestOptions{
		Method: nethttp.MethodPut,
		Data:   opts.Data,
		Query:  args.Values(),
		Success: chainSuccess(func(data json.RawMessage, _ *transport.Response) {
			c.dispatcher.Dispatch(events.BulkUpdateSucceeded{OperationID: opID, Response: data})
		}, opts.Success),
		Error: chainError(func(err *RequestError) {
			c.dispatcher.Dispatch(events.BulkUpdateFailed{
				OperationID:  opID,
				Err:          err,
				FailSilently: opts.FailSilently,
			})
		}, opts.Error),
		Complete: opts.Complete,
	})
}

// mergeMarker is the fixed payload of a merge request.
var mergeMarker = map[string]int{"merge": 1}

// Merge merges the items selected by the params into one.
func (c *Client) Merge(opts BulkOptions) (*Handle, error) {
	args := query.ParamsToArgs(opts.Params)
	opID := uuid.NewString()

	c.dispatcher.Dispatch(events.MergeStarted{
		OperationID: opID,
		ItemIDs:     opts.Params.Filter.IDs(),
	})

	return c.Do(collectionPath(opts.OrgID, opts.ProjectID), RequestOptions{
		Method: nethttp.MethodPut,
		Data:   mergeMarker,
		Query:  args.Values(),
		Success: chainSuccess(func(data json.RawMessage, _ *transport.Response) {
			c.dispatcher.Dispatch(events.MergeSucceeded{OperationID: opID, Response: data})
		}, opts.Success),
		Error: chainError(func(err *RequestError) {
			c.dispatcher.Dispatch(events.MergeFailed{OperationID: opID, Err: err})
		}, opts.Error),
		Complete: opts.Complete,
	})
}
