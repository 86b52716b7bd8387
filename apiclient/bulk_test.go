package apiclient

import (
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dashware/go-apiclient/events"
	"github.com/dashware/go-apiclient/query"
	"github.com/dashware/go-apiclient/transport"
)

type recordedRequest struct {
	method string
	uri    string
	body   string
}

func recordingServer(t *testing.T, status int, response string) (*httptest.Server, func() []recordedRequest) {
	t.Helper()

	var mu sync.Mutex
	var reqs []recordedRequest

	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		reqs = append(reqs, recordedRequest{
			method: r.Method,
			uri:    r.URL.RequestURI(),
			body:   string(body),
		})
		mu.Unlock()
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))

	return server, func() []recordedRequest {
		mu.Lock()
		defer mu.Unlock()
		return append([]recordedRequest(nil), reqs...)
	}
}

func TestBulkUpdateScenario(t *testing.T) {
	server, requests := recordingServer(t, nethttp.StatusOK, `{"status":"resolved"}`)
	defer server.Close()

	dispatcher := &recordingDispatcher{}
	client, _ := newTestClient(t, server, func(b *Builder) {
		b.WithDispatcher(dispatcher)
	})

	done := make(chan struct{})
	_, err := client.BulkUpdate(BulkUpdateOptions{
		BulkOptions: BulkOptions{
			OrgID:    "1",
			Params:   query.Params{Filter: query.FilterByIDs([]string{"1", "2"})},
			Complete: func(*transport.Response) { close(done) },
		},
		Data: map[string]string{"status": "resolved"},
	})
	require.NoError(t, err)
	waitFor(t, done, "bulk update did not complete")

	reqs := requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, nethttp.MethodPut, reqs[0].method)
	assert.Equal(t, "/api/0/organizations/1/issues/?id=1&id=2", reqs[0].uri)
	assert.JSONEq(t, `{"status":"resolved"}`, reqs[0].body)

	evts := dispatcher.all()
	require.Len(t, evts, 2)

	started, ok := evts[0].(events.BulkUpdateStarted)
	require.True(t, ok, "first event must be the optimistic start")
	assert.Equal(t, []string{"1", "2"}, started.ItemIDs)
	assert.NotEmpty(t, started.OperationID)

	succeeded, ok := evts[1].(events.BulkUpdateSucceeded)
	require.True(t, ok, "second event must be the success")
	assert.Equal(t, started.OperationID, succeeded.OperationID)
	assert.JSONEq(t, `{"status":"resolved"}`, string(succeeded.Response))
}

func TestBulkUpdateFailureEvent(t *testing.T) {
	server, _ := recordingServer(t, nethttp.StatusBadRequest, `{"detail":"bad"}`)
	defer server.Close()

	dispatcher := &recordingDispatcher{}
	client, _ := newTestClient(t, server, func(b *Builder) {
		b.WithDispatcher(dispatcher)
	})

	var callerErr *RequestError
	done := make(chan struct{})
	_, err := client.BulkUpdate(BulkUpdateOptions{
		BulkOptions: BulkOptions{
			OrgID:    "1",
			Params:   query.Params{Filter: query.FilterByIDs([]string{"5"})},
			Error:    func(reqErr *RequestError) { callerErr = reqErr },
			Complete: func(*transport.Response) { close(done) },
		},
		Data:         map[string]string{"status": "ignored"},
		FailSilently: true,
	})
	require.NoError(t, err)
	waitFor(t, done, "bulk update did not complete")

	evts := dispatcher.all()
	require.Len(t, evts, 2)

	failed, ok := evts[1].(events.BulkUpdateFailed)
	require.True(t, ok, "second event must be the failure")
	assert.True(t, failed.FailSilently)
	require.NotNil(t, failed.Err)

	// the caller's own handler composes with the announcement
	require.NotNil(t, callerErr)
	assert.Equal(t, nethttp.StatusBadRequest, callerErr.Status)
}

func TestBulkDelete(t *testing.T) {
	server, requests := recordingServer(t, nethttp.StatusOK, `{}`)
	defer server.Close()

	dispatcher := &recordingDispatcher{}
	client, _ := newTestClient(t, server, func(b *Builder) {
		b.WithDispatcher(dispatcher)
	})

	done := make(chan struct{})
	_, err := client.BulkDelete(BulkOptions{
		OrgID:    "acme",
		Params:   query.Params{Filter: query.FilterByIDs([]string{"9"})},
		Complete: func(*transport.Response) { close(done) },
	})
	require.NoError(t, err)
	waitFor(t, done, "bulk delete did not complete")

	reqs := requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, nethttp.MethodDelete, reqs[0].method)
	assert.Equal(t, "/api/0/organizations/acme/issues/?id=9", reqs[0].uri)
	assert.Empty(t, reqs[0].body, "delete carries no payload")

	evts := dispatcher.all()
	require.Len(t, evts, 2)
	assert.IsType(t, events.BulkDeleteStarted{}, evts[0])
	assert.IsType(t, events.BulkDeleteSucceeded{}, evts[1])
}

func TestMergeCarriesMarkerPayload(t *testing.T) {
	server, requests := recordingServer(t, nethttp.StatusOK, `{"merged":true}`)
	defer server.Close()

	dispatcher := &recordingDispatcher{}
	client, _ := newTestClient(t, server, func(b *Builder) {
		b.WithDispatcher(dispatcher)
	})

	done := make(chan struct{})
	_, err := client.Merge(BulkOptions{
		OrgID:    "acme",
		Params:   query.Params{Filter: query.FilterByIDs([]string{"1", "2", "3"})},
		Complete: func(*transport.Response) { close(done) },
	})
	require.NoError(t, err)
	waitFor(t, done, "merge did not complete")

	reqs := requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, nethttp.MethodPut, reqs[0].method)
	assert.JSONEq(t, `{"merge":1}`, reqs[0].body)

	evts := dispatcher.all()
	require.Len(t, evts, 2)
	started, ok := evts[0].(events.MergeStarted)
	require.True(t, ok)
	assert.Equal(t, []string{"1", "2", "3"}, started.ItemIDs)
	assert.IsType(t, events.MergeSucceeded{}, evts[1])
}

func TestMergeFailureEvent(t *testing.T) {
	server, _ := recordingServer(t, nethttp.StatusInternalServerError, `{}`)
	defer server.Close()

	dispatcher := &recordingDispatcher{}
	client, _ := newTestClient(t, server, func(b *Builder) {
		b.WithDispatcher(dispatcher)
	})

	done := make(chan struct{})
	_, err := client.Merge(BulkOptions{
		OrgID:    "acme",
		Params:   query.Params{Filter: query.FilterByIDs([]string{"1"})},
		Complete: func(*transport.Response) { close(done) },
	})
	require.NoError(t, err)
	waitFor(t, done, "merge did not complete")

	evts := dispatcher.all()
	require.Len(t, evts, 2)
	assert.IsType(t, events.MergeFailed{}, evts[1])
}

func TestBulkProjectScopedPath(t *testing.T) {
	server, requests := recordingServer(t, nethttp.StatusOK, `{}`)
	defer server.Close()

	client, _ := newTestClient(t, server, nil)

	done := make(chan struct{})
	_, err := client.BulkDelete(BulkOptions{
		OrgID:     "acme",
		ProjectID: "backend",
		Params:    query.Params{Filter: query.FilterByIDs([]string{"4"})},
		Complete:  func(*transport.Response) { close(done) },
	})
	require.NoError(t, err)
	waitFor(t, done, "bulk delete did not complete")

	reqs := requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "/api/0/projects/acme/backend/issues/?id=4", reqs[0].uri)
}

func TestBulkUpdateByQueryFilter(t *testing.T) {
	server, requests := recordingServer(t, nethttp.StatusOK, `{}`)
	defer server.Close()

	client, _ := newTestClient(t, server, nil)

	period := "14d"
	done := make(chan struct{})
	_, err := client.BulkUpdate(BulkUpdateOptions{
		BulkOptions: BulkOptions{
			OrgID: "acme",
			Params: query.Params{
				Filter: query.FilterByQuery("is:unresolved"),
				Period: &period,
			},
			Complete: func(*transport.Response) { close(done) },
		},
		Data: map[string]string{"status": "resolved"},
	})
	require.NoError(t, err)
	waitFor(t, done, "bulk update did not complete")

	reqs := requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "/api/0/organizations/acme/issues/?query=is%3Aunresolved&statsPeriod=14d", reqs[0].uri)
}

func TestCollectionPath(t *testing.T) {
	assert.Equal(t, "/organizations/1/issues/", collectionPath("1", ""))
	assert.Equal(t, "/projects/1/p/issues/", collectionPath("1", "p"))
}
