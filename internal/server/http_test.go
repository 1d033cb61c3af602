package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/kennel/internal/catalog"
	"github.com/mithrel/kennel/internal/db"
	"github.com/mithrel/kennel/internal/dogs"
	"github.com/mithrel/kennel/internal/testutil"
	"github.com/mithrel/kennel/pkg/api"
)

const token = "s3cret"

func newTestServer(t *testing.T) (*httptest.Server, *testutil.Remote, *catalog.Session) {
	t.Helper()
	remote := testutil.NewRemote(
		testutil.RemoteDog(1, "Al"),
		testutil.RemoteDog(2, "Bo", testutil.WithBreeds("Beagle"), testutil.WithGender(api.GenderMale)),
	)
	cat := catalog.New(catalog.Options{Store: db.NewMemStore(), Remote: remote})
	require.NoError(t, cat.Load(context.Background()))
	ts := httptest.NewServer(New(Options{Catalog: cat, Token: token}).Router())
	t.Cleanup(ts.Close)
	return ts, remote, cat
}

func do(t *testing.T, method, url string, body any, header ...string) (*http.Response, []byte) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, url, rd)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, out
}

func names(t *testing.T, body []byte) []string {
	t.Helper()
	var list []dogs.Dog
	require.NoError(t, json.Unmarshal(body, &list))
	out := make([]string, len(list))
	for i, d := range list {
		out[i] = d.Name
	}
	return out
}

func TestHealthzSkipsAuth(t *testing.T) {
	ts, _, _ := newTestServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestBearerAuth(t *testing.T) {
	ts, _, _ := newTestServer(t)
	resp, err := http.Get(ts.URL + "/v1/dogs")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = do(t, http.MethodGet, ts.URL+"/v1/dogs", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequestID(t *testing.T) {
	ts, _, _ := newTestServer(t)
	resp, _ := do(t, http.MethodGet, ts.URL+"/v1/stats", nil)
	_, err := uuid.Parse(resp.Header.Get(requestIDHeader))
	assert.NoError(t, err)

	id := uuid.NewString()
	resp, _ = do(t, http.MethodGet, ts.URL+"/v1/stats", nil, requestIDHeader, id)
	assert.Equal(t, id, resp.Header.Get(requestIDHeader))
}

func TestListDogsIsStateless(t *testing.T) {
	ts, _, cat := newTestServer(t)

	_, body := do(t, http.MethodGet, ts.URL+"/v1/dogs", nil)
	assert.Equal(t, []string{"Al", "Bo"}, names(t, body))

	_, body = do(t, http.MethodGet, ts.URL+"/v1/dogs?gender=m", nil)
	assert.Equal(t, []string{"Bo"}, names(t, body))

	_, body = do(t, http.MethodGet, ts.URL+"/v1/dogs?breed=Beagle,Labrador&sort=name:desc", nil)
	assert.Equal(t, []string{"Bo", "Al"}, names(t, body))

	_, body = do(t, http.MethodGet, ts.URL+"/v1/dogs?name=zz", nil)
	assert.Equal(t, "[]\n", string(body))

	assert.Empty(t, cat.Filters())
}

func TestListDogsRejectsBadQuery(t *testing.T) {
	ts, _, _ := newTestServer(t)
	for _, q := range []string{"gender=x", "available=maybe", "sort=color"} {
		resp, body := do(t, http.MethodGet, ts.URL+"/v1/dogs?"+q, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, q)
		var e errorResponse
		require.NoError(t, json.Unmarshal(body, &e))
		assert.NotEmpty(t, e.RequestID)
	}
}

func TestETag(t *testing.T) {
	ts, _, _ := newTestServer(t)
	resp, _ := do(t, http.MethodGet, ts.URL+"/v1/facets", nil)
	etag := resp.Header.Get("ETag")
	require.NotEmpty(t, etag)

	resp, body := do(t, http.MethodGet, ts.URL+"/v1/facets", nil, "If-None-Match", etag)
	assert.Equal(t, http.StatusNotModified, resp.StatusCode)
	assert.Empty(t, body)

	do(t, http.MethodPost, ts.URL+"/v1/dogs/1/favorite", nil)
	resp, _ = do(t, http.MethodGet, ts.URL+"/v1/facets", nil, "If-None-Match", etag)
	assert.Equal(t, http.StatusOK, resp.StatusCode, "favorite count changed")
}

func TestDogMutations(t *testing.T) {
	ts, _, _ := newTestServer(t)

	resp, body := do(t, http.MethodPost, ts.URL+"/v1/dogs/2/favorite", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var d dogs.Dog
	require.NoError(t, json.Unmarshal(body, &d))
	assert.True(t, d.IsFavorite)

	_, body = do(t, http.MethodGet, ts.URL+"/v1/dogs?favorite=true", nil)
	assert.Equal(t, []string{"Bo"}, names(t, body))

	resp, body = do(t, http.MethodPost, ts.URL+"/v1/dogs/1/seen", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &d))
	assert.False(t, d.IsNew)

	resp, _ = do(t, http.MethodDelete, ts.URL+"/v1/dogs/2", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	_, body = do(t, http.MethodGet, ts.URL+"/v1/dogs/2", nil)
	require.NoError(t, json.Unmarshal(body, &d))
	assert.False(t, d.IsFavorite)

	resp, _ = do(t, http.MethodGet, ts.URL+"/v1/dogs/99", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp, _ = do(t, http.MethodDelete, ts.URL+"/v1/dogs/99", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSortingEndpoints(t *testing.T) {
	ts, _, _ := newTestServer(t)
	sorting := func(body []byte) []api.SortingValue {
		var out []api.SortingValue
		require.NoError(t, json.Unmarshal(body, &out))
		return out
	}

	_, body := do(t, http.MethodGet, ts.URL+"/v1/sorting", nil)
	assert.Equal(t, api.DefaultSorting, sorting(body))

	resp, _ := do(t, http.MethodPost, ts.URL+"/v1/sorting", sortRuleRequest{Key: "name", Direction: "desc"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, _ = do(t, http.MethodPost, ts.URL+"/v1/sorting", sortRuleRequest{Key: "isAvailable"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = do(t, http.MethodPost, ts.URL+"/v1/sorting", sortRuleRequest{Key: "age"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, api.SortingValue{Key: "age", Direction: api.SortAsc}, sorting(body)[2])

	resp, body = do(t, http.MethodPut, ts.URL+"/v1/sorting/age", sortRuleRequest{Key: "weight", Direction: "desc"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, api.SortingValue{Key: "weight", Direction: api.SortDesc}, sorting(body)[2])

	resp, _ = do(t, http.MethodDelete, ts.URL+"/v1/sorting/gender", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = do(t, http.MethodDelete, ts.URL+"/v1/sorting/isNew", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, sorting(body), 2)

	_, body = do(t, http.MethodDelete, ts.URL+"/v1/sorting", nil)
	assert.Equal(t, api.DefaultSorting, sorting(body))
}

func TestReload(t *testing.T) {
	ts, remote, _ := newTestServer(t)
	remote.SetListing(testutil.RemoteDog(3, "Cy"))

	resp, body := do(t, http.MethodPost, ts.URL+"/v1/reload", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var st catalog.Stats
	require.NoError(t, json.Unmarshal(body, &st))
	assert.Equal(t, 1, st.Total)

	remote.Fail(assert.AnError)
	resp, _ = do(t, http.MethodPost, ts.URL+"/v1/reload", nil)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestServeRefreshesAndStops(t *testing.T) {
	remote := testutil.NewRemote(testutil.RemoteDog(1, "Al"))
	cat := catalog.New(catalog.Options{Store: db.NewMemStore(), Remote: remote})
	var reloads atomic.Int32
	srv := New(Options{
		Catalog:      cat,
		RefreshEvery: 5 * time.Millisecond,
		Reload: func(ctx context.Context) error {
			reloads.Add(1)
			return cat.Load(ctx)
		},
	})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	assert.Eventually(t, func() bool { return reloads.Load() >= 2 }, time.Second, time.Millisecond)

	resp, err := http.Get("http://" + ln.Addr().String() + "/v1/stats")
	require.NoError(t, err)
	b, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.True(t, strings.Contains(string(b), `"total":1`), string(b))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
}
