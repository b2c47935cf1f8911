package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient("test-key")
	client.baseURL = server.URL
	return client
}

func respond(t *testing.T, w http.ResponseWriter, body string) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	_, err := w.Write([]byte(body))
	require.NoError(t, err)
}

func TestResolveCity_PrefersCityResult(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Lyon", r.URL.Query().Get("q"))
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		respond(t, w, `{"results":[
			{"components":{"_type":"road"},"geometry":{"lat":1.0,"lng":2.0}},
			{"components":{"_type":"city"},"geometry":{"lat":45.76,"lng":4.83}}
		]}`)
	})

	coords, err := client.ResolveCity(context.Background(), "Lyon")
	require.NoError(t, err)
	require.NotNil(t, coords)
	assert.Equal(t, 45.76, coords.Lat)
	assert.Equal(t, 4.83, coords.Lng)
}

func TestResolveCity_AcceptsTownResult(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		respond(t, w, `{"results":[
			{"components":{"_type":"county"},"geometry":{"lat":1.0,"lng":2.0}},
			{"components":{"_type":"town"},"geometry":{"lat":43.6,"lng":3.88}}
		]}`)
	})

	coords, err := client.ResolveCity(context.Background(), "Montpellier")
	require.NoError(t, err)
	require.NotNil(t, coords)
	assert.Equal(t, 43.6, coords.Lat)
}

func TestResolveCity_FallsBackToFirstResult(t *testing.T) {
	// No city/town typed match: the first generic result wins over
	// "unresolved".
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		respond(t, w, `{"results":[
			{"components":{"_type":"state"},"geometry":{"lat":48.85,"lng":2.35}},
			{"components":{"_type":"county"},"geometry":{"lat":9.9,"lng":9.9}}
		]}`)
	})

	coords, err := client.ResolveCity(context.Background(), "somewhere")
	require.NoError(t, err)
	require.NotNil(t, coords)
	assert.Equal(t, 48.85, coords.Lat)
	assert.Equal(t, 2.35, coords.Lng)
}

func TestResolveCity_NoResultsMeansUnresolved(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		respond(t, w, `{"results":[]}`)
	})

	coords, err := client.ResolveCity(context.Background(), "Atlantis")
	require.NoError(t, err)
	assert.Nil(t, coords)
}

func TestResolveCity_EmptyNameSkipsLookup(t *testing.T) {
	called := false
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	coords, err := client.ResolveCity(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, coords)
	assert.False(t, called)
}

func TestResolveCity_ServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.ResolveCity(context.Background(), "Lyon")
	assert.Error(t, err)
}
