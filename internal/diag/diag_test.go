package diag

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cassgate/cassgate/internal/handle"
)

type fakeWorkers struct {
	workers   int
	inFlight  int
	completed uint64
}

func (f fakeWorkers) Workers() int      { return f.workers }
func (f fakeWorkers) InFlight() int     { return f.inFlight }
func (f fakeWorkers) Completed() uint64 { return f.completed }

func TestHealthz(t *testing.T) {
	h := Handler(handle.NewRegistry(), fakeWorkers{})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestHandles(t *testing.T) {
	reg := handle.NewRegistry()
	reg.New(handle.KindStatement, "s1")
	reg.New(handle.KindStatement, "s2")
	reg.NewShared(handle.KindSession, "sess")

	h := Handler(reg, fakeWorkers{})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/handles", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Total  int            `json:"total"`
		ByKind map[string]int `json:"by_kind"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 3, body.Total)
	assert.Equal(t, 2, body.ByKind["statement"])
	assert.Equal(t, 1, body.ByKind["session"])
}

func TestRuntime(t *testing.T) {
	h := Handler(handle.NewRegistry(), fakeWorkers{workers: 4, inFlight: 2, completed: 99})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/runtime", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Workers   int    `json:"workers"`
		InFlight  int    `json:"in_flight"`
		Completed uint64 `json:"completed"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 4, body.Workers)
	assert.Equal(t, 2, body.InFlight)
	assert.Equal(t, uint64(99), body.Completed)
}
