package web

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func Test_StatusLabel(t *testing.T) {
	testCases := []struct {
		status   int
		expected string
	}{
		{http.StatusOK, "OK"},
		{http.StatusCreated, "CREATED"},
		{http.StatusBadRequest, "BAD_REQUEST"},
		{http.StatusNotFound, "NOT_FOUND"},
		{http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
		{http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE"},
		{799, "UNKNOWN"},
	}
	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			assert.Equal(t, tc.expected, StatusLabel(tc.status))
		})
	}
}

func Test_RespondEnvelope(t *testing.T) {
	rr := httptest.NewRecorder()

	RespondEnvelope(rr, discardLogger(), http.StatusCreated, []int{1, 2})

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"code":201,"message":"CREATED","data":[1,2]}`, rr.Body.String())
}

func Test_RespondError(t *testing.T) {
	rr := httptest.NewRecorder()

	RespondError(rr, discardLogger(), http.StatusInternalServerError, "Error creating product")

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"code":500,"message":"INTERNAL_SERVER_ERROR","data":"Error creating product"}`, rr.Body.String())
}

func Test_ParseID(t *testing.T) {
	testCases := []struct {
		name         string
		pathID       string
		expectedID   int64
		expectedOk   bool
		expectedBody string
	}{
		{name: "Success - numeric id", pathID: "42", expectedID: 42, expectedOk: true},
		{
			name:         "Error - not a number",
			pathID:       "abc",
			expectedOk:   false,
			expectedBody: `{"code":400,"message":"BAD_REQUEST","data":"Invalid ID: abc"}`,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/product/"+tc.pathID, nil)
			req.SetPathValue("id", tc.pathID)
			rr := httptest.NewRecorder()

			id, ok := ParseID(rr, req, discardLogger())

			assert.Equal(t, tc.expectedOk, ok)
			assert.Equal(t, tc.expectedID, id)
			if !tc.expectedOk {
				assert.Equal(t, http.StatusBadRequest, rr.Code)
				assert.JSONEq(t, tc.expectedBody, rr.Body.String())
			}
		})
	}
}

func Test_ParseValidateGte(t *testing.T) {
	testCases := []struct {
		name         string
		query        string
		expected     int32
		expectedOk   bool
		expectedBody string
	}{
		{name: "Success - zero", query: "?count=0", expected: 0, expectedOk: true},
		{name: "Success - positive", query: "?count=15", expected: 15, expectedOk: true},
		{
			name:         "Error - missing",
			query:        "",
			expectedBody: `{"code":400,"message":"BAD_REQUEST","data":"count url parameter is required"}`,
		},
		{
			name:         "Error - negative",
			query:        "?count=-1",
			expectedBody: `{"code":400,"message":"BAD_REQUEST","data":"Invalid count number: -1"}`,
		},
		{
			name:         "Error - not a number",
			query:        "?count=many",
			expectedBody: `{"code":400,"message":"BAD_REQUEST","data":"Invalid count number: many"}`,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/product/1/checkStock"+tc.query, nil)
			rr := httptest.NewRecorder()

			value, ok := ParseValidateGte(req, rr, discardLogger(), "count", 0)

			assert.Equal(t, tc.expectedOk, ok)
			assert.Equal(t, tc.expected, value)
			if !tc.expectedOk {
				assert.JSONEq(t, tc.expectedBody, rr.Body.String())
			}
		})
	}
}

func Test_RequestIDInjector(t *testing.T) {
	var chiID string
	handler := RequestIDInjector(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		chiID = middleware.GetReqID(r.Context())
	}))

	t.Run("reuses incoming header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(middleware.RequestIDHeader, "req-1")
		rr := httptest.NewRecorder()

		handler.ServeHTTP(rr, req)

		assert.Equal(t, "req-1", chiID)
		assert.Equal(t, "req-1", rr.Header().Get(middleware.RequestIDHeader))
	})

	t.Run("generates id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rr := httptest.NewRecorder()

		handler.ServeHTTP(rr, req)

		require.NotEmpty(t, chiID)
		assert.Len(t, chiID, 36)
		assert.Equal(t, chiID, rr.Header().Get(middleware.RequestIDHeader))
	})
}

func Test_Recoverer(t *testing.T) {
	handler := Recoverer(discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"code":500,"message":"INTERNAL_SERVER_ERROR","data":"Internal Server Error"}`, rr.Body.String())
}

func Test_StructuredLogger(t *testing.T) {
	testCases := []struct {
		status        int
		expectedLevel string
	}{
		{http.StatusOK, "INFO"},
		{http.StatusNotFound, "WARN"},
		{http.StatusInternalServerError, "ERROR"},
	}
	for _, tc := range testCases {
		t.Run(StatusLabel(tc.status), func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewJSONHandler(&buf, nil))
			handler := StructuredLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
			}))

			handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/product", nil))

			var entry map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			assert.Equal(t, tc.expectedLevel, entry["level"])
			assert.Equal(t, "/product", entry["path"])
			assert.EqualValues(t, tc.status, entry["status"])
		})
	}
}

func Test_RespondJSON_Unencodable(t *testing.T) {
	rr := httptest.NewRecorder()

	RespondJSON(rr, discardLogger(), http.StatusOK, map[string]any{"bad": make(chan int)})

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"code":500,"message":"INTERNAL_SERVER_ERROR","data":"Internal Server Error"}`, rr.Body.String())
}
