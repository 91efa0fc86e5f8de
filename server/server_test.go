package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tayyibgondal/atc-ndc-bidirectional-conversion/config"
	"github.com/tayyibgondal/atc-ndc-bidirectional-conversion/converter"
	"github.com/tayyibgondal/atc-ndc-bidirectional-conversion/data"
	"github.com/tayyibgondal/atc-ndc-bidirectional-conversion/logging"
	"github.com/tayyibgondal/atc-ndc-bidirectional-conversion/mappings"
)

type stubConverter struct{}

func (stubConverter) ATCToNDC(ctx context.Context, atcCode string, includeRelated bool) converter.ATCRecord {
	return converter.ATCRecord{ATCCode: "C10AA07", NDCCodes: []string{}}
}

func (stubConverter) NDCToATC(ctx context.Context, ndcCode string) converter.NDCRecord {
	return converter.NDCRecord{NDCCode: "00310075190"}
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	logging.InitLogger(t.TempDir())

	cfg := &config.Config{
		Port:           "8000",
		Address:        "127.0.0.1",
		Env:            "test",
		MaxRequestBody: 1048576,
		MaxHeaderSize:  1048576,
	}

	dc := data.NewDataContainer()
	dc.SetServerStartTime(time.Now())
	dc.UpdateData(mappings.Dataset{
		ATC: map[string]mappings.ATCEntry{
			"C10AA07": {Code: "C10AA07", Name: "rosuvastatin", Level: 5},
		},
		NDCSimple: map[string]string{},
		NDCFull:   map[string]mappings.NDCProduct{},
	})

	return NewServer(cfg, dc, stubConverter{})
}

func TestServerRoutes(t *testing.T) {
	srv := newTestServer(t)

	testCases := []struct {
		path     string
		expected int
	}{
		{"/", http.StatusOK},
		{"/convert/atc/C10AA07", http.StatusOK},
		{"/convert/ndc/0310-0751-90", http.StatusOK},
		{"/lookup/C10AA07", http.StatusOK},
		{"/health", http.StatusOK},
		{"/metrics", http.StatusOK},
		{"/nonexistent", http.StatusNotFound},
	}

	for _, tc := range testCases {
		req := httptest.NewRequest(http.MethodGet, tc.path, nil)
		req.RemoteAddr = "127.0.0.1:9999"
		rr := httptest.NewRecorder()
		srv.Router().ServeHTTP(rr, req)

		if rr.Code != tc.expected {
			t.Errorf("Expected status %d for %s, got %d", tc.expected, tc.path, rr.Code)
		}
	}
}
