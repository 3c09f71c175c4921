package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"suppliernorm/database"
	"suppliernorm/internal/config"
	"suppliernorm/normalization"
)

type stubOracle struct {
	clusterFn func(names []string) ([]normalization.OracleCluster, error)
	confirmFn func(clusters [][]string) ([]normalization.ClusterConfirmation, error)
}

func (o *stubOracle) ClusterNames(_ context.Context, names []string) ([]normalization.OracleCluster, error) {
	if o.clusterFn != nil {
		return o.clusterFn(names)
	}
	singles := make([]normalization.OracleCluster, len(names))
	for i, n := range names {
		singles[i] = normalization.OracleCluster{Canonical: n, Members: []int{i}, Confidence: "high"}
	}
	return singles, nil
}

func (o *stubOracle) ConfirmClusters(_ context.Context, clusters [][]string) ([]normalization.ClusterConfirmation, error) {
	if o.confirmFn != nil {
		return o.confirmFn(clusters)
	}
	out := make([]normalization.ClusterConfirmation, len(clusters))
	for i := range clusters {
		out[i] = normalization.ClusterConfirmation{ClusterID: i, SameCompany: true}
	}
	return out, nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Port:             "0",
		DatabasePath:     filepath.Join(t.TempDir(), "test.db"),
		Mode:             "hybrid",
		BatchSize:        50,
		ConfirmBatchSize: 10,
		MinGroupSize:     2,
		ClusterThreshold: 0.65,
		ConfirmThreshold: 0.85,
		MaxRetries:       1,
		MaxRPM:           30,
		LogLevel:         "ERROR",
	}
}

func newTestServer(t *testing.T, oracle normalization.GroupingOracle) *Server {
	t.Helper()
	cfg := testConfig(t)
	store, err := database.Open(cfg.DatabasePath)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return New(cfg, store, oracle)
}

func uploadRequest(t *testing.T, csvData string, fields map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	fw, err := mw.CreateFormFile("file", "suppliers.csv")
	require.NoError(t, err)
	_, err = fw.Write([]byte(csvData))
	require.NoError(t, err)

	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/normalize", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestNormalizeUploadAndFetch(t *testing.T) {
	srv := newTestServer(t, nil)

	csvData := "id,Supplier Name\n1,Acme Corp\n2,Acme Corporation Inc\n3,\n4,Acme Corp\n"
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, uploadRequest(t, csvData, nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp NormalizeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.RunID)
	assert.Equal(t, database.RunStatusCompleted, resp.Status)
	require.Len(t, resp.Results, 4)

	// Blank row passes through untouched.
	assert.Equal(t, normalization.MethodPassthrough, resp.Results[2].Method)
	// Duplicates share the resolved name.
	assert.Equal(t, resp.Results[0].Normalized, resp.Results[3].Normalized)

	// Run metadata.
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/runs/"+resp.RunID, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var run database.Run
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &run))
	assert.Equal(t, "suppliers.csv", run.SourceFile)
	assert.Equal(t, 4, run.TotalRows)
	assert.Equal(t, database.RunStatusCompleted, run.Status)

	// Persisted results round-trip.
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/runs/"+resp.RunID+"/results", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var fetched struct {
		Total   int                                 `json:"total"`
		Results []normalization.NormalizationResult `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fetched))
	assert.Equal(t, 4, fetched.Total)
	assert.Equal(t, resp.Results, fetched.Results)

	// Run listing includes it.
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/runs", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), resp.RunID)
}

func TestNormalizeNamedColumn(t *testing.T) {
	srv := newTestServer(t, nil)

	csvData := "code,Company\nX1,Acme Corp\n"
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, uploadRequest(t, csvData, map[string]string{"column": "Company"}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp NormalizeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "Acme Corp", resp.Results[0].Original)
}

func TestNormalizeMissingColumn(t *testing.T) {
	srv := newTestServer(t, nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, uploadRequest(t, "a,b\n1,2\n", map[string]string{"column": "Supplier"}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNormalizeMissingFile(t *testing.T) {
	srv := newTestServer(t, nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/normalize", strings.NewReader(""))
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNormalizeSemanticWithoutOracle(t *testing.T) {
	srv := newTestServer(t, nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, uploadRequest(t, "Supplier\nAcme\n", map[string]string{"mode": "semantic"}))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "AI provider")
}

func TestNormalizeSemanticWithOracle(t *testing.T) {
	oracle := &stubOracle{
		clusterFn: func(names []string) ([]normalization.OracleCluster, error) {
			members := make([]int, len(names))
			for i := range names {
				members[i] = i
			}
			return []normalization.OracleCluster{
				{Canonical: "Acme Corporation", Members: members, Confidence: "high"},
			}, nil
		},
	}
	srv := newTestServer(t, oracle)

	csvData := "Supplier\nAcme Widgets\nAcme Widgetworks\n"
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, uploadRequest(t, csvData, map[string]string{"mode": "semantic"}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp NormalizeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 2)
	assert.Equal(t, "Acme Corporation", resp.Results[0].Normalized)
	assert.Equal(t, normalization.MethodLLMCluster, resp.Results[0].Method)
	assert.Equal(t, resp.Results[0].Cluster, resp.Results[1].Cluster)
}

func TestExportCSV(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, uploadRequest(t, "Supplier\nAcme Corp\nWidget Co\n", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var resp NormalizeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/api/runs/"+resp.RunID+"/export?format=csv&view=full", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(),
		"Original Name,Normalized Name,Individual,Cluster,Confidence,Method,Row Count"))

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/api/runs/"+resp.RunID+"/export?format=excel", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "PK"), "xlsx output must be a zip")

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/api/runs/"+resp.RunID+"/export?format=pdf", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetRunNotFound(t *testing.T) {
	srv := newTestServer(t, nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/runs/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/runs/nope/export", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
