package api

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v5"
	"github.com/samcharles93/peaktable/pkg/peaktable"
)

var samplePeaks = []peaktable.Record{
	{X: 1.0, Y: 2.0, Z: 3.0, R: 0.5, I: 7},
	{X: 4.0, Y: 5.0, Z: 6.0, R: 1.5, I: 8},
}

func newTestEcho(cfg Config) *echo.Echo {
	server := NewServer(NewTableStore(), cfg)
	e := echo.New()
	server.Register(e)
	return e
}

func encodeTable(t *testing.T, recs []peaktable.Record, opts peaktable.EncodeOptions) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := peaktable.Encode(&buf, recs, opts); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

func do(t *testing.T, e *echo.Echo, method, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEOctetStream)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v body=%s", err, rec.Body.String())
	}
	return out
}

func TestUploadGetDataDeleteLifecycle(t *testing.T) {
	t.Parallel()

	e := newTestEcho(Config{})
	createRec := do(t, e, http.MethodPost, "/v1/peak-tables?name=sample", encodeTable(t, samplePeaks, peaktable.EncodeOptions{}))
	if createRec.Code != http.StatusCreated {
		t.Fatalf("create status: got %d body=%s", createRec.Code, createRec.Body.String())
	}
	created := decode[TableDetail](t, createRec)
	if !strings.HasPrefix(created.ID, "pt_") {
		t.Fatalf("unexpected id %q", created.ID)
	}
	if created.Name != "sample" || created.NumPoints != 2 || created.DeclaredCount != 2 || created.Truncated {
		t.Fatalf("unexpected meta: %+v", created.TableMeta)
	}
	if created.Layout == nil || created.Layout.ChunkCount != 2 {
		t.Fatalf("unexpected layout: %+v", created.Layout)
	}
	if created.Statistics == nil || created.Statistics.X.Mean != 2.5 || created.Statistics.I.Mean != 7.5 {
		t.Fatalf("unexpected statistics: %+v", created.Statistics)
	}
	if len(created.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", created.Warnings)
	}

	getRec := do(t, e, http.MethodGet, "/v1/peak-tables/"+created.ID, nil)
	if getRec.Code != http.StatusOK {
		t.Fatalf("get status: got %d", getRec.Code)
	}

	dataRec := do(t, e, http.MethodGet, "/v1/peak-tables/"+created.ID+"/data", nil)
	if dataRec.Code != http.StatusOK {
		t.Fatalf("data status: got %d", dataRec.Code)
	}
	data := decode[TableData](t, dataRec)
	if len(data.DataPoints) != 2 || data.DataPoints[1] != samplePeaks[1] {
		t.Fatalf("unexpected data points: %+v", data.DataPoints)
	}
	if data.Metadata.NumPoints != 2 || data.Metadata.FileSize != peaktable.EncodedSize(2, peaktable.EncodeOptions{}) {
		t.Fatalf("unexpected metadata: %+v", data.Metadata)
	}

	list := decode[TableList](t, do(t, e, http.MethodGet, "/v1/peak-tables", nil))
	if len(list.Data) != 1 || list.Data[0].ID != created.ID {
		t.Fatalf("unexpected list: %+v", list)
	}

	delRec := do(t, e, http.MethodDelete, "/v1/peak-tables/"+created.ID, nil)
	if delRec.Code != http.StatusOK {
		t.Fatalf("delete status: got %d", delRec.Code)
	}
	if got := do(t, e, http.MethodGet, "/v1/peak-tables/"+created.ID, nil).Code; got != http.StatusNotFound {
		t.Fatalf("get after delete: got %d want 404", got)
	}
	if got := do(t, e, http.MethodDelete, "/v1/peak-tables/"+created.ID, nil).Code; got != http.StatusNotFound {
		t.Fatalf("second delete: got %d want 404", got)
	}
}

func TestUploadFewerChunksThanDeclared(t *testing.T) {
	t.Parallel()

	declared := uint64(5)
	e := newTestEcho(Config{})
	rec := do(t, e, http.MethodPost, "/v1/peak-tables", encodeTable(t, samplePeaks, peaktable.EncodeOptions{DeclaredCount: &declared}))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status: got %d body=%s", rec.Code, rec.Body.String())
	}
	got := decode[TableDetail](t, rec)
	if got.NumPoints != 2 || got.DeclaredCount != 5 || !got.Truncated {
		t.Fatalf("unexpected meta: %+v", got.TableMeta)
	}
	if len(got.Warnings) == 0 {
		t.Fatalf("expected warnings for missing chunks")
	}
}

func TestUploadTruncatedHeader(t *testing.T) {
	t.Parallel()

	e := newTestEcho(Config{})
	rec := do(t, e, http.MethodPost, "/v1/peak-tables", []byte("short"))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status: got %d want 422", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "truncated_header") {
		t.Fatalf("expected truncated_header code, got %s", rec.Body.String())
	}
	if got := do(t, e, http.MethodPost, "/v1/peak-tables", nil).Code; got != http.StatusBadRequest {
		t.Fatalf("empty upload: got %d want 400", got)
	}
}

func TestUploadShorterThanPadding(t *testing.T) {
	t.Parallel()

	e := newTestEcho(Config{})
	rec := do(t, e, http.MethodPost, "/v1/peak-tables", make([]byte, peaktable.HeaderSize))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status: got %d body=%s", rec.Code, rec.Body.String())
	}
	got := decode[TableDetail](t, rec)
	if got.Layout != nil {
		t.Fatalf("layout should be absent for a file shorter than the padding region")
	}
	if got.Statistics != nil {
		t.Fatalf("statistics should be null for an empty table")
	}
	if len(got.Warnings) != 1 {
		t.Fatalf("expected one size warning, got %v", got.Warnings)
	}
}

func TestUploadTooLarge(t *testing.T) {
	t.Parallel()

	e := newTestEcho(Config{MaxUploadBytes: 400})
	rec := do(t, e, http.MethodPost, "/v1/peak-tables", encodeTable(t, samplePeaks, peaktable.EncodeOptions{}))
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status: got %d want 413", rec.Code)
	}
}

func TestMetricsAndHealth(t *testing.T) {
	t.Parallel()

	e := newTestEcho(Config{})
	do(t, e, http.MethodPost, "/v1/peak-tables", encodeTable(t, samplePeaks, peaktable.EncodeOptions{}))
	do(t, e, http.MethodPost, "/v1/peak-tables", []byte{1, 2})

	metrics := do(t, e, http.MethodGet, "/metrics", nil)
	if metrics.Code != http.StatusOK {
		t.Fatalf("metrics status: got %d", metrics.Code)
	}
	body := metrics.Body.String()
	for _, want := range []string{
		"peaktable_tables_parsed_total 1",
		"peaktable_records_decoded_total 2",
		`peaktable_parse_failures_total{reason="truncated_header"} 1`,
		"peaktable_tables_stored 1",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in metrics, got:\n%s", want, body)
		}
	}

	health := decode[map[string]any](t, do(t, e, http.MethodGet, "/health", nil))
	if health["status"] != "ok" || health["tables"] != float64(1) {
		t.Fatalf("unexpected health: %v", health)
	}
}

func TestUploadNonFiniteValues(t *testing.T) {
	t.Parallel()

	e := newTestEcho(Config{})
	recs := []peaktable.Record{{X: math.NaN(), Y: 2, Z: 3, R: math.Inf(1), I: 1}}
	createRec := do(t, e, http.MethodPost, "/v1/peak-tables", encodeTable(t, recs, peaktable.EncodeOptions{}))
	if createRec.Code != http.StatusCreated {
		t.Fatalf("create status: got %d body=%s", createRec.Code, createRec.Body.String())
	}
	if !strings.Contains(createRec.Body.String(), `"max":null`) {
		t.Fatalf("expected non-finite statistics as null, got %s", createRec.Body.String())
	}
	created := decode[TableDetail](t, createRec)

	dataRec := do(t, e, http.MethodGet, "/v1/peak-tables/"+created.ID+"/data", nil)
	if dataRec.Code != http.StatusOK {
		t.Fatalf("data status: got %d body=%s", dataRec.Code, dataRec.Body.String())
	}
	if !strings.Contains(dataRec.Body.String(), `{"x":null,"y":2,"z":3,"r":null,"i":1}`) {
		t.Fatalf("unexpected data points: %s", dataRec.Body.String())
	}
	if got := do(t, e, http.MethodGet, "/v1/peak-tables/"+created.ID, nil).Code; got != http.StatusOK {
		t.Fatalf("get status: got %d", got)
	}
	list := decode[TableList](t, do(t, e, http.MethodGet, "/v1/peak-tables", nil))
	if len(list.Data) != 1 {
		t.Fatalf("expected one stored table, got %+v", list)
	}
}
