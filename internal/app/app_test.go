package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadscope/internal/config"
	apierrors "leadscope/internal/errors"
	"leadscope/internal/shared/testutil"
	"leadscope/pkg/contracts/domain"
	"leadscope/pkg/contracts/events"
)

const leadsCSV = "Nombre,Correo Electrónico,Número de Teléfono,Vendedor Asignado,Fecha de la Reunión,Cerrado\n" +
	"Ana,ana@example.com,+56 9 1111 1111,Boris,2024-01-15,sí\n" +
	"Luis,not-an-email,+56 9 2222 2222,Puma,2024-02-03,no\n"

func newTestApplication(t *testing.T, mutate ...func(*config.Config)) *Application {
	t.Helper()
	cfg := config.Default()
	cfg.Server.Port = 0
	cfg.Server.ShutdownTimeout = 5 * time.Second
	for _, m := range mutate {
		m(cfg)
	}

	app, err := New(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = app.OTelProviders.Shutdown(context.Background())
	})
	return app
}

func uploadRequest(t *testing.T, target, fileName, contentType, data string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+fileName+`"`)
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write([]byte(data))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func jsonRequest(t *testing.T, target string, body any) *http.Request {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestApplication_Routes(t *testing.T) {
	app := newTestApplication(t)
	items := []domain.ClientClassification{
		testutil.Classification("Ana", "ana@example.com", testutil.WithClosed(true), testutil.WithSalesperson("Boris")),
		testutil.Classification("Luis", "luis@example.com", testutil.WithClosed(false), testutil.WithSalesperson("Puma")),
	}

	tests := []struct {
		name       string
		request    func(t *testing.T) *http.Request
		wantStatus int
		check      func(t *testing.T, rec *httptest.ResponseRecorder)
	}{
		{
			name:       "greeting",
			request:    func(*testing.T) *http.Request { return httptest.NewRequest(http.MethodGet, "/", nil) },
			wantStatus: http.StatusOK,
			check: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Equal(t, "Hello World!", rec.Body.String())
				assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
				assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
			},
		},
		{
			name:       "not ready without api key",
			request:    func(*testing.T) *http.Request { return httptest.NewRequest(http.MethodGet, "/health/ready", nil) },
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name:       "parse",
			request:    func(t *testing.T) *http.Request { return uploadRequest(t, "/csv-parser/parse", "leads.csv", "text/csv", leadsCSV) },
			wantStatus: http.StatusOK,
			check: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var res domain.CsvParseResult
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
				assert.Equal(t, 2, res.TotalRows)
				assert.Equal(t, 1, res.ValidRows)
				require.Len(t, res.Errors, 1)
				assert.Equal(t, domain.FieldCorreo, res.Errors[0].Field)
			},
		},
		{
			name:       "upload rejected",
			request:    func(t *testing.T) *http.Request { return uploadRequest(t, "/csv-parser/upload-and-classify", "leads.pdf", "application/pdf", "x") },
			wantStatus: http.StatusBadRequest,
			check: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Contains(t, rec.Body.String(), "El archivo debe tener extensión .csv")
			},
		},
		{
			name: "upload without valid rows skips classification",
			request: func(t *testing.T) *http.Request {
				return uploadRequest(t, "/csv-parser/upload-and-classify", "leads.csv", "text/csv",
					"Nombre,Correo\nLuis,not-an-email\n")
			},
			wantStatus: http.StatusOK,
			check: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Contains(t, rec.Body.String(), `"classification":null`)
			},
		},
		{
			name:       "upload classification fails without api key",
			request:    func(t *testing.T) *http.Request { return uploadRequest(t, "/csv-parser/upload-and-classify", "leads.csv", "text/csv", leadsCSV) },
			wantStatus: http.StatusBadRequest,
			check: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Contains(t, rec.Body.String(), "Error al procesar el archivo")
				assert.Contains(t, rec.Body.String(), "GEMINI_API_KEY is not set")
			},
		},
		{
			name: "classify without api key",
			request: func(t *testing.T) *http.Request {
				return jsonRequest(t, "/ai-classification/classify", map[string]any{
					"clients": []domain.ClientMeeting{testutil.Meeting("Ana", "ana@example.com")},
				})
			},
			wantStatus: http.StatusServiceUnavailable,
			check: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Contains(t, rec.Body.String(), apierrors.TypeAIUnavailable)
			},
		},
		{
			name: "three-s with no classifications",
			request: func(t *testing.T) *http.Request {
				return jsonRequest(t, "/ai-classification/three-s", map[string]any{"classifications": []any{}})
			},
			wantStatus: http.StatusBadRequest,
			check: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Contains(t, rec.Body.String(), "Classifications array cannot be empty")
			},
		},
		{
			name: "dashboard",
			request: func(t *testing.T) *http.Request {
				return jsonRequest(t, "/dashboard", map[string]any{"classifications": items})
			},
			wantStatus: http.StatusOK,
			check: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var dash domain.Dashboard
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dash))
				assert.Equal(t, 2, dash.TotalLeads)
				assert.Equal(t, 1, dash.ClosedLeads)
			},
		},
		{
			name: "csv export",
			request: func(t *testing.T) *http.Request {
				return jsonRequest(t, "/dashboard/export?format=csv", map[string]any{"classifications": items})
			},
			wantStatus: http.StatusOK,
			check: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
				assert.True(t, strings.HasPrefix(rec.Body.String(), "\ufeffNombre,"))
			},
		},
		{
			name: "sheets export not configured",
			request: func(t *testing.T) *http.Request {
				return jsonRequest(t, "/dashboard/export?format=sheets", map[string]any{"classifications": items})
			},
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name:       "unknown route",
			request:    func(*testing.T) *http.Request { return httptest.NewRequest(http.MethodGet, "/api/health", nil) },
			wantStatus: http.StatusNotFound,
			check: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Contains(t, rec.Body.String(), apierrors.TypeNotFound)
			},
		},
		{
			name:       "cors preflight",
			request: func(*testing.T) *http.Request {
				req := httptest.NewRequest(http.MethodOptions, "/dashboard", nil)
				req.Header.Set("Origin", "http://localhost:3000")
				req.Header.Set("Access-Control-Request-Method", http.MethodPost)
				return req
			},
			wantStatus: http.StatusNoContent,
			check: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			app.Router.ServeHTTP(rec, tt.request(t))

			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.check != nil {
				tt.check(t, rec)
			}
		})
	}
}

func TestApplication_Metrics(t *testing.T) {
	app := newTestApplication(t)

	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}

func TestApplication_MetricsDisabled(t *testing.T) {
	app := newTestApplication(t, func(cfg *config.Config) { cfg.Telemetry.MetricExporter = "none" })

	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestApplication_UploadPublishesProgress(t *testing.T) {
	app := newTestApplication(t)
	app.WebSocketHub.Start()
	t.Cleanup(app.WebSocketHub.Stop)

	srv := httptest.NewServer(app.Router)
	t.Cleanup(srv.Close)

	conn, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	defer conn.Close()

	read := func() events.WebSocketMessage {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		var msg events.WebSocketMessage
		require.NoError(t, conn.ReadJSON(&msg))
		return msg
	}
	require.Equal(t, events.MessageTypeConnect, read().Type)

	req := uploadRequest(t, srv.URL+"/csv-parser/upload-and-classify", "leads.csv", "text/csv", leadsCSV)
	req.RequestURI = ""
	req.Header.Set("X-Request-ID", "upload-42")
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	var types []events.MessageType
	for range 3 {
		msg := read()
		types = append(types, msg.Type)
		assert.Equal(t, "upload-42", msg.TraceID)
	}
	assert.Equal(t, []events.MessageType{
		events.MessageTypeUploadParsed,
		events.MessageTypeUploadClassifying,
		events.MessageTypeUploadFailed,
	}, types)
}

func TestApplication_StartStop(t *testing.T) {
	app := newTestApplication(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, app.Start(ctx, cancel))
	addr := app.Addr()
	require.NotNil(t, addr)

	res, err := http.Get("http://" + addr.String() + "/health/live")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	require.NoError(t, app.Stop(context.Background()))

	_, err = http.Get("http://" + addr.String() + "/health/live")
	assert.Error(t, err)
}
