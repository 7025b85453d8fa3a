package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safewalk/safewalk-backend-go/internal/config"
	"github.com/safewalk/safewalk-backend-go/internal/handler"
	"github.com/safewalk/safewalk-backend-go/internal/heatmap"
	"github.com/safewalk/safewalk-backend-go/internal/repository"
	"github.com/safewalk/safewalk-backend-go/internal/scoring"
	"github.com/safewalk/safewalk-backend-go/internal/service"
)

const testSecret = "test-secret"

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		JWTSecret:        testSecret,
		GridResDegrees:   0.001,
		HalfLifeHours:    72,
		KConf:            5,
		StepMeters:       50,
		MaxNearestMeters: 300,
		DetourMeters:     200,
		Heuristic:        scoring.DefaultWeights(),
	}
	require.NoError(t, cfg.Validate())

	repo := repository.NewMemoryAuditRepository()
	scorer := scoring.NewHeuristicScorer(cfg.Heuristic)
	auditSvc := service.NewAuditService(repo, scorer, cfg.GridResDegrees)
	heatmapSvc := service.NewHeatmapService(repo, heatmap.Params{
		GridResDegrees: cfg.GridResDegrees,
		HalfLifeHours:  cfg.HalfLifeHours,
		KConf:          cfg.KConf,
		Heuristic:      cfg.Heuristic,
	})
	routeSvc := service.NewRouteService(heatmapSvc, cfg.StepMeters, cfg.DetourMeters, cfg.MaxNearestMeters, cfg.GridResDegrees)

	return SetupRouter(cfg, Handlers{
		Audit:   handler.NewAuditHandler(auditSvc),
		Heatmap: handler.NewHeatmapHandler(heatmapSvc, nil),
		Route:   handler.NewRouteHandler(routeSvc),
	})
}

func signToken(t *testing.T, subject string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func do(r *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	r := newTestRouter(t)
	w := do(r, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}

func TestSubmitAuditRequiresToken(t *testing.T) {
	r := newTestRouter(t)

	w := do(r, http.MethodPost, "/api/v1/audits", "", `{"lat":12.97,"lng":77.59}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, http.MethodPost, "/api/v1/audits", "not-a-jwt", `{"lat":12.97,"lng":77.59}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSubmitAuditRejectsForeignSignature(t *testing.T) {
	r := newTestRouter(t)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "u1"})
	signed, err := token.SignedString([]byte("wrong-secret"))
	require.NoError(t, err)

	w := do(r, http.MethodPost, "/api/v1/audits", signed, `{"lat":12.97,"lng":77.59}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSubmitAndListAudits(t *testing.T) {
	r := newTestRouter(t)
	token := signToken(t, "u1")

	body := `{"lat":"12.97","lng":77.59,"time_band":"evening","lighting":4}`
	w := do(r, http.MethodPost, "/api/v1/audits", token, body)
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		Data struct {
			ID    string   `json:"id"`
			Band  string   `json:"band"`
			Score *float64 `json:"calculated_score"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotEmpty(t, created.Data.ID)
	assert.Equal(t, "evening", created.Data.Band)
	require.NotNil(t, created.Data.Score)

	w = do(r, http.MethodGet, "/api/v1/audits/mine", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), created.Data.ID)

	// Another user sees an empty list.
	w = do(r, http.MethodGet, "/api/v1/audits/mine", signToken(t, "u2"), "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":0`)
}

func TestHeatmapEndpointIsPublic(t *testing.T) {
	r := newTestRouter(t)
	token := signToken(t, "u1")

	body := `{"lat":12.97,"lng":77.59,"time_band":"evening"}`
	w := do(r, http.MethodPost, "/api/v1/audits", token, body)
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(r, http.MethodGet, "/api/v1/heatmap?band=evening", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":1`)

	w = do(r, http.MethodGet, "/api/v1/heatmap?band=morning", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":0`)
}

func TestSafeRouteEndpoint(t *testing.T) {
	r := newTestRouter(t)

	body := `{"start":[12.9701,77.5901],"end":[12.9709,77.5909]}`
	w := do(r, http.MethodPost, "/api/v1/routes/safe", "", body)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			CandidatesEvaluated int `json:"candidates_evaluated"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Data.CandidatesEvaluated)
}

func TestSafeRouteEndpointRejectsEmptyRequest(t *testing.T) {
	r := newTestRouter(t)
	w := do(r, http.MethodPost, "/api/v1/routes/safe", "", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCORSPreflight(t *testing.T) {
	r := newTestRouter(t)
	w := do(r, http.MethodOptions, "/api/v1/heatmap", "", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
