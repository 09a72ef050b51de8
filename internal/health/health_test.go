package health

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_Constants(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Status("healthy"), StatusHealthy)
	assert.Equal(t, Status("unhealthy"), StatusUnhealthy)
	assert.Equal(t, Status("degraded"), StatusDegraded)
}

func TestNewChecker(t *testing.T) {
	t.Parallel()

	checker := NewChecker("1.0.0")

	require.NotNil(t, checker)
	assert.Equal(t, "1.0.0", checker.version)
	assert.NotNil(t, checker.checks)
	assert.False(t, checker.startTime.IsZero())
}

func TestChecker_Health(t *testing.T) {
	t.Parallel()

	checker := NewChecker("1.2.3")
	response := checker.Health()

	assert.Equal(t, StatusHealthy, response.Status)
	assert.Equal(t, "1.2.3", response.Version)
	assert.NotEmpty(t, response.Uptime)
	assert.False(t, response.Timestamp.IsZero())
}

func TestChecker_Readiness(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		checks map[string]Check
		want   Status
	}{
		{
			name:   "no checks",
			checks: map[string]Check{},
			want:   StatusHealthy,
		},
		{
			name: "all healthy",
			checks: map[string]Check{
				"envfile": {Status: StatusHealthy},
				"other":   {Status: StatusHealthy},
			},
			want: StatusHealthy,
		},
		{
			name: "one degraded",
			checks: map[string]Check{
				"envfile": {Status: StatusDegraded, Message: "serving stale snapshot"},
				"other":   {Status: StatusHealthy},
			},
			want: StatusDegraded,
		},
		{
			name: "unhealthy outranks degraded",
			checks: map[string]Check{
				"envfile": {Status: StatusDegraded},
				"other":   {Status: StatusUnhealthy},
			},
			want: StatusUnhealthy,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			checker := NewChecker("1.0.0")
			for name, result := range tt.checks {
				checker.RegisterCheck(name, func() Check { return result })
			}

			response := checker.Readiness()
			assert.Equal(t, tt.want, response.Status)
			assert.Len(t, response.Checks, len(tt.checks))
		})
	}
}

func TestChecker_RegisterCheck_Replaces(t *testing.T) {
	t.Parallel()

	checker := NewChecker("1.0.0")
	checker.RegisterCheck("envfile", func() Check {
		return Check{Status: StatusUnhealthy}
	})
	checker.RegisterCheck("envfile", func() Check {
		return Check{Status: StatusHealthy}
	})

	response := checker.Readiness()
	assert.Equal(t, StatusHealthy, response.Status)
	assert.Len(t, response.Checks, 1)
}

func TestChecker_HealthHandler(t *testing.T) {
	t.Parallel()

	checker := NewChecker("1.0.0")

	req := httptest.NewRequest("GET", "/health", nil)
	rec := httptest.NewRecorder()
	checker.HealthHandler()(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var response HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, StatusHealthy, response.Status)
	assert.Equal(t, "1.0.0", response.Version)
}

func TestChecker_ReadinessHandler(t *testing.T) {
	t.Parallel()

	t.Run("ready", func(t *testing.T) {
		t.Parallel()

		checker := NewChecker("1.0.0")
		checker.RegisterCheck("envfile", func() Check {
			return Check{Status: StatusHealthy}
		})

		req := httptest.NewRequest("GET", "/ready", nil)
		rec := httptest.NewRecorder()
		checker.ReadinessHandler()(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("unhealthy returns 503", func(t *testing.T) {
		t.Parallel()

		checker := NewChecker("1.0.0")
		checker.RegisterCheck("envfile", func() Check {
			return Check{Status: StatusUnhealthy, Message: "file unreadable"}
		})

		req := httptest.NewRequest("GET", "/ready", nil)
		rec := httptest.NewRecorder()
		checker.ReadinessHandler()(rec, req)

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

		var response ReadinessResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
		assert.Equal(t, StatusUnhealthy, response.Status)
		assert.Equal(t, "file unreadable", response.Checks["envfile"].Message)
	})

	t.Run("degraded still returns 200", func(t *testing.T) {
		t.Parallel()

		checker := NewChecker("1.0.0")
		checker.RegisterCheck("envfile", func() Check {
			return Check{Status: StatusDegraded}
		})

		req := httptest.NewRequest("GET", "/ready", nil)
		rec := httptest.NewRecorder()
		checker.ReadinessHandler()(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestChecker_LivenessHandler(t *testing.T) {
	t.Parallel()

	checker := NewChecker("1.0.0")

	req := httptest.NewRequest("GET", "/live", nil)
	rec := httptest.NewRecorder()
	checker.LivenessHandler()(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
