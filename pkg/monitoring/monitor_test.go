package monitoring

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetricsMiddlewareLabelsByRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(MetricsMiddleware())
	r.GET("/questions/:sheet", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for _, path := range []string{"/questions/grade-1", "/questions/grade-2", "/nowhere", "/elsewhere"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	require.Equal(t, 2.0, testutil.ToFloat64(RequestCounter.WithLabelValues(http.MethodGet, "/questions/:sheet", "204")))
	require.Equal(t, 2.0, testutil.ToFloat64(RequestCounter.WithLabelValues(http.MethodGet, unmatchedRoute, "404")))
}
