package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/b2bportal/backend/internal/application/orderdetail"
	"github.com/b2bportal/backend/internal/domain/order"
)

type stubStatusLister struct {
	defs []order.StatusDefinition
}

func (s *stubStatusLister) ListStatuses(_ context.Context) ([]order.StatusDefinition, error) {
	return s.defs, nil
}

func TestStatusHandler_List(t *testing.T) {
	gin.SetMode(gin.TestMode)
	lister := &stubStatusLister{defs: []order.StatusDefinition{
		{StatusCode: "2", SystemLabel: "Shipped", CustomLabel: "On its way"},
		{StatusCode: "10", SystemLabel: "Completed"},
	}}
	directory := orderdetail.NewStatusDirectory(lister, nil, func(s string) string { return s })

	r := gin.New()
	api := r.Group("/api/v1")
	NewStatusHandler(directory, nil).RegisterRoutes(api)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/order-statuses", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data []orderdetail.ResolvedStatus `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 2)
	assert.Equal(t, "On its way", resp.Data[0].Label)
	assert.Equal(t, "Completed", resp.Data[1].Label)
}

func TestSystemHandler_Health(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewSystemHandler("b2b-portal").RegisterRoutes(r)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "b2b-portal", body["service"])
}
