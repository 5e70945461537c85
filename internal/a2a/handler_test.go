package a2a

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BerylCAtieno/marketing-strategy-agent/internal/apperr"
	"github.com/BerylCAtieno/marketing-strategy-agent/internal/models"
)

type fakeGenerator struct {
	icps     []models.ICP
	err      error
	business models.BusinessInfo
}

func (f *fakeGenerator) ICPs(_ context.Context, business models.BusinessInfo, _ []models.ICP) ([]models.ICP, error) {
	f.business = business
	return f.icps, f.err
}

func newRouter(gen ICPGenerator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewA2AHandler(gen, zap.NewNop())
	r := gin.New()
	r.POST("/a2a/icp", h.HandleICP)
	r.GET("/.well-known/agent.json", h.ServeAgentCard)
	return r
}

func post(t *testing.T, r *gin.Engine, body string) JSONRPCResponse {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/a2a/icp", bytes.NewBufferString(body)))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		JSONRPCResponse
		Result *TaskResult `json:"result"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	out := resp.JSONRPCResponse
	if resp.Result != nil {
		out.Result = *resp.Result
	}
	return out
}

func rpc(method, text string) string {
	req := map[string]any{
		"jsonrpc": "2.0",
		"id":      "req-1",
		"method":  method,
		"params": map[string]any{
			"message": map[string]any{
				"kind":  "message",
				"role":  "user",
				"parts": []map[string]any{{"kind": "text", "text": text}},
			},
		},
	}
	b, _ := json.Marshal(req)
	return string(b)
}

var sampleICPs = []models.ICP{{
	ID:           "icp-1",
	Title:        "Warehouse Managers",
	Description:  "Run small warehouses.",
	Demographics: models.Demographics{CompanySize: "10-50", Regions: []string{"US", "CA"}},
	PainPoints:   []string{"stock errors"},
	Goals:        []string{"faster counts"},
}}

func TestHandleICPCompletesTask(t *testing.T) {
	gen := &fakeGenerator{icps: sampleICPs}
	r := newRouter(gen)

	resp := post(t, r, rpc("message/send", "Name: Acme\nIndustry: Logistics software\nWe help small warehouses track inventory."))
	require.Nil(t, resp.Error)
	assert.JSONEq(t, `"req-1"`, string(resp.ID))

	task := resp.Result.(TaskResult)
	assert.Equal(t, StateCompleted, task.Status.State)
	assert.NotEmpty(t, task.ID)
	require.NotNil(t, task.Status.Message)
	text := task.Status.Message.Parts[0].Text
	assert.Contains(t, text, "# Ideal Customer Profiles for: Acme")
	assert.Contains(t, text, "## Warehouse Managers")
	assert.Contains(t, text, "- Regions: US, CA")
	assert.Contains(t, text, "**Pain Points:**\n- stock errors")

	require.Len(t, task.Artifacts, 1)
	require.Len(t, task.Artifacts[0].Parts, 2)
	assert.Equal(t, "data", task.Artifacts[0].Parts[1].Kind)

	assert.Equal(t, "Acme", gen.business.Name)
	assert.Equal(t, "Logistics software", gen.business.Industry)
	assert.Equal(t, "We help small warehouses track inventory.", gen.business.Description)
}

func TestHandleICPFailedTask(t *testing.T) {
	r := newRouter(&fakeGenerator{err: apperr.NewCancelled("icp generation timed out after 30s", context.DeadlineExceeded)})

	resp := post(t, r, rpc("agent/task", "A bakery in Lisbon"))
	require.Nil(t, resp.Error)
	task := resp.Result.(TaskResult)
	assert.Equal(t, StateFailed, task.Status.State)
	assert.Contains(t, task.Status.Message.Parts[0].Text, "timed out")
}

func TestHandleICPEmptyMessage(t *testing.T) {
	gen := &fakeGenerator{icps: sampleICPs}
	resp := post(t, newRouter(gen), rpc("message/send", "   "))
	task := resp.Result.(TaskResult)
	assert.Equal(t, StateFailed, task.Status.State)
	assert.Empty(t, gen.business.Name)
}

func TestHandleICPRPCErrors(t *testing.T) {
	r := newRouter(&fakeGenerator{})

	resp := post(t, r, `{"jsonrpc": "1.0", "id": 7, "method": "message/send", "params": {}}`)
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeInvalidRequest, resp.Error.Code)
	assert.JSONEq(t, `7`, string(resp.ID))

	resp = post(t, r, `{"jsonrpc": "2.0", "id": "x", "method": "tasks/cancel", "params": {}}`)
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeMethodNotFound, resp.Error.Code)

	resp = post(t, r, `not json`)
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeParseError, resp.Error.Code)
}

func TestHandleDirectMessageWithHistory(t *testing.T) {
	gen := &fakeGenerator{icps: sampleICPs}
	body := `{"message": {"kind": "message", "role": "user", "parts": [
		{"kind": "data", "data": [
			{"kind": "text", "text": "<p>A coffee subscription for offices</p>"},
			{"kind": "text", "text": "Generating profiles..."}
		]}
	]}}`

	resp := post(t, newRouter(gen), body)
	require.Nil(t, resp.Error)
	assert.Equal(t, StateCompleted, resp.Result.(TaskResult).Status.State)
	assert.Equal(t, "A coffee subscription for offices", gen.business.Description)
	assert.Equal(t, "Unspecified", gen.business.Industry)
}

func TestBusinessFromText(t *testing.T) {
	b := businessFromText("Company: Globex\nindustry: Energy\nProducts: turbines, batteries\nProblem: grid outages\nWe sell backup power.")
	assert.Equal(t, "Globex", b.Name)
	assert.Equal(t, "Energy", b.Industry)
	assert.Equal(t, []string{"turbines", "batteries"}, b.Products)
	assert.Equal(t, "grid outages", b.Problem)
	assert.Equal(t, "We sell backup power.", b.Description)
	assert.True(t, b.Complete())
}

func TestServeAgentCard(t *testing.T) {
	w := httptest.NewRecorder()
	newRouter(&fakeGenerator{}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/.well-known/agent.json", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var card map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &card))
	assert.Equal(t, "Marketing Strategy Agent", card["name"])
}
