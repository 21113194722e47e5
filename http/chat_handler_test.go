package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"finplan-agent/repository"
	"finplan-agent/service"
)

func newTestChatHandler(t *testing.T) (*ChatHandler, *TurnSerializer) {
	t.Helper()
	engine := service.NewEngine(
		repository.NewStaticCatalog(),
		repository.NewStaticRates(),
		repository.NewPlanStoreMemory(),
		service.NopEnhancer{},
		zap.NewNop(),
	)
	serializer := NewTurnSerializer()
	t.Cleanup(serializer.Stop)
	return NewChatHandler(engine, repository.NewContextStoreMemory(), serializer, zap.NewNop()), serializer
}

func postChat(t *testing.T, h *ChatHandler, userID, message string) *httptest.ResponseRecorder {
	t.Helper()
	body := strings.NewReader(`{"message": ` + strconvQuote(message) + `}`)
	req := httptest.NewRequest(http.MethodPost, "/chat", body)
	if userID != "" {
		req.Header.Set(userIDHeader, userID)
	}
	rec := httptest.NewRecorder()
	h.Chat(rec, req)
	return rec
}

func strconvQuote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func TestChatIssuesUserID(t *testing.T) {
	h, _ := newTestChatHandler(t)

	rec := postChat(t, h, "", "Hi there!")
	require.Equal(t, http.StatusOK, rec.Code)

	var reply chatReply
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reply))
	assert.NotEmpty(t, reply.UserID)
	assert.Equal(t, reply.UserID, rec.Header().Get(userIDHeader))
	assert.True(t, reply.Flags.IsGreetingResponse)
}

func TestChatKeepsContextAcrossTurns(t *testing.T) {
	h, _ := newTestChatHandler(t)

	rec := postChat(t, h, "u1", "Kia Sonet")
	require.Equal(t, http.StatusOK, rec.Code)

	var first chatReply
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &first))
	assert.True(t, first.Flags.ProductSelected)

	// Without income data the analysis proceeds straight to plans, so the
	// follow-up can save one.
	rec = postChat(t, h, "u1", "save this plan")
	var second chatReply
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &second))
	assert.True(t, second.Flags.PlanSaved)
	assert.Contains(t, second.Reply, "plan_1")
}

func TestChatRejectsBadRequests(t *testing.T) {
	h, _ := newTestChatHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/chat", nil)
	rec := httptest.NewRecorder()
	h.Chat(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader("not json"))
	rec = httptest.NewRecorder()
	h.Chat(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"message": ""}`))
	rec = httptest.NewRecorder()
	h.Chat(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
