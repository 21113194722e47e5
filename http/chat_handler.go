package http

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"finplan-agent/domain"
	"finplan-agent/repository"
	"finplan-agent/service"
)

const userIDHeader = "X-User-ID"

type ChatHandler struct {
	engine     *service.Engine
	contexts   repository.ContextStore
	serializer *TurnSerializer
	logger     *zap.Logger
}

func NewChatHandler(engine *service.Engine, contexts repository.ContextStore, serializer *TurnSerializer, logger *zap.Logger) *ChatHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatHandler{engine: engine, contexts: contexts, serializer: serializer, logger: logger}
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatReply struct {
	UserID string               `json:"user_id"`
	Reply  string               `json:"reply"`
	Flags  domain.ResponseFlags `json:"flags"`
}

// Chat handles one conversation turn. A missing X-User-ID starts a new
// conversation; the issued id is echoed in the header and body so the
// client can carry it forward.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var input chatRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if input.Message == "" {
		http.Error(w, "message is required", http.StatusBadRequest)
		return
	}

	userID := r.Header.Get(userIDHeader)
	if userID == "" {
		userID = uuid.NewString()
	}

	release := h.serializer.Acquire(userID)
	defer release()

	cc, err := h.contexts.Load(r.Context(), userID)
	if err != nil {
		h.logger.Error("loading conversation context failed",
			zap.String("user_id", userID), zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	resp := h.engine.ProcessMessage(r.Context(), userID, input.Message, cc)

	if err := h.contexts.Save(r.Context(), userID, cc); err != nil {
		h.logger.Error("saving conversation context failed",
			zap.String("user_id", userID), zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set(userIDHeader, userID)
	json.NewEncoder(w).Encode(chatReply{
		UserID: userID,
		Reply:  resp.Text,
		Flags:  resp.Flags,
	})
}
