package events

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/designmatch-backend/internal/domain/entity"
)

// Broadcaster отправляет событие всем соединениям пользователя.
type Broadcaster interface {
	BroadcastToUser(ctx context.Context, userID uuid.UUID, event string, data any) error
}

// HubNotifier сообщает клиенту о новом подборе через WebSocket.
type HubNotifier struct {
	hub Broadcaster
}

func NewHubNotifier(hub Broadcaster) *HubNotifier {
	return &HubNotifier{hub: hub}
}

func (n *HubNotifier) MatchCreated(ctx context.Context, m *entity.Match) error {
	return n.hub.BroadcastToUser(ctx, m.ClientID, EventMatchFound, newMatchCreatedPayload(m))
}
