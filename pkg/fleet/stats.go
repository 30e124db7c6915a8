package fleet

import (
	"context"
	"encoding/json"

	"go.opentelemetry.io/otel/attribute"
)

// ServerSummary is one entry of an owner's fleet view.
type ServerSummary struct {
	Hostname    string          `json:"hostname"`
	Username    string          `json:"username"`
	IP          string          `json:"ip"`
	ServerID    string          `json:"server_id"`
	LastMetrics json.RawMessage `json:"lastMetrics"`
	LastSeen    int64           `json:"lastSeen"`
}

// ListServers returns every server owned by ownerID with its latest
// snapshot. An owner with no servers gets an empty, non-nil slice.
func (s *Service) ListServers(ctx context.Context, ownerID string) (summaries []ServerSummary, err error) {
	ctx, span := s.startSpan(ctx, "ListServers", attribute.String("user.id", ownerID))
	defer func() { endSpan(span, err) }()

	if ownerID == "" {
		return nil, authError(AuthReasonUnauthenticated)
	}

	records, err := s.servers.ListServersByOwner(ctx, ownerID)
	if err != nil {
		return nil, internalError("list servers", err)
	}

	summaries = make([]ServerSummary, 0, len(records))
	for _, rec := range records {
		if rec.OwnerID != ownerID {
			continue
		}

		var metrics json.RawMessage
		if len(rec.LastSnapshot) > 0 {
			metrics = json.RawMessage(rec.LastSnapshot)
		}

		summaries = append(summaries, ServerSummary{
			Hostname:    rec.Hostname,
			Username:    rec.Username,
			IP:          rec.IP,
			ServerID:    rec.ID,
			LastMetrics: metrics,
			LastSeen:    rec.LastSeen.UnixMilli(),
		})
	}
	return summaries, nil
}
