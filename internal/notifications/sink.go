package notifications

import (
	"context"
	"fmt"
	"strings"

	"github.com/fashionhub/storefront-backend/pkg/db/models"
	"github.com/fashionhub/storefront-backend/pkg/enums"
	"github.com/fashionhub/storefront-backend/pkg/logger"
	"github.com/google/uuid"
)

// Sink writes best-effort inbox notifications. Delivery never blocks or fails
// the operation that triggered it; a write error is logged and dropped.
type Sink struct {
	repo Repository
	logg *logger.Logger
}

// NewSink builds a notification sink.
func NewSink(repo Repository, logg *logger.Logger) (*Sink, error) {
	if repo == nil {
		return nil, fmt.Errorf("notifications repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Sink{repo: repo, logg: logg}, nil
}

// Notify stores a notification for the user. Errors are swallowed after
// logging so callers can fire and forget.
func (s *Sink) Notify(ctx context.Context, userID uuid.UUID, title, message string, level enums.NotificationLevel) {
	if userID == uuid.Nil {
		return
	}
	if !level.IsValid() {
		level = enums.NotificationLevelInfo
	}

	notification := &models.Notification{
		UserID:  userID,
		Title:   strings.TrimSpace(title),
		Message: strings.TrimSpace(message),
		Level:   level,
	}
	if err := s.repo.Create(ctx, notification); err != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"user_id": userID.String(),
			"title":   title,
		})
		s.logg.Error(logCtx, "notification write failed", err)
	}
}
