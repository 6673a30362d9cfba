package notifications

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/fashionhub/storefront-backend/pkg/enums"
	"github.com/fashionhub/storefront-backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

func newTestSink(t *testing.T, repo Repository) *Sink {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "notifications-test", Level: zerolog.ErrorLevel, Output: io.Discard})
	sink, err := NewSink(repo, logg)
	if err != nil {
		t.Fatalf("NewSink: %v", err)
	}
	return sink
}

func TestSinkNotifyStoresMessage(t *testing.T) {
	repo := &fakeRepository{}
	sink := newTestSink(t, repo)
	userID := uuid.New()

	sink.Notify(context.Background(), userID, "  Order shipped  ", "Your order is on its way.", enums.NotificationLevelSuccess)

	if len(repo.created) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(repo.created))
	}
	stored := repo.created[0]
	if stored.UserID != userID {
		t.Fatalf("unexpected user id %s", stored.UserID)
	}
	if stored.Title != "Order shipped" {
		t.Fatalf("title not trimmed: %q", stored.Title)
	}
	if stored.Level != enums.NotificationLevelSuccess {
		t.Fatalf("unexpected level %s", stored.Level)
	}
}

func TestSinkNotifyDefaultsLevel(t *testing.T) {
	repo := &fakeRepository{}
	sink := newTestSink(t, repo)

	sink.Notify(context.Background(), uuid.New(), "t", "m", enums.NotificationLevel("bogus"))

	if len(repo.created) != 1 || repo.created[0].Level != enums.NotificationLevelInfo {
		t.Fatalf("expected info level fallback, got %+v", repo.created)
	}
}

func TestSinkNotifySwallowsErrors(t *testing.T) {
	repo := &fakeRepository{createErr: errors.New("db down")}
	sink := newTestSink(t, repo)

	// Must not panic or propagate the failure.
	sink.Notify(context.Background(), uuid.New(), "t", "m", enums.NotificationLevelInfo)

	if len(repo.created) != 0 {
		t.Fatalf("expected no stored notifications")
	}
}

func TestSinkNotifyIgnoresNilUser(t *testing.T) {
	repo := &fakeRepository{}
	sink := newTestSink(t, repo)

	sink.Notify(context.Background(), uuid.Nil, "t", "m", enums.NotificationLevelInfo)

	if len(repo.created) != 0 {
		t.Fatalf("nil user must be ignored")
	}
}
