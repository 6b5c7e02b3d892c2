package services

import (
	"context"
	"hash/fnv"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/harentsoaR/medicare-api/internal/models"
	"github.com/harentsoaR/medicare-api/internal/repository"
)

const (
	LevelBronze = "bronze"
	LevelSilver = "silver"
	LevelGold   = "gold"

	demoBasePoints = 150
)

// clientEvents are the events a client may report itself. The rest are
// awarded by the server when the matching action succeeds.
var clientEvents = map[string]bool{
	"page_view":      true,
	"service_viewed": true,
}

type EngagementSummary struct {
	UserID primitive.ObjectID `json:"userId"`
	Points int                `json:"points"`
	Events map[string]int     `json:"events"`
	Level  string             `json:"level"`
	Demo   bool               `json:"demo"`
}

type EngagementService struct {
	events repository.Repository[models.EngagementEvent]
	demo   bool
	logger *zap.Logger
	now    func() time.Time
}

func NewEngagementService(events repository.Repository[models.EngagementEvent], demo bool, logger *zap.Logger) *EngagementService {
	return &EngagementService{events: events, demo: demo, logger: logger, now: utcNow}
}

func (s *EngagementService) record(ctx context.Context, userID primitive.ObjectID, event string, metadata map[string]string) (*models.EngagementEvent, error) {
	points, ok := models.EngagementPoints[event]
	if !ok {
		return nil, invalid("Unknown engagement event %q", event)
	}
	e := &models.EngagementEvent{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Event:     event,
		Points:    points,
		Metadata:  metadata,
		CreatedAt: s.now(),
	}
	if err := s.events.Insert(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// Track records a client-reported event for the caller.
func (s *EngagementService) Track(ctx context.Context, actor Actor, event string, metadata map[string]string) (*models.EngagementEvent, error) {
	if _, known := models.EngagementPoints[event]; !known {
		return nil, invalid("Unknown engagement event %q", event)
	}
	if !clientEvents[event] {
		return nil, invalid("Event %q is recorded by the server", event)
	}
	return s.record(ctx, actor.ID, event, metadata)
}

// award records a server-side event. Failures are only logged.
func (s *EngagementService) award(ctx context.Context, userID primitive.ObjectID, event string, metadata map[string]string) {
	if _, err := s.record(ctx, userID, event, metadata); err != nil {
		s.logger.Warn("failed to award engagement points",
			zap.String("userId", userID.Hex()),
			zap.String("event", event),
			zap.Error(err))
	}
}

func (s *EngagementService) Summary(ctx context.Context, userID primitive.ObjectID) (*EngagementSummary, error) {
	events, _, err := s.events.Find(ctx, models.EngagementFilter{UserID: userID}, repository.FindOptions{})
	if err != nil {
		return nil, err
	}
	sum := &EngagementSummary{UserID: userID, Events: make(map[string]int)}
	for _, e := range events {
		sum.Points += e.Points
		sum.Events[e.Event]++
	}
	if s.demo {
		sum.Points = demoPoints(userID)
		sum.Demo = true
	}
	sum.Level = engagementLevel(sum.Points)
	return sum, nil
}

// demoPoints is stable per user so a demo dashboard doesn't flicker.
func demoPoints(userID primitive.ObjectID) int {
	h := fnv.New32a()
	h.Write(userID[:])
	return demoBasePoints + int(h.Sum32()%100)
}

func engagementLevel(points int) string {
	switch {
	case points < 50:
		return LevelBronze
	case points < 200:
		return LevelSilver
	default:
		return LevelGold
	}
}
