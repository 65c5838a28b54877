package usecase

import (
	"context"
	"fmt"

	"movie-catalog/internal/data/repository"
	"movie-catalog/pkg/mailer"
	"movie-catalog/pkg/queue"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// NotificationService turns domain events into user emails.
type NotificationService interface {
	HandleRequestReviewed(ctx context.Context, event queue.RequestReviewedEvent) error
}

type notificationService struct {
	repo   *repository.Repository
	mailer mailer.Mailer
	log    *zap.Logger
}

func NewNotificationService(repo *repository.Repository, m mailer.Mailer, log *zap.Logger) NotificationService {
	return &notificationService{
		repo:   repo,
		mailer: m,
		log:    log.With(zap.String("service", "notification")),
	}
}

func (s *notificationService) HandleRequestReviewed(ctx context.Context, event queue.RequestReviewedEvent) error {
	userID, err := uuid.Parse(event.UserID)
	if err != nil {
		return fmt.Errorf("invalid user id %q: %w", event.UserID, err)
	}

	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		// user sudah dihapus, tidak ada yang perlu dikirimi
		s.log.Info("Requester no longer exists, skipping notification", zap.String("user_id", event.UserID))
		return nil
	}

	title, body := reviewedMessage(event)
	if err := s.mailer.SendNotification(ctx, user.Email, user.Name, title, body); err != nil {
		return fmt.Errorf("send notification: %w", err)
	}

	s.log.Info("Review notification sent",
		zap.String("request_id", event.RequestID),
		zap.String("user_id", event.UserID))
	return nil
}

func reviewedMessage(event queue.RequestReviewedEvent) (string, string) {
	title := fmt.Sprintf("Your request has been %s", event.Status)
	body := fmt.Sprintf("Your request \"%s\" has been %s.", event.Title, event.Status)
	if event.Status == "approved" && event.MovieID != "" {
		body += " You can now watch the full movie."
	}
	if event.AdminResponse != "" {
		body += " Admin response: " + event.AdminResponse
	}
	return title, body
}
