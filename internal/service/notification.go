package service

import (
	"context"

	"bto-portal-backend/internal/domain"
	"bto-portal-backend/internal/repository"
)

type notificationService struct {
	noteRepo repository.NotificationRepository
}

func NewNotificationService(noteRepo repository.NotificationRepository) NotificationService {
	return &notificationService{noteRepo: noteRepo}
}

func (s *notificationService) GetNotifications(ctx context.Context, userNRIC string, page, pageSize int32) ([]domain.Notification, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize
	return s.noteRepo.List(ctx, userNRIC, pageSize, offset)
}

func (s *notificationService) MarkAsRead(ctx context.Context, userNRIC string, notificationID int32) error {
	return s.noteRepo.MarkAsRead(ctx, notificationID, userNRIC)
}
