package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campusops/faculty-leave-api/internal/models"
	appErrors "github.com/campusops/faculty-leave-api/pkg/errors"
	"github.com/campusops/faculty-leave-api/pkg/jobs"
	"github.com/campusops/faculty-leave-api/pkg/notify"
)

type messageRepository interface {
	List(ctx context.Context, filter models.MessageFilter) ([]models.AdminMessage, int, error)
	FindByID(ctx context.Context, id string) (*models.AdminMessage, error)
	Create(ctx context.Context, message *models.AdminMessage) error
	Update(ctx context.Context, message *models.AdminMessage) error
	UpdateDeliveryStatus(ctx context.Context, id string, status models.DeliveryStatus) error
	MarkRead(ctx context.Context, id string, at time.Time) error
	Delete(ctx context.Context, id string) error
}

// SendMessageRequest is the payload for sending an admin message.
type SendMessageRequest struct {
	RecipientEmail string             `json:"recipient_email" validate:"required,email"`
	Subject        string             `json:"subject" validate:"required"`
	Message        string             `json:"message" validate:"required"`
	MessageType    models.MessageType `json:"message_type" validate:"required"`
}

// UpdateMessageRequest edits a previously sent message.
type UpdateMessageRequest struct {
	Subject     string             `json:"subject" validate:"required"`
	Message     string             `json:"message" validate:"required"`
	MessageType models.MessageType `json:"message_type" validate:"required"`
}

// deliveryJobPayload travels through the jobs queue.
type deliveryJobPayload struct {
	MessageID string
	Recipient string
	Subject   string
	Body      string
}

// MessageService sends admin messages and tracks their push delivery. The
// row is committed first with status "sent"; delivery runs on a background
// worker and only updates the status afterwards.
type MessageService struct {
	repo      messageRepository
	gateway   notify.Gateway
	queue     *jobs.Queue
	validator *validator.Validate
	logger    *zap.Logger
}

// NewMessageService constructs a MessageService. Call StartDelivery before
// serving traffic so queued notifications are consumed.
func NewMessageService(repo messageRepository, gateway notify.Gateway, validate *validator.Validate, logger *zap.Logger, queueCfg jobs.QueueConfig) *MessageService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if gateway == nil {
		gateway = notify.Noop{}
	}
	s := &MessageService{repo: repo, gateway: gateway, validator: validate, logger: logger}
	queueCfg.Logger = logger
	s.queue = jobs.NewQueue("message-delivery", s.deliver, queueCfg)
	return s
}

// StartDelivery launches the delivery workers.
func (s *MessageService) StartDelivery(ctx context.Context) {
	s.queue.Start(ctx)
}

// StopDelivery drains the delivery workers.
func (s *MessageService) StopDelivery() {
	s.queue.Stop()
}

// Send persists the message and enqueues its push delivery. A full queue or
// failed delivery leaves the message with status sent/failed; the row itself
// is never rolled back.
func (s *MessageService) Send(ctx context.Context, senderEmail string, req SendMessageRequest) (*models.AdminMessage, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid message payload")
	}
	if !req.MessageType.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unrecognized message type %q", req.MessageType))
	}

	message := &models.AdminMessage{
		SenderEmail:    strings.ToLower(strings.TrimSpace(senderEmail)),
		RecipientEmail: strings.ToLower(strings.TrimSpace(req.RecipientEmail)),
		Subject:        strings.TrimSpace(req.Subject),
		Message:        req.Message,
		MessageType:    req.MessageType,
		DeliveryStatus: models.DeliverySent,
	}
	if err := s.repo.Create(ctx, message); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save message")
	}

	job := jobs.Job{
		ID:   uuid.NewString(),
		Type: "push_delivery",
		Payload: deliveryJobPayload{
			MessageID: message.ID,
			Recipient: message.RecipientEmail,
			Subject:   message.Subject,
			Body:      message.Message,
		},
	}
	if err := s.queue.Enqueue(job); err != nil {
		s.logger.Warn("failed to enqueue message delivery", zap.String("message_id", message.ID), zap.Error(err))
	}

	return message, nil
}

func (s *MessageService) deliver(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(deliveryJobPayload)
	if !ok {
		return fmt.Errorf("unexpected payload type %T", job.Payload)
	}

	delivered, err := s.gateway.Notify(ctx, payload.Recipient, notify.Payload{
		Title: payload.Subject,
		Body:  payload.Body,
	})

	status := models.DeliveryDelivered
	if err != nil || !delivered {
		status = models.DeliveryFailed
	}
	if updateErr := s.repo.UpdateDeliveryStatus(ctx, payload.MessageID, status); updateErr != nil {
		s.logger.Error("failed to record delivery status",
			zap.String("message_id", payload.MessageID),
			zap.Error(updateErr),
		)
	}
	return err
}

// List returns messages matching the filter with pagination metadata.
func (s *MessageService) List(ctx context.Context, filter models.MessageFilter) ([]models.AdminMessage, *models.Pagination, error) {
	messages, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list messages")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	return messages, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Update edits the subject, body and type of an existing message.
func (s *MessageService) Update(ctx context.Context, id string, req UpdateMessageRequest) (*models.AdminMessage, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid message payload")
	}
	if !req.MessageType.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unrecognized message type %q", req.MessageType))
	}

	message, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "message not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load message")
	}

	message.Subject = strings.TrimSpace(req.Subject)
	message.Message = req.Message
	message.MessageType = req.MessageType

	if err := s.repo.Update(ctx, message); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update message")
	}
	return message, nil
}

// MarkRead stamps a message as read by its recipient.
func (s *MessageService) MarkRead(ctx context.Context, id, readerEmail string) error {
	message, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "message not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load message")
	}
	if !strings.EqualFold(message.RecipientEmail, readerEmail) {
		return appErrors.Clone(appErrors.ErrForbidden, "only the recipient can mark a message read")
	}
	if err := s.repo.MarkRead(ctx, id, time.Now().UTC()); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to mark message read")
	}
	return nil
}

// Delete removes one message.
func (s *MessageService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "message not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load message")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete message")
	}
	return nil
}
