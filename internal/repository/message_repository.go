package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campusops/faculty-leave-api/internal/models"
)

// MessageRepository manages persistence for admin messages.
type MessageRepository struct {
	db *sqlx.DB
}

// NewMessageRepository constructs a MessageRepository.
func NewMessageRepository(db *sqlx.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

const messageColumns = "id, sender_email, recipient_email, subject, message, message_type, delivery_status, created_at, updated_at, read_at"

// List returns messages matching the filter, newest first, with total count.
func (r *MessageRepository) List(ctx context.Context, filter models.MessageFilter) ([]models.AdminMessage, int, error) {
	base := "FROM admin_messages WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.RecipientEmail != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(recipient_email) = LOWER($%d)", len(args)+1))
		args = append(args, filter.RecipientEmail)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("delivery_status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY created_at DESC LIMIT %d OFFSET %d", messageColumns, base, size, offset)
	var messages []models.AdminMessage
	if err := r.db.SelectContext(ctx, &messages, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list admin messages: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count admin messages: %w", err)
	}

	return messages, total, nil
}

// FindByID fetches one message.
func (r *MessageRepository) FindByID(ctx context.Context, id string) (*models.AdminMessage, error) {
	query := fmt.Sprintf("SELECT %s FROM admin_messages WHERE id = $1", messageColumns)
	var message models.AdminMessage
	if err := r.db.GetContext(ctx, &message, query, id); err != nil {
		return nil, err
	}
	return &message, nil
}

// Create inserts one message.
func (r *MessageRepository) Create(ctx context.Context, message *models.AdminMessage) error {
	if message.ID == "" {
		message.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	message.CreatedAt = now
	message.UpdatedAt = now

	const query = `INSERT INTO admin_messages (id, sender_email, recipient_email, subject, message, message_type, delivery_status, created_at, updated_at, read_at)
		VALUES (:id, :sender_email, :recipient_email, :subject, :message, :message_type, :delivery_status, :created_at, :updated_at, :read_at)`
	if _, err := r.db.NamedExecContext(ctx, query, message); err != nil {
		return fmt.Errorf("create admin message: %w", err)
	}
	return nil
}

// Update modifies subject, body and type of one message.
func (r *MessageRepository) Update(ctx context.Context, message *models.AdminMessage) error {
	message.UpdatedAt = time.Now().UTC()
	const query = `UPDATE admin_messages SET subject = :subject, message = :message, message_type = :message_type, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, message); err != nil {
		return fmt.Errorf("update admin message: %w", err)
	}
	return nil
}

// UpdateDeliveryStatus records the push delivery outcome.
func (r *MessageRepository) UpdateDeliveryStatus(ctx context.Context, id string, status models.DeliveryStatus) error {
	const query = `UPDATE admin_messages SET delivery_status = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC()); err != nil {
		return fmt.Errorf("update delivery status: %w", err)
	}
	return nil
}

// MarkRead stamps read_at and flips the status to read.
func (r *MessageRepository) MarkRead(ctx context.Context, id string, at time.Time) error {
	const query = `UPDATE admin_messages SET delivery_status = $2, read_at = $3, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, models.DeliveryRead, at); err != nil {
		return fmt.Errorf("mark message read: %w", err)
	}
	return nil
}

// Delete removes one message.
func (r *MessageRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM admin_messages WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete admin message: %w", err)
	}
	return nil
}
