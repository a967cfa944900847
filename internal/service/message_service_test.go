package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusops/faculty-leave-api/internal/models"
	appErrors "github.com/campusops/faculty-leave-api/pkg/errors"
	"github.com/campusops/faculty-leave-api/pkg/jobs"
)

type messageRepoMock struct {
	mu       sync.Mutex
	created  []*models.AdminMessage
	statuses map[string]models.DeliveryStatus
	found    *models.AdminMessage
	findErr  error
	read     []string
}

func newMessageRepoMock() *messageRepoMock {
	return &messageRepoMock{statuses: make(map[string]models.DeliveryStatus)}
}

func (m *messageRepoMock) List(ctx context.Context, filter models.MessageFilter) ([]models.AdminMessage, int, error) {
	return nil, 0, nil
}

func (m *messageRepoMock) FindByID(ctx context.Context, id string) (*models.AdminMessage, error) {
	return m.found, m.findErr
}

func (m *messageRepoMock) Create(ctx context.Context, message *models.AdminMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	message.ID = "msg-1"
	m.created = append(m.created, message)
	return nil
}

func (m *messageRepoMock) Update(ctx context.Context, message *models.AdminMessage) error {
	return nil
}

func (m *messageRepoMock) UpdateDeliveryStatus(ctx context.Context, id string, status models.DeliveryStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statuses[id] = status
	return nil
}

func (m *messageRepoMock) MarkRead(ctx context.Context, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.read = append(m.read, id)
	return nil
}

func (m *messageRepoMock) Delete(ctx context.Context, id string) error {
	return nil
}

func (m *messageRepoMock) statusOf(id string) models.DeliveryStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.statuses[id]
}

func TestMessageSendPersistsBeforeDelivery(t *testing.T) {
	repo := newMessageRepoMock()
	gateway := &gatewayMock{delivered: true}
	svc := NewMessageService(repo, gateway, nil, nil, jobs.QueueConfig{Workers: 1})
	svc.StartDelivery(context.Background())
	defer svc.StopDelivery()

	message, err := svc.Send(context.Background(), "Admin@College.edu", SendMessageRequest{
		RecipientEmail: "Jane.Doe@College.edu",
		Subject:        "Schedule change",
		Message:        "Your Monday lecture moved to room B-2.",
		MessageType:    models.MessageGeneral,
	})
	require.NoError(t, err)
	assert.Equal(t, "admin@college.edu", message.SenderEmail)
	assert.Equal(t, "jane.doe@college.edu", message.RecipientEmail)
	// committed immediately with status sent, before the worker runs
	assert.Equal(t, models.DeliverySent, message.DeliveryStatus)
	require.Len(t, repo.created, 1)

	assert.Eventually(t, func() bool {
		return repo.statusOf("msg-1") == models.DeliveryDelivered
	}, time.Second, 10*time.Millisecond)
}

func TestMessageDeliverRecordsFailure(t *testing.T) {
	repo := newMessageRepoMock()
	gateway := &gatewayMock{delivered: false}
	svc := NewMessageService(repo, gateway, nil, nil, jobs.QueueConfig{Workers: 1})

	err := svc.deliver(context.Background(), jobs.Job{
		Type: "push_delivery",
		Payload: deliveryJobPayload{
			MessageID: "msg-9",
			Recipient: "jane.doe@college.edu",
			Subject:   "s",
			Body:      "b",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, models.DeliveryFailed, repo.statusOf("msg-9"))
	assert.Equal(t, 1, gateway.calls)
}

func TestMessageDeliverRecordsSuccess(t *testing.T) {
	repo := newMessageRepoMock()
	gateway := &gatewayMock{delivered: true}
	svc := NewMessageService(repo, gateway, nil, nil, jobs.QueueConfig{Workers: 1})

	err := svc.deliver(context.Background(), jobs.Job{
		Type:    "push_delivery",
		Payload: deliveryJobPayload{MessageID: "msg-2", Recipient: "a@x.edu"},
	})
	require.NoError(t, err)
	assert.Equal(t, models.DeliveryDelivered, repo.statusOf("msg-2"))
}

func TestMessageSendRejectsBadPayload(t *testing.T) {
	svc := NewMessageService(newMessageRepoMock(), nil, nil, nil, jobs.QueueConfig{})

	_, err := svc.Send(context.Background(), "admin@x.edu", SendMessageRequest{
		RecipientEmail: "not-an-email",
		Subject:        "s",
		Message:        "b",
		MessageType:    models.MessageGeneral,
	})
	require.Error(t, err)

	_, err = svc.Send(context.Background(), "admin@x.edu", SendMessageRequest{
		RecipientEmail: "a@x.edu",
		Subject:        "s",
		Message:        "b",
		MessageType:    "bulletin",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestMessageMarkReadRecipientOnly(t *testing.T) {
	repo := newMessageRepoMock()
	repo.found = &models.AdminMessage{ID: "msg-1", RecipientEmail: "jane.doe@college.edu"}
	svc := NewMessageService(repo, nil, nil, nil, jobs.QueueConfig{})

	err := svc.MarkRead(context.Background(), "msg-1", "someone.else@college.edu")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.read)

	require.NoError(t, svc.MarkRead(context.Background(), "msg-1", "Jane.Doe@College.edu"))
	assert.Equal(t, []string{"msg-1"}, repo.read)
}
