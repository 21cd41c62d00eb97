package tasks

import (
	"encoding/json"
	"time"

	"courtflow/models"

	"github.com/hibiken/asynq"
)

const (
	TypeLinkShareHandoff = "paymentlink:share"
	TypeLinkExpirySweep  = "paymentlink:expire"
)

// LinkSharePayload carries the pre-built bilingual share message to the
// delivery subsystem. Building the message is this service's job; sending
// it is not.
type LinkSharePayload struct {
	LinkID            string `json:"linkId"`
	CounterpartyPhone string `json:"counterpartyPhone,omitempty"`
	Message           string `json:"message"`
}

// LinkExpiryPayload identifies the link whose record should be swept once
// its expiry passes.
type LinkExpiryPayload struct {
	LinkID string `json:"linkId"`
}

// NewLinkShareTask builds the share-handoff task for immediate processing.
func NewLinkShareTask(payload LinkSharePayload) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	return asynq.NewTask(TypeLinkShareHandoff, b), nil, nil
}

// NewLinkExpiryTask builds the sweep task scheduled at the link's expiry.
func NewLinkExpiryTask(linkID string, expiresAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(LinkExpiryPayload{LinkID: linkID})
	if err != nil {
		return nil, nil, err
	}
	opts := []asynq.Option{asynq.ProcessAt(expiresAt)}
	return asynq.NewTask(TypeLinkExpirySweep, b), opts, nil
}

// Scheduler enqueues payment-link follow-up work. It implements
// reservation.LinkFollowUpScheduler.
type Scheduler struct {
	client *asynq.Client
}

// NewScheduler builds a Scheduler over the queue Redis instance.
func NewScheduler(redisOpts asynq.RedisClientOpt) *Scheduler {
	return &Scheduler{client: asynq.NewClient(redisOpts)}
}

// ScheduleLinkFollowUp enqueues the share handoff and the expiry sweep for
// a freshly issued payment link.
func (s *Scheduler) ScheduleLinkFollowUp(link models.PaymentLinkDescriptor, shareMessage string) error {
	shareTask, shareOpts, err := NewLinkShareTask(LinkSharePayload{
		LinkID:            link.ID,
		CounterpartyPhone: link.CounterpartyPhone,
		Message:           shareMessage,
	})
	if err != nil {
		return err
	}
	if _, err := s.client.Enqueue(shareTask, shareOpts...); err != nil {
		return err
	}

	expiryTask, expiryOpts, err := NewLinkExpiryTask(link.ID, link.ExpiresAt)
	if err != nil {
		return err
	}
	_, err = s.client.Enqueue(expiryTask, expiryOpts...)
	return err
}

// Close releases the underlying queue client.
func (s *Scheduler) Close() error {
	return s.client.Close()
}
