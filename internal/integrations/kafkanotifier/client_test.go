package kafkanotifier

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-HomeServiceBooking/internal/service/notify"
	"github.com/m04kA/SMC-HomeServiceBooking/pkg/logger"
)

func TestClient_NotifyPublishesJSONKeyedByCommitment(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(m *sarama.ProducerMessage) error {
		key, err := m.Key.Encode()
		if err != nil {
			return err
		}
		if string(key) != "root-1" {
			return errors.New("unexpected key " + string(key))
		}

		value, err := m.Value.Encode()
		if err != nil {
			return err
		}
		var decoded notify.Message
		if err := json.Unmarshal(value, &decoded); err != nil {
			return err
		}
		if decoded.Event != notify.EventBookingCancelled {
			return errors.New("unexpected event " + string(decoded.Event))
		}
		return nil
	})

	client := NewClientWithProducer(producer, "booking-notifications", logger.NewNop())
	err := client.Notify(context.Background(), notify.Message{
		Event:        notify.EventBookingCancelled,
		CommitmentID: "root-1",
		BookingIDs:   []string{"root-1", "child-1"},
	})
	require.NoError(t, err)
	require.NoError(t, client.Close())
}

func TestClient_NotifyReturnsPublishError(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	client := NewClientWithProducer(producer, "booking-notifications", logger.NewNop())
	err := client.Notify(context.Background(), notify.Message{Event: notify.EventBookingCreated, CommitmentID: "b1"})
	assert.ErrorIs(t, err, ErrPublish)
	require.NoError(t, client.Close())
}

func TestClient_NotifySkipsCancelledContext(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	client := NewClientWithProducer(producer, "booking-notifications", logger.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := client.Notify(ctx, notify.Message{CommitmentID: "b1"})
	assert.ErrorIs(t, err, ErrPublish)
	require.NoError(t, client.Close())
}
