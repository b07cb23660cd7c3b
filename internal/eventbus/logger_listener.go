package eventbus

import (
	"context"

	"github.com/annel0/voxel-content/internal/logging"
)

// StartLoggingListener подписывается на все события и пишет их в лог компонента "eventbus".
// Функция неблокирующая.
func StartLoggingListener(bus EventBus) (Subscription, error) {
	logger := logging.GetComponentLogger("eventbus")
	sub, err := bus.Subscribe(context.Background(), Filter{}, func(ctx context.Context, ev *Envelope) {
		logger.Debug("[EventBus] %s %s src=%s meta=%v size=%dB", ev.ID, ev.EventType, ev.Source, ev.Metadata, len(ev.Payload))
	})
	if err != nil {
		return nil, err
	}
	logger.Info("LoggingListener: подписка на все события активирована")
	return sub, nil
}
