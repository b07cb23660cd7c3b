package eventbus

import (
	"fmt"
	"time"

	"github.com/annel0/voxel-content/internal/config"
)

// Open создаёт шину по конфигурации. Для backend "none" возвращает nil.
func Open(cfg config.EventBusConfig) (EventBus, error) {
	switch cfg.Backend {
	case "", "none":
		return nil, nil
	case "memory":
		return NewMemoryBus(cfg.Buffer), nil
	case "nats":
		bus, err := NewJetStreamBus(cfg.URL, cfg.Stream, time.Duration(cfg.RetentionHours)*time.Hour)
		if err != nil {
			return nil, err
		}
		return bus, nil
	default:
		return nil, fmt.Errorf("unknown eventbus backend %q", cfg.Backend)
	}
}
