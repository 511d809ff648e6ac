package rabbitmq

import (
	"github.com/streadway/amqp"

	"github.com/movienest/movienest/internal/models"
)

// EventPublisher публикует доменные события покупок в обменник.
type EventPublisher struct {
	ch       *amqp.Channel
	exchange string
}

// NewEventPublisher создает новый экземпляр EventPublisher.
func NewEventPublisher(ch *amqp.Channel, exchange string) *EventPublisher {
	return &EventPublisher{ch: ch, exchange: exchange}
}

// PublishPurchase публикует событие покупки подписки.
func (p *EventPublisher) PublishPurchase(event models.PurchaseEvent) error {
	return PublishMessage(p.ch, p.exchange, RoutingKeyPurchase, event)
}
