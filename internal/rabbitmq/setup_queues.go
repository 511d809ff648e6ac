package rabbitmq

import "github.com/movienest/movienest/internal/config"

// QueueConfig описывает очередь и ключ маршрутизации для привязки к exchange.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// Ключи маршрутизации событий сервиса.
const (
	RoutingKeyPurchase = "purchase"
	RoutingKeyReminder = "expiry.upcoming"
)

// GetEventQueues возвращает очереди для событий покупок и напоминаний.
func GetEventQueues(cfg config.RabbitConnection) []QueueConfig {
	return []QueueConfig{
		{QueueName: cfg.PurchaseQueue, RoutingKey: RoutingKeyPurchase},
		{QueueName: cfg.ReminderQueue, RoutingKey: RoutingKeyReminder},
	}
}
