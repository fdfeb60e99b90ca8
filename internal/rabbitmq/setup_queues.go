package rabbitmq

import (
	"fmt"

	"github.com/streadway/amqp"
)

// Exchange de notificaciones y colas enlazadas a él.
const (
	NotificationsExchange = "notifications"

	TeamMessageQueue    = "notifications.team_message"
	RenewalQueue        = "notifications.renewal"
	DailyLogQueue       = "notifications.daily_log"
	TeamMessageRouteKey = "team_message"
	RenewalRouteKey     = "renewal"
	DailyLogRouteKey    = "daily_log"
)

// QueueConfig describe una cola y su clave de enrutado.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetNotificationQueues devuelve las colas de notificaciones del sistema.
func GetNotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: TeamMessageQueue, RoutingKey: TeamMessageRouteKey},
		{QueueName: RenewalQueue, RoutingKey: RenewalRouteKey},
		{QueueName: DailyLogQueue, RoutingKey: DailyLogRouteKey},
	}
}

// SetupChannel abre un canal, declara el exchange directo de
// notificaciones y enlaza las colas indicadas.
func SetupChannel(conn *amqp.Connection, queues []QueueConfig) (*amqp.Channel, error) {
	const op = "rabbitmq.SetupChannel"

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := ch.Qos(10, 0, false); err != nil {
		return nil, fmt.Errorf("failed to set QoS: %w", err)
	}

	err = ch.ExchangeDeclare(
		NotificationsExchange,
		"direct",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for _, q := range queues {
		_, err := ch.QueueDeclare(
			q.QueueName,
			true,
			false,
			false,
			false,
			nil,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to declare queue %s: %w", op, q.QueueName, err)
		}

		err = ch.QueueBind(
			q.QueueName,
			q.RoutingKey,
			NotificationsExchange,
			false,
			nil,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to bind queue %s with routing key %s: %w", op, q.QueueName, q.RoutingKey, err)
		}
	}

	return ch, nil
}
