package rabbitmq

// QueueConfig описывает очередь и ключ маршрутизации, по которому она
// привязывается к экземпляру notifications.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// Имена exchange и маршрутов уведомлений.
const (
	NotificationsExchange = "notifications"
	MovieCreatedKey       = "movie.created"
	MovieQueue            = "notifications.movies"
)

// GetNotificationQueues возвращает очереди воркера push-уведомлений.
func GetNotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: MovieQueue, RoutingKey: MovieCreatedKey},
		// при необходимости дополнительные очереди для других воркеров
	}
}
