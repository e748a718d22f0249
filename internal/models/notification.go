package models

// MovieCreatedEvent — сообщение о новом фильме, публикуемое в очередь
// уведомлений. Воркер рассылает его всем устройствам с включёнными push.
type MovieCreatedEvent struct {
	MovieID int    `json:"movie_id"`
	Title   string `json:"title"`
}

// DummyNotification используется для приёма запроса на прямую отправку
// push-уведомления на конкретное устройство.
type DummyNotification struct {
	DeviceToken string            `json:"device_token" validate:"required"`
	Title       string            `json:"title" validate:"required"`
	Body        string            `json:"body" validate:"required"`
	Data        map[string]string `json:"data"`
}
