package models

import "time"

// Movie представляет запись каталога фильмов. Доступ к деталям фильма
// требует активной подписки уровня не ниже Plan.
type Movie struct {
	ID          int       // Идентификатор фильма
	Title       string    // Название
	Genre       string    // Жанр
	ReleaseYear int       // Год выхода
	Rating      float64   // Рейтинг (0–10)
	Director    string    // Режиссёр
	Duration    int       // Длительность в минутах
	Description string    // Описание
	Plan        Plan      // Минимальный план для просмотра
	PosterURL   *string   // Ссылка на постер
	BannerURL   *string   // Ссылка на баннер
	CreatedAt   time.Time
}

// DummyMovie используется для приёма данных фильма из JSON-запроса.
type DummyMovie struct {
	Title       string  `json:"title" validate:"required"`
	Genre       string  `json:"genre" validate:"required"`
	ReleaseYear int     `json:"release_year" validate:"required,gte=1888"`
	Rating      float64 `json:"rating" validate:"gte=0,lte=10"`
	Director    string  `json:"director"`
	Duration    int     `json:"duration" validate:"gte=0"`
	Description string  `json:"description"`
	Plan        string  `json:"plan" validate:"required"`
	PosterURL   *string `json:"poster_url"`
	BannerURL   *string `json:"banner_url"`
}

// MovieFilter описывает параметры поиска по каталогу.
type MovieFilter struct {
	Search string // Подстрока названия, без учёта регистра
	Genre  string // Точное совпадение жанра
	Limit  int
	Offset int
}
