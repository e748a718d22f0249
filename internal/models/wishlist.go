package models

import "time"

// Wishlist — связка пользователь–фильм. Пара (UserUID, MovieID) уникальна,
// повторное добавление работает как переключатель и удаляет запись.
type Wishlist struct {
	ID        int
	UserUID   string
	MovieID   int
	CreatedAt time.Time
}

// WishlistToggleResult описывает итог переключения фильма в вишлисте.
type WishlistToggleResult struct {
	Message      string `json:"message"`
	MovieID      int    `json:"movie_id"`
	IsWishlisted bool   `json:"is_wishlisted"`
}

// DummyWishlist используется для приёма запроса на переключение вишлиста.
type DummyWishlist struct {
	MovieID int `json:"movie_id" validate:"required,gt=0"`
}
