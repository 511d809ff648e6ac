package models

import "time"

// Movie — фильм каталога.
type Movie struct {
	ID          int64     `json:"id"`           // Уникальный идентификатор фильма
	Title       string    `json:"title"`        // Название
	DurationMin int       `json:"duration_min"` // Длительность в минутах
	Price       float64   `json:"price"`        // Цена покупки
	Description string    `json:"description"`  // Описание
	ImdbRate    float64   `json:"imdb_rate"`    // Рейтинг IMDb от 0 до 10
	CoverURL    string    `json:"cover_url"`    // Ссылка на обложку
	Genre       string    `json:"genre"`        // Жанр
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// MoviePage — страница каталога с результатами поиска.
type MoviePage struct {
	Total    int      `json:"total"`     // Общее количество фильмов по фильтру
	Page     int      `json:"page"`      // Номер страницы, начиная с 1
	PageSize int      `json:"page_size"` // Размер страницы
	Results  []*Movie `json:"results"`   // Фильмы текущей страницы
}
