package models

type NewsItem struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	DatePublished string `json:"datePublished"`
	Image         string `json:"image"`
}
