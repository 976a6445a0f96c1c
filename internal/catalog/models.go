package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/keyhaven/keyhaven/internal/steam"
)

type Product struct {
	ID              uuid.UUID      `json:"id"`
	Name            string         `json:"name"`
	Description     string         `json:"description"`
	PriceCents      int64          `json:"price_cents"`
	Image           string         `json:"image"`
	Banner          string         `json:"banner"`
	Category        string         `json:"category"`
	SteamAppID      *int64         `json:"steam_app_id,omitempty"`
	Recommended     bool           `json:"recommended"`
	IsNew           bool           `json:"is_new"`
	CreatedAt       time.Time      `json:"created_at"`
	DiscountPercent *int           `json:"discount_percent,omitempty"`
	Steam           *steam.Details `json:"steam_details,omitempty"`
}

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Slider struct {
	ID          int64     `json:"id"`
	ProductID   uuid.UUID `json:"product_id"`
	Image       string    `json:"image"`
	Description string    `json:"description"`
	ProductName string    `json:"name"`
}

type Discount struct {
	ID              int64     `json:"id"`
	ProductID       uuid.UUID `json:"product_id"`
	DiscountPercent int       `json:"discount_percent"`
	StartDate       time.Time `json:"start_date"`
	EndDate         time.Time `json:"end_date"`
}
