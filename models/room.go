package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Room is catalog reference data. Occupancy is never stored on the room
// row; it is derived from Stay status.
type Room struct {
	RoomNumber string          `json:"room" gorm:"column:room_number;primaryKey;type:varchar(50)"`
	Type       RoomType        `json:"type" gorm:"column:type;type:varchar(20);not null"`
	Floor      int             `json:"floor" gorm:"column:floor"`
	Rate       decimal.Decimal `json:"rate" gorm:"column:rate;type:decimal(14,2);not null"`

	CreatedAt time.Time `json:"-"`
}

func (Room) TableName() string { return "rooms" }

type RoomStatus string

const (
	RoomStatusAvailable RoomStatus = "Available"
	RoomStatusOccupied  RoomStatus = "Occupied"
)
