package models

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

type StayStatus string

const (
	StayStatusOccupied StayStatus = "Occupied"
	StayStatusClosed   StayStatus = "Closed"
)

// Stay is one guest's occupancy of one room, from check-in to checkout.
type Stay struct {
	ID         snowflake.ID `json:"id" gorm:"primaryKey;autoIncrement:false"`
	RoomNumber string       `json:"room" gorm:"column:room_number;type:varchar(50);index;not null"`
	RoomType   RoomType     `json:"roomType" gorm:"column:room_type;size:20"`

	GuestName  string `json:"name" gorm:"column:guest_name;size:255;not null"`
	Phone      string `json:"phone" gorm:"column:phone;size:50;not null"`
	IDType     string `json:"idType,omitempty" gorm:"column:id_type;size:50"`
	IDNumber   string `json:"idNumber,omitempty" gorm:"column:id_number;size:100"`
	Address    string `json:"address,omitempty" gorm:"column:address;size:500"`
	Remarks    string `json:"remarks,omitempty" gorm:"column:remarks;size:1000"`
	Adults     int    `json:"adults" gorm:"column:adults;default:1"`
	Children   int    `json:"children" gorm:"column:children;default:0"`

	// Rate is frozen at check-in; later catalog changes do not touch it.
	Rate    decimal.Decimal `json:"rate" gorm:"column:rate;type:decimal(14,2);not null"`
	Advance decimal.Decimal `json:"advance" gorm:"column:advance;type:decimal(14,2);not null"`
	Mode    PaymentMode     `json:"mode,omitempty" gorm:"column:mode;size:20"`

	Status    StayStatus `json:"status" gorm:"column:status;size:20;index;not null"`
	CreatedAt time.Time  `json:"createdAt" gorm:"column:created_at;autoCreateTime:false"`
	ClosedAt  *time.Time `json:"closedAt,omitempty" gorm:"column:closed_at"`
}

func (Stay) TableName() string { return "stays" }
