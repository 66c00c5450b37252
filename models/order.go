package models

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type OrderKind string

const (
	OrderKindInHouse OrderKind = "inhouse"
	OrderKindOutside OrderKind = "outside"
)

type PaymentStatus string

const (
	PaymentStatusUnpaid PaymentStatus = "Unpaid"
	PaymentStatusPaid   PaymentStatus = "Paid"
)

type PaymentMode string

const (
	PaymentModeCash PaymentMode = "Cash"
	PaymentModeCard PaymentMode = "Card"
	PaymentModeUPI  PaymentMode = "UPI"
)

// LineItem is one ordered dish. Price is the unit price.
type LineItem struct {
	Name     string          `json:"name" validate:"required"`
	Quantity int             `json:"qty" validate:"gte=1"`
	Price    decimal.Decimal `json:"price"`
}

// Amount is quantity × price.
func (li LineItem) Amount() decimal.Decimal {
	return li.Price.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

type Order struct {
	ID         snowflake.ID `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Kind       OrderKind    `json:"type" gorm:"column:kind;size:20;index;not null"`
	RoomNumber *string      `json:"room,omitempty" gorm:"column:room_number;type:varchar(50);index"`
	// Customer is the walk-in's name; the desk client reads it as "name".
	Customer   string       `json:"name,omitempty" gorm:"column:customer;size:255"`
	Phone      string       `json:"phone,omitempty" gorm:"column:phone;size:50"`

	Items datatypes.JSONSlice[LineItem] `json:"items" gorm:"column:items"`
	Total decimal.Decimal               `json:"total" gorm:"column:total;type:decimal(14,2);not null"`

	Status PaymentStatus `json:"status" gorm:"column:status;size:20;index;not null"`
	Mode   PaymentMode   `json:"mode,omitempty" gorm:"column:mode;size:20"`

	// BillID is set when checkout settles the order.
	BillID    *snowflake.ID `json:"billId,omitempty" gorm:"column:bill_id;index"`
	CreatedAt time.Time     `json:"createdAt" gorm:"column:created_at;autoCreateTime:false"`
}

func (Order) TableName() string { return "orders" }
