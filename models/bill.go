package models

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Bill is the frozen result of a checkout. Only Status, Mode and PaidAt
// change after creation.
type Bill struct {
	ID     snowflake.ID `json:"id" gorm:"primaryKey;autoIncrement:false"`
	StayID snowflake.ID `json:"stayId" gorm:"column:stay_id;uniqueIndex;not null"`

	GuestName  string `json:"guest" gorm:"column:guest_name;size:255"`
	Phone      string `json:"phone" gorm:"column:phone;size:50"`
	RoomNumber string `json:"room" gorm:"column:room_number;type:varchar(50);index"`

	Nights      int             `json:"nights" gorm:"column:nights"`
	RoomCharges decimal.Decimal `json:"roomCharges" gorm:"column:room_charges;type:decimal(14,2)"`
	FoodCharges decimal.Decimal `json:"foodTotal" gorm:"column:food_charges;type:decimal(14,2)"`
	Advance     decimal.Decimal `json:"advance" gorm:"column:advance;type:decimal(14,2)"`
	TaxableBase decimal.Decimal `json:"taxableBase" gorm:"column:taxable_base;type:decimal(14,2)"`
	TaxRate     decimal.Decimal `json:"taxRate" gorm:"column:tax_rate;type:decimal(6,2)"`
	Tax         decimal.Decimal `json:"tax" gorm:"column:tax;type:decimal(14,2)"`
	Total       decimal.Decimal `json:"total" gorm:"column:total;type:decimal(14,2)"`

	OrderIDs datatypes.JSONSlice[snowflake.ID] `json:"orderIds" gorm:"column:order_ids"`

	Status    PaymentStatus `json:"status" gorm:"column:status;size:20;index;not null"`
	Mode      PaymentMode   `json:"mode,omitempty" gorm:"column:mode;size:20"`
	PaidAt    *time.Time    `json:"paidAt,omitempty" gorm:"column:paid_at"`
	CreatedAt time.Time     `json:"createdAt" gorm:"column:created_at;autoCreateTime:false"`
}

func (Bill) TableName() string { return "bills" }
