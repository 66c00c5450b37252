package models

import "github.com/shopspring/decimal"

// RoomType is the catalog category of a room.
type RoomType string

const (
	RoomTypeSingle RoomType = "Single"
	RoomTypeDouble RoomType = "Double"
	RoomTypeDeluxe RoomType = "Deluxe"
	RoomTypeSuite  RoomType = "Suite"
)

// RoomTypes lists the types in catalog order.
var RoomTypes = []RoomType{RoomTypeSingle, RoomTypeDouble, RoomTypeDeluxe, RoomTypeSuite}

// DefaultRate is the nightly rate the seeded catalog uses for a type.
func (t RoomType) DefaultRate() decimal.Decimal {
	switch t {
	case RoomTypeSingle:
		return decimal.NewFromInt(2500)
	case RoomTypeDouble:
		return decimal.NewFromInt(3200)
	case RoomTypeDeluxe:
		return decimal.NewFromInt(4200)
	case RoomTypeSuite:
		return decimal.NewFromInt(6500)
	}
	return decimal.Zero
}

func (t RoomType) Valid() bool {
	for _, rt := range RoomTypes {
		if rt == t {
			return true
		}
	}
	return false
}
