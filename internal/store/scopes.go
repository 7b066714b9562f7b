package store

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Scope narrows a query. Columns passed to the helpers below are fixed
// identifiers from the caller's code, never user input.
type Scope = func(db *gorm.DB) *gorm.DB

func ByID(id uuid.UUID) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("id = ?", id)
	}
}

func Where(column string, value interface{}) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(column+" = ?", value)
	}
}

func ForOwner(ownerID uuid.UUID) Scope {
	return Where("owner_id", ownerID)
}

func ForReceiver(receiverID uuid.UUID) Scope {
	return Where("receiver_id", receiverID)
}

func Unread() Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("is_read = ?", false)
	}
}

// Newest orders by creation time, most recent first.
func Newest() Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at DESC").Order("id DESC")
	}
}

func OrderBy(column string) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order(column)
	}
}
