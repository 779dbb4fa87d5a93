package domain

import (
	"time"
)

// PaymentMode is how a contribution was paid
type PaymentMode string

const (
	PaymentModeMpesa PaymentMode = "M-Pesa"
	PaymentModeCash  PaymentMode = "Cash"
	PaymentModeBank  PaymentMode = "Bank"
)

// PaymentModes lists the accepted payment modes in display order
var PaymentModes = []PaymentMode{PaymentModeMpesa, PaymentModeCash, PaymentModeBank}

// IsValid reports whether the mode is one of the accepted payment modes
func (p PaymentMode) IsValid() bool {
	for _, m := range PaymentModes {
		if p == m {
			return true
		}
	}
	return false
}

// EventType is the occasion a contribution is collected for
type EventType string

const (
	EventTypeBurial          EventType = "Burial"
	EventTypeWedding         EventType = "Wedding"
	EventTypeHospital        EventType = "Hospital"
	EventTypeVisitingParents EventType = "Visiting Parents"
	EventTypeOther           EventType = "Other"
)

// EventTypes lists the accepted event types in display order
var EventTypes = []EventType{
	EventTypeBurial,
	EventTypeWedding,
	EventTypeHospital,
	EventTypeVisitingParents,
	EventTypeOther,
}

// IsValid reports whether the event is one of the accepted event types
func (e EventType) IsValid() bool {
	for _, t := range EventTypes {
		if e == t {
			return true
		}
	}
	return false
}

// ItemFirewood is the only in-kind item tracked today
const ItemFirewood = "Firewood"

// User is an administrator account. Password holds the SHA-256 hex digest.
type User struct {
	Username string `gorm:"column:username;primaryKey"`
	Password string `gorm:"column:password"`
}

func (User) TableName() string { return "users" }

// Group is a client organization whose contributions are tracked in isolation
type Group struct {
	Name        string    `gorm:"column:group_name;primaryKey"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	EventType   EventType `gorm:"column:event_type"`
	HasFirewood bool      `gorm:"column:has_firewood"`
}

func (Group) TableName() string { return "groups" }

// Contribution is a monetary payment by a member of a group
type Contribution struct {
	ID              int64       `gorm:"column:id;primaryKey;autoIncrement"`
	GroupName       string      `gorm:"column:group_name"`
	MemberName      string      `gorm:"column:member_name"`
	Amount          float64     `gorm:"column:amount"`
	PaymentMode     PaymentMode `gorm:"column:payment_mode"`
	TransactionCode string      `gorm:"column:transaction_code"`
	EventType       EventType   `gorm:"column:event_type"`
	DateAdded       time.Time   `gorm:"column:date_added"`
}

func (Contribution) TableName() string { return "contributions" }

// LogisticsRecord is a non-monetary, in-kind contribution such as firewood
type LogisticsRecord struct {
	ID         int64     `gorm:"column:id;primaryKey;autoIncrement"`
	GroupName  string    `gorm:"column:group_name"`
	MemberName string    `gorm:"column:member_name"`
	ItemType   string    `gorm:"column:item_type"`
	DateAdded  time.Time `gorm:"column:date_added"`
}

func (LogisticsRecord) TableName() string { return "logistics" }
