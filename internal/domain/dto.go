package domain

// Request payloads

type RegisterRequest struct {
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required,max=200"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type CreateGroupRequest struct {
	Name string `json:"name" validate:"required,max=200"`
	// EventType defaults to Other
	EventType EventType `json:"eventType,omitempty"`
	// HasFirewood defaults to true
	HasFirewood *bool `json:"hasFirewood,omitempty"`
}

// UpdateGroupRequest changes group attributes. A new Name renames the group
// together with all of its records.
type UpdateGroupRequest struct {
	Name        *string    `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	EventType   *EventType `json:"eventType,omitempty"`
	HasFirewood *bool      `json:"hasFirewood,omitempty"`
}

// RecordContributionRequest records a payment. With UseFlatRate the amount is
// taken from the flat-rate setting.
type RecordContributionRequest struct {
	MemberName      string      `json:"memberName"`
	Amount          float64     `json:"amount"`
	UseFlatRate     bool        `json:"useFlatRate"`
	PaymentMode     PaymentMode `json:"paymentMode"`
	TransactionCode string      `json:"transactionCode" validate:"max=50"`
	EventType       EventType   `json:"eventType"`
	// Firewood also marks the member as having brought firewood
	Firewood bool `json:"firewood"`
}

type MarkFirewoodRequest struct {
	MemberName string `json:"memberName" validate:"required,max=200"`
}

type ReportRequest struct {
	EventType EventType `json:"eventType" validate:"required"`
	// Date is printed in the report header, defaults to today
	Date string `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

type FlatRateRequest struct {
	Amount float64 `json:"amount" validate:"gt=0"`
}

type ParseSMSRequest struct {
	Message string `json:"message" validate:"required"`
}

// Response payloads

type LoginResponse struct {
	Token     string `json:"token"`
	Username  string `json:"username"`
	ExpiresAt string `json:"expiresAt,omitempty"` // ISO 8601
}

type UserDTO struct {
	Username string `json:"username"`
}

type GroupDTO struct {
	Name        string    `json:"name"`
	CreatedAt   string    `json:"createdAt"` // ISO 8601
	EventType   EventType `json:"eventType"`
	HasFirewood bool      `json:"hasFirewood"`
}

// GroupLinkDTO carries the shareable member link for a group
type GroupLinkDTO struct {
	Group string `json:"group"`
	Query string `json:"query"`
	URL   string `json:"url,omitempty"`
}

type ContributionDTO struct {
	ID              int64       `json:"id"`
	GroupName       string      `json:"groupName"`
	MemberName      string      `json:"memberName"`
	Amount          float64     `json:"amount"`
	PaymentMode     PaymentMode `json:"paymentMode"`
	TransactionCode string      `json:"transactionCode"`
	EventType       EventType   `json:"eventType"`
	DateAdded       string      `json:"dateAdded"` // ISO 8601
}

type RecordContributionResponse struct {
	Contribution     ContributionDTO `json:"contribution"`
	FirewoodRecorded bool            `json:"firewoodRecorded"`
	Message          string          `json:"message"`
}

type LogisticsRecordDTO struct {
	ID         int64  `json:"id"`
	GroupName  string `json:"groupName"`
	MemberName string `json:"memberName"`
	ItemType   string `json:"itemType"`
	DateAdded  string `json:"dateAdded"` // ISO 8601
}

type MarkFirewoodResponse struct {
	MemberName string `json:"memberName"`
	// Created is false when the member was already marked
	Created bool   `json:"created"`
	Message string `json:"message"`
}

type ImportResultDTO struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

type RecentEntryDTO struct {
	MemberName string  `json:"memberName"`
	Amount     float64 `json:"amount"`
}

// PublicSummaryDTO is what a member sees when opening a group link
type PublicSummaryDTO struct {
	Group    string           `json:"group"`
	Total    float64          `json:"total"`
	Currency string           `json:"currency"`
	HasData  bool             `json:"hasData"`
	Message  string           `json:"message,omitempty"`
	Recent   []RecentEntryDTO `json:"recent"`
}

// SearchStatus is the outcome of a member lookup
type SearchStatus string

const (
	SearchStatusFound        SearchStatus = "found"
	SearchStatusFirewoodOnly SearchStatus = "firewood_only"
	SearchStatusNotFound     SearchStatus = "not_found"
)

type MemberMatchDTO struct {
	MemberName  string      `json:"memberName"`
	Amount      float64     `json:"amount"`
	PaymentMode PaymentMode `json:"paymentMode"`
	EventType   EventType   `json:"eventType"`
	Date        string      `json:"date"` // YYYY-MM-DD
	Firewood    bool        `json:"firewood"`
}

type MemberSearchDTO struct {
	Group   string           `json:"group"`
	Query   string           `json:"query"`
	Status  SearchStatus     `json:"status"`
	Message string           `json:"message"`
	Matches []MemberMatchDTO `json:"matches"`
}

// Screen is one of the three mutually exclusive top-level views
type Screen string

const (
	ScreenLanding Screen = "landing"
	ScreenAdmin   Screen = "admin"
	ScreenPublic  Screen = "public"
)

type ViewDTO struct {
	Screen     Screen   `json:"screen"`
	Group      string   `json:"group,omitempty"`
	DirectLink bool     `json:"directLink"`
	Groups     []string `json:"groups"`
	Warning    string   `json:"warning,omitempty"`
	FlatRate   float64  `json:"flatRate,omitempty"`
}

type ReportDTO struct {
	Group     string    `json:"group"`
	EventType EventType `json:"eventType"`
	Text      string    `json:"text"`
}

type FlatRateDTO struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// ParsedSMSDTO holds the fields extracted from an M-Pesa confirmation SMS
type ParsedSMSDTO struct {
	TransactionCode string  `json:"transactionCode,omitempty"`
	Amount          float64 `json:"amount,omitempty"`
	FirstName       string  `json:"firstName,omitempty"`
	SecondName      string  `json:"secondName,omitempty"`
	MemberName      string  `json:"memberName,omitempty"`
}

type OptionsDTO struct {
	PaymentModes []PaymentMode `json:"paymentModes"`
	EventTypes   []EventType   `json:"eventTypes"`
}
