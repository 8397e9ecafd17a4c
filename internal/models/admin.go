// internal/models/admin.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// AdminSettings stores one configuration value per (category, key) pair,
// kept as JSONB so values of any shape survive without schema changes.
type AdminSettings struct {
	BaseModel
	Category    string    `json:"category" gorm:"size:50;not null;uniqueIndex:idx_settings_category_key"`
	Key         string    `json:"key" gorm:"size:100;not null;uniqueIndex:idx_settings_category_key"`
	Value       JSONB     `json:"value" gorm:"type:jsonb;not null"`
	DataType    string    `json:"data_type" gorm:"size:20;not null"`
	Description string    `json:"description" gorm:"type:text"`
	UpdatedBy   uuid.UUID `json:"updated_by" gorm:"type:uuid;not null"`

	UpdatedByUser User `json:"updated_by_user,omitempty" gorm:"foreignKey:UpdatedBy"`
}

// AuditLog records who did what to which resource. Rows are written by
// the audit middleware for mutating requests and by admin actions.
type AuditLog struct {
	BaseModel
	UserID       *uuid.UUID `json:"user_id" gorm:"type:uuid;index"`
	Action       string     `json:"action" gorm:"size:100;not null;index"`
	ResourceType string     `json:"resource_type" gorm:"size:50;not null;index"`
	ResourceID   *uuid.UUID `json:"resource_id" gorm:"type:uuid;index"`
	OldValues    JSONB      `json:"old_values" gorm:"type:jsonb"`
	NewValues    JSONB      `json:"new_values" gorm:"type:jsonb"`
	IPAddress    string     `json:"ip_address" gorm:"size:45"`
	UserAgent    string     `json:"user_agent" gorm:"type:text"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// Admin notification taxonomy.
const (
	NotificationTypeLowStock      = "low_stock"
	NotificationTypeOrderFlagged  = "order_flagged"
	NotificationTypeRefundIssued  = "refund_issued"
	NotificationTypeSystem        = "system"
	NotificationPriorityLow       = "low"
	NotificationPriorityMedium    = "medium"
	NotificationPriorityHigh      = "high"
	NotificationStatusUnread      = "unread"
	NotificationStatusRead        = "read"
)

// AdminNotification is an in-app alert for store operators, shown on
// the admin dashboard independently of any email delivery.
type AdminNotification struct {
	BaseModel
	Type                string     `json:"type" gorm:"type:varchar(50);not null;index"`
	Title               string     `json:"title" gorm:"size:255;not null"`
	Message             string     `json:"message" gorm:"type:text;not null"`
	Priority            string     `json:"priority" gorm:"type:varchar(20);default:'medium';index"`
	Status              string     `json:"status" gorm:"type:varchar(20);default:'unread';index"`
	RelatedResourceType string     `json:"related_resource_type,omitempty" gorm:"size:50"`
	RelatedResourceID   *uuid.UUID `json:"related_resource_id" gorm:"type:uuid"`
	ReadAt              *time.Time `json:"read_at"`
}

func (n *AdminNotification) IsUnread() bool {
	return n.Status != NotificationStatusRead
}

// SalesMetric holds daily rollups feeding the admin dashboard.
type SalesMetric struct {
	BaseModel
	MetricName     string    `json:"metric_name" gorm:"size:100;not null;index"`
	MetricValue    float64   `json:"metric_value" gorm:"type:decimal(15,2);not null"`
	MetricDate     time.Time `json:"metric_date" gorm:"type:date;not null;index"`
	MetricPeriod   string    `json:"metric_period" gorm:"type:varchar(20);not null;index"`
	AdditionalData JSONB     `json:"additional_data" gorm:"type:jsonb"`
}
