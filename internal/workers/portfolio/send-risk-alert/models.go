// internal/workers/portfolio/send-risk-alert/models.go
package sendriskalert

type Input struct {
	AlertType     string                 `json:"alertType"`
	Priority      string                 `json:"priority,omitempty"`
	Notifications []string               `json:"notifications"`
	Metadata      map[string]interface{} `json:"metadata,omitempty"`
}

type Output struct {
	NotificationID string   `json:"notificationId"`
	Status         string   `json:"status"`
	Channels       []string `json:"channels"`
	SentAt         string   `json:"sentAt"`
}

const (
	StatusSent     = "sent"
	StatusFailed   = "failed"
	StatusDisabled = "disabled"

	TypeCriticalRisk = "critical_risk"
	TypeDailySummary = "daily_summary"

	ChannelEmail = "email"
	ChannelSMS   = "sms"
)
