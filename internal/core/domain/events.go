package domain

// Dashboard broadcast event names.
const (
	EventBalanceUpdate = "balance_update"
	EventCardStatus    = "card_status"
)

// BalanceEvent is the payload pushed to dashboards for both
// balance_update and card_status events.
type BalanceEvent struct {
	UID     string `json:"uid"`
	Balance int64  `json:"balance"`
}
