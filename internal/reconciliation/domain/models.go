package domain

import (
	"github.com/bwmarrin/snowflake"
)

// ChannelSummary totals one payment channel within a scope.
type ChannelSummary struct {
	Count      int64 `json:"count"`
	Total      int64 `json:"total"`
	StaffKeeps int64 `json:"staff_keeps"`
	Company    int64 `json:"company"`
}

// Summary is the who-owes-whom view over a set of bookings. Positive
// NetBalance means staff owe the company; negative means the company owes
// staff.
type Summary struct {
	StaffID *snowflake.ID `json:"staff_id,omitempty"`

	Cash   ChannelSummary `json:"cash"`
	Online ChannelSummary `json:"online"`

	StaffOwesCompany int64 `json:"staff_owes_company"`
	CompanyOwesStaff int64 `json:"company_owes_staff"`
	NetBalance       int64 `json:"net_balance"`

	UnsettledCount int64 `json:"unsettled_count"`
}

// OrdersSummary is shop revenue over confirmed orders.
type OrdersSummary struct {
	Count          int64 `json:"count"`
	Total          int64 `json:"total"`
	ShopCommission int64 `json:"shop_commission"`
	CompanyShare   int64 `json:"company_share"`
}

// GlobalSummary combines booking and shop revenue for the accounting view.
type GlobalSummary struct {
	Bookings     Summary       `json:"bookings"`
	Orders       OrdersSummary `json:"orders"`
	CompanyShare int64         `json:"company_share_to_date"`
}

// StaffPayout is one row of the payout dashboard.
type StaffPayout struct {
	StaffID snowflake.ID `json:"staff_id"`
	Summary Summary      `json:"summary"`
}
