package models

import "time"

type VoucherRedeemRequest struct {
	UserID string `json:"user_id"`
}

// VoucherRedemption is the places API answer to a redeem call.
type VoucherRedemption struct {
	VoucherID  string    `json:"voucher_id"`
	UserID     string    `json:"user_id"`
	Code       string    `json:"code"`
	Status     string    `json:"status"`
	RedeemedAt time.Time `json:"redeemed_at"`
}
