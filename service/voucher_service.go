package services

import (
	"context"
	"errors"

	"munch-server/api/places"
	"munch-server/logger"
	"munch-server/models"
)

var ErrMissingUser = errors.New("user_id is required")

type VoucherService struct {
	placesApi places.PlacesAPI
}

func NewVoucherService(placesApi places.PlacesAPI) *VoucherService {
	return &VoucherService{placesApi: placesApi}
}

// Redeem redeems a voucher on behalf of a user.
func (vs *VoucherService) Redeem(ctx context.Context, voucherID, userID string) (*models.VoucherRedemption, error) {
	if userID == "" {
		return nil, ErrMissingUser
	}
	redemption, err := vs.placesApi.RedeemVoucher(ctx, voucherID, userID)
	if err != nil {
		return nil, err
	}
	logger.Component("VoucherService").Info().
		Str("voucher_id", voucherID).
		Str("user_id", userID).
		Str("status", redemption.Status).
		Msg("voucher redeemed")
	return redemption, nil
}
