package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"munch-server/models"
	services "munch-server/service"
)

type VoucherHandler struct {
	voucherService *services.VoucherService
}

func NewVoucherHandler(voucherService *services.VoucherService) *VoucherHandler {
	return &VoucherHandler{voucherService: voucherService}
}

// RedeemVoucher handles POST /v1/vouchers/{id}/redeem with {"user_id": ...}
func (h *VoucherHandler) RedeemVoucher(w http.ResponseWriter, r *http.Request) {
	var body models.VoucherRedeemRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErrorCode(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	redemption, err := h.voucherService.Redeem(r.Context(), mux.Vars(r)["id"], body.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, redemption)
}
