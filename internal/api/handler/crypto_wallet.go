package handler

import (
	"net/http"

	"github.com/recoverypro/portal/internal/service"
)

// CryptoWalletHandler lists the receiving addresses users deposit into.
type CryptoWalletHandler struct {
	store service.QueryStore
}

func NewCryptoWalletHandler(store service.QueryStore) *CryptoWalletHandler {
	return &CryptoWalletHandler{store: store}
}

// ListActive handles GET /v1/crypto-wallets
func (h *CryptoWalletHandler) ListActive(w http.ResponseWriter, r *http.Request) {
	wallets, err := h.store.Queries().ListCryptoWallets(r.Context(), true)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	RespondJSON(w, http.StatusOK, map[string]interface{}{"wallets": wallets})
}
