package domain

// Scam categories accepted on case intake.
const (
	ScamTypeCrypto     = "crypto"
	ScamTypeBanking    = "banking"
	ScamTypeInvestment = "investment"
	ScamTypeTrading    = "trading"
	ScamTypePayment    = "payment"
	ScamTypeWallet     = "wallet"
	ScamTypeOther      = "other"
)

// Notification types mirror the inbox categories shown to users.
const (
	NotificationCaseUpdate = "case_update"
	NotificationPayment    = "payment"
	NotificationWithdrawal = "withdrawal"
	NotificationSystem     = "system"
	NotificationMessage    = "message"
)

// Email log types.
const (
	EmailRegistration        = "registration"
	EmailPasswordReset       = "password_reset"
	EmailCaseUpdate          = "case_update"
	EmailDepositConfirmation = "deposit_confirmation"
	EmailWithdrawalRequest   = "withdrawal_request"
	EmailWithdrawalUpdate    = "withdrawal_update"
	EmailDepositFailed       = "deposit_failed"
	EmailKYCUpdate           = "kyc_update"
	EmailRecovery            = "recovery_notification"
)

// Withdrawal payout methods.
const (
	WithdrawalMethodBank    = "bank"
	WithdrawalMethodCrypto  = "crypto"
	WithdrawalMethodPayPal  = "paypal"
	WithdrawalMethodCashApp = "cashapp"
)

// KYC document types.
const (
	DocumentPassport       = "passport"
	DocumentDriversLicense = "drivers_license"
	DocumentNationalID     = "national_id"
	DocumentUtilityBill    = "utility_bill"
)

// User roles.
const (
	RoleUser  = "user"
	RoleAgent = "agent"
	RoleAdmin = "admin"
)

// IsStaffRole reports whether the role may work review queues.
func IsStaffRole(role string) bool {
	return role == RoleAdmin || role == RoleAgent
}

// Crypto currencies accepted for deposits.
const (
	CryptoBTC  = "BTC"
	CryptoETH  = "ETH"
	CryptoUSDT = "USDT"
	CryptoUSDC = "USDC"
)

// IsSupportedCrypto reports whether the given symbol is an accepted deposit currency.
func IsSupportedCrypto(symbol string) bool {
	switch symbol {
	case CryptoBTC, CryptoETH, CryptoUSDT, CryptoUSDC:
		return true
	default:
		return false
	}
}

// IsWithdrawalMethod reports whether the given payout method is known.
func IsWithdrawalMethod(method string) bool {
	switch method {
	case WithdrawalMethodBank, WithdrawalMethodCrypto, WithdrawalMethodPayPal, WithdrawalMethodCashApp:
		return true
	default:
		return false
	}
}

// IsScamType reports whether the given category is a known scam type.
func IsScamType(t string) bool {
	switch t {
	case ScamTypeCrypto, ScamTypeBanking, ScamTypeInvestment, ScamTypeTrading, ScamTypePayment, ScamTypeWallet, ScamTypeOther:
		return true
	default:
		return false
	}
}

// IsDocumentType reports whether the given KYC document type is known.
func IsDocumentType(t string) bool {
	switch t {
	case DocumentPassport, DocumentDriversLicense, DocumentNationalID, DocumentUtilityBill:
		return true
	default:
		return false
	}
}
