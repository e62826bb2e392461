package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/recoverypro/portal/internal/domain"
)

type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

type UserProfile struct {
	UserID      uuid.UUID `json:"user_id"`
	FullName    string    `json:"full_name"`
	Phone       string    `json:"phone"`
	Country     string    `json:"country"`
	KYCVerified bool      `json:"kyc_verified"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type PaymentPlan struct {
	ID           uuid.UUID        `json:"id"`
	Name         string           `json:"name"`
	Description  string           `json:"description"`
	MinAmount    decimal.Decimal  `json:"min_amount"`
	MaxAmount    decimal.Decimal  `json:"max_amount"`
	Percentage   decimal.Decimal  `json:"percentage"`
	FixedDeposit *decimal.Decimal `json:"fixed_deposit,omitempty"`
	Active       bool             `json:"active"`
	CreatedAt    time.Time        `json:"created_at"`
}

// Covers reports whether a loss amount falls inside the plan's half-open
// range [MinAmount, MaxAmount).
func (p PaymentPlan) Covers(amount decimal.Decimal) bool {
	return amount.GreaterThanOrEqual(p.MinAmount) && amount.LessThan(p.MaxAmount)
}

// RequiredDeposit returns the deposit this plan demands for a given loss,
// rounded to the currency's fraction digits.
func (p PaymentPlan) RequiredDeposit(amountLost decimal.Decimal, currency string) decimal.Decimal {
	return domain.RequiredDeposit(amountLost, p.Percentage, p.FixedDeposit, currency)
}

type ScamCase struct {
	ID           uuid.UUID         `json:"id"`
	Reference    string            `json:"reference"`
	UserID       uuid.UUID         `json:"user_id"`
	PlanID       *uuid.UUID        `json:"plan_id,omitempty"`
	ScamType     string            `json:"scam_type"`
	Description  string            `json:"description"`
	AmountLost   decimal.Decimal   `json:"amount_lost"`
	Currency     string            `json:"currency"`
	Status       domain.CaseStatus `json:"status"`
	ScammerInfo  string            `json:"scammer_info,omitempty"`
	IncidentDate time.Time         `json:"incident_date"`
	AgentID      *uuid.UUID        `json:"agent_id,omitempty"`
	RiskScore    int               `json:"risk_score"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

type EvidenceFile struct {
	ID         uuid.UUID `json:"id"`
	CaseID     uuid.UUID `json:"case_id"`
	FileName   string    `json:"file_name"`
	FileSize   int64     `json:"file_size"`
	StoragePath string   `json:"storage_path"`
	UploadedAt time.Time `json:"uploaded_at"`
}

type CaseStatusUpdate struct {
	ID        uuid.UUID         `json:"id"`
	CaseID    uuid.UUID         `json:"case_id"`
	OldStatus domain.CaseStatus `json:"old_status"`
	NewStatus domain.CaseStatus `json:"new_status"`
	Message   string            `json:"message,omitempty"`
	ActorID   *uuid.UUID        `json:"actor_id,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

type UserDeposit struct {
	ID          uuid.UUID            `json:"id"`
	Reference   string               `json:"reference"`
	UserID      uuid.UUID            `json:"user_id"`
	CaseID      uuid.UUID            `json:"case_id"`
	Amount      decimal.Decimal      `json:"amount"`
	Currency    string               `json:"currency"`
	Crypto      string               `json:"crypto_currency"`
	WalletAddr  string               `json:"wallet_address"`
	TxHash      string               `json:"tx_hash,omitempty"`
	Status      domain.DepositStatus `json:"status"`
	ConfirmedAt *time.Time           `json:"confirmed_at,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
}

type RecoveryTransaction struct {
	ID          uuid.UUID       `json:"id"`
	Reference   string          `json:"reference"`
	CaseID      uuid.UUID       `json:"case_id"`
	UserID      uuid.UUID       `json:"user_id"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Description string          `json:"description,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

type UserWallet struct {
	UserID         uuid.UUID       `json:"user_id"`
	Balance        decimal.Decimal `json:"balance"`
	PendingBalance decimal.Decimal `json:"pending_balance"`
	TotalRecovered decimal.Decimal `json:"total_recovered"`
	TotalWithdrawn decimal.Decimal `json:"total_withdrawn"`
	Currency       string          `json:"currency"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// CanWithdraw reports whether the wallet covers the requested amount.
func (w UserWallet) CanWithdraw(amount decimal.Decimal) bool {
	return amount.IsPositive() && w.Balance.GreaterThanOrEqual(amount)
}

// ApplyRecovery returns the wallet after crediting a recovered amount.
func (w UserWallet) ApplyRecovery(amount decimal.Decimal) UserWallet {
	w.Balance = w.Balance.Add(amount)
	w.TotalRecovered = w.TotalRecovered.Add(amount)
	return w
}

// ApplyWithdrawalHold returns the wallet after moving a requested amount from
// the available balance to the pending bucket. The hold keeps one balance from
// backing two withdrawals.
func (w UserWallet) ApplyWithdrawalHold(amount decimal.Decimal) UserWallet {
	w.Balance = w.Balance.Sub(amount)
	w.PendingBalance = w.PendingBalance.Add(amount)
	return w
}

// ApplyWithdrawalComplete returns the wallet after a held withdrawal pays out.
func (w UserWallet) ApplyWithdrawalComplete(amount decimal.Decimal) UserWallet {
	w.PendingBalance = w.PendingBalance.Sub(amount)
	w.TotalWithdrawn = w.TotalWithdrawn.Add(amount)
	return w
}

// ApplyRefund returns the wallet after crediting a rejected withdrawal back to
// the available balance.
func (w UserWallet) ApplyRefund(amount decimal.Decimal) UserWallet {
	w.PendingBalance = w.PendingBalance.Sub(amount)
	w.Balance = w.Balance.Add(amount)
	return w
}

type WithdrawalRequest struct {
	ID          uuid.UUID               `json:"id"`
	Reference   string                  `json:"reference"`
	UserID      uuid.UUID               `json:"user_id"`
	Amount      decimal.Decimal         `json:"amount"`
	Currency    string                  `json:"currency"`
	Method      string                  `json:"method"`
	Destination string                  `json:"destination"`
	Status      domain.WithdrawalStatus `json:"status"`
	AdminNotes  string                  `json:"admin_notes,omitempty"`
	ResolvedAt  *time.Time              `json:"resolved_at,omitempty"`
	CreatedAt   time.Time               `json:"created_at"`
}

type KYCVerification struct {
	ID              uuid.UUID        `json:"id"`
	UserID          uuid.UUID        `json:"user_id"`
	DocumentType    string           `json:"document_type"`
	DocumentNumber  string           `json:"document_number"`
	DocumentPath    string           `json:"document_path"`
	Status          domain.KYCStatus `json:"status"`
	RejectionReason string           `json:"rejection_reason,omitempty"`
	ReviewedBy      *uuid.UUID       `json:"reviewed_by,omitempty"`
	ReviewedAt      *time.Time       `json:"reviewed_at,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
}

type Notification struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	CaseID    *uuid.UUID `json:"case_id,omitempty"`
	Type      string     `json:"type"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	Read      bool       `json:"read"`
	CreatedAt time.Time  `json:"created_at"`
}

type EmailLog struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Type      string    `json:"type"`
	Recipient string    `json:"recipient"`
	Subject   string    `json:"subject"`
	Sent      bool      `json:"sent"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type CryptoWallet struct {
	ID        uuid.UUID `json:"id"`
	Currency  string    `json:"currency"`
	Network   string    `json:"network"`
	Address   string    `json:"address"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}
