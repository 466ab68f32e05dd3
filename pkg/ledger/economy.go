package ledger

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"
)

// EconomyLedger manages economy.json.
type EconomyLedger struct {
	service *Service
}

// Account is a wallet together with its owner.
type Account struct {
	UserID string `json:"user_id"`
	EconomyAccount
}

func snapshot(userID string, account *EconomyAccount) Account {
	return Account{UserID: userID, EconomyAccount: *account}
}

// DailyClaim is the outcome of ClaimDaily.
type DailyClaim struct {
	Reward  int64
	Base    int64
	Bonus   int64
	Streak  int64
	Account Account
}

// WeeklyClaim is the outcome of ClaimWeekly.
type WeeklyClaim struct {
	Reward  int64
	Account Account
}

// WorkResult is the outcome of Work.
type WorkResult struct {
	Earned       int64
	Base         int64
	VehicleBonus int64
	Job          string
	Account      Account
}

// Payment is a peer-to-peer wallet transfer request.
type Payment struct {
	Sender         UserID
	Recipient      UserID
	RecipientIsBot bool
	Amount         int64
}

// PaymentReceipt reports a completed payment.
type PaymentReceipt struct {
	Sender           string
	Recipient        string
	Amount           int64
	SenderBalance    int64
	RecipientBalance int64
}

// LeaderboardQuery scopes a leaderboard. A nil IsMember admits everyone.
type LeaderboardQuery struct {
	Limit    int
	IsMember func(userID string) bool
}

// LeaderboardEntry is one ranked account.
type LeaderboardEntry struct {
	Rank    int    `json:"rank"`
	UserID  string `json:"user_id"`
	Wealth  int64  `json:"wealth"`
	Balance int64  `json:"balance"`
	Bank    int64  `json:"bank"`
}

// AdjustAction is a dashboard balance edit.
type AdjustAction string

const (
	AdjustAdd    AdjustAction = "add"
	AdjustRemove AdjustAction = "remove"
	AdjustSet    AdjustAction = "set"
)

// AccountAdjustment is an administrative edit to one field of an account.
type AccountAdjustment struct {
	User   UserID
	Action AdjustAction
	Target string
	Amount int64
}

// EconomyStats summarizes all accounts.
type EconomyStats struct {
	Accounts int   `json:"accounts"`
	Wallets  int64 `json:"wallets"`
	Banks    int64 `json:"banks"`
}

// EconomyOverview is the dashboard's account listing with matching totals.
type EconomyOverview struct {
	Accounts []Account    `json:"accounts"`
	Stats    EconomyStats `json:"stats"`
}

// Account returns user's wallet, creating and persisting it on first access.
func (ledger *EconomyLedger) Account(ctx context.Context, user UserID) (Account, error) {
	if user.IsZero() {
		return Account{}, fmt.Errorf("%w: empty value", ErrInvalidUserID)
	}
	var result Account
	created := false
	document := &EconomyDocument{}
	err := ledger.service.update(ctx, document, func(context.Context) error {
		account, isNew := document.account(user.String())
		result = snapshot(user.String(), account)
		created = isNew
		if !isNew {
			return ErrSkipSave
		}
		return nil
	})
	if created || err != nil {
		ledger.service.logOperation(ctx, OperationLog{
			Operation: operationOpenAccount,
			Document:  DocumentEconomy,
			UserID:    user.String(),
			Error:     err,
		})
	}
	if err != nil {
		return Account{}, err
	}
	return result, nil
}

// ClaimDaily credits the daily reward plus any streak bonus.
func (ledger *EconomyLedger) ClaimDaily(ctx context.Context, user UserID) (DailyClaim, error) {
	var claim DailyClaim
	err := ledger.mutateAccount(ctx, user, func(account *EconomyAccount, now time.Time) error {
		last := instantOf(account.LastDaily)
		if !last.IsZero() && now.Sub(last) < DailyCooldown {
			return &CooldownError{Kind: CooldownDaily, NextEligibleAt: last.Add(DailyCooldown)}
		}
		streak := int64(1)
		bonus := int64(0)
		if !last.IsZero() && now.Sub(last) <= DailyStreakGrace {
			bonus = min(StreakBonusCap, StreakBonusPerDay*account.DailyStreak)
			streak = account.DailyStreak + 1
		}
		reward := DailyReward + bonus
		if err := credit(reward, &account.Balance, &account.TotalEarned); err != nil {
			return err
		}
		account.DailyStreak = streak
		account.LastDaily = stampPointer(now)
		claim = DailyClaim{Reward: reward, Base: DailyReward, Bonus: bonus, Streak: streak}
		return nil
	}, &claim.Account)
	ledger.service.logOperation(ctx, OperationLog{
		Operation: operationClaimDaily,
		Document:  DocumentEconomy,
		UserID:    user.String(),
		Amount:    claim.Reward,
		Error:     err,
	})
	if err != nil {
		return DailyClaim{}, err
	}
	return claim, nil
}

// ClaimWeekly credits the weekly reward.
func (ledger *EconomyLedger) ClaimWeekly(ctx context.Context, user UserID) (WeeklyClaim, error) {
	var claim WeeklyClaim
	err := ledger.mutateAccount(ctx, user, func(account *EconomyAccount, now time.Time) error {
		last := instantOf(account.LastWeekly)
		if !last.IsZero() && now.Sub(last) < WeeklyCooldown {
			return &CooldownError{Kind: CooldownWeekly, NextEligibleAt: last.Add(WeeklyCooldown)}
		}
		if err := credit(WeeklyReward, &account.Balance, &account.TotalEarned); err != nil {
			return err
		}
		account.LastWeekly = stampPointer(now)
		claim.Reward = WeeklyReward
		return nil
	}, &claim.Account)
	ledger.service.logOperation(ctx, OperationLog{
		Operation: operationClaimWeekly,
		Document:  DocumentEconomy,
		UserID:    user.String(),
		Amount:    claim.Reward,
		Error:     err,
	})
	if err != nil {
		return WeeklyClaim{}, err
	}
	return claim, nil
}

// Work pays a random base amount plus a bonus per owned vehicle.
func (ledger *EconomyLedger) Work(ctx context.Context, user UserID) (WorkResult, error) {
	var result WorkResult
	err := ledger.mutateAccount(ctx, user, func(account *EconomyAccount, now time.Time) error {
		last := instantOf(account.LastWork)
		if !last.IsZero() && now.Sub(last) < WorkCooldown {
			return &CooldownError{Kind: CooldownWork, NextEligibleAt: last.Add(WorkCooldown)}
		}
		vehicleBonus, err := ledger.vehicleBonus(ctx, user)
		if err != nil {
			return err
		}
		random := ledger.service.random
		base := WorkPayMin + random.Int64N(WorkPayMax-WorkPayMin+1)
		earned := base + vehicleBonus
		if err := credit(earned, &account.Balance, &account.TotalEarned); err != nil {
			return err
		}
		account.LastWork = stampPointer(now)
		result = WorkResult{Earned: earned, Base: base, VehicleBonus: vehicleBonus, Job: Jobs[random.IntN(len(Jobs))]}
		return nil
	}, &result.Account)
	ledger.service.logOperation(ctx, OperationLog{
		Operation: operationWork,
		Document:  DocumentEconomy,
		UserID:    user.String(),
		Amount:    result.Earned,
		Error:     err,
	})
	if err != nil {
		return WorkResult{}, err
	}
	return result, nil
}

func (ledger *EconomyLedger) vehicleBonus(ctx context.Context, user UserID) (int64, error) {
	if ledger.service.vehicleCounter == nil {
		return 0, nil
	}
	count, err := ledger.service.vehicleCounter.CountByOwner(ctx, user)
	if err != nil {
		return 0, err
	}
	return min(VehicleBonusCap, VehicleBonusPerCar*int64(count)), nil
}

// Deposit moves funds from the wallet to the bank.
func (ledger *EconomyLedger) Deposit(ctx context.Context, user UserID, spec AmountSpec) (Account, error) {
	var result Account
	var moved int64
	err := ledger.mutateAccount(ctx, user, func(account *EconomyAccount, _ time.Time) error {
		amount, err := spec.resolve(account.Balance)
		if err != nil {
			return err
		}
		if amount > account.Balance {
			return fmt.Errorf("%w: wallet holds %d", ErrInsufficientFunds, account.Balance)
		}
		if err := credit(amount, &account.Bank); err != nil {
			return err
		}
		account.Balance -= amount
		moved = amount
		return nil
	}, &result)
	ledger.service.logOperation(ctx, OperationLog{
		Operation: operationDeposit,
		Document:  DocumentEconomy,
		UserID:    user.String(),
		Amount:    moved,
		Error:     err,
	})
	if err != nil {
		return Account{}, err
	}
	return result, nil
}

// Withdraw moves funds from the bank to the wallet.
func (ledger *EconomyLedger) Withdraw(ctx context.Context, user UserID, spec AmountSpec) (Account, error) {
	var result Account
	var moved int64
	err := ledger.mutateAccount(ctx, user, func(account *EconomyAccount, _ time.Time) error {
		amount, err := spec.resolve(account.Bank)
		if err != nil {
			return err
		}
		if amount > account.Bank {
			return fmt.Errorf("%w: bank holds %d", ErrInsufficientFunds, account.Bank)
		}
		if err := credit(amount, &account.Balance); err != nil {
			return err
		}
		account.Bank -= amount
		moved = amount
		return nil
	}, &result)
	ledger.service.logOperation(ctx, OperationLog{
		Operation: operationWithdraw,
		Document:  DocumentEconomy,
		UserID:    user.String(),
		Amount:    moved,
		Error:     err,
	})
	if err != nil {
		return Account{}, err
	}
	return result, nil
}

// Pay moves amount from the sender's wallet to the recipient's wallet in one save.
func (ledger *EconomyLedger) Pay(ctx context.Context, payment Payment) (PaymentReceipt, error) {
	var receipt PaymentReceipt
	err := validatePayment(payment)
	if err == nil {
		document := &EconomyDocument{}
		err = ledger.service.update(ctx, document, func(context.Context) error {
			sender, _ := document.account(payment.Sender.String())
			recipient, _ := document.account(payment.Recipient.String())
			if sender.Balance < payment.Amount {
				return fmt.Errorf("%w: wallet holds %d", ErrInsufficientFunds, sender.Balance)
			}
			if err := credit(payment.Amount, &recipient.Balance, &recipient.TotalEarned, &sender.TotalSpent); err != nil {
				return err
			}
			sender.Balance -= payment.Amount
			receipt = PaymentReceipt{
				Sender:           payment.Sender.String(),
				Recipient:        payment.Recipient.String(),
				Amount:           payment.Amount,
				SenderBalance:    sender.Balance,
				RecipientBalance: recipient.Balance,
			}
			return nil
		})
	}
	ledger.service.logOperation(ctx, OperationLog{
		Operation: operationPay,
		Document:  DocumentEconomy,
		UserID:    payment.Sender.String(),
		Subject:   payment.Recipient.String(),
		Amount:    payment.Amount,
		Error:     err,
	})
	if err != nil {
		return PaymentReceipt{}, err
	}
	ledger.notifyPayment(ctx, receipt)
	return receipt, nil
}

func validatePayment(payment Payment) error {
	if payment.Sender.IsZero() || payment.Recipient.IsZero() {
		return fmt.Errorf("%w: empty value", ErrInvalidUserID)
	}
	if payment.Sender == payment.Recipient {
		return ErrSelfPayment
	}
	if payment.RecipientIsBot {
		return ErrBotRecipient
	}
	if payment.Amount <= 0 {
		return fmt.Errorf("%w: must be positive", ErrInvalidAmount)
	}
	return nil
}

func (ledger *EconomyLedger) notifyPayment(ctx context.Context, receipt PaymentReceipt) {
	notifier := ledger.service.notifier
	if notifier == nil {
		return
	}
	if err := notifier.NotifyPayment(ctx, receipt); err != nil {
		ledger.service.logOperation(ctx, OperationLog{
			Operation: operationNotifyPayment,
			Document:  DocumentEconomy,
			UserID:    receipt.Recipient,
			Subject:   receipt.Sender,
			Amount:    receipt.Amount,
			Status:    OperationStatusIgnored,
			Error:     err,
		})
	}
}

// Leaderboard ranks accounts with positive wealth, richest first.
func (ledger *EconomyLedger) Leaderboard(ctx context.Context, query LeaderboardQuery) ([]LeaderboardEntry, error) {
	document := &EconomyDocument{}
	if err := ledger.service.store.Read(ctx, document); err != nil {
		return nil, err
	}
	limit := query.Limit
	if limit <= 0 {
		limit = defaultLeaderboardTop
	}
	entries := make([]LeaderboardEntry, 0, len(document.Users))
	for userID, account := range document.Users {
		wealth := account.Balance + account.Bank
		if wealth <= 0 {
			continue
		}
		if query.IsMember != nil && !query.IsMember(userID) {
			continue
		}
		entries = append(entries, LeaderboardEntry{UserID: userID, Wealth: wealth, Balance: account.Balance, Bank: account.Bank})
	}
	slices.SortFunc(entries, func(left, right LeaderboardEntry) int {
		if byWealth := cmp.Compare(right.Wealth, left.Wealth); byWealth != 0 {
			return byWealth
		}
		return cmp.Compare(left.UserID, right.UserID)
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	for index := range entries {
		entries[index].Rank = index + 1
	}
	return entries, nil
}

// Adjust applies an administrative add, remove or set to the wallet or bank.
func (ledger *EconomyLedger) Adjust(ctx context.Context, adjustment AccountAdjustment) (Account, error) {
	var result Account
	target := strings.ToLower(strings.TrimSpace(adjustment.Target))
	action := AdjustAction(strings.ToLower(strings.TrimSpace(string(adjustment.Action))))
	err := validateAdjustment(action, target, adjustment.Amount)
	if err == nil {
		err = ledger.mutateAccount(ctx, adjustment.User, func(account *EconomyAccount, _ time.Time) error {
			field := &account.Balance
			if target == adjustTargetBank {
				field = &account.Bank
			}
			switch action {
			case AdjustAdd:
				if err := credit(adjustment.Amount, field, &account.TotalEarned); err != nil {
					return err
				}
			case AdjustRemove:
				removed := min(*field, adjustment.Amount)
				if err := credit(removed, &account.TotalSpent); err != nil {
					return err
				}
				*field -= removed
			case AdjustSet:
				*field = adjustment.Amount
			}
			return nil
		}, &result)
	}
	ledger.service.logOperation(ctx, OperationLog{
		Operation: operationAdjust,
		Document:  DocumentEconomy,
		UserID:    adjustment.User.String(),
		Subject:   string(action) + ":" + target,
		Amount:    adjustment.Amount,
		Error:     err,
	})
	if err != nil {
		return Account{}, err
	}
	return result, nil
}

// credit adds a non-negative amount to every field, or to none of them when
// any sum would exceed math.MaxInt64.
func credit(amount int64, fields ...*int64) error {
	for _, field := range fields {
		if *field > 0 && amount > math.MaxInt64-*field {
			return fmt.Errorf("%w: %d would overflow a stored total", ErrInvalidAmount, amount)
		}
	}
	for _, field := range fields {
		*field += amount
	}
	return nil
}

func validateAdjustment(action AdjustAction, target string, amount int64) error {
	switch action {
	case AdjustAdd, AdjustRemove, AdjustSet:
	default:
		return fmt.Errorf("%w: unknown action %q", ErrInvalidAdjustment, action)
	}
	if target != adjustTargetBalance && target != adjustTargetBank {
		return fmt.Errorf("%w: unknown target %q", ErrInvalidAdjustment, target)
	}
	if amount < 0 {
		return fmt.Errorf("%w: must not be negative", ErrInvalidAmount)
	}
	return nil
}

// Accounts lists every account ordered by user id.
func (ledger *EconomyLedger) Accounts(ctx context.Context) ([]Account, error) {
	document := &EconomyDocument{}
	if err := ledger.service.store.Read(ctx, document); err != nil {
		return nil, err
	}
	return sortedAccounts(document), nil
}

// Stats totals wallets and banks across all accounts.
func (ledger *EconomyLedger) Stats(ctx context.Context) (EconomyStats, error) {
	document := &EconomyDocument{}
	if err := ledger.service.store.Read(ctx, document); err != nil {
		return EconomyStats{}, err
	}
	return economyStats(document), nil
}

// Overview returns the account list and its totals from a single load, so the
// totals always match the rows.
func (ledger *EconomyLedger) Overview(ctx context.Context) (EconomyOverview, error) {
	document := &EconomyDocument{}
	if err := ledger.service.store.Read(ctx, document); err != nil {
		return EconomyOverview{}, err
	}
	return EconomyOverview{Accounts: sortedAccounts(document), Stats: economyStats(document)}, nil
}

func sortedAccounts(document *EconomyDocument) []Account {
	accounts := make([]Account, 0, len(document.Users))
	for userID, account := range document.Users {
		accounts = append(accounts, snapshot(userID, account))
	}
	slices.SortFunc(accounts, func(left, right Account) int {
		return cmp.Compare(left.UserID, right.UserID)
	})
	return accounts
}

func economyStats(document *EconomyDocument) EconomyStats {
	stats := EconomyStats{Accounts: len(document.Users)}
	for _, account := range document.Users {
		stats.Wallets += account.Balance
		stats.Banks += account.Bank
	}
	return stats
}

// mutateAccount loads user's account (creating it if needed), applies mutate and
// saves. The post-mutation snapshot is written to out.
func (ledger *EconomyLedger) mutateAccount(ctx context.Context, user UserID, mutate func(account *EconomyAccount, now time.Time) error, out *Account) error {
	if user.IsZero() {
		return fmt.Errorf("%w: empty value", ErrInvalidUserID)
	}
	document := &EconomyDocument{}
	return ledger.service.update(ctx, document, func(context.Context) error {
		account, _ := document.account(user.String())
		if err := mutate(account, ledger.service.now()); err != nil {
			return err
		}
		*out = snapshot(user.String(), account)
		return nil
	})
}
