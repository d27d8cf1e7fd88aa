// Package reconciliation contains statement reconciliation use cases.
package reconciliation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/reconciliation/internal/application/adapter"
	"github.com/finance-tracker/reconciliation/internal/domain/entity"
	domainerror "github.com/finance-tracker/reconciliation/internal/domain/error"
)

// In-memory fakes implementing the adapter interfaces with the same
// error contracts as the persistence layer.

type fakeAuditTrail struct {
	events []adapter.AuditEvent
}

func (f *fakeAuditTrail) Record(_ context.Context, event adapter.AuditEvent) {
	f.events = append(f.events, event)
}

func (f *fakeAuditTrail) actions() []string {
	out := make([]string, len(f.events))
	for i, e := range f.events {
		out[i] = e.Action
	}
	return out
}

type fakeSessionRepo struct {
	sessions    map[uuid.UUID]*entity.ReconciliationSession
	statements  map[uuid.UUID][]*entity.StatementTransaction
	matches     map[uuid.UUID][]*entity.ReconciliationMatch
	adjustments map[uuid.UUID][]*entity.Adjustment
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{
		sessions:    make(map[uuid.UUID]*entity.ReconciliationSession),
		statements:  make(map[uuid.UUID][]*entity.StatementTransaction),
		matches:     make(map[uuid.UUID][]*entity.ReconciliationMatch),
		adjustments: make(map[uuid.UUID][]*entity.Adjustment),
	}
}

func (f *fakeSessionRepo) Create(_ context.Context, session *entity.ReconciliationSession) error {
	for _, existing := range f.sessions {
		if existing.AccountID == session.AccountID && existing.Status.IsOpen() {
			return domainerror.NewReconciliationError(
				domainerror.ErrCodeConflictingSession,
				"account already has an open session",
				domainerror.ErrConflictingSession,
			)
		}
	}
	f.sessions[session.ID] = session
	return nil
}

func (f *fakeSessionRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.ReconciliationSession, error) {
	session, ok := f.sessions[id]
	if !ok {
		return nil, domainerror.NewReconciliationError(
			domainerror.ErrCodeSessionNotFound,
			"session not found",
			domainerror.ErrSessionNotFound,
		)
	}
	copied := *session
	return &copied, nil
}

func (f *fakeSessionRepo) ReplaceUnmatchedStatement(_ context.Context, sessionID uuid.UUID, lines []*entity.StatementTransaction) error {
	matchedLines := make(map[uuid.UUID]bool)
	for _, m := range f.matches[sessionID] {
		matchedLines[m.StatementTransactionID] = true
	}
	kept := make([]*entity.StatementTransaction, 0)
	for _, line := range f.statements[sessionID] {
		if matchedLines[line.ID] {
			kept = append(kept, line)
		}
	}
	f.statements[sessionID] = append(kept, lines...)
	return nil
}

func (f *fakeSessionRepo) ListStatementTransactions(_ context.Context, sessionID uuid.UUID) ([]*entity.StatementTransaction, error) {
	return f.statements[sessionID], nil
}

func (f *fakeSessionRepo) GetStatementTransaction(_ context.Context, sessionID, statementTransactionID uuid.UUID) (*entity.StatementTransaction, error) {
	for _, line := range f.statements[sessionID] {
		if line.ID == statementTransactionID {
			return line, nil
		}
	}
	return nil, domainerror.NewReconciliationError(
		domainerror.ErrCodeStatementTxnNotFound,
		"statement transaction not found",
		domainerror.ErrStatementTransactionNotFound,
	)
}

func (f *fakeSessionRepo) CreateMatch(_ context.Context, match *entity.ReconciliationMatch) error {
	for _, m := range f.matches[match.SessionID] {
		if m.StatementTransactionID == match.StatementTransactionID || m.TransactionID == match.TransactionID {
			return domainerror.NewReconciliationError(
				domainerror.ErrCodeAlreadyMatched,
				"already matched",
				domainerror.ErrAlreadyMatched,
			)
		}
	}
	f.matches[match.SessionID] = append(f.matches[match.SessionID], match)
	return nil
}

func (f *fakeSessionRepo) DeleteMatch(_ context.Context, sessionID, statementTransactionID uuid.UUID) error {
	matches := f.matches[sessionID]
	for i, m := range matches {
		if m.StatementTransactionID == statementTransactionID {
			f.matches[sessionID] = append(matches[:i], matches[i+1:]...)
			return nil
		}
	}
	return domainerror.NewReconciliationError(
		domainerror.ErrCodeMatchNotFound,
		"no match found",
		domainerror.ErrMatchNotFound,
	)
}

func (f *fakeSessionRepo) ListMatches(_ context.Context, sessionID uuid.UUID) ([]*entity.ReconciliationMatch, error) {
	return f.matches[sessionID], nil
}

func (f *fakeSessionRepo) ListAdjustments(_ context.Context, sessionID uuid.UUID) ([]*entity.Adjustment, error) {
	return f.adjustments[sessionID], nil
}

func (f *fakeSessionRepo) TransitionStatus(_ context.Context, sessionID uuid.UUID, from []entity.SessionStatus, to entity.SessionStatus) error {
	session, ok := f.sessions[sessionID]
	if !ok {
		return domainerror.NewReconciliationError(
			domainerror.ErrCodeSessionNotFound,
			"session not found",
			domainerror.ErrSessionNotFound,
		)
	}
	for _, status := range from {
		if session.Status == status {
			session.Status = to
			return nil
		}
	}
	return domainerror.NewReconciliationError(
		domainerror.ErrCodeInvalidSessionState,
		"session is "+string(session.Status),
		domainerror.ErrInvalidSessionState,
	)
}

func (f *fakeSessionRepo) Complete(_ context.Context, session *entity.ReconciliationSession, adjustments []*entity.Adjustment) error {
	stored, ok := f.sessions[session.ID]
	if !ok || !stored.Status.IsOpen() {
		return domainerror.NewReconciliationError(
			domainerror.ErrCodeInvalidSessionState,
			"session is not open",
			domainerror.ErrInvalidSessionState,
		)
	}
	f.sessions[session.ID] = session
	f.adjustments[session.ID] = adjustments
	return nil
}

func (f *fakeSessionRepo) Abort(_ context.Context, sessionID uuid.UUID, reason string) error {
	session, ok := f.sessions[sessionID]
	if !ok || !session.Status.IsOpen() {
		return domainerror.NewReconciliationError(
			domainerror.ErrCodeInvalidSessionState,
			"session is not open",
			domainerror.ErrInvalidSessionState,
		)
	}
	session.Status = entity.SessionStatusAborted
	session.Notes = reason
	return nil
}

type fakeLedgerStore struct {
	txns []*entity.Transaction
}

func (f *fakeLedgerStore) add(txn *entity.Transaction) {
	f.txns = append(f.txns, txn)
}

func (f *fakeLedgerStore) FindByAccountAndDateRange(_ context.Context, accountID uuid.UUID, start, end time.Time) ([]*entity.Transaction, error) {
	var out []*entity.Transaction
	for _, txn := range f.txns {
		if txn.AccountID == accountID && !txn.IsMerged && !txn.Date.Before(start) && !txn.Date.After(end) {
			out = append(out, txn)
		}
	}
	return out, nil
}

func (f *fakeLedgerStore) FindByAccount(_ context.Context, accountID uuid.UUID) ([]*entity.Transaction, error) {
	var out []*entity.Transaction
	for _, txn := range f.txns {
		if txn.AccountID == accountID && !txn.IsMerged {
			out = append(out, txn)
		}
	}
	return out, nil
}

func (f *fakeLedgerStore) GetByID(_ context.Context, id uuid.UUID) (*entity.Transaction, error) {
	for _, txn := range f.txns {
		if txn.ID == id {
			return txn, nil
		}
	}
	return nil, domainerror.NewMergeError(
		domainerror.ErrCodeMergeTransactionNotFound,
		"transaction not found",
		domainerror.ErrTransactionNotFound,
	)
}

func (f *fakeLedgerStore) UpdateMergeFields(_ context.Context, id uuid.UUID, fields entity.MergeFields) error {
	txn, err := f.GetByID(context.Background(), id)
	if err != nil {
		return err
	}
	txn.IsMerged = fields.IsMerged
	txn.MergedIntoID = fields.MergedIntoID
	txn.MergedAt = fields.MergedAt
	return nil
}

func (f *fakeLedgerStore) AddDuplicateExclusion(_ context.Context, a, b uuid.UUID) error {
	txnA, err := f.GetByID(context.Background(), a)
	if err != nil {
		return err
	}
	txnB, err := f.GetByID(context.Background(), b)
	if err != nil {
		return err
	}
	txnA.DuplicateExclusions = append(txnA.DuplicateExclusions, b)
	txnB.DuplicateExclusions = append(txnB.DuplicateExclusions, a)
	return nil
}

type fakeAccountStore struct {
	accounts map[uuid.UUID]*entity.Account
	opening  map[uuid.UUID]decimal.Decimal
}

func newFakeAccountStore() *fakeAccountStore {
	return &fakeAccountStore{
		accounts: make(map[uuid.UUID]*entity.Account),
		opening:  make(map[uuid.UUID]decimal.Decimal),
	}
}

func (f *fakeAccountStore) add(account *entity.Account, opening decimal.Decimal) {
	f.accounts[account.ID] = account
	f.opening[account.ID] = opening
}

func (f *fakeAccountStore) GetByID(_ context.Context, id uuid.UUID) (*entity.Account, error) {
	account, ok := f.accounts[id]
	if !ok {
		return nil, domainerror.NewReconciliationError(
			domainerror.ErrCodeRecAccountNotFound,
			"account not found",
			domainerror.ErrAccountNotFound,
		)
	}
	return account, nil
}

func (f *fakeAccountStore) GetOpeningBalance(_ context.Context, accountID uuid.UUID, _ time.Time) (decimal.Decimal, error) {
	if _, ok := f.accounts[accountID]; !ok {
		return decimal.Zero, domainerror.NewReconciliationError(
			domainerror.ErrCodeRecAccountNotFound,
			"account not found",
			domainerror.ErrAccountNotFound,
		)
	}
	return f.opening[accountID], nil
}

// Shared test fixtures.

func testDate(d int) time.Time {
	return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC)
}

func testAccount() *entity.Account {
	return &entity.Account{
		ID:                 uuid.New(),
		Name:               "Checking",
		Currency:           "USD",
		OpeningBalance:     decimal.RequireFromString("100.00"),
		OpeningBalanceDate: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func openSession(repo *fakeSessionRepo, accountID uuid.UUID, statementBalance string) *entity.ReconciliationSession {
	session := entity.NewReconciliationSession(
		accountID,
		testDate(1),
		testDate(31),
		decimal.RequireFromString(statementBalance),
		"",
	)
	repo.sessions[session.ID] = session
	return session
}

func ledgerTransaction(accountID uuid.UUID, amount string, date time.Time, reference string) *entity.Transaction {
	txn := entity.NewTransaction(accountID, date, "ledger entry", decimal.RequireFromString(amount), "")
	txn.ReferenceNumber = reference
	return txn
}

func statementLine(sessionID uuid.UUID, amount string, date time.Time, reference string) *entity.StatementTransaction {
	return entity.NewStatementTransaction(sessionID, decimal.RequireFromString(amount), date, "statement entry", reference)
}

var _ adapter.SessionRepository = (*fakeSessionRepo)(nil)
var _ adapter.LedgerStore = (*fakeLedgerStore)(nil)
var _ adapter.AccountStore = (*fakeAccountStore)(nil)
var _ adapter.AuditTrail = (*fakeAuditTrail)(nil)
