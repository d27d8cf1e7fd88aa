package steps

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cucumber/godog"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/finance-tracker/reconciliation/internal/application/usecase/merge"
	"github.com/finance-tracker/reconciliation/internal/application/usecase/reconciliation"
	"github.com/finance-tracker/reconciliation/internal/domain/valueobject"
	"github.com/finance-tracker/reconciliation/internal/infra/server/router"
	"github.com/finance-tracker/reconciliation/internal/integration/adapters"
	"github.com/finance-tracker/reconciliation/internal/integration/entrypoint/controller"
	"github.com/finance-tracker/reconciliation/internal/integration/persistence"
	"github.com/finance-tracker/reconciliation/internal/integration/persistence/model"
	"github.com/finance-tracker/reconciliation/test/integration/mock"
)

var tags string

func init() {
	flag.StringVar(&tags, "scenarios", "", "tags to run")
}

func TestFeatures(t *testing.T) {
	flag.Parse()

	suite := godog.TestSuite{
		ScenarioInitializer: func(s *godog.ScenarioContext) {
			InitializeScenario(s)
		},
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"../features"},
			Tags:     tags,
			Strict:   true,
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}

type testContext struct {
	uri        string
	headers    map[string]string
	client     *http.Client
	response   *response
	db         *mock.Db
	serverPort int

	currentAccountID  uuid.UUID
	otherAccountID    uuid.UUID
	currentSessionID  uuid.UUID
	transactionIDs    []uuid.UUID
	lastTransactionID uuid.UUID
	lastStatementID   uuid.UUID
}

type response struct {
	status int
	body   any
}

var serverInit sync.Once
var testDB *mock.Db
var testServerPort int
var portInit sync.Once

func initializePort() {
	portInit.Do(func() {
		testServerPort = findAvailablePort()
		_ = os.Setenv("SERVER_PORT", strconv.Itoa(testServerPort))
		_ = os.Setenv("ENV", "test")
	})
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	initializePort()

	test := &testContext{
		uri:        fmt.Sprintf("http://localhost:%d", testServerPort),
		client:     &http.Client{Timeout: 10 * time.Second},
		serverPort: testServerPort,
		db: mock.NewDb(map[string]any{
			"accounts":                   &model.AccountModel{},
			"transactions":               &model.TransactionModel{},
			"reconciliation_sessions":    &model.ReconciliationSessionModel{},
			"statement_transactions":     &model.StatementTransactionModel{},
			"reconciliation_matches":     &model.ReconciliationMatchModel{},
			"reconciliation_adjustments": &model.ReconciliationAdjustmentModel{},
		}),
	}

	testDB = test.db

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		test.before()
		return ctx, nil
	})

	ctx.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		return nil, nil
	})

	// Background steps
	ctx.Given(`^the API server is running$`, test.theAPIServerIsRunning)

	// Account setup steps
	ctx.Given(`^an account exists with opening balance "([^"]*)"$`, test.anAccountExistsWithOpeningBalance)
	ctx.Given(`^another account exists$`, test.anotherAccountExists)

	// Ledger setup steps
	ctx.Given(`^a ledger transaction of "([^"]*)" on "([^"]*)" described "([^"]*)"$`, test.aLedgerTransaction)
	ctx.Given(`^a ledger transaction of "([^"]*)" on "([^"]*)" described "([^"]*)" with reference "([^"]*)"$`, test.aLedgerTransactionWithReference)
	ctx.Given(`^a ledger transaction of "([^"]*)" on "([^"]*)" described "([^"]*)" in the other account$`, test.aLedgerTransactionInOtherAccount)

	// Session setup steps
	ctx.Given(`^a reconciliation session from "([^"]*)" to "([^"]*)" with statement balance "([^"]*)"$`, test.aReconciliationSession)
	ctx.Given(`^the session status is "([^"]*)"$`, test.theSessionStatusIs)
	ctx.Given(`^the session has a statement transaction of "([^"]*)" on "([^"]*)" described "([^"]*)"$`, test.theSessionHasAStatementTransaction)
	ctx.Given(`^the session has a statement transaction of "([^"]*)" on "([^"]*)" described "([^"]*)" with reference "([^"]*)"$`, test.theSessionHasAStatementTransactionWithReference)
	ctx.Given(`^the statement transaction is matched to the ledger transaction$`, test.theStatementTransactionIsMatched)

	// Merge setup steps
	ctx.Given(`^the last ledger transaction is merged into the first$`, test.theLastLedgerTransactionIsMergedIntoTheFirst)

	// Header steps
	ctx.Given(`^the header is empty$`, test.theHeaderIsEmpty)
	ctx.Given(`^the header contains the key "([^"]*)" with "([^"]*)"$`, test.theHeaderContainsTheKeyWith)

	// Request steps
	ctx.When(`^I send a "([^"]*)" request to "([^"]*)"$`, test.iSendARequestTo)
	ctx.When(`^I send a "([^"]*)" request to "([^"]*)" with body:$`, test.iSendARequestToWithBody)

	// Response assertion steps
	ctx.Then(`^the response status should be (\d+)$`, test.theResponseStatusShouldBe)
	ctx.Then(`^the response should be JSON$`, test.theResponseShouldBeJSON)
	ctx.Then(`^the response field "([^"]*)" should be "([^"]*)"$`, test.theResponseFieldShouldBe)
	ctx.Then(`^the response field "([^"]*)" should exist$`, test.theResponseFieldShouldExist)
	ctx.Then(`^the response field "([^"]*)" should not exist$`, test.theResponseFieldShouldNotExist)

	// Database assertion steps
	ctx.Then(`^the db should contain (\d+) objects in the "([^"]*)" table$`, test.theDbShouldContainObjectsInTheTable)
	ctx.Then(`^the db should contain (\d+) objects in "([^"]*)" with the values$`, test.theDbShouldContainObjectsInWithTheValues)
}

func findAvailablePort() int {
	listener, err := net.Listen("tcp", ":0")
	if err != nil {
		panic(err)
	}
	defer listener.Close()
	return listener.Addr().(*net.TCPAddr).Port
}

func (t *testContext) before() {
	t.headers = make(map[string]string)
	t.currentAccountID = uuid.Nil
	t.otherAccountID = uuid.Nil
	t.currentSessionID = uuid.Nil
	t.transactionIDs = nil
	t.lastTransactionID = uuid.Nil
	t.lastStatementID = uuid.Nil

	if t.db != nil {
		_ = t.db.ClearDB()
	}
}

func (t *testContext) startServer() {
	serverInit.Do(func() {
		go func() {
			gin.SetMode(gin.TestMode)

			// Create repositories
			sessionRepo := persistence.NewSessionRepository(testDB.DbConn)
			ledgerStore := persistence.NewLedgerStore(testDB.DbConn)
			accountStore := persistence.NewAccountStore(testDB.DbConn)

			// Create adapters/services
			formatter := valueobject.NewMoneyFormatter("USD")
			auditTrail := adapters.NewAuditLogger(slog.Default(), formatter)

			matchingConfig := valueobject.DefaultMatchingConfig()
			dedupConfig := valueobject.DefaultDedupConfig()

			// Create reconciliation use cases
			startUseCase := reconciliation.NewStartSessionUseCase(sessionRepo, accountStore, auditTrail)
			uploadUseCase := reconciliation.NewUploadStatementUseCase(sessionRepo, auditTrail)
			autoMatchUseCase := reconciliation.NewAutoMatchUseCase(sessionRepo, ledgerStore, auditTrail, matchingConfig)
			matchUseCase := reconciliation.NewMatchTransactionUseCase(sessionRepo, ledgerStore, auditTrail)
			unmatchUseCase := reconciliation.NewUnmatchTransactionUseCase(sessionRepo, auditTrail)
			getUseCase := reconciliation.NewGetSessionUseCase(sessionRepo, ledgerStore, accountStore)
			completeUseCase := reconciliation.NewCompleteSessionUseCase(sessionRepo, ledgerStore, accountStore, auditTrail)
			abortUseCase := reconciliation.NewAbortSessionUseCase(sessionRepo, auditTrail)

			// Create merge use cases
			mergeUseCase := merge.NewMergeTransactionsUseCase(ledgerStore, auditTrail)
			unmergeUseCase := merge.NewUnmergeTransactionUseCase(ledgerStore, auditTrail)
			markNotDupUseCase := merge.NewMarkNotDuplicateUseCase(ledgerStore, auditTrail)
			findDuplicatesUseCase := merge.NewFindDuplicatesUseCase(ledgerStore, dedupConfig)

			// Create controllers
			healthController := controller.NewHealthController(func() bool {
				return testDB != nil && testDB.DbConn != nil
			})

			reconciliationController := controller.NewReconciliationController(
				startUseCase,
				uploadUseCase,
				autoMatchUseCase,
				matchUseCase,
				unmatchUseCase,
				getUseCase,
				completeUseCase,
				abortUseCase,
			)

			mergeController := controller.NewMergeController(
				mergeUseCase,
				unmergeUseCase,
				markNotDupUseCase,
				findDuplicatesUseCase,
			)

			r := router.NewRouter(healthController, reconciliationController, mergeController, nil)
			engine := r.Setup("test")

			addr := fmt.Sprintf(":%d", testServerPort)
			server := &http.Server{
				Addr:    addr,
				Handler: engine,
			}

			_ = server.ListenAndServe()
		}()
	})

	// Wait for server to be ready
	for i := 0; i < 50; i++ {
		resp, err := http.Get(t.uri + "/health")
		if err == nil && resp.StatusCode == http.StatusOK {
			resp.Body.Close()
			return
		}
		time.Sleep(100 * time.Millisecond)
	}
}

func (t *testContext) theAPIServerIsRunning() error {
	t.startServer()
	return nil
}

func (t *testContext) anAccountExistsWithOpeningBalance(balance string) error {
	amount, err := decimal.NewFromString(balance)
	if err != nil {
		return fmt.Errorf("invalid opening balance %q: %w", balance, err)
	}

	accountID := uuid.New()
	t.currentAccountID = accountID

	now := time.Now().UTC()
	account := &model.AccountModel{
		ID:                 accountID,
		Name:               "Checking",
		Currency:           "USD",
		OpeningBalance:     amount,
		OpeningBalanceDate: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	return t.db.DbConn.Create(account).Error
}

func (t *testContext) anotherAccountExists() error {
	accountID := uuid.New()
	t.otherAccountID = accountID

	now := time.Now().UTC()
	account := &model.AccountModel{
		ID:                 accountID,
		Name:               "Savings",
		Currency:           "USD",
		OpeningBalance:     decimal.Zero,
		OpeningBalanceDate: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	return t.db.DbConn.Create(account).Error
}

func (t *testContext) aLedgerTransaction(amount, date, description string) error {
	return t.createLedgerTransaction(t.currentAccountID, amount, date, description, "")
}

func (t *testContext) aLedgerTransactionWithReference(amount, date, description, reference string) error {
	return t.createLedgerTransaction(t.currentAccountID, amount, date, description, reference)
}

func (t *testContext) aLedgerTransactionInOtherAccount(amount, date, description string) error {
	return t.createLedgerTransaction(t.otherAccountID, amount, date, description, "")
}

func (t *testContext) createLedgerTransaction(accountID uuid.UUID, amount, date, description, reference string) error {
	value, err := decimal.NewFromString(amount)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", date, err)
	}

	transactionID := uuid.New()
	t.lastTransactionID = transactionID
	t.transactionIDs = append(t.transactionIDs, transactionID)

	now := time.Now().UTC()
	txn := &model.TransactionModel{
		ID:              transactionID,
		AccountID:       accountID,
		Date:            day,
		Description:     description,
		Amount:          value,
		ReferenceNumber: reference,
		IsVerified:      true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	return t.db.DbConn.Create(txn).Error
}

func (t *testContext) aReconciliationSession(startDate, endDate, balance string) error {
	start, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		return fmt.Errorf("invalid start date %q: %w", startDate, err)
	}
	end, err := time.Parse("2006-01-02", endDate)
	if err != nil {
		return fmt.Errorf("invalid end date %q: %w", endDate, err)
	}
	amount, err := decimal.NewFromString(balance)
	if err != nil {
		return fmt.Errorf("invalid statement balance %q: %w", balance, err)
	}

	sessionID := uuid.New()
	t.currentSessionID = sessionID

	now := time.Now().UTC()
	session := &model.ReconciliationSessionModel{
		ID:               sessionID,
		AccountID:        t.currentAccountID,
		StartDate:        start,
		EndDate:          end,
		StatementBalance: amount,
		Status:           "started",
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	return t.db.DbConn.Create(session).Error
}

func (t *testContext) theSessionStatusIs(status string) error {
	return t.db.DbConn.Model(&model.ReconciliationSessionModel{}).
		Where("id = ?", t.currentSessionID).
		Update("status", status).Error
}

func (t *testContext) theSessionHasAStatementTransaction(amount, date, description string) error {
	return t.createStatementTransaction(amount, date, description, "")
}

func (t *testContext) theSessionHasAStatementTransactionWithReference(amount, date, description, reference string) error {
	return t.createStatementTransaction(amount, date, description, reference)
}

func (t *testContext) createStatementTransaction(amount, date, description, reference string) error {
	value, err := decimal.NewFromString(amount)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", date, err)
	}

	statementID := uuid.New()
	t.lastStatementID = statementID

	line := &model.StatementTransactionModel{
		ID:              statementID,
		SessionID:       t.currentSessionID,
		Amount:          value,
		Date:            day,
		Description:     description,
		ReferenceNumber: reference,
		CreatedAt:       time.Now().UTC(),
	}
	return t.db.DbConn.Create(line).Error
}

func (t *testContext) theStatementTransactionIsMatched() error {
	match := &model.ReconciliationMatchModel{
		ID:                     uuid.New(),
		SessionID:              t.currentSessionID,
		StatementTransactionID: t.lastStatementID,
		TransactionID:          t.lastTransactionID,
		IsManual:               false,
		CreatedAt:              time.Now().UTC(),
	}
	return t.db.DbConn.Create(match).Error
}

func (t *testContext) theLastLedgerTransactionIsMergedIntoTheFirst() error {
	if len(t.transactionIDs) < 2 {
		return errors.New("need at least two ledger transactions to merge")
	}
	now := time.Now().UTC()
	return t.db.DbConn.Model(&model.TransactionModel{}).
		Where("id = ?", t.lastTransactionID).
		Updates(map[string]any{
			"is_merged":      true,
			"merged_into_id": t.transactionIDs[0],
			"merged_at":      now,
		}).Error
}

func (t *testContext) theHeaderIsEmpty() error {
	t.headers = make(map[string]string)
	return nil
}

func (t *testContext) theHeaderContainsTheKeyWith(key, value string) error {
	t.headers[key] = value
	return nil
}

func (t *testContext) iSendARequestTo(method, path string) error {
	path = t.replacePlaceholders(path)
	return t.executeRequest(method, path, nil)
}

func (t *testContext) iSendARequestToWithBody(method, path string, body *godog.DocString) error {
	path = t.replacePlaceholders(path)

	var payload []byte
	if body != nil && body.Content != "" {
		payload = []byte(t.replacePlaceholders(body.Content))
	}
	return t.executeRequest(method, path, payload)
}

func (t *testContext) replacePlaceholders(content string) string {
	content = strings.ReplaceAll(content, "{{account_id}}", t.currentAccountID.String())
	content = strings.ReplaceAll(content, "{{other_account_id}}", t.otherAccountID.String())
	content = strings.ReplaceAll(content, "{{session_id}}", t.currentSessionID.String())
	content = strings.ReplaceAll(content, "{{transaction_id}}", t.lastTransactionID.String())
	content = strings.ReplaceAll(content, "{{statement_transaction_id}}", t.lastStatementID.String())

	for i, id := range t.transactionIDs {
		placeholder := fmt.Sprintf("{{transaction_id_%d}}", i+1)
		content = strings.ReplaceAll(content, placeholder, id.String())
	}

	return content
}

func (t *testContext) executeRequest(method, path string, payload []byte) error {
	var req *http.Request
	var err error

	url := t.uri + path

	if payload != nil {
		req, err = http.NewRequest(method, url, bytes.NewReader(payload))
	} else {
		req, err = http.NewRequest(method, url, nil)
	}
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	for key, value := range t.headers {
		req.Header.Set(key, value)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	t.response = &response{
		status: resp.StatusCode,
	}

	var responseBody map[string]any
	if err := json.Unmarshal(bodyBytes, &responseBody); err != nil {
		t.response.body = string(bodyBytes)
	} else {
		t.response.body = responseBody

		// Capture session ID from session creation responses
		if idStr, ok := responseBody["session_id"].(string); ok {
			if id, err := uuid.Parse(idStr); err == nil {
				t.currentSessionID = id
			}
		}
	}

	return nil
}

func (t *testContext) theResponseStatusShouldBe(expectedStatus int) error {
	if t.response == nil {
		return errors.New("no response received")
	}
	if t.response.status != expectedStatus {
		return fmt.Errorf("expected status %d, got %d (body: %v)", expectedStatus, t.response.status, t.response.body)
	}
	return nil
}

func (t *testContext) theResponseShouldBeJSON() error {
	if t.response == nil {
		return errors.New("no response received")
	}
	if _, ok := t.response.body.(map[string]any); !ok {
		return fmt.Errorf("response is not JSON: %v", t.response.body)
	}
	return nil
}

func (t *testContext) theResponseFieldShouldBe(field, expectedValue string) error {
	if t.response == nil {
		return errors.New("no response received")
	}

	body, ok := t.response.body.(map[string]any)
	if !ok {
		return fmt.Errorf("response is not a JSON object: %v", t.response.body)
	}

	value := getFieldValue(body, field)
	if value == nil {
		return fmt.Errorf("field '%s' not found in response: %v", field, body)
	}

	expectedValue = t.replacePlaceholders(expectedValue)
	actualValue := fmt.Sprintf("%v", value)
	if actualValue != expectedValue {
		return fmt.Errorf("field '%s' expected '%s', got '%s'", field, expectedValue, actualValue)
	}
	return nil
}

func (t *testContext) theResponseFieldShouldExist(field string) error {
	if t.response == nil {
		return errors.New("no response received")
	}

	body, ok := t.response.body.(map[string]any)
	if !ok {
		return fmt.Errorf("response is not a JSON object: %v", t.response.body)
	}

	if getFieldValue(body, field) == nil {
		return fmt.Errorf("field '%s' not found in response: %v", field, body)
	}
	return nil
}

func (t *testContext) theResponseFieldShouldNotExist(field string) error {
	if t.response == nil {
		return errors.New("no response received")
	}

	body, ok := t.response.body.(map[string]any)
	if !ok {
		return fmt.Errorf("response is not a JSON object: %v", t.response.body)
	}

	if value := getFieldValue(body, field); value != nil {
		return fmt.Errorf("field '%s' should not exist, got '%v'", field, value)
	}
	return nil
}

func (t *testContext) theDbShouldContainObjectsInTheTable(quantity int, table string) error {
	if entity, ok := t.db.GetModel(table); ok {
		entityType := reflect.TypeOf(entity).Elem()
		entitySlice := reflect.MakeSlice(reflect.SliceOf(entityType), 0, 0)
		entitySlicePtr := reflect.New(entitySlice.Type())
		entitySlicePtr.Elem().Set(entitySlice)

		result := t.db.DbConn.Unscoped().Find(entitySlicePtr.Interface())
		if result.Error != nil {
			return result.Error
		}

		count := entitySlicePtr.Elem().Len()
		if count != quantity {
			return fmt.Errorf("expected %d objects in '%s', got %d", quantity, table, count)
		}
		return nil
	}
	return fmt.Errorf("table '%s' not found in models", table)
}

func (t *testContext) theDbShouldContainObjectsInWithTheValues(quantity int, table string, content *godog.DocString) error {
	var criteria map[string]any
	if err := json.Unmarshal([]byte(t.replacePlaceholders(content.Content)), &criteria); err != nil {
		return err
	}

	if entity, ok := t.db.GetModel(table); ok {
		entityType := reflect.TypeOf(entity).Elem()
		entitySlice := reflect.MakeSlice(reflect.SliceOf(entityType), 0, 0)
		entitySlicePtr := reflect.New(entitySlice.Type())
		entitySlicePtr.Elem().Set(entitySlice)

		query := t.db.DbConn.Unscoped()
		for key, value := range criteria {
			query = query.Where(fmt.Sprintf("%s = ?", key), value)
		}

		result := query.Find(entitySlicePtr.Interface())
		if result.Error != nil && !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return result.Error
		}

		count := entitySlicePtr.Elem().Len()
		if count != quantity {
			return fmt.Errorf("expected %d objects in '%s' with criteria %v, got %d", quantity, table, criteria, count)
		}
		return nil
	}
	return fmt.Errorf("table '%s' not found in models", table)
}

func getFieldValue(object any, dotSeparatedField string) any {
	if object == nil {
		return nil
	}

	var objectMap map[string]any
	switch v := object.(type) {
	case map[string]any:
		objectMap = v
	default:
		objectJSON, _ := json.Marshal(object)
		if err := json.Unmarshal(objectJSON, &objectMap); err != nil {
			return nil
		}
	}

	fields := strings.Split(dotSeparatedField, ".")
	var field any = objectMap

	for _, currentField := range fields {
		if field == nil {
			return nil
		}

		if i, err := strconv.Atoi(currentField); err == nil {
			if arr, ok := field.([]any); ok && i < len(arr) {
				field = arr[i]
			} else {
				return nil
			}
		} else {
			if m, ok := field.(map[string]any); ok {
				field = m[currentField]
			} else {
				return nil
			}
		}
	}

	return field
}
