package service

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/dushixiang/folio/internal/models"
	"github.com/glebarez/sqlite"
	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if err := db.AutoMigrate(
		models.Broker{}, models.Account{}, models.SourceFile{},
		models.CashFlow{}, models.Valuation{}, models.IngestReport{},
	); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func seedAccount(t *testing.T, db *gorm.DB, brokerName, accountName string) models.Account {
	t.Helper()

	broker := models.Broker{ID: ulid.Make().String(), Name: brokerName}
	if err := db.Create(&broker).Error; err != nil {
		t.Fatalf("failed to create broker: %v", err)
	}
	account := models.Account{
		ID:           ulid.Make().String(),
		BrokerID:     broker.ID,
		Name:         accountName,
		BaseCurrency: "USD",
	}
	if err := db.Create(&account).Error; err != nil {
		t.Fatalf("failed to create account: %v", err)
	}
	return account
}

func seedValuation(t *testing.T, db *gorm.DB, accountID string, date time.Time, value float64) {
	t.Helper()

	valuation := models.Valuation{
		ID:         ulid.Make().String(),
		AccountID:  accountID,
		Date:       date,
		TotalValue: value,
		Method:     "reported",
	}
	if err := db.Create(&valuation).Error; err != nil {
		t.Fatalf("failed to create valuation: %v", err)
	}
}

func seedFlow(t *testing.T, db *gorm.DB, accountID string, date time.Time, amount float64) {
	t.Helper()

	flow := models.CashFlow{
		ID:        ulid.Make().String(),
		AccountID: accountID,
		Date:      date,
		Amount:    amount,
		Currency:  "USD",
	}
	if err := db.Create(&flow).Error; err != nil {
		t.Fatalf("failed to create cash flow: %v", err)
	}
}
