package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// sqlRecorder collects every statement gorm builds so the generated SQL can
// be asserted without a live database.
type sqlRecorder struct {
	statements []string
}

func (r *sqlRecorder) LogMode(logger.LogLevel) logger.Interface    { return r }
func (r *sqlRecorder) Info(context.Context, string, ...interface{})  {}
func (r *sqlRecorder) Warn(context.Context, string, ...interface{})  {}
func (r *sqlRecorder) Error(context.Context, string, ...interface{}) {}

func (r *sqlRecorder) Trace(_ context.Context, _ time.Time, fc func() (string, int64), _ error) {
	sql, _ := fc()
	r.statements = append(r.statements, sql)
}

func dryRunDB(t *testing.T, rec *sqlRecorder) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=test dbname=test",
	}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
		Logger:               rec,
	})
	require.NoError(t, err)
	return db
}

// The sufficiency check in the stock ledger is check-then-apply; without a
// pessimistic row lock on this lookup two concurrent transactions could both
// read the same stock and over-commit it.
func TestFindByNameForUpdateLocksRow(t *testing.T) {
	rec := &sqlRecorder{}
	repo := NewProductRepo(dryRunDB(t, rec))

	repo.FindByNameForUpdate(context.Background(), "Bolt")

	require.NotEmpty(t, rec.statements)
	require.Contains(t, rec.statements[len(rec.statements)-1], "FOR UPDATE")
}

func TestFindByNameCarriesNoLock(t *testing.T) {
	rec := &sqlRecorder{}
	repo := NewProductRepo(dryRunDB(t, rec))

	repo.FindByName(context.Background(), "Bolt")

	require.NotEmpty(t, rec.statements)
	require.NotContains(t, rec.statements[len(rec.statements)-1], "FOR UPDATE")
}
