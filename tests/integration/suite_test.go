package integration

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/udisondev/zonkit/internal/library"
)

// LibrarySuite runs the zone library against a real PostgreSQL.
// Каждый suite получает изолированную schema через acquireSchema().
type LibrarySuite struct {
	suite.Suite
	repo *library.Postgres
	ctx  context.Context
}

// SetupSuite выполняется один раз перед всеми тестами в suite.
func (s *LibrarySuite) SetupSuite() {
	s.ctx = context.Background()

	// Если DB_ADDR задан вручную — используем его (для CI/CD)
	dbAddr := os.Getenv("DB_ADDR")
	if dbAddr == "" {
		if containerErr != nil {
			s.T().Skipf("postgres unavailable: %v", containerErr)
		}
		dbAddr = acquireSchema(s.T())
	}

	var err error
	s.repo, err = library.NewPostgres(s.ctx, dbAddr)
	if err != nil {
		s.T().Fatalf("failed to open zone library: %v", err)
	}
}

// SetupTest выполняется перед каждым тестом для очистки данных.
func (s *LibrarySuite) SetupTest() {
	if err := s.cleanupTestData(); err != nil {
		s.T().Fatalf("failed to cleanup test data: %v", err)
	}
}

// TearDownSuite выполняется один раз после всех тестов в suite.
func (s *LibrarySuite) TearDownSuite() {
	if s.repo != nil {
		_ = s.repo.Close()
	}
}

// cleanupTestData очищает все данные из тестовых таблиц.
func (s *LibrarySuite) cleanupTestData() error {
	_, err := s.repo.Pool().Exec(s.ctx, "TRUNCATE TABLE zone_sets, zones CASCADE")
	if err != nil {
		return fmt.Errorf("truncating test tables: %w", err)
	}
	return nil
}

// TestLibrarySuite — entry point для запуска LibrarySuite.
func TestLibrarySuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}

	suite.Run(t, new(LibrarySuite))
}
