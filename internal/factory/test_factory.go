package factory

import (
	"time"

	"github.com/itobot/scout/internal/dependencies/mocks"
	"github.com/itobot/scout/internal/metrics"
	"github.com/itobot/scout/internal/services/auth"
	"github.com/itobot/scout/internal/storage/memory"
	"github.com/itobot/scout/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock *mocks.MockClock
	MockIDs   *mocks.MockIDs
}

// TestSecret signs sessions issued by a TestApp
const TestSecret = "test-secret"

// NewTestApp creates an App configured for testing with mocked dependencies.
// Emails in adminEmails register as admins.
func NewTestApp(adminEmails ...string) *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC))
	mockIDs := mocks.NewMockIDs()

	authCfg := auth.DefaultConfig()
	authCfg.Secret = TestSecret
	authCfg.AdminEmails = adminEmails
	authCfg.BcryptCost = 4

	app := newWithDependencies(store, mockClock, mockIDs, metrics.NewManager(), authCfg, testutil.NopLogger())

	return &TestApp{
		App:       app,
		MockClock: mockClock,
		MockIDs:   mockIDs,
	}
}
