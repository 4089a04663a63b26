package usecase_test

import (
	"context"
	"sync"

	"github.com/vanerisk/vane/pkg/domain/interfaces"
	"github.com/vanerisk/vane/pkg/domain/model"
	"github.com/vanerisk/vane/pkg/domain/model/auth"
	"github.com/vanerisk/vane/pkg/domain/types"
)

// mockBillingService is a mock implementation of interfaces.BillingService for testing
type mockBillingService struct {
	createCustomerFn        func(ctx context.Context, userID types.UserID, email string) (string, error)
	createCheckoutSessionFn func(ctx context.Context, input *interfaces.CheckoutInput) (string, error)
	createPortalSessionFn   func(ctx context.Context, customerID, returnURL string) (string, error)
	latestSubscriptionFn    func(ctx context.Context, customerID string) (*model.Subscription, error)

	createdCustomers []types.UserID
	checkoutInputs   []*interfaces.CheckoutInput
}

func (m *mockBillingService) CreateCustomer(ctx context.Context, userID types.UserID, email string) (string, error) {
	m.createdCustomers = append(m.createdCustomers, userID)
	if m.createCustomerFn != nil {
		return m.createCustomerFn(ctx, userID, email)
	}
	return "cus_" + userID.String(), nil
}

func (m *mockBillingService) CreateCheckoutSession(ctx context.Context, input *interfaces.CheckoutInput) (string, error) {
	m.checkoutInputs = append(m.checkoutInputs, input)
	if m.createCheckoutSessionFn != nil {
		return m.createCheckoutSessionFn(ctx, input)
	}
	return "https://checkout.example/" + input.CustomerID, nil
}

func (m *mockBillingService) CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error) {
	if m.createPortalSessionFn != nil {
		return m.createPortalSessionFn(ctx, customerID, returnURL)
	}
	return "https://portal.example/" + customerID, nil
}

func (m *mockBillingService) LatestSubscription(ctx context.Context, customerID string) (*model.Subscription, error) {
	if m.latestSubscriptionFn != nil {
		return m.latestSubscriptionFn(ctx, customerID)
	}
	return nil, nil
}

func (m *mockBillingService) ParseWebhook(payload []byte, signature string) (*model.BillingEvent, error) {
	return &model.BillingEvent{}, nil
}

// mockAuthProvider is a mock implementation of interfaces.AuthProvider for testing
type mockAuthProvider struct {
	verifyFn   func(ctx context.Context, accessToken string) (*auth.Session, error)
	exchangeFn func(ctx context.Context, code, codeVerifier string) (*auth.Session, error)
	deleteFn   func(ctx context.Context, userID types.UserID) error

	mu          sync.Mutex
	verifyCalls int
	deleted     []types.UserID
}

func (m *mockAuthProvider) VerifyAccessToken(ctx context.Context, accessToken string) (*auth.Session, error) {
	m.mu.Lock()
	m.verifyCalls++
	m.mu.Unlock()
	if m.verifyFn != nil {
		return m.verifyFn(ctx, accessToken)
	}
	return &auth.Session{UserID: "user-1", AccessToken: accessToken}, nil
}

func (m *mockAuthProvider) ExchangeCode(ctx context.Context, code, codeVerifier string) (*auth.Session, error) {
	if m.exchangeFn != nil {
		return m.exchangeFn(ctx, code, codeVerifier)
	}
	return &auth.Session{UserID: "user-1", AccessToken: "token-" + code}, nil
}

func (m *mockAuthProvider) DeleteUser(ctx context.Context, userID types.UserID) error {
	m.deleted = append(m.deleted, userID)
	if m.deleteFn != nil {
		return m.deleteFn(ctx, userID)
	}
	return nil
}

// mockNotifier records notifications
type mockNotifier struct {
	mu     sync.Mutex
	titles []string
	fields []map[string]string
}

func (m *mockNotifier) Notify(ctx context.Context, title string, fields map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.titles = append(m.titles, title)
	m.fields = append(m.fields, fields)
	return nil
}

func (m *mockNotifier) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.titles)
}
