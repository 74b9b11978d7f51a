package app

import (
	"context"
	"sync"

	"github.com/basel95f-code/solana-memecoin-bot-sub005/clients/notifier"
	"github.com/basel95f-code/solana-memecoin-bot-sub005/clients/priceapi"
)

// MockOracle is a mock implementation of PriceOracle for testing.
type MockOracle struct {
	mu     sync.Mutex
	tokens map[string]*priceapi.TokenData
	errs   map[string]error
	calls  int
}

// NewMockOracle creates a new mock price oracle.
func NewMockOracle() *MockOracle {
	return &MockOracle{
		tokens: make(map[string]*priceapi.TokenData),
		errs:   make(map[string]error),
	}
}

// SetToken sets the data returned for a mint.
func (m *MockOracle) SetToken(mint string, data *priceapi.TokenData) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[mint] = data
}

// SetPrice sets just a price for a mint.
func (m *MockOracle) SetPrice(mint string, price float64) {
	m.SetToken(mint, &priceapi.TokenData{Mint: mint, PriceUsd: price})
}

// SetError sets an error to be returned for a mint.
func (m *MockOracle) SetError(mint string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs[mint] = err
}

// CallCount returns the number of lookups made.
func (m *MockOracle) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *MockOracle) GetTokenData(ctx context.Context, mint string) (*priceapi.TokenData, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if err := m.errs[mint]; err != nil {
		return nil, err
	}
	return m.tokens[mint], nil
}

// MockStorage is a mock implementation of Storage for testing.
type MockStorage struct {
	mu      sync.Mutex
	tracked map[string]map[string]bool // chatID -> address -> tracked
	labels  map[string]string
	err     error
}

// NewMockStorage creates a new mock storage.
func NewMockStorage() *MockStorage {
	return &MockStorage{
		tracked: make(map[string]map[string]bool),
		labels:  make(map[string]string),
	}
}

// Track marks a wallet tracked by a chat.
func (m *MockStorage) Track(chatID, address string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.tracked[chatID] == nil {
		m.tracked[chatID] = make(map[string]bool)
	}
	m.tracked[chatID][address] = true
}

// SetLabel sets the label returned for a wallet.
func (m *MockStorage) SetLabel(address, label string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.labels[address] = label
}

// SetError sets an error to be returned by every method.
func (m *MockStorage) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *MockStorage) AllTrackedChatIDs(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	ids := make([]string, 0, len(m.tracked))
	for id := range m.tracked {
		ids = append(ids, id)
	}
	return ids, nil
}

func (m *MockStorage) TrackedWallets(ctx context.Context, chatID string) ([]TrackedWallet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var wallets []TrackedWallet
	for addr := range m.tracked[chatID] {
		wallets = append(wallets, TrackedWallet{Address: addr})
	}
	return wallets, nil
}

func (m *MockStorage) IsTracked(ctx context.Context, chatID, address string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	return m.tracked[chatID][address], nil
}

func (m *MockStorage) WalletLabel(ctx context.Context, address string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	return m.labels[address], nil
}

// MockNotifier records every alert it is handed.
type MockNotifier struct {
	mu     sync.Mutex
	alerts []notifier.TradeAlert
}

// NewMockNotifier creates a new mock notifier.
func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

func (m *MockNotifier) SendTradeAlert(alert notifier.TradeAlert) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.alerts = append(m.alerts, alert)
}

func (m *MockNotifier) Close() error {
	return nil
}

// Alerts returns a copy of every recorded alert.
func (m *MockNotifier) Alerts() []notifier.TradeAlert {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]notifier.TradeAlert, len(m.alerts))
	copy(out, m.alerts)
	return out
}

// MockProfiler records profile rebuild requests on a channel so tests can
// wait for the asynchronous dispatch.
type MockProfiler struct {
	mu       sync.Mutex
	err      error
	profiles map[string]*WalletProfile

	Requests chan string
}

// NewMockProfiler creates a new mock profiler.
func NewMockProfiler() *MockProfiler {
	return &MockProfiler{
		profiles: make(map[string]*WalletProfile),
		Requests: make(chan string, 16),
	}
}

// SetError sets an error to be returned by GenerateProfile.
func (m *MockProfiler) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// SetProfile sets the profile returned for a wallet.
func (m *MockProfiler) SetProfile(wallet string, p *WalletProfile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[wallet] = p
}

func (m *MockProfiler) GenerateProfile(ctx context.Context, wallet string) error {
	select {
	case m.Requests <- wallet:
	default:
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.err
}

func (m *MockProfiler) Profile(wallet string) (*WalletProfile, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[wallet]
	return p, ok
}
