package app

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Watchlist holds per-chat tracked wallets and their display labels.
// Implements the Storage interface.
type Watchlist struct {
	logger *zap.Logger

	mu    sync.RWMutex
	chats map[string]map[string]TrackedWallet // chatID -> address -> entry
}

func NewWatchlist(logger *zap.Logger) *Watchlist {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watchlist{
		logger: logger.Named("watchlist"),
		chats:  make(map[string]map[string]TrackedWallet),
	}
}

// Track adds a wallet to a chat's watchlist, overwriting any prior label.
func (w *Watchlist) Track(chatID, address, label string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.chats[chatID] == nil {
		w.chats[chatID] = make(map[string]TrackedWallet)
	}
	w.chats[chatID][address] = TrackedWallet{
		Address: address,
		Label:   label,
		AddedAt: time.Now(),
	}
}

// Untrack removes a wallet from a chat's watchlist.
func (w *Watchlist) Untrack(chatID, address string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	delete(w.chats[chatID], address)
	if len(w.chats[chatID]) == 0 {
		delete(w.chats, chatID)
	}
}

// AllTrackedChatIDs lists every chat with at least one tracked wallet.
func (w *Watchlist) AllTrackedChatIDs(ctx context.Context) ([]string, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	ids := make([]string, 0, len(w.chats))
	for chatID := range w.chats {
		ids = append(ids, chatID)
	}
	return ids, nil
}

// TrackedWallets lists a chat's tracked wallets.
func (w *Watchlist) TrackedWallets(ctx context.Context, chatID string) ([]TrackedWallet, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	wallets := make([]TrackedWallet, 0, len(w.chats[chatID]))
	for _, tw := range w.chats[chatID] {
		wallets = append(wallets, tw)
	}
	return wallets, nil
}

// IsTracked reports whether a chat tracks the given wallet.
func (w *Watchlist) IsTracked(ctx context.Context, chatID, address string) (bool, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	_, ok := w.chats[chatID][address]
	return ok, nil
}

// WalletLabel returns the first non-empty label any chat assigned to the
// wallet, or empty when no chat has labeled it.
func (w *Watchlist) WalletLabel(ctx context.Context, address string) (string, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	for _, wallets := range w.chats {
		if tw, ok := wallets[address]; ok && tw.Label != "" {
			return tw.Label, nil
		}
	}
	return "", nil
}

// AllTrackedAddresses returns the deduplicated set of wallets tracked by
// any chat; used to build the swap stream subscription.
func (w *Watchlist) AllTrackedAddresses() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()

	seen := make(map[string]struct{})
	var out []string
	for _, wallets := range w.chats {
		for addr := range wallets {
			if _, ok := seen[addr]; ok {
				continue
			}
			seen[addr] = struct{}{}
			out = append(out, addr)
		}
	}
	return out
}

// WatchlistSnapshot is a serializable snapshot of every chat's watchlist.
type WatchlistSnapshot struct {
	Version   int                              `json:"version"`
	Timestamp time.Time                        `json:"timestamp"`
	Chats     map[string]map[string]TrackedWallet `json:"chats"`
}

// Export returns a snapshot of the current state.
func (w *Watchlist) Export() *WatchlistSnapshot {
	w.mu.RLock()
	defer w.mu.RUnlock()

	chats := make(map[string]map[string]TrackedWallet, len(w.chats))
	for chatID, wallets := range w.chats {
		copied := make(map[string]TrackedWallet, len(wallets))
		for addr, tw := range wallets {
			copied[addr] = tw
		}
		chats[chatID] = copied
	}

	return &WatchlistSnapshot{
		Version:   1,
		Timestamp: time.Now(),
		Chats:     chats,
	}
}

// ExportJSON exports the watchlist as JSON bytes.
func (w *Watchlist) ExportJSON() ([]byte, error) {
	return json.Marshal(w.Export())
}

// Import merges a snapshot into the current state. Entries newer than the
// existing ones (by AddedAt) take precedence. Returns the number imported.
func (w *Watchlist) Import(snapshot *WatchlistSnapshot) int {
	if snapshot == nil || len(snapshot.Chats) == 0 {
		return 0
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	imported := 0
	for chatID, wallets := range snapshot.Chats {
		if w.chats[chatID] == nil {
			w.chats[chatID] = make(map[string]TrackedWallet)
		}
		for addr, tw := range wallets {
			existing, exists := w.chats[chatID][addr]
			if !exists || tw.AddedAt.After(existing.AddedAt) {
				w.chats[chatID][addr] = tw
				imported++
			}
		}
	}

	w.logger.Info("imported watchlist snapshot",
		zap.Int("imported", imported),
		zap.Time("snapshotTime", snapshot.Timestamp),
	)

	return imported
}

// ImportJSON imports a watchlist snapshot from JSON bytes.
func (w *Watchlist) ImportJSON(data []byte) (int, error) {
	var snapshot WatchlistSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return 0, err
	}
	return w.Import(&snapshot), nil
}
