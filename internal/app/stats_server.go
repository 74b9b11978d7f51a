package app

import (
	"context"
	"encoding/json"
	"net/http"
	"runtime"
	"runtime/debug"
	"time"

	"go.uber.org/zap"
)

// Build info - populated from embedded VCS info at init time
var (
	BuildCommit = "dev"
	BuildTime   = "unknown"
)

func init() {
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			switch setting.Key {
			case "vcs.revision":
				if setting.Value != "" {
					BuildCommit = setting.Value
				}
			case "vcs.time":
				BuildTime = setting.Value
			}
		}
	}
}

// ServiceStats is the /stats payload for dashboards.
type ServiceStats struct {
	Build struct {
		Commit    string `json:"commit"`
		Time      string `json:"time,omitempty"`
		GoVersion string `json:"go_version"`
	} `json:"build"`

	StartTime string `json:"start_time"`
	Uptime    string `json:"uptime"`
	UptimeSec int64  `json:"uptime_seconds"`

	Wallets       int    `json:"wallets"`
	OpenPositions int    `json:"open_positions"`
	AlertsSent    uint64 `json:"alerts_sent"`

	Leaderboard []leaderboardRow `json:"leaderboard"`

	Goroutines int `json:"goroutines"`
}

type leaderboardRow struct {
	Rank         int     `json:"rank"`
	Wallet       string  `json:"wallet"`
	ClosedTrades int     `json:"closed_trades"`
	WinRate      float64 `json:"win_rate"`
	TotalRoi     float64 `json:"total_roi"`
	TotalPnl     float64 `json:"total_pnl"`
}

// StatsServer exposes /healthz and /stats over HTTP.
type StatsServer struct {
	logger      *zap.Logger
	ledger      *Ledger
	leaderboard *Leaderboard
	alerts      *AlertEmitter

	server    *http.Server
	startTime time.Time
}

func NewStatsServer(logger *zap.Logger, addr string, ledger *Ledger, leaderboard *Leaderboard, alerts *AlertEmitter) *StatsServer {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &StatsServer{
		logger:      logger.Named("stats"),
		ledger:      ledger,
		leaderboard: leaderboard,
		alerts:      alerts,
		startTime:   time.Now(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.HandleFunc("/stats", s.handleStats)

	s.server = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return s
}

// Run serves until the context is cancelled.
func (s *StatsServer) Run(ctx context.Context) {
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("stats server listening", zap.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Error("stats server failed", zap.Error(err))
	}
}

func (s *StatsServer) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *StatsServer) handleStats(w http.ResponseWriter, r *http.Request) {
	stats := s.collect()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(stats); err != nil {
		s.logger.Warn("failed to encode stats", zap.Error(err))
	}
}

func (s *StatsServer) collect() *ServiceStats {
	stats := &ServiceStats{}

	stats.Build.Commit = BuildCommit
	stats.Build.Time = BuildTime
	stats.Build.GoVersion = runtime.Version()

	uptime := time.Since(s.startTime)
	stats.StartTime = s.startTime.UTC().Format(time.RFC3339)
	stats.Uptime = uptime.Round(time.Second).String()
	stats.UptimeSec = int64(uptime.Seconds())

	stats.Wallets = s.ledger.WalletCount()
	stats.OpenPositions = len(s.ledger.OpenPositions())
	if s.alerts != nil {
		stats.AlertsSent = s.alerts.SentCount()
	}

	for _, m := range s.leaderboard.Top(10) {
		stats.Leaderboard = append(stats.Leaderboard, leaderboardRow{
			Rank:         m.Rank,
			Wallet:       shortID(m.Wallet),
			ClosedTrades: m.ClosedTrades,
			WinRate:      m.WinRate,
			TotalRoi:     m.TotalRoi,
			TotalPnl:     m.TotalPnl,
		})
	}

	stats.Goroutines = runtime.NumGoroutine()
	return stats
}
