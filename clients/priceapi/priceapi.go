package priceapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/basel95f-code/solana-memecoin-bot-sub005/config"

	"go.uber.org/zap"
)

// TokenData is the resolved market data for a token mint.
type TokenData struct {
	Mint         string
	Symbol       string
	PriceUsd     float64
	LiquidityUsd float64
}

// PriceApiClient resolves token prices from a DexScreener-style API.
type PriceApiClient struct {
	logger     *zap.Logger
	httpClient *http.Client
	baseURL    string
}

func NewPriceApiClient(logger *zap.Logger, cfg *config.Config) *PriceApiClient {
	if logger == nil {
		logger = zap.NewNop()
	}

	timeout := cfg.PriceAPI.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &PriceApiClient{
		logger: logger,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: cfg.PriceAPI.BaseURL,
	}
}

// ---- API response types (minimal; add fields as you need) ----

type pairResponse struct {
	Pairs []pair `json:"pairs"`
}

type pair struct {
	PriceUsd  string    `json:"priceUsd"`
	BaseToken baseToken `json:"baseToken"`
	Liquidity liquidity `json:"liquidity"`
}

type baseToken struct {
	Address string `json:"address"`
	Symbol  string `json:"symbol"`
}

type liquidity struct {
	Usd float64 `json:"usd"`
}

// GetTokenData fetches current market data for a token mint.
// Returns (nil, nil) when the API knows nothing about the mint; that is an
// "absent" result, not an error.
func (c *PriceApiClient) GetTokenData(ctx context.Context, mint string) (*TokenData, error) {
	url := fmt.Sprintf("%s/tokens/%s", c.baseURL, mint)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch token data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("price API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var pr pairResponse
	if err := json.Unmarshal(body, &pr); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if len(pr.Pairs) == 0 {
		return nil, nil
	}

	// Pick the pair with the deepest liquidity; thin pairs quote junk prices.
	best := pr.Pairs[0]
	for _, p := range pr.Pairs[1:] {
		if p.Liquidity.Usd > best.Liquidity.Usd {
			best = p
		}
	}

	price, err := strconv.ParseFloat(best.PriceUsd, 64)
	if err != nil {
		c.logger.Warn("unparseable price in API response",
			zap.String("mint", mint),
			zap.String("priceUsd", best.PriceUsd),
		)
		return nil, nil
	}

	return &TokenData{
		Mint:         mint,
		Symbol:       best.BaseToken.Symbol,
		PriceUsd:     price,
		LiquidityUsd: best.Liquidity.Usd,
	}, nil
}
