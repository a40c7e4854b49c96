// =================================
// File: internal/config/config.go
// =================================
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/spf13/viper"

	"github.com/rovshanmuradov/solana-va/internal/units"
)

type Config struct {
	RPCList           []string `mapstructure:"rpc_list"`
	Network           string   `mapstructure:"network"`
	ProgramID         string   `mapstructure:"program_id"`
	TokenListURL      string   `mapstructure:"token_list_url"`
	HistoryAPIURL     string   `mapstructure:"history_api_url"`
	ReferenceMint     string   `mapstructure:"reference_mint"`
	ReferenceSymbol   string   `mapstructure:"reference_symbol"`
	ReferenceDecimals uint8    `mapstructure:"reference_decimals"`
	SkipPreflight     bool     `mapstructure:"skip_preflight"`
	AutoWithdraw      bool     `mapstructure:"auto_withdraw"`
	ComputeUnitLimit  uint32   `mapstructure:"compute_unit_limit"`
	PriorityFee       uint64   `mapstructure:"priority_fee_micro_lamports"`
	Commitment        string   `mapstructure:"commitment"`
	ConfirmTimeoutMs  int      `mapstructure:"confirm_timeout_ms"`
	ConfirmPollMs     int      `mapstructure:"confirm_poll_ms"`
	HTTPTimeoutMs     int      `mapstructure:"http_timeout_ms"`
	Retries           int      `mapstructure:"retries"`
	WalletsPath       string   `mapstructure:"wallets_path"`
	Wallet            string   `mapstructure:"wallet"`
	KeypairPath       string   `mapstructure:"keypair_path"`
	DebugLogging      bool     `mapstructure:"debug_logging"`
	LogFile           string   `mapstructure:"log_file"`

	// Derived from the *_ms fields after unmarshal.
	ConfirmTimeout time.Duration `mapstructure:"-"`
	ConfirmPoll    time.Duration `mapstructure:"-"`
	HTTPTimeout    time.Duration `mapstructure:"-"`
}

const (
	DefaultNetwork          = "mainnet-beta"
	DefaultTokenListURL     = "https://token.jup.ag/all"
	DefaultReferenceMint    = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
	DefaultReferenceSymbol  = "USDC"
	DefaultCommitment       = "confirmed"
	DefaultConfirmTimeoutMs = 60000
	DefaultConfirmPollMs    = 500
	DefaultHTTPTimeoutMs    = 10000
	DefaultRetries          = 3
	DefaultWalletsPath      = "configs/wallets.yaml"
	DefaultLogFile          = "logs/va.log"
)

var validCommitments = map[string]bool{
	"processed": true,
	"confirmed": true,
	"finalized": true,
}

func setDefaults(v *viper.Viper) {
	defaults := map[string]interface{}{
		"rpc_list":           []string{"https://api.mainnet-beta.solana.com"},
		"network":            DefaultNetwork,
		"token_list_url":     DefaultTokenListURL,
		"reference_mint":     DefaultReferenceMint,
		"reference_symbol":   DefaultReferenceSymbol,
		"reference_decimals": units.DefaultReferenceDecimals,
		"skip_preflight":     false,
		"auto_withdraw":      true,
		"commitment":         DefaultCommitment,
		"confirm_timeout_ms": DefaultConfirmTimeoutMs,
		"confirm_poll_ms":    DefaultConfirmPollMs,
		"http_timeout_ms":    DefaultHTTPTimeoutMs,
		"retries":            DefaultRetries,
		"wallets_path":       DefaultWalletsPath,
		"log_file":           DefaultLogFile,
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
}

// LoadConfig reads the config file at path. An empty path uses defaults and
// the environment only.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	loadEnvironmentVariables(v, &cfg)

	cfg.ConfirmTimeout = time.Duration(cfg.ConfirmTimeoutMs) * time.Millisecond
	cfg.ConfirmPoll = time.Duration(cfg.ConfirmPollMs) * time.Millisecond
	cfg.HTTPTimeout = time.Duration(cfg.HTTPTimeoutMs) * time.Millisecond

	return &cfg, validateConfig(&cfg)
}

// RPCURL returns the endpoint used for the session.
func (c *Config) RPCURL() string {
	if len(c.RPCList) == 0 {
		return ""
	}
	return c.RPCList[0]
}

// CommitmentType returns the commitment as the rpc type.
func (c *Config) CommitmentType() rpc.CommitmentType {
	return rpc.CommitmentType(c.Commitment)
}

// Precision returns the reference currency precision for unit conversion.
func (c *Config) Precision() units.Precision {
	return units.Precision{ReferenceDecimals: c.ReferenceDecimals}
}

// ProgramPublicKey returns the configured program id, or the zero key when
// unset. validateConfig has already rejected malformed ids.
func (c *Config) ProgramPublicKey() solana.PublicKey {
	if c.ProgramID == "" {
		return solana.PublicKey{}
	}
	return solana.MustPublicKeyFromBase58(c.ProgramID)
}

func validateConfig(cfg *Config) error {
	if len(cfg.RPCList) == 0 {
		return errors.New("rpc_list is empty")
	}
	for _, rpcURL := range cfg.RPCList {
		if err := validateURLWithCache(rpcURL, "http"); err != nil {
			return fmt.Errorf("invalid RPC URL %q: %w", rpcURL, err)
		}
	}
	if err := validateURLWithCache(cfg.TokenListURL, "http"); err != nil {
		return fmt.Errorf("invalid token_list_url: %w", err)
	}
	if cfg.HistoryAPIURL != "" {
		if err := validateURLWithCache(cfg.HistoryAPIURL, "http"); err != nil {
			return fmt.Errorf("invalid history_api_url: %w", err)
		}
	}
	if cfg.ProgramID != "" {
		if _, err := solana.PublicKeyFromBase58(cfg.ProgramID); err != nil {
			return fmt.Errorf("invalid program_id: %w", err)
		}
	}
	if _, err := solana.PublicKeyFromBase58(cfg.ReferenceMint); err != nil {
		return fmt.Errorf("invalid reference_mint: %w", err)
	}
	if !validCommitments[cfg.Commitment] {
		return fmt.Errorf("invalid commitment %q", cfg.Commitment)
	}
	return validateNumericParams(cfg)
}

func validateNumericParams(cfg *Config) error {
	if cfg.ConfirmTimeoutMs <= 0 {
		return errors.New("invalid confirm_timeout_ms")
	}
	if cfg.ConfirmPollMs <= 0 || cfg.ConfirmPollMs > cfg.ConfirmTimeoutMs {
		return errors.New("invalid confirm_poll_ms")
	}
	if cfg.HTTPTimeoutMs <= 0 {
		return errors.New("invalid http_timeout_ms")
	}
	if cfg.Retries < 0 {
		return errors.New("invalid retries count")
	}
	if cfg.ReferenceDecimals > 18 {
		return errors.New("invalid reference_decimals")
	}
	return nil
}

var urlCache sync.Map

func validateURLWithCache(rawURL string, protocol string) error {
	if _, ok := urlCache.Load(rawURL); ok {
		return nil
	}
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return errors.New("invalid URL format")
	}
	if !strings.HasPrefix(parsed.Scheme, protocol) {
		return errors.New("invalid URL protocol")
	}
	urlCache.Store(rawURL, parsed)
	return nil
}

func loadEnvironmentVariables(v *viper.Viper, cfg *Config) {
	v.AutomaticEnv()
	v.SetEnvPrefix("SOLANA_VA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	envRPCList := v.GetString("RPC_LIST")
	if envRPCList != "" {
		var cleanRPCs []string
		for _, rpc := range strings.Split(envRPCList, ",") {
			clean := strings.TrimSpace(rpc)
			if clean != "" {
				cleanRPCs = append(cleanRPCs, clean)
			}
		}
		if len(cleanRPCs) > 0 {
			cfg.RPCList = cleanRPCs
		}
	}

	if w := v.GetString("WALLET"); w != "" {
		cfg.Wallet = w
	}
	if p := v.GetString("KEYPAIR_PATH"); p != "" {
		cfg.KeypairPath = p
	}
	if id := v.GetString("PROGRAM_ID"); id != "" {
		cfg.ProgramID = id
	}
	if h := v.GetString("HISTORY_API_URL"); h != "" {
		cfg.HistoryAPIURL = h
	}
}
