package config

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
)

// Chain operation modes. Live mode requires Blockfrost credentials and a
// treasury signing key; demo mode fabricates hashes and balances and must be
// requested explicitly.
const (
	ChainModeLive = "live"
	ChainModeDemo = "demo"
)

// Config represents the application configuration
type Config struct {
	Server   ServerConfig   `json:"server"`
	Database DatabaseConfig `json:"database"`
	Auth     AuthConfig     `json:"auth"`
	Chain    ChainConfig    `json:"chain"`
	Email    EmailConfig    `json:"email"`
	Admin    AdminConfig    `json:"admin"`
}

// ServerConfig contains server related configurations
type ServerConfig struct {
	Port    int    `json:"port"`
	BaseURL string `json:"base_url"` // embedded in generated bin QR codes
}

// DatabaseConfig contains database related configurations
type DatabaseConfig struct {
	Driver   string `json:"driver"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	Name     string `json:"name"`
	SSLMode  string `json:"ssl_mode"`
}

// AuthConfig contains authentication related configurations
type AuthConfig struct {
	JWTSecret     string `json:"jwt_secret"`
	JWTExpiration int    `json:"jwt_expiration"` // in hours
	BcryptCost    int    `json:"bcrypt_cost"`
}

// ChainConfig contains Cardano chain access configurations
type ChainConfig struct {
	Mode                string `json:"mode"`    // "live" or "demo"
	Network             string `json:"network"` // "mainnet", "preprod" or "preview"
	BlockfrostProjectID string `json:"blockfrost_project_id"`
	WalletSigningKey    string `json:"wallet_signing_key"` // bech32 ed25519 signing key of the treasury wallet
	TreasuryAddress     string `json:"treasury_address"`
	DemoBalanceADA      string `json:"demo_balance_ada"` // synthetic treasury balance in demo mode
}

// EmailConfig contains email service configurations
type EmailConfig struct {
	SMTPHost     string `json:"smtp_host"`
	SMTPPort     int    `json:"smtp_port"`
	SMTPUser     string `json:"smtp_user"`
	SMTPPassword string `json:"smtp_password"`
	FromEmail    string `json:"from_email"`
}

// AdminConfig contains the seed administrator account
type AdminConfig struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Load loads the configuration from file and environment
func Load() (*Config, error) {
	// Default config
	cfg := &Config{
		Server: ServerConfig{
			Port:    8080,
			BaseURL: "http://localhost:8080",
		},
		Database: DatabaseConfig{
			Driver:  "postgres",
			Host:    "localhost",
			Port:    5432,
			Name:    "ecodrop",
			SSLMode: "disable",
		},
		Auth: AuthConfig{
			JWTExpiration: 168, // 7 days
			BcryptCost:    10,
		},
		Chain: ChainConfig{
			Mode:           ChainModeLive,
			Network:        "preprod",
			DemoBalanceADA: "1000",
		},
		Email: EmailConfig{
			SMTPPort:  587,
			FromEmail: "noreply@ecodrop.io",
		},
	}

	// Look for config file
	configFile := os.Getenv("CONFIG_FILE")
	if configFile == "" {
		configFile = filepath.Join("configs", "config.json")
	}

	// Try to load config from file
	if _, err := os.Stat(configFile); err == nil {
		file, err := os.Open(configFile)
		if err != nil {
			return nil, err
		}
		defer file.Close()

		if err := json.NewDecoder(file).Decode(cfg); err != nil {
			return nil, err
		}
	}

	// Override with environment variables if present
	if port := os.Getenv("SERVER_PORT"); port != "" {
		var serverPort int
		if _, err := fmt.Sscanf(port, "%d", &serverPort); err == nil {
			cfg.Server.Port = serverPort
		}
	}
	if baseURL := os.Getenv("BASE_URL"); baseURL != "" {
		cfg.Server.BaseURL = baseURL
	}

	if dbHost := os.Getenv("DB_HOST"); dbHost != "" {
		cfg.Database.Host = dbHost
	}
	if dbPort := os.Getenv("DB_PORT"); dbPort != "" {
		var databasePort int
		if _, err := fmt.Sscanf(dbPort, "%d", &databasePort); err == nil {
			cfg.Database.Port = databasePort
		}
	}
	if dbUser := os.Getenv("DB_USER"); dbUser != "" {
		cfg.Database.User = dbUser
	}
	if dbPass := os.Getenv("DB_PASSWORD"); dbPass != "" {
		cfg.Database.Password = dbPass
	}
	if dbName := os.Getenv("DB_NAME"); dbName != "" {
		cfg.Database.Name = dbName
	}
	if sslMode := os.Getenv("DB_SSLMODE"); sslMode != "" {
		cfg.Database.SSLMode = sslMode
	}

	if mode := os.Getenv("CHAIN_MODE"); mode != "" {
		cfg.Chain.Mode = mode
	}
	if network := os.Getenv("CARDANO_NETWORK"); network != "" {
		cfg.Chain.Network = network
	}
	if projectID := os.Getenv("BLOCKFROST_PROJECT_ID"); projectID != "" {
		cfg.Chain.BlockfrostProjectID = projectID
	}
	if signingKey := os.Getenv("BACKEND_WALLET_SKEY"); signingKey != "" {
		cfg.Chain.WalletSigningKey = signingKey
	}
	if treasuryAddr := os.Getenv("TREASURY_ADDRESS"); treasuryAddr != "" {
		cfg.Chain.TreasuryAddress = treasuryAddr
	}

	if smtpHost := os.Getenv("SMTP_HOST"); smtpHost != "" {
		cfg.Email.SMTPHost = smtpHost
	}
	if smtpPort := os.Getenv("SMTP_PORT"); smtpPort != "" {
		var emailPort int
		if _, err := fmt.Sscanf(smtpPort, "%d", &emailPort); err == nil {
			cfg.Email.SMTPPort = emailPort
		}
	}
	if smtpUser := os.Getenv("SMTP_USER"); smtpUser != "" {
		cfg.Email.SMTPUser = smtpUser
	}
	if smtpPass := os.Getenv("SMTP_PASSWORD"); smtpPass != "" {
		cfg.Email.SMTPPassword = smtpPass
	}
	if fromEmail := os.Getenv("FROM_EMAIL"); fromEmail != "" {
		cfg.Email.FromEmail = fromEmail
	}

	if adminEmail := os.Getenv("ADMIN_EMAIL"); adminEmail != "" {
		cfg.Admin.Email = adminEmail
	}
	if adminPassword := os.Getenv("ADMIN_PASSWORD"); adminPassword != "" {
		cfg.Admin.Password = adminPassword
	}

	if jwtSecret := os.Getenv("JWT_SECRET"); jwtSecret != "" {
		cfg.Auth.JWTSecret = jwtSecret
	} else if cfg.Auth.JWTSecret == "" {
		// Generate a random JWT secret if not provided
		randomBytes := make([]byte, 32)
		if _, err := rand.Read(randomBytes); err != nil {
			return nil, err
		}
		cfg.Auth.JWTSecret = base64.StdEncoding.EncodeToString(randomBytes)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the configuration for fatal misconfigurations. Missing
// chain credentials in live mode are a startup failure, never a silent
// fallback to demo behavior.
func (c *Config) Validate() error {
	switch c.Chain.Mode {
	case ChainModeLive:
		if c.Chain.BlockfrostProjectID == "" {
			return fmt.Errorf("chain mode is live but BLOCKFROST_PROJECT_ID is not set (set CHAIN_MODE=demo to run without chain access)")
		}
		if c.Chain.WalletSigningKey == "" {
			return fmt.Errorf("chain mode is live but BACKEND_WALLET_SKEY is not set")
		}
		if c.Chain.TreasuryAddress == "" {
			return fmt.Errorf("chain mode is live but TREASURY_ADDRESS is not set")
		}
	case ChainModeDemo:
		// no credentials required
	default:
		return fmt.Errorf("unknown chain mode %q", c.Chain.Mode)
	}

	switch c.Chain.Network {
	case "mainnet", "preprod", "preview":
	default:
		return fmt.Errorf("unknown cardano network %q", c.Chain.Network)
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}

	return nil
}
