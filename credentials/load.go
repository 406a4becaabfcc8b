package credentials

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/jayantasamaddar/go-acssigner/utils"
)

// Environment variables consulted by Load.
const (
	EnvAccessKeyID     = "ALIBABA_CLOUD_ACCESS_KEY_ID"
	EnvAccessKeySecret = "ALIBABA_CLOUD_ACCESS_KEY_SECRET"
	EnvProfile         = "ALIBABA_CLOUD_PROFILE"

	defaultProfile = "default"
	defaultDirName = ".acs"
)

// Errors
var (
	ErrNoCredentials     = errors.New("no credentials found")
	ErrNoConfigFileFound = errors.New("no configuration file found")
)

// Keys accepted for each half of the pair inside profile files. Lookup is case-insensitive.
var (
	accessKeyIDKeys     = []string{"acs_access_key_id", "access_key_id", "alibaba_cloud_access_key_id"}
	accessKeySecretKeys = []string{"acs_secret_access_key", "access_key_secret", "alibaba_cloud_access_key_secret"}
)

// # Options for Load.
//
// The sources are consulted in order and the first to provide a value for a field wins:
//   - `AccessKeyID` / `AccessKeySecret` given explicitly
//   - environment variables (`ALIBABA_CLOUD_ACCESS_KEY_ID`, `ALIBABA_CLOUD_ACCESS_KEY_SECRET`), via `Getenv`
//   - the `GlobalDir` profile directory, section `GlobalProfile`
//
// `GlobalDir` defaults to `$HOME/.acs` and `GlobalProfile` to `ALIBABA_CLOUD_PROFILE` or "default".
// Files without an extension, or with `.ini`, `.conf`, `.config` are read as ini files; `.env` files as KEY=VALUE lines.
type LoadOptions struct {
	AccessKeyID     string
	AccessKeySecret string
	GlobalDir       string
	GlobalProfile   string

	// Getenv defaults to os.Getenv. Tests replace it.
	Getenv func(string) string
	Logger *slog.Logger
}

// Load resolves credentials once, at start-up. The result is handed to the signer explicitly;
// nothing in the signing path reads the environment.
func Load(opts LoadOptions) (Credentials, error) {
	getenv := opts.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	cred := Credentials{
		AccessKeyID:     strings.TrimSpace(opts.AccessKeyID),
		AccessKeySecret: opts.AccessKeySecret,
	}
	if cred.AccessKeyID == "" {
		cred.AccessKeyID = strings.TrimSpace(getenv(EnvAccessKeyID))
	}
	if cred.AccessKeySecret == "" {
		cred.AccessKeySecret = getenv(EnvAccessKeySecret)
	}
	if cred.HasKeys() {
		return cred, nil
	}

	dir := opts.GlobalDir
	if dir == "" {
		homeDir, err := utils.HomeDir()
		if err != nil {
			return cred, fmt.Errorf("%w: resolve home directory: %v", ErrNoCredentials, err)
		}
		dir = filepath.Join(homeDir, defaultDirName)
	}
	profile := opts.GlobalProfile
	if profile == "" {
		profile = getenv(EnvProfile)
	}
	if profile == "" {
		profile = defaultProfile
	}

	if err := loadFromDir(&cred, dir, profile, logger); err != nil {
		return cred, err
	}
	if !cred.HasKeys() {
		return cred, fmt.Errorf("%w: profile %q in %s", ErrNoCredentials, profile, dir)
	}
	return cred, nil
}

func loadFromDir(cred *Credentials, dir, profileName string, logger *slog.Logger) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("%w: %w: could not read from %s", ErrNoCredentials, ErrNoConfigFileFound, dir)
	}
	if len(entries) == 0 {
		return fmt.Errorf("%w: %w: %s is empty", ErrNoCredentials, ErrNoConfigFileFound, dir)
	}

	for _, file := range entries {
		if cred.HasKeys() {
			return nil
		}
		if file.IsDir() {
			continue
		}
		filename := filepath.Join(dir, file.Name())
		switch filepath.Ext(file.Name()) {
		case "", ".ini", ".conf", ".config":
			profiles, err := utils.ReadIniFile(filename)
			if err != nil {
				logger.Warn("skipping unreadable credentials file", slog.String("file", filename), slog.Any("error", err))
				continue
			}
			for _, p := range profiles {
				if p.Name == profileName {
					fill(cred, p)
				}
			}
		case ".env":
			p, err := utils.ReadEnvFile(filename)
			if err != nil {
				return fmt.Errorf("read %s: %w", filename, err)
			}
			fill(cred, p)
		default:
			logger.Debug("skipping file with unsupported extension", slog.String("file", filename))
		}
	}
	return nil
}

func fill(cred *Credentials, p *utils.Profile) {
	if cred.AccessKeyID == "" {
		cred.AccessKeyID = p.Get(accessKeyIDKeys...)
	}
	if cred.AccessKeySecret == "" {
		cred.AccessKeySecret = p.Get(accessKeySecretKeys...)
	}
}

// LoadedProvider adapts Load to the Provider interface, resolving once and caching the result.
type LoadedProvider struct {
	credentials Credentials
}

func NewLoadedProvider(opts LoadOptions) (*LoadedProvider, error) {
	cred, err := Load(opts)
	if err != nil {
		return nil, err
	}
	return &LoadedProvider{credentials: cred}, nil
}

func (p *LoadedProvider) GetCredentials(_ context.Context) (Credentials, error) {
	return p.credentials, nil
}
