/*
 * © 2023 wenzdey
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/adrg/xdg"
	goversion "github.com/hashicorp/go-version"
	"github.com/rs/zerolog"
	"github.com/subosito/gotenv"

	"github.com/wenzdey/checkov-vscode/domain/scan"
)

const (
	Version = "dev"

	// MinimumCheckovVersion is the oldest engine version whose JSON output
	// and flags this integration understands.
	MinimumCheckovVersion = "2.0.0"

	// LatestVersion requests whatever version the release endpoint resolves.
	LatestVersion = "latest"

	envFileName          = ".checkov-vscode.env"
	lockFileName         = "checkov-download.lock"
	defaultDebounce      = 300 * time.Millisecond
	defaultEngineTimeout = 5 * time.Minute
)

var (
	mutex         = &sync.Mutex{}
	currentConfig *Config
	isWindows     = runtime.GOOS == "windows"
)

func CurrentConfig() *Config {
	mutex.Lock()
	defer mutex.Unlock()
	if currentConfig == nil {
		currentConfig = New()
	}
	return currentConfig
}

func SetCurrentConfig(config *Config) {
	mutex.Lock()
	defer mutex.Unlock()
	currentConfig = config
}

// EngineSettings holds everything about the engine binary itself.
type EngineSettings struct {
	m       sync.Mutex
	path    string
	defined bool
	timeout time.Duration
}

func (s *EngineSettings) Path() string {
	s.m.Lock()
	defer s.m.Unlock()
	if s.path == "" {
		return filepath.Join(defaultInstallDir(), executableName())
	}
	return s.path
}

// SetPath overrides the discovered binary location, e.g. from user settings.
func (s *EngineSettings) SetPath(path string) {
	s.m.Lock()
	defer s.m.Unlock()
	s.path = path
	s.defined = path != ""
}

func (s *EngineSettings) IsPathDefined() bool {
	s.m.Lock()
	defer s.m.Unlock()
	return s.defined
}

func (s *EngineSettings) Installed() bool {
	stat, err := os.Stat(s.Path())
	return err == nil && !stat.IsDir()
}

func (s *EngineSettings) DefaultBinaryInstallPath() string {
	return defaultInstallDir()
}

func (s *EngineSettings) Timeout() time.Duration {
	s.m.Lock()
	defer s.m.Unlock()
	return s.timeout
}

func (s *EngineSettings) SetTimeout(timeout time.Duration) {
	s.m.Lock()
	defer s.m.Unlock()
	s.timeout = timeout
}

func defaultInstallDir() string {
	return filepath.Join(xdg.DataHome, "checkov-vscode")
}

func executableName() string {
	if isWindows {
		return "checkov.exe"
	}
	return "checkov"
}

type Config struct {
	m                           sync.RWMutex
	logger                      zerolog.Logger
	token                       string
	certificateAuthority        string
	useBcIDs                    bool
	checkovVersion              string
	backendURL                  string
	externalChecksDir           string
	disableErrorMessage         bool
	errorReportingEnabled       bool
	manageBinariesAutomatically bool
	scanDebounce                time.Duration
	engineSettings              *EngineSettings
	tokenChange                 chan struct{}
}

func New() *Config {
	c := &Config{
		logger:                      zerolog.New(os.Stderr).With().Timestamp().Logger(),
		checkovVersion:              LatestVersion,
		errorReportingEnabled:       true,
		manageBinariesAutomatically: true,
		scanDebounce:                defaultDebounce,
		engineSettings:              &EngineSettings{timeout: defaultEngineTimeout},
		tokenChange:                 make(chan struct{}, 1),
	}
	c.loadEnvFile()
	return c
}

// loadEnvFile merges a user-provided env file into the process environment.
// Absence of the file is not an error.
func (c *Config) loadEnvFile() {
	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	file, err := os.Open(filepath.Join(home, envFileName))
	if err != nil {
		return
	}
	defer func() { _ = file.Close() }()
	env, err := gotenv.StrictParse(file)
	if err != nil {
		c.logger.Warn().Err(err).Msg("couldn't parse env file")
		return
	}
	for k, v := range env {
		if os.Getenv(k) == "" {
			_ = os.Setenv(k, v)
		}
	}
}

func (c *Config) Logger() *zerolog.Logger {
	return &c.logger
}

func (c *Config) SetLogLevel(level zerolog.Level) {
	c.logger = c.logger.Level(level)
}

func (c *Config) Token() string {
	c.m.RLock()
	defer c.m.RUnlock()
	return c.token
}

// SetToken stores new credentials and signals in-flight scans, which are
// invalid under the new identity and cancel themselves.
func (c *Config) SetToken(token string) {
	c.m.Lock()
	changed := c.token != token
	c.token = token
	c.m.Unlock()
	if changed {
		select {
		case c.tokenChange <- struct{}{}:
		default:
		}
	}
}

// TokenChanges signals whenever credentials change.
func (c *Config) TokenChanges() <-chan struct{} {
	return c.tokenChange
}

func (c *Config) NonEmptyToken() bool {
	return c.Token() != ""
}

func (c *Config) CertificateAuthority() string {
	c.m.RLock()
	defer c.m.RUnlock()
	return c.certificateAuthority
}

func (c *Config) SetCertificateAuthority(path string) {
	c.m.Lock()
	defer c.m.Unlock()
	c.certificateAuthority = path
}

func (c *Config) UseBcIDs() bool {
	c.m.RLock()
	defer c.m.RUnlock()
	return c.useBcIDs
}

func (c *Config) SetUseBcIDs(useBcIDs bool) {
	c.m.Lock()
	defer c.m.Unlock()
	c.useBcIDs = useBcIDs
}

func (c *Config) CheckovVersion() string {
	c.m.RLock()
	defer c.m.RUnlock()
	return c.checkovVersion
}

// SetCheckovVersion accepts "latest" or a version at or above the minimum
// supported one, and rejects everything else before any network or process
// work happens.
func (c *Config) SetCheckovVersion(version string) error {
	if err := ValidateCheckovVersion(version); err != nil {
		return err
	}
	c.m.Lock()
	defer c.m.Unlock()
	c.checkovVersion = version
	return nil
}

func ValidateCheckovVersion(version string) error {
	if version == LatestVersion {
		return nil
	}
	v, err := goversion.NewSemver(version)
	if err != nil {
		return &scan.ConfigurationError{Message: fmt.Sprintf("invalid checkov version %q: %v", version, err)}
	}
	minimum := goversion.Must(goversion.NewSemver(MinimumCheckovVersion))
	if v.LessThan(minimum) {
		return &scan.ConfigurationError{
			Message: fmt.Sprintf("checkov version %s is not supported, the minimum supported version is %s", version, MinimumCheckovVersion),
		}
	}
	return nil
}

func (c *Config) BackendURL() string {
	c.m.RLock()
	defer c.m.RUnlock()
	return c.backendURL
}

func (c *Config) SetBackendURL(url string) {
	c.m.Lock()
	defer c.m.Unlock()
	c.backendURL = url
}

func (c *Config) ExternalChecksDir() string {
	c.m.RLock()
	defer c.m.RUnlock()
	return c.externalChecksDir
}

func (c *Config) SetExternalChecksDir(dir string) {
	c.m.Lock()
	defer c.m.Unlock()
	c.externalChecksDir = dir
}

func (c *Config) IsErrorMessageDisabled() bool {
	c.m.RLock()
	defer c.m.RUnlock()
	return c.disableErrorMessage
}

func (c *Config) SetErrorMessageDisabled(disabled bool) {
	c.m.Lock()
	defer c.m.Unlock()
	c.disableErrorMessage = disabled
}

func (c *Config) IsErrorReportingEnabled() bool {
	c.m.RLock()
	defer c.m.RUnlock()
	return c.errorReportingEnabled
}

func (c *Config) SetErrorReportingEnabled(enabled bool) {
	c.m.Lock()
	defer c.m.Unlock()
	c.errorReportingEnabled = enabled
}

func (c *Config) ManageBinariesAutomatically() bool {
	c.m.RLock()
	defer c.m.RUnlock()
	return c.manageBinariesAutomatically
}

func (c *Config) SetManageBinariesAutomatically(manage bool) {
	c.m.Lock()
	defer c.m.Unlock()
	c.manageBinariesAutomatically = manage
}

func (c *Config) ScanDebounceDuration() time.Duration {
	c.m.RLock()
	defer c.m.RUnlock()
	return c.scanDebounce
}

func (c *Config) SetScanDebounceDuration(d time.Duration) {
	c.m.Lock()
	defer c.m.Unlock()
	c.scanDebounce = d
}

func (c *Config) EngineSettings() *EngineSettings {
	return c.engineSettings
}

func (c *Config) EngineDownloadLockFileName() string {
	dir := c.engineSettings.DefaultBinaryInstallPath()
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, lockFileName)
}
