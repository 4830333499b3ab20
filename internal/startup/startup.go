package startup

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"time"

	"thumbnailer/internal/cache"
	"thumbnailer/internal/logging"

	"github.com/gorilla/mux"
)

// Build-time variables (injected via -ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// DefaultHelperName is the update helper looked up in PATH when
// CACHE_UPDATE_HELPER is not set.
const DefaultHelperName = "thumbnailer-cache-update"

// BuildInfo contains version and build information
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// GetBuildInfo returns the current build information
func GetBuildInfo() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: GoVersion,
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// RouteInfo contains information about a registered route
type RouteInfo struct {
	Method string
	Path   string
	Name   string
}

// Config holds all application configuration
type Config struct {
	CacheFile          string
	HelperPath         string
	RegenerateInterval time.Duration
	DisableMmap        bool
	Port               string
	MetricsPort        string
	MetricsEnabled     bool
	LogHealthChecks    bool
	ThumbnailWorkers   int
	ThumbnailRoot      string
}

// CacheConfig returns the cache configuration derived from c.
func (c *Config) CacheConfig() cache.Config {
	return cache.Config{
		Path:               c.CacheFile,
		HelperPath:         c.HelperPath,
		RegenerateInterval: c.RegenerateInterval,
		DisableMmap:        c.DisableMmap,
	}
}

// LoadConfig loads and validates configuration from environment variables
func LoadConfig() (*Config, error) {
	printBanner()
	logSystemInfo()

	logging.Info("------------------------------------------------------------")
	logging.Info("CONFIGURATION")
	logging.Info("------------------------------------------------------------")

	cacheFile := getEnv("CACHE_FILE", defaultCacheFile())
	helperPath := getEnv("CACHE_UPDATE_HELPER", "")
	intervalStr := getEnv("REGENERATE_INTERVAL", "5m")
	disableMmap := getEnvBool("CACHE_DISABLE_MMAP", false)
	port := getEnv("PORT", "8080")
	metricsPort := getEnv("METRICS_PORT", "9090")
	metricsEnabled := getEnvBool("METRICS_ENABLED", true)
	logHealthChecks := getEnvBool("LOG_HEALTH_CHECKS", true)
	thumbnailWorkers := getEnvInt("THUMBNAIL_WORKERS", 0)
	thumbnailRoot := getEnv("THUMBNAIL_ROOT", "")

	logging.Info("  CACHE_FILE:           %s", cacheFile)
	logging.Info("  CACHE_UPDATE_HELPER:  %s", valueOr(helperPath, DefaultHelperName+" (PATH)"))
	logging.Info("  REGENERATE_INTERVAL:  %s", intervalStr)
	logging.Info("  CACHE_DISABLE_MMAP:   %v", disableMmap)
	logging.Info("  PORT:                 %s", port)
	logging.Info("  METRICS_PORT:         %s", metricsPort)
	logging.Info("  METRICS_ENABLED:      %v", metricsEnabled)
	logging.Info("  LOG_HEALTH_CHECKS:    %v", logHealthChecks)
	logging.Info("  THUMBNAIL_ROOT:       %s", valueOr(thumbnailRoot, "(unrestricted)"))
	logging.Info("  LOG_LEVEL:            %s", logging.GetLevel())

	interval, err := time.ParseDuration(intervalStr)
	if err != nil || interval <= 0 {
		logging.Warn("  Invalid REGENERATE_INTERVAL, using default: %v", cache.DefaultRegenerateInterval)
		interval = cache.DefaultRegenerateInterval
	}

	if cacheFile == "" {
		return nil, fmt.Errorf("CACHE_FILE is empty and no user cache directory is available")
	}
	cacheFile, err = filepath.Abs(cacheFile)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve cache file path: %w", err)
	}

	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("CACHE SETUP")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Cache file (absolute): %s", cacheFile)

	// The watch is placed on the parent directory, so it must exist.
	if err := ensureDirectory(filepath.Dir(cacheFile)); err != nil {
		return nil, fmt.Errorf("cache directory error: %w", err)
	}

	resolvedHelper, err := resolveHelper(helperPath)
	if err != nil {
		// Keep the configured name so a helper installed later is picked
		// up by the next regeneration attempt.
		resolvedHelper = valueOr(helperPath, DefaultHelperName)
		logging.Warn("  Update helper unavailable: %v", err)
		logging.Warn("  Regeneration will keep retrying %s", resolvedHelper)
	} else {
		logging.Info("  [OK] Update helper: %s", resolvedHelper)
	}

	return &Config{
		CacheFile:          cacheFile,
		HelperPath:         resolvedHelper,
		RegenerateInterval: interval,
		DisableMmap:        disableMmap,
		Port:               port,
		MetricsPort:        metricsPort,
		MetricsEnabled:     metricsEnabled,
		LogHealthChecks:    logHealthChecks,
		ThumbnailWorkers:   thumbnailWorkers,
		ThumbnailRoot:      thumbnailRoot,
	}, nil
}

func defaultCacheFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "thumbnailers.cache")
}

// resolveHelper finds the update helper executable. An empty path looks up
// DefaultHelperName in PATH.
func resolveHelper(path string) (string, error) {
	if path == "" {
		return exec.LookPath(DefaultHelperName)
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if info.IsDir() || info.Mode().Perm()&0o111 == 0 {
		return "", fmt.Errorf("%s is not an executable file", path)
	}
	return path, nil
}

// LogCacheInit logs the state of the cache after its initial load
func LogCacheInit(info cache.Info, duration time.Duration) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("CACHE INITIALIZATION")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Loaded in:    %v", duration)
	logging.Info("  Backing:      %s", info.Backing)
	logging.Info("  Size:         %d bytes", info.Length)
	logging.Info("  Version:      %d.%d", info.Major, info.Minor)
	if info.Backing == cache.BackingFallback.String() {
		logging.Warn("  Using the fallback cache, no external thumbnailers are available yet")
		if info.LastError != "" {
			logging.Warn("  Reason: %s", info.LastError)
		}
	}
	if info.Regenerating {
		logging.Info("  Regeneration in progress")
	}
}

// GetRoutes extracts all registered routes from a mux.Router
func GetRoutes(router *mux.Router) ([]RouteInfo, error) {
	var routes []RouteInfo

	err := router.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		pathTemplate, err := route.GetPathTemplate()
		if err != nil {
			return err
		}

		methods, err := route.GetMethods()
		if err != nil {
			methods = []string{"*"}
		}

		for _, method := range methods {
			routes = append(routes, RouteInfo{
				Method: method,
				Path:   pathTemplate,
				Name:   route.GetName(),
			})
		}
		return nil
	})

	return routes, err
}

// LogHTTPRoutes logs all registered HTTP routes at debug level
func LogHTTPRoutes(router *mux.Router) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("HTTP SERVER SETUP")
	logging.Info("------------------------------------------------------------")

	if !logging.IsDebugEnabled() {
		return
	}

	routes, err := GetRoutes(router)
	if err != nil {
		logging.Warn("error walking routes: %v", err)
	}
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Path != routes[j].Path {
			return routes[i].Path < routes[j].Path
		}
		return routes[i].Method < routes[j].Method
	})

	logging.Debug("  Registered routes (%d total):", len(routes))
	for _, route := range routes {
		logging.Debug("    %-6s %s", route.Method, route.Path)
	}
}

// ServerConfig holds configuration for the server startup log
type ServerConfig struct {
	Port            string
	MetricsPort     string
	MetricsEnabled  bool
	StartupDuration time.Duration
}

// LogServerStarted logs successful server start with all endpoint information
func LogServerStarted(config ServerConfig) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("SERVER STARTED")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Startup time:    %v", config.StartupDuration)
	logging.Info("  Application:     http://0.0.0.0:%s", config.Port)
	if config.MetricsEnabled {
		logging.Info("  Metrics:         http://0.0.0.0:%s/metrics", config.MetricsPort)
	} else {
		logging.Info("  Metrics:         DISABLED")
	}
	logging.Info("------------------------------------------------------------")
}

// LogShutdownInitiated logs shutdown start
func LogShutdownInitiated(signal string) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("SHUTDOWN INITIATED (received %s)", signal)
	logging.Info("------------------------------------------------------------")
}

// LogShutdownStep logs a shutdown step
func LogShutdownStep(step string) {
	logging.Debug("  %s...", step)
}

// LogShutdownStepComplete logs a completed shutdown step
func LogShutdownStepComplete(step string) {
	logging.Info("  [OK] %s", step)
}

// LogShutdownComplete logs shutdown completion
func LogShutdownComplete() {
	logging.Info("  [OK] Shutdown complete")
}

// LogFatal logs a fatal error and exits
func LogFatal(format string, args ...interface{}) {
	logging.Fatal(format, args...)
}

func printBanner() {
	fmt.Println("------------------------------------------------------------")
	fmt.Println("  thumbnailer: thumbnailer cache daemon")
	fmt.Println("------------------------------------------------------------")
	logging.Info("  Version:    %s", Version)
	logging.Info("  Commit:     %s", Commit)
	logging.Info("  Build Time: %s", BuildTime)
	logging.Info("  Started:    %s", time.Now().Format(time.RFC1123))
	logging.Info("")
}

func logSystemInfo() {
	logging.Info("------------------------------------------------------------")
	logging.Info("SYSTEM INFORMATION")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Go version:      %s", runtime.Version())
	logging.Info("  OS/Arch:         %s/%s", runtime.GOOS, runtime.GOARCH)
	logging.Info("  GOMAXPROCS:      %d", runtime.GOMAXPROCS(0))
	if runtime.GOMAXPROCS(0) < runtime.NumCPU() {
		logging.Info("  (Container CPU limit detected)")
	}
	logging.Info("")
}

func ensureDirectory(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		logging.Debug("  Cache directory does not exist, creating %s", path)
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to stat directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s exists but is not a directory", path)
	}
	return nil
}

func valueOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		logging.Warn("Invalid boolean value for %s: %q, using default: %v", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getEnvInt(key string, defaultValue int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 0 {
		logging.Warn("Invalid integer value for %s: %q, using default: %d", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}
