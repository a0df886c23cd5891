package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	ProjectDir   string `json:"project_dir"`
	ResultsDir   string `json:"results_dir"`
	DataDir      string `json:"data_dir"`
	DataCacheDir string `json:"data_cache_dir"`

	LLMProvider string `json:"llm_provider"`
	DebateLLM   string `json:"debate_llm"`
	AnalystLLM  string `json:"analyst_llm"`
	BackendURL  string `json:"backend_url"`

	// Tournament knobs
	GenerationConcurrency int     `json:"generation_concurrency"`
	TurnsPerSide          int     `json:"turns_per_side"`
	MinEntrants           int     `json:"min_entrants"`
	MaxAllocationPct      float64 `json:"max_allocation_pct"`
	TargetHorizonMonths   int     `json:"target_horizon_months"`

	OnlineTools bool `json:"online_tools"`
	Debug       bool `json:"debug"`

	// Eino Debug configuration
	EinoDebugEnabled bool `json:"eino_debug_enabled"`
	EinoDebugPort    int  `json:"eino_debug_port"`

	CacheEnabled bool `json:"cache_enabled"`

	// Persistence
	ResultsDBPath string `json:"results_db_path"`

	// Longport API Configuration. Credentials come from the environment
	// only and are never written to the config file.
	LongportAppKey      string `json:"-"`
	LongportAppSecret   string `json:"-"`
	LongportAccessToken string `json:"-"`

	// AI Model API Keys
	DeepSeekAPIKey string `json:"-"`
	OpenAIAPIKey   string `json:"-"`
}

func DefaultConfig() *Config {
	currentDir, _ := os.Getwd()

	cfg := &Config{
		ProjectDir:   currentDir,
		ResultsDir:   filepath.Join(currentDir, "results"),
		DataDir:      filepath.Join(currentDir, "data"),
		DataCacheDir: filepath.Join(currentDir, "data", "cache"),

		LLMProvider: "deepseek",
		DebateLLM:   "deepseek-chat",
		AnalystLLM:  "deepseek-chat",
		BackendURL:  "",

		GenerationConcurrency: 4,
		TurnsPerSide:          2,
		MinEntrants:           2,
		MaxAllocationPct:      10,
		TargetHorizonMonths:   12,

		OnlineTools: true,
		Debug:       false,

		EinoDebugEnabled: false,
		EinoDebugPort:    52538,

		CacheEnabled: true,

		ResultsDBPath: filepath.Join(currentDir, "results", "arena.db"),
	}

	// Load environment variables from .env file
	_ = godotenv.Load()

	cfg.loadFromEnv()

	return cfg
}

func (c *Config) loadFromEnv() {
	if val := os.Getenv("PROJECT_DIR"); val != "" {
		c.ProjectDir = val
	}
	if val := os.Getenv("RESULTS_DIR"); val != "" {
		c.ResultsDir = val
	}
	if val := os.Getenv("DATA_DIR"); val != "" {
		c.DataDir = val
	}
	if val := os.Getenv("DATA_CACHE_DIR"); val != "" {
		c.DataCacheDir = val
	}

	if val := os.Getenv("LLM_PROVIDER"); val != "" {
		c.LLMProvider = val
	}
	if val := os.Getenv("DEBATE_LLM"); val != "" {
		c.DebateLLM = val
	}
	if val := os.Getenv("ANALYST_LLM"); val != "" {
		c.AnalystLLM = val
	}
	if val := os.Getenv("BACKEND_URL"); val != "" {
		c.BackendURL = val
	}

	if val := os.Getenv("GENERATION_CONCURRENCY"); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			c.GenerationConcurrency = v
		}
	}
	if val := os.Getenv("TURNS_PER_SIDE"); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			c.TurnsPerSide = v
		}
	}
	if val := os.Getenv("MIN_ENTRANTS"); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			c.MinEntrants = v
		}
	}
	if val := os.Getenv("MAX_ALLOCATION_PCT"); val != "" {
		if v, err := strconv.ParseFloat(val, 64); err == nil {
			c.MaxAllocationPct = v
		}
	}
	if val := os.Getenv("TARGET_HORIZON_MONTHS"); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			c.TargetHorizonMonths = v
		}
	}

	if val := os.Getenv("CACHE_ENABLED"); val != "" {
		if cache, err := strconv.ParseBool(val); err == nil {
			c.CacheEnabled = cache
		}
	}

	if val := os.Getenv("ONLINE_TOOLS"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.OnlineTools = enabled
		}
	}

	if val := os.Getenv("ARENAGO_DEBUG"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.Debug = enabled
		}
	}

	if val := os.Getenv("EINO_DEBUG_ENABLED"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.EinoDebugEnabled = enabled
		}
	}
	if val := os.Getenv("EINO_DEBUG_PORT"); val != "" {
		if port, err := strconv.Atoi(val); err == nil {
			c.EinoDebugPort = port
		}
	}

	if val := os.Getenv("RESULTS_DB_PATH"); val != "" {
		c.ResultsDBPath = val
	}

	if val := os.Getenv("LONGPORT_APP_KEY"); val != "" {
		c.LongportAppKey = val
	}
	if val := os.Getenv("LONGPORT_APP_SECRET"); val != "" {
		c.LongportAppSecret = val
	}
	if val := os.Getenv("LONGPORT_ACCESS_TOKEN"); val != "" {
		c.LongportAccessToken = val
	}

	if val := os.Getenv("DEEPSEEK_API_KEY"); val != "" {
		c.DeepSeekAPIKey = val
	}
	if val := os.Getenv("OPENAI_API_KEY"); val != "" {
		c.OpenAIAPIKey = val
	}
}

// DefaultConfigWithRoot returns the default config rooted at the given directory.
func DefaultConfigWithRoot(root string) *Config {
	cfg := DefaultConfig()
	cfg.ProjectDir = root
	cfg.ResultsDir = filepath.Join(root, "results")
	cfg.DataDir = filepath.Join(root, "data")
	cfg.DataCacheDir = filepath.Join(root, "data", "cache")
	cfg.ResultsDBPath = filepath.Join(root, "results", "arena.db")
	return cfg
}

func (c *Config) Validate() error {
	if c.GenerationConcurrency <= 0 {
		return fmt.Errorf("generation_concurrency must be positive, got %d", c.GenerationConcurrency)
	}
	if c.TurnsPerSide <= 0 {
		return fmt.Errorf("turns_per_side must be positive, got %d", c.TurnsPerSide)
	}
	if c.MinEntrants < 2 {
		return fmt.Errorf("min_entrants must be at least 2, got %d", c.MinEntrants)
	}
	if c.MaxAllocationPct <= 0 || c.MaxAllocationPct > 100 {
		return fmt.Errorf("max_allocation_pct must be in (0, 100], got %v", c.MaxAllocationPct)
	}
	switch c.LLMProvider {
	case "openai", "deepseek", "":
	default:
		return fmt.Errorf("unsupported llm_provider %q", c.LLMProvider)
	}
	return nil
}

func (c *Config) EnsureDirectories() error {
	dirs := []string{c.ProjectDir, c.ResultsDir, c.DataDir, c.DataCacheDir}
	for _, dir := range dirs {
		path := strings.TrimSpace(dir)
		if path == "" {
			continue
		}
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", path, err)
		}
	}
	return nil
}
