package shared

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Output modes accepted by OUTPUT_MODE.
const (
	OutputRaw      = "raw"
	OutputAnalysis = "analysis"
	OutputBoth     = "both"
)

type Config struct {
	AppEnv   string
	HTTPAddr string // ops server; empty disables it

	WindowDays int

	// feed source
	FeedEnabled  bool
	FeedBase     string
	FeedAppID    string
	FeedCountry  string
	FeedMaxPages int

	// store source
	StoreEnabled        bool
	StoreBase           string
	StoreAppID          string
	StoreLocale         string
	StoreCountry        string
	StoreMaxPages       int
	StoreBatchSize      int
	StoreRetryDelay     time.Duration
	StoreMaxConsecutive int
	StoreLowYieldMin    int
	StoreLowYieldGrace  int
	StoreLowYieldStop   int

	// web source
	WebEnabled         bool
	WebBase            string
	WebMaxPages        int
	WebEstimationPages int
	WebPageMargin      int
	WebItemLimit       int
	WebWorkers         int
	WebEmptyStreak     int

	// outbound requests
	RequestTimeout    time.Duration
	MaxRetries        int
	BackoffBase       time.Duration
	BackoffMultiplier float64
	RequestPause      time.Duration

	// deduplication
	PrefixLen    int
	WebPrefixLen int

	// sentiment
	UseNeural      bool
	NeuralEndpoint string
	NeuralMaxChars int
	GoodThresh     float64
	BadThresh      float64
	LexiconURL     string
	LexiconPath    string

	// output
	OutputDir        string
	OutputPrefix     string
	OutputMode       string
	OutputSingleFile bool
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	atof := func(k string, def float64) float64 {
		if v := os.Getenv(k); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				return f
			}
		}
		return def
	}
	abool := func(k string, def bool) bool {
		if v := os.Getenv(k); v != "" {
			if b, err := strconv.ParseBool(v); err == nil {
				return b
			}
		}
		return def
	}
	secs := func(k string, def float64) time.Duration {
		return time.Duration(atof(k, def) * float64(time.Second))
	}

	c := Config{
		AppEnv:   env("APP_ENV", "prod"),
		HTTPAddr: env("HTTP_ADDR", ""),

		WindowDays: atoi("WINDOW_DAYS", 365),

		FeedEnabled:  abool("FEED_ENABLED", true),
		FeedBase:     env("FEED_BASE_URL", "https://itunes.apple.com"),
		FeedAppID:    env("FEED_APP_ID", ""),
		FeedCountry:  env("FEED_COUNTRY", "us"),
		FeedMaxPages: atoi("FEED_MAX_PAGES", 20),

		StoreEnabled:        abool("STORE_ENABLED", true),
		StoreBase:           env("STORE_BASE_URL", ""),
		StoreAppID:          env("STORE_APP_ID", ""),
		StoreLocale:         env("STORE_LOCALE", "en"),
		StoreCountry:        env("STORE_COUNTRY", "us"),
		StoreMaxPages:       atoi("STORE_MAX_PAGES", 50),
		StoreBatchSize:      atoi("STORE_BATCH_SIZE", 100),
		StoreRetryDelay:     secs("STORE_RETRY_DELAY_SECONDS", 2.0),
		StoreMaxConsecutive: atoi("STORE_MAX_CONSECUTIVE_ERRORS", 3),
		StoreLowYieldMin:    atoi("STORE_LOW_YIELD_MIN", 10),
		StoreLowYieldGrace:  atoi("STORE_LOW_YIELD_GRACE", 5),
		StoreLowYieldStop:   atoi("STORE_LOW_YIELD_STOP", 10),

		WebEnabled:         abool("WEB_ENABLED", true),
		WebBase:            env("WEB_BASE_URL", ""),
		WebMaxPages:        atoi("WEB_MAX_PAGES", 50),
		WebEstimationPages: atoi("WEB_ESTIMATION_PAGES", 5),
		WebPageMargin:      atoi("WEB_PAGE_MARGIN", 10),
		WebItemLimit:       atoi("WEB_ITEM_LIMIT", 1000),
		WebWorkers:         atoi("WEB_WORKERS", 4),
		WebEmptyStreak:     atoi("WEB_CONSECUTIVE_EMPTIES", 3),

		RequestTimeout:    secs("REQUEST_TIMEOUT_SECONDS", 10),
		MaxRetries:        atoi("MAX_RETRIES", 3),
		BackoffBase:       secs("BACKOFF_BASE_SECONDS", 1.2),
		BackoffMultiplier: atof("BACKOFF_MULTIPLIER", 1.5),
		RequestPause:      secs("REQUEST_PAUSE_SECONDS", 0.3),

		PrefixLen:    atoi("DEDUP_PREFIX_LEN", 100),
		WebPrefixLen: atoi("WEB_DEDUP_PREFIX_LEN", 80),

		UseNeural:      abool("USE_NEURAL", false),
		NeuralEndpoint: env("NEURAL_ENDPOINT", ""),
		NeuralMaxChars: atoi("NEURAL_MAX_CHARS", 4096),
		GoodThresh:     atof("GOOD_THRESH", 0.25),
		BadThresh:      atof("BAD_THRESH", -0.25),
		LexiconURL:     env("LEXICON_URL", "https://raw.githubusercontent.com/cjhutto/vaderSentiment/master/vaderSentiment/vader_lexicon.txt"),
		LexiconPath:    env("LEXICON_PATH", ""),

		OutputDir:        env("OUTPUT_DIR", "."),
		OutputPrefix:     env("OUTPUT_PREFIX", "reviews"),
		OutputMode:       env("OUTPUT_MODE", OutputBoth),
		OutputSingleFile: abool("OUTPUT_SINGLE_FILE", true),
	}
	if c.LexiconPath == "" {
		dir, err := os.UserCacheDir()
		if err != nil {
			dir = os.TempDir()
		}
		c.LexiconPath = filepath.Join(dir, "review_harvester", "vader_lexicon.txt")
	}
	return c
}

var storeAppIDRe = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]*(\.[a-zA-Z][a-zA-Z0-9_]*)+$`)

// Validate checks the loaded configuration before a run starts.
func (c Config) Validate() error {
	var errs []string

	if !c.FeedEnabled && !c.StoreEnabled && !c.WebEnabled {
		errs = append(errs, "no sources enabled")
	}
	if c.FeedEnabled {
		if strings.TrimSpace(c.FeedAppID) == "" {
			errs = append(errs, "FEED_APP_ID cannot be empty when the feed source is enabled")
		} else if _, err := strconv.Atoi(c.FeedAppID); err != nil {
			errs = append(errs, fmt.Sprintf("FEED_APP_ID should be numeric, got %q", c.FeedAppID))
		}
	}
	if c.StoreEnabled {
		if strings.TrimSpace(c.StoreBase) == "" {
			errs = append(errs, "STORE_BASE_URL cannot be empty when the store source is enabled")
		}
		if strings.TrimSpace(c.StoreAppID) == "" {
			errs = append(errs, "STORE_APP_ID cannot be empty when the store source is enabled")
		} else if !storeAppIDRe.MatchString(c.StoreAppID) {
			errs = append(errs, fmt.Sprintf("STORE_APP_ID should look like com.example.app, got %q", c.StoreAppID))
		}
	}
	if c.WebEnabled && !strings.HasPrefix(c.WebBase, "http") {
		errs = append(errs, fmt.Sprintf("WEB_BASE_URL should start with http:// or https://, got %q", c.WebBase))
	}
	switch c.OutputMode {
	case OutputRaw, OutputAnalysis, OutputBoth:
	default:
		errs = append(errs, fmt.Sprintf("OUTPUT_MODE must be raw, analysis or both, got %q", c.OutputMode))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	return nil
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
