package config

import (
	"courier-route-service/internal/domain"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces every environment variable read through viper.
const EnvPrefix = "COURIER"

var ErrMissingFlag = errors.New("required flag missing")

// Get returns the environment value for key, or fallback when it is unset.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// LoadEnv loads a .env file from the working directory when present. It
// reports whether a file was read.
func LoadEnv() bool {
	return godotenv.Load() == nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	return v
}

// Server holds the HTTP service configuration.
// The values are read by viper from COURIER_* environment variables.
type Server struct {
	Environment    string        `mapstructure:"ENVIRONMENT"`
	LogLevel       string        `mapstructure:"LOG_LEVEL"`
	Port           string        `mapstructure:"PORT"`
	DBPath         string        `mapstructure:"DB_PATH"`
	DatabaseURL    string        `mapstructure:"DATABASE_URL"`
	RedisURL       string        `mapstructure:"REDIS_URL"`
	SeedPath       string        `mapstructure:"SEED_PATH"`
	DepotName      string        `mapstructure:"DEPOT_NAME"`
	DepotLat       float64       `mapstructure:"DEPOT_LAT"`
	DepotLon       float64       `mapstructure:"DEPOT_LON"`
	SweepCacheTTL  time.Duration `mapstructure:"SWEEP_CACHE_TTL"`
	SweepWorkers   int           `mapstructure:"SWEEP_WORKERS"`
	RateLimitRPS   float64       `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst int           `mapstructure:"RATE_LIMIT_BURST"`
}

var serverDefaults = map[string]any{
	"ENVIRONMENT":      "production",
	"LOG_LEVEL":        "info",
	"PORT":             "8080",
	"DB_PATH":          "data/app.db",
	"DATABASE_URL":     "",
	"REDIS_URL":        "",
	"SEED_PATH":        "data/seeds/deliveries.json",
	"DEPOT_NAME":       domain.DefaultDepotName,
	"DEPOT_LAT":        59.9139,
	"DEPOT_LON":        10.7522,
	"SWEEP_CACHE_TTL":  30 * time.Minute,
	"SWEEP_WORKERS":    0,
	"RATE_LIMIT_RPS":   20.0,
	"RATE_LIMIT_BURST": 40,
}

// LoadServer reads the server configuration from the environment.
func LoadServer() (Server, error) {
	v := newViper()
	for k, d := range serverDefaults {
		v.SetDefault(k, d)
	}

	var cfg Server
	if err := v.Unmarshal(&cfg); err != nil {
		return Server{}, fmt.Errorf("load server config: %w", err)
	}

	if err := cfg.Depot().Coordinates.Validate(); err != nil {
		return Server{}, fmt.Errorf("load server config: depot: %w", err)
	}
	if cfg.RateLimitRPS < 0 || cfg.RateLimitBurst < 0 {
		return Server{}, errors.New("load server config: rate limit must be non-negative")
	}
	return cfg, nil
}

// Depot returns the configured default depot.
func (s Server) Depot() domain.Depot {
	name := strings.TrimSpace(s.DepotName)
	if name == "" {
		name = domain.DefaultDepotName
	}
	return domain.Depot{Name: name, Coordinates: domain.Coordinates{Lat: s.DepotLat, Lon: s.DepotLon}}
}

// CLI holds the resolved options of one courier run.
type CLI struct {
	Environment  string
	Deliveries   string
	Depot        string
	Mode         domain.TransportMode
	Objective    domain.Objective
	OrderBy      domain.Objective
	Weights      domain.WeightTriple
	Gamma        float64
	Output       string
	Rejected     string
	Start        time.Time
	XLSX         string
	Persist      bool
	DBPath       string
	DatabaseURL  string
	Pareto       bool
	ParetoSteps  int
	ParetoOutput string
}

// Start times accepted by --start, tried in order.
var startLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

// CLIFlags defines the courier flag set.
func CLIFlags(out io.Writer) *pflag.FlagSet {
	fs := pflag.NewFlagSet("courier", pflag.ContinueOnError)
	fs.SetOutput(out)

	fs.String("deliveries", "", "deliveries CSV file (required)")
	fs.String("depot", "", "depot JSON file (required)")
	fs.String("mode", "", "transport mode: car, bicycle or walk (required)")
	fs.String("objective", "time", "scoring objective: time, cost, co2 or multi")
	fs.String("order-by", "time", "which greedy order to build: time, cost, co2 or multi")
	fs.Float64("w-time", domain.DefaultWeights.Time, "time weight for the multi objective")
	fs.Float64("w-cost", domain.DefaultWeights.Cost, "cost weight for the multi objective")
	fs.Float64("w-co2", domain.DefaultWeights.CO2, "co2 weight for the multi objective")
	fs.Float64("gamma", 0.2, "priority-dynamic exponent")
	fs.String("output", "route.csv", "route CSV output path")
	fs.String("rejected", "rejected.csv", "rejected rows CSV output path")
	fs.String("start", "", "route start time (ISO 8601, default now)")
	fs.String("xlsx", "", "optional XLSX workbook output path")
	fs.Bool("persist", false, "store the run in the configured database")
	fs.String("db-path", "data/app.db", "SQLite database used by --persist")
	fs.String("database-url", "", "Postgres URL used by --persist instead of SQLite")
	fs.Bool("pareto", false, "run the Pareto weight sweep")
	fs.Int("pareto-steps", 12, "weight grid resolution of the sweep")
	fs.String("pareto-output", "pareto_results.csv", "Pareto CSV output path")
	fs.String("environment", "production", "set to development for console logging")

	return fs
}

// LoadCLI parses args, falling back to COURIER_* environment variables for
// flags that were not given.
func LoadCLI(args []string, out io.Writer) (CLI, error) {
	fs := CLIFlags(out)
	if err := fs.Parse(args); err != nil {
		return CLI{}, err
	}

	v := newViper()
	if err := v.BindPFlags(fs); err != nil {
		return CLI{}, fmt.Errorf("load cli config: bind flags: %w", err)
	}

	missing := make([]string, 0)
	for _, name := range []string{"deliveries", "depot", "mode"} {
		if strings.TrimSpace(v.GetString(name)) == "" {
			missing = append(missing, "--"+name)
		}
	}
	if len(missing) > 0 {
		return CLI{}, fmt.Errorf("%w: %s", ErrMissingFlag, strings.Join(missing, ", "))
	}

	mode, err := domain.ParseTransportMode(v.GetString("mode"))
	if err != nil {
		return CLI{}, fmt.Errorf("load cli config: %w", err)
	}
	objective, err := domain.ParseObjective(v.GetString("objective"))
	if err != nil {
		return CLI{}, fmt.Errorf("load cli config: objective: %w", err)
	}
	orderBy, err := domain.ParseObjective(v.GetString("order-by"))
	if err != nil {
		return CLI{}, fmt.Errorf("load cli config: order-by: %w", err)
	}

	weights := domain.WeightTriple{
		Time: v.GetFloat64("w-time"),
		Cost: v.GetFloat64("w-cost"),
		CO2:  v.GetFloat64("w-co2"),
	}
	if err := weights.Validate(); err != nil {
		return CLI{}, fmt.Errorf("load cli config: %w", err)
	}

	gamma := v.GetFloat64("gamma")
	if !(gamma >= 0) {
		return CLI{}, fmt.Errorf("load cli config: gamma must be non-negative, got %v", gamma)
	}

	steps := v.GetInt("pareto-steps")
	if steps < 1 {
		return CLI{}, fmt.Errorf("load cli config: pareto-steps must be at least 1, got %d", steps)
	}

	start, err := parseStart(v.GetString("start"))
	if err != nil {
		return CLI{}, fmt.Errorf("load cli config: %w", err)
	}

	return CLI{
		Environment:  v.GetString("environment"),
		Deliveries:   v.GetString("deliveries"),
		Depot:        v.GetString("depot"),
		Mode:         mode,
		Objective:    objective,
		OrderBy:      orderBy,
		Weights:      weights,
		Gamma:        gamma,
		Output:       v.GetString("output"),
		Rejected:     v.GetString("rejected"),
		Start:        start,
		XLSX:         v.GetString("xlsx"),
		Persist:      v.GetBool("persist"),
		DBPath:       v.GetString("db-path"),
		DatabaseURL:  v.GetString("database-url"),
		Pareto:       v.GetBool("pareto"),
		ParetoSteps:  steps,
		ParetoOutput: v.GetString("pareto-output"),
	}, nil
}

// parseStart returns the zero time for an empty value.
func parseStart(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range startLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid start time %q (want ISO 8601)", s)
}
