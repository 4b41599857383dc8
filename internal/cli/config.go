package cli

import (
	stderrors "errors"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/chrisbeaver/outbound/internal/errors"
	"github.com/chrisbeaver/outbound/internal/logging"
	"github.com/chrisbeaver/outbound/internal/parser"
	"github.com/chrisbeaver/outbound/internal/resolver"
	"github.com/chrisbeaver/outbound/internal/server"
	"github.com/chrisbeaver/outbound/internal/utils"
)

// EnvPrefix prefixes every environment override, e.g. OUTBOUND_WORKERS
const EnvPrefix = "OUTBOUND"

// ConfigName is the config file looked up in the project root
const ConfigName = ".outbound"

// StdinRoutes reads the route feed from standard input
const StdinRoutes = "-"

// Output formats
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Config holds the configuration shared by every command
type Config struct {
	// Root is the Laravel project root
	Root string `mapstructure:"root"`

	// Routes is a route feed file, "-" for stdin; empty runs `php artisan route:list --json`
	Routes string `mapstructure:"routes"`

	// PHP is the binary used to run artisan
	PHP string `mapstructure:"php"`

	Workers     int      `mapstructure:"workers"`
	Format      string   `mapstructure:"format"`
	RequestsDir string   `mapstructure:"requests_dir"`
	Exclude     []string `mapstructure:"exclude"`

	Log   logging.Config `mapstructure:"log"`
	Serve ServeConfig    `mapstructure:"serve"`
}

// ServeConfig configures the serve command
type ServeConfig struct {
	Addr string `mapstructure:"addr"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("root", ".")
	v.SetDefault("routes", "")
	v.SetDefault("php", "php")
	v.SetDefault("workers", parser.DefaultWorkers)
	v.SetDefault("format", FormatJSON)
	v.SetDefault("requests_dir", resolver.DefaultRequestsDir)
	v.SetDefault("exclude", []string{})
	v.SetDefault("log.level", string(logging.LevelWarn))
	v.SetDefault("log.format", string(logging.FormatText))
	v.SetDefault("serve.addr", server.DefaultAddr)
}

// LoadConfig reads the optional config file, then environment and flag
// overrides already bound to v. An explicit file that cannot be read is an
// error; a missing .outbound.yaml in the project root is not.
func LoadConfig(v *viper.Viper, fs afero.Fs, explicitFile string) (Config, error) {
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetFs(fs)

	if explicitFile != "" {
		v.SetConfigFile(explicitFile)
	} else {
		v.SetConfigName(ConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(v.GetString("root"))
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicitFile != "" || !stderrors.As(err, &notFound) {
			return Config{}, errors.WrapConfigurationError("file", "read", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errors.WrapConfigurationError("settings", "decode", err)
	}
	cfg.Root = filepath.Clean(cfg.Root)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every setting
func (c Config) Validate() error {
	checks := []error{
		utils.NotEmpty("root")(c.Root),
		utils.InRange("workers", 1, 256)(c.Workers),
		utils.NewValidatorChain(utils.NotEmpty("format")).
			Add(utils.IsOneOf("format", FormatJSON, FormatYAML)).
			Validate(c.Format),
		utils.NotEmpty("requests_dir")(c.RequestsDir),
		utils.IsHostPort("serve.addr")(c.Serve.Addr),
	}
	for _, err := range checks {
		if err != nil {
			return errors.WrapConfigurationError("settings", "validate", err)
		}
	}
	return c.Log.Validate()
}

// ParserConfig is the parse-pass view of the configuration
func (c Config) ParserConfig() parser.Config {
	return parser.Config{
		Root:        c.Root,
		RequestsDir: c.RequestsDir,
		Exclude:     c.Exclude,
		Workers:     c.Workers,
	}
}
