package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"regexp"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/chamilad/trashbin/internal/env"
	"github.com/go-playground/validator/v10"
	"github.com/muesli/reflow/indent"
	"gopkg.in/yaml.v2"
)

var validate *validator.Validate

type Config struct {
	Core    Core    `yaml:"core"`
	UI      UI      `yaml:"ui"`
	Listing Listing `yaml:"listing"`
}

type Core struct {
	Trash   Trash   `yaml:"trash"`
	Restore Restore `yaml:"restore"`
}

// Trash controls the put side of the lifecycle.
type Trash struct {
	// HomeOnly forces every file into the home trash, skipping topdir
	// trash resolution entirely.
	HomeOnly bool `yaml:"home_only"`
}

type Restore struct {
	Verbose bool `yaml:"verbose"`
	Confirm bool `yaml:"confirm"`
}

type UI struct {
	Density   string      `yaml:"density" validate:"required,oneof=compact spacious"`
	Style     styleConfig `yaml:"style"`
	Paginator string      `yaml:"paginator_type" validate:"required,oneof=dots arabic"`
}

type Listing struct {
	Sort    string        `yaml:"sort" validate:"omitempty,oneof=date size name device"`
	Include IncludeConfig `yaml:"include"`
	Exclude ExcludeConfig `yaml:"exclude"`
}

type IncludeConfig struct {
	Period int `yaml:"within_days"`
}

type ExcludeConfig struct {
	Files    []string   `yaml:"files"`
	Patterns []string   `yaml:"patterns"`
	Globs    []string   `yaml:"globs"`
	Size     SizeConfig `yaml:"size"`
}

type SizeConfig struct {
	Min string `yaml:"min" validate:"validSize"`
	Max string `yaml:"max" validate:"validSize"`
}

type styleConfig struct {
	ListView ListView `yaml:"list_view"`
}

type ListView struct {
	IndentOnSelect bool   `yaml:"indent_on_select"`
	Cursor         string `yaml:"cursor"`
	Selected       string `yaml:"selected"`
}

type configError struct {
	configPath string
	configDir  string
	parser     parser
	err        error
}

type parser struct{}

func validSize(fl validator.FieldLevel) bool {
	value := strings.ToUpper(fl.Field().String())
	re := regexp.MustCompile(`^\d+(KB|MB|GB|TB|PB)|$`) // empty is acceptable
	return re.MatchString(value)
}

func (p parser) getDefaultConfig() Config {
	return Config{
		Core: Core{
			Trash: Trash{
				HomeOnly: false,
			},
			Restore: Restore{
				Verbose: true,
				Confirm: true,
			},
		},
		UI: UI{
			Density:   "spacious", // or compact
			Paginator: "dots",     // or arabic
			Style: styleConfig{
				ListView: ListView{
					IndentOnSelect: true,
					Cursor:         "#AD58B4", // Purple
					Selected:       "#5FB458", // Green
				},
			},
		},
		Listing: Listing{
			Sort: "date",
			Include: IncludeConfig{
				Period: 365,
			},
			Exclude: ExcludeConfig{
				Files: []string{
					// In macOS, .DS_Store is a file that stores custom attributes of its
					// containing folder, such as folder view options, icon positions,
					// and other visual information
					".DS_Store",
				},
				Patterns: []string{},
				Globs:    []string{},
				Size: SizeConfig{
					Min: "0KB",
					Max: "10GB",
				},
			},
		},
	}
}

func (p parser) getDefaultConfigContents() string {
	defaultConfig := p.getDefaultConfig()
	content, _ := yaml.Marshal(defaultConfig)
	return string(content)
}

func (e configError) Error() string {
	return heredoc.Docf(`
		Couldn't find the "%s" config file.
		Please try again after creating it or specifying a valid config path.
		The recommended config path is %s (default).
		Example YAML file contents:
		---
		%s
		---
		Original error:
		%s
		`,
		e.configPath,
		env.TRASH_CONFIG_PATH,
		e.parser.getDefaultConfigContents(),
		indent.String(e.err.Error(), 2),
	)
}

func (p parser) createConfigFile(path string) error {
	if err := p.ensureDirExists(filepath.Dir(path)); err != nil {
		return err
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		slog.Warn("creating config file as it does not exist", "config-file", path)
		newConfigFile, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0666)
		if err != nil {
			return err
		}
		defer newConfigFile.Close()

		if err := p.writeConfigFileContents(newConfigFile); err != nil {
			return err
		}
	}

	return nil
}

func (p parser) ensureDirExists(dirPath string) error {
	if _, err := os.Stat(dirPath); os.IsNotExist(err) {
		slog.Warn("creating directory as it does not exist", "dir", dirPath)
		if err := os.MkdirAll(dirPath, os.ModePerm); err != nil {
			return err
		}
	}
	return nil
}

func (p parser) writeConfigFileContents(file *os.File) error {
	_, err := file.WriteString(p.getDefaultConfigContents())
	return err
}

func (p parser) ensureConfigFile() (string, error) {
	path := env.TRASH_CONFIG_PATH

	if err := p.ensureDirExists(filepath.Dir(path)); err != nil {
		return "", err
	}

	if err := p.createConfigFile(path); err != nil {
		return "", configError{
			parser:    p,
			configDir: filepath.Dir(path),
			err:       err,
		}
	}

	return path, nil
}

type parsingError struct {
	err error
}

func (e parsingError) Error() string {
	return fmt.Sprintf("failed to parse config: %v", e.err)
}

func (p parser) readConfigFile(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, configError{
			configPath: path,
			configDir:  filepath.Dir(path),
			parser:     p,
			err:        err,
		}
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}

	if err := validate.Struct(cfg); err != nil {
		for _, err := range err.(validator.ValidationErrors) {
			return cfg, fmt.Errorf("validation error: Field %s, %q is invalid\n", err.Field(), err.Value())
		}
	}
	return cfg, nil
}

func initParser() parser {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.Split(fld.Tag.Get("yaml"), ",")[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation("validSize", validSize)

	return parser{}
}

// Parse loads the config from path, falling back to the default location
// and creating a default config file there when none exists.
func Parse(path string) (Config, error) {
	parser := initParser()

	var cfg Config
	var err error
	var configPath string

	if path == "" {
		configPath, err = parser.ensureConfigFile()
		if err != nil {
			return cfg, parsingError{err: err}
		}
	} else {
		configPath = path
	}
	slog.Debug("config file found", "config-file", configPath)

	cfg, err = parser.readConfigFile(configPath)
	if err != nil {
		return cfg, parsingError{err: err}
	}

	return cfg, nil
}
