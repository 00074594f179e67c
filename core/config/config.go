package config

import (
	_ "embed"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

//go:embed default/config.yaml
var defaultConfigData []byte

const (
	ConfigurationName = "config.yaml"
	PrivateKeyName    = "host_key"
	AppLogName        = "app.log"
	HistoryName       = "history"
)

type Configuration struct {
	// configFs is rooted at the configuration directory. It is only
	// set on configurations that came from Load or Initialize.
	configFs  afero.Fs
	configDir string

	Prompt          string `json:"prompt"`
	Motd            string `json:"motd"`
	DefaultPath     string `json:"default_path" validate:"required"`
	PipelineGraceMs int    `json:"pipeline_grace_ms" validate:"gte=0"`

	SSH SSH `json:"ssh"`

	GlobalPasswords []string `json:"global_passwords"`

	Users []User `json:"users" validate:"unique=Username"`
}

// Validate the configuration for basic semantic errors.
func (c *Configuration) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		return name
	})

	return validate.Struct(c)
}

type SSH struct {
	Port             int    `json:"port" validate:"gte=0,lte=65535"`
	Version          string `json:"version"`
	AllowAnyPassword bool   `json:"allow_any_password"`
}

type User struct {
	Username  string   `json:"username" validate:"required"`
	Home      string   `json:"home"`
	Passwords []string `json:"passwords" validate:"unique"`
}

// PipelineGrace returns the producer drain grace period as a duration.
func (c *Configuration) PipelineGrace() time.Duration {
	return time.Duration(c.PipelineGraceMs) * time.Millisecond
}

func (c *Configuration) fs() afero.Fs {
	return c.configFs
}

// PrivateKeyPem returns the bytes of the host private key.
func (c *Configuration) PrivateKeyPem() ([]byte, error) {
	return afero.ReadFile(c.fs(), PrivateKeyName)
}

// OpenAppLog opens the application log in an append only state.
func (c *Configuration) OpenAppLog() (afero.File, error) {
	return c.fs().OpenFile(AppLogName, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
}

func (c *Configuration) ReadAppLog() (afero.File, error) {
	return c.fs().OpenFile(AppLogName, os.O_RDONLY, 0600)
}

// HistoryPath returns the path of the interactive history file, or ""
// for configurations without storage.
func (c *Configuration) HistoryPath() string {
	if c.configDir == "" {
		return ""
	}
	return filepath.Join(c.configDir, HistoryName)
}

// GetPasswords returns allowable passwords for the given username.
func (c *Configuration) GetPasswords(username string) []string {
	var out []string
	for _, v := range c.Users {
		if v.Username == username {
			out = append(out, v.Passwords...)
		}
	}

	out = append(out, c.GlobalPasswords...)
	return out
}

// GetHome returns the home directory for the given username.
func (c *Configuration) GetHome(username string) string {
	for _, v := range c.Users {
		if v.Username == username && v.Home != "" {
			return v.Home
		}
	}

	return "/"
}

// Default returns the built-in configuration. It has no storage
// attached, so it can run a shell but can't log or serve SSH.
func Default() *Configuration {
	return defaultConfig()
}

func defaultConfig() *Configuration {
	var out Configuration
	if err := yaml.UnmarshalStrict(defaultConfigData, &out); err != nil {
		panic(err)
	}
	return &out
}
