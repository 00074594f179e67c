package config

import (
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"sigs.k8s.io/yaml"
)

func TestBuiltinConfig(t *testing.T) {
	rawConfig := make(map[string]interface{})
	assert.Nil(t, yaml.Unmarshal(defaultConfigData, &rawConfig))

	knownFields := make(map[string]bool)
	rt := reflect.TypeOf(Configuration{})
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}

		jsonTag := field.Tag.Get("json")
		assert.NotEmpty(t, jsonTag)
		jsonField := strings.Split(jsonTag, ",")[0]
		knownFields[jsonField] = true

		if _, ok := rawConfig[jsonField]; !ok {
			assert.False(t, true, "default config missing field: %q", jsonField)
		}
	}

	for k := range rawConfig {
		_, ok := knownFields[k]
		assert.True(t, ok, "default config contains invalid field: %q", k)
	}
}

func TestDefaultConfig(t *testing.T) {
	// Will panic() on load failure because it should never happen at runtime.
	assert.NotNil(t, defaultConfig())
}

func TestDefaultConfig_valid(t *testing.T) {
	assert.Nil(t, defaultConfig().Validate())
}

func TestValidate(t *testing.T) {
	cfg := defaultConfig()
	cfg.SSH.Port = 1 << 20

	err := cfg.Validate()
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "port")
}

func TestGetPasswords(t *testing.T) {
	cfg := &Configuration{
		GlobalPasswords: []string{"hunter2"},
		Users: []User{
			{Username: "root", Passwords: []string{"root", "toor"}},
			{Username: "jdoe", Passwords: []string{"swordfish"}},
		},
	}

	assert.Equal(t, []string{"root", "toor", "hunter2"}, cfg.GetPasswords("root"))
	assert.Equal(t, []string{"swordfish", "hunter2"}, cfg.GetPasswords("jdoe"))
	assert.Equal(t, []string{"hunter2"}, cfg.GetPasswords("nobody"))
}

func TestGetHome(t *testing.T) {
	cfg := &Configuration{
		Users: []User{
			{Username: "root", Home: "/root"},
			{Username: "jdoe"},
		},
	}

	assert.Equal(t, "/root", cfg.GetHome("root"))
	assert.Equal(t, "/", cfg.GetHome("jdoe"))
	assert.Equal(t, "/", cfg.GetHome("nobody"))
}

func TestPipelineGrace(t *testing.T) {
	assert.Equal(t, "100ms", defaultConfig().PipelineGrace().String())
}
