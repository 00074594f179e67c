package config

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"errors"
	"io/fs"
	"log"
	"path/filepath"

	"github.com/spf13/afero"
	gossh "golang.org/x/crypto/ssh"
)

// Initialize sets up a configuration directory, writing the default
// config and generating a host key if they don't already exist.
// Running it on an already initialized directory only fills gaps.
func Initialize(path string, logger *log.Logger) (*Configuration, error) {
	return InitializeWithFs(afero.NewOsFs(), path, logger)
}

// InitializeWithFs is Initialize against the given filesystem.
func InitializeWithFs(fsys afero.Fs, path string, logger *log.Logger) (*Configuration, error) {
	if err := fsys.MkdirAll(path, 0700); err != nil {
		return nil, err
	}

	configPath := filepath.Join(path, ConfigurationName)
	if err := writeIfMissing(fsys, configPath, defaultConfigData, 0600, logger); err != nil {
		return nil, err
	}

	keyPath := filepath.Join(path, PrivateKeyName)
	if exists, err := afero.Exists(fsys, keyPath); err != nil {
		return nil, err
	} else if !exists {
		logger.Printf("Generating host key %s", keyPath)
		keyPem, err := generateHostKey()
		if err != nil {
			return nil, err
		}
		if err := afero.WriteFile(fsys, keyPath, keyPem, 0600); err != nil {
			return nil, err
		}
	} else {
		logger.Printf("Keeping existing host key %s", keyPath)
	}

	out, err := LoadWithFs(fsys, path)
	if err != nil {
		return nil, err
	}
	return out, out.Validate()
}

func writeIfMissing(fsys afero.Fs, path string, data []byte, perm fs.FileMode, logger *log.Logger) error {
	exists, err := afero.Exists(fsys, path)
	if err != nil {
		return err
	}
	if exists {
		logger.Printf("Keeping existing %s", path)
		return nil
	}

	logger.Printf("Writing %s", path)
	return afero.WriteFile(fsys, path, data, perm)
}

// generateHostKey creates a new ed25519 SSH host key in PEM form.
func generateHostKey() ([]byte, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}

	block, err := gossh.MarshalPrivateKey(priv, "")
	if err != nil {
		return nil, err
	}
	if block == nil {
		return nil, errors.New("host key: empty PEM block")
	}

	return pem.EncodeToMemory(block), nil
}
