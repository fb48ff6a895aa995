// Package hostinfo resolves the identity of the machine the CLI runs on.
package hostinfo

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/architeacher/mobile-devices/internal/config"
	"github.com/architeacher/mobile-devices/internal/domain/model"
	"github.com/google/uuid"
)

var hostnameFunc = os.Hostname

type Resolver struct {
	cfg config.Device
}

func NewResolver(cfg config.Device) *Resolver {
	if cfg.IDFile == "" {
		cfg.IDFile = config.DefaultIDFile()
	}

	return &Resolver{cfg: cfg}
}

// Current returns this machine as a device. The identifier is generated once
// and persisted so repeated runs register the same device.
func (r *Resolver) Current() (model.Device, error) {
	identifier, err := r.identifier()
	if err != nil {
		return model.Device{}, err
	}

	deviceModel, err := r.model()
	if err != nil {
		return model.Device{}, err
	}

	return model.NewDevice(identifier, deviceModel), nil
}

func (r *Resolver) identifier() (string, error) {
	if r.cfg.Identifier != "" {
		return r.cfg.Identifier, nil
	}

	raw, err := os.ReadFile(r.cfg.IDFile)
	switch {
	case err == nil:
		if id := strings.TrimSpace(string(raw)); id != "" {
			return id, nil
		}
	case !errors.Is(err, fs.ErrNotExist):
		return "", fmt.Errorf("reading device id file %q: %w", r.cfg.IDFile, err)
	}

	id := uuid.NewString()

	if dir := filepath.Dir(r.cfg.IDFile); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return "", fmt.Errorf("creating device id directory: %w", err)
		}
	}

	if err := os.WriteFile(r.cfg.IDFile, []byte(id+"\n"), 0o600); err != nil {
		return "", fmt.Errorf("writing device id file %q: %w", r.cfg.IDFile, err)
	}

	return id, nil
}

func (r *Resolver) model() (string, error) {
	if r.cfg.Model != "" {
		return r.cfg.Model, nil
	}

	name, err := hostnameFunc()
	if err != nil {
		return "", fmt.Errorf("resolving hostname: %w", err)
	}

	return name, nil
}
