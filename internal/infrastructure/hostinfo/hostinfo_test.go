package hostinfo_test

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/architeacher/mobile-devices/internal/config"
	"github.com/architeacher/mobile-devices/internal/infrastructure/hostinfo"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestResolver_Current_ConfiguredValues(t *testing.T) {
	t.Parallel()

	idFile := filepath.Join(t.TempDir(), "id")
	resolver := hostinfo.NewResolver(config.Device{
		Identifier: "356938035643809",
		Model:      "Pixel 8",
		IDFile:     idFile,
	})

	device, err := resolver.Current()
	require.NoError(t, err)
	require.Equal(t, "356938035643809", device.Identifier)
	require.Equal(t, "Pixel 8", device.Model)
	require.NoFileExists(t, idFile)
}

func TestResolver_Current_PersistsGeneratedIdentifier(t *testing.T) {
	t.Parallel()

	idFile := filepath.Join(t.TempDir(), "nested", "device-id")
	resolver := hostinfo.NewResolver(config.Device{Model: "laptop", IDFile: idFile})

	first, err := resolver.Current()
	require.NoError(t, err)

	_, err = uuid.Parse(first.Identifier)
	require.NoError(t, err)
	require.FileExists(t, idFile)

	second, err := hostinfo.NewResolver(config.Device{Model: "laptop", IDFile: idFile}).Current()
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestResolver_Current_ReadsExistingIdentifier(t *testing.T) {
	t.Parallel()

	idFile := filepath.Join(t.TempDir(), "device-id")
	require.NoError(t, os.WriteFile(idFile, []byte("  fixed-id \n"), 0o600))

	device, err := hostinfo.NewResolver(config.Device{Model: "m", IDFile: idFile}).Current()
	require.NoError(t, err)
	require.Equal(t, "fixed-id", device.Identifier)
}

func TestResolver_Current_Hostname(t *testing.T) {
	restore := hostinfo.SetHostnameFunc(func() (string, error) { return "workstation", nil })
	t.Cleanup(restore)

	device, err := hostinfo.NewResolver(config.Device{Identifier: "id"}).Current()
	require.NoError(t, err)
	require.Equal(t, "workstation", device.Model)
}

func TestResolver_Current_HostnameFailure(t *testing.T) {
	errHost := errors.New("no hostname")
	restore := hostinfo.SetHostnameFunc(func() (string, error) { return "", errHost })
	t.Cleanup(restore)

	_, err := hostinfo.NewResolver(config.Device{Identifier: "id"}).Current()
	require.ErrorIs(t, err, errHost)
}

func TestResolver_Current_DefaultIDFileIsWorkingDirectoryIndependent(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG_CONFIG_HOME only drives the config directory on linux")
	}

	configHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)

	first, err := hostinfo.NewResolver(config.Device{Model: "laptop"}).Current()
	require.NoError(t, err)
	require.FileExists(t, filepath.Join(configHome, "mobile-devices", "device-id"))

	t.Chdir(t.TempDir())

	second, err := hostinfo.NewResolver(config.Device{Model: "laptop"}).Current()
	require.NoError(t, err)
	require.Equal(t, first.Identifier, second.Identifier)
}
