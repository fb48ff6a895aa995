package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/architeacher/mobile-devices/internal/domain/model"
	"github.com/architeacher/mobile-devices/internal/usecases/commands"
	"github.com/architeacher/mobile-devices/internal/usecases/queries"
	"github.com/spf13/cobra"
)

var errStoreNotReady = errors.New("device store is not ready")

func (c *CLI) newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved devices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			devices, err := c.app().Queries.ListDevices.Execute(cmd.Context(), queries.ListDevicesQuery{})
			if err != nil {
				return err
			}

			NewRenderer(cmd.OutOrStdout()).Devices(devices.Sorted())

			return nil
		},
	}
}

func (c *CLI) newSaveCommand() *cobra.Command {
	var identifier, deviceModel string

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Save a device record, even if an identical one exists",
		Long: `Stores a new record. Missing --identifier or --model values are taken
from this device. Saving never deduplicates.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			device, err := c.backend.CurrentDevice()
			if err != nil {
				return err
			}

			if identifier != "" {
				device.Identifier = identifier
			}

			if deviceModel != "" {
				device.Model = deviceModel
			}

			saved, err := c.app().Commands.SaveDevice.Handle(cmd.Context(), commands.SaveDeviceCommand{Device: device})
			if err != nil {
				return err
			}

			NewRenderer(cmd.OutOrStdout()).Success("Saved %s", saved)

			return nil
		},
	}

	cmd.Flags().StringVar(&identifier, "identifier", "", "device identifier")
	cmd.Flags().StringVar(&deviceModel, "model", "", "device model name")

	return cmd
}

func (c *CLI) newRegisterCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "register",
		Short: "Save this device unless it is already saved",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			device, err := c.backend.CurrentDevice()
			if err != nil {
				return err
			}

			result, err := c.app().Commands.RegisterDevice.Handle(cmd.Context(), commands.RegisterDeviceCommand{Device: device})
			if err != nil {
				return err
			}

			renderer := NewRenderer(cmd.OutOrStdout())
			if result.Created {
				renderer.Success("Saved this device: %s", result.Device)

				return nil
			}

			renderer.Plain("This device is already saved: %s", result.Device)

			return nil
		},
	}
}

func (c *CLI) newFindCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "find <identifier>",
		Short: "Show the first saved device whose identifier matches",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			device, err := c.app().Queries.FindDevice.Execute(cmd.Context(), queries.FindDeviceQuery{Identifier: args[0]})
			if err != nil {
				return err
			}

			NewRenderer(cmd.OutOrStdout()).Plain("%s", device)

			return nil
		},
	}
}

func (c *CLI) newExistsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "exists [identifier]",
		Short: "Report whether a device is saved (defaults to this device)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			device, err := c.targetDevice(args)
			if err != nil {
				return err
			}

			exists, err := c.app().Queries.DeviceExists.Execute(cmd.Context(), queries.DeviceExistsQuery{Device: device})
			if err != nil {
				return err
			}

			NewRenderer(cmd.OutOrStdout()).Plain("%t", exists)

			return nil
		},
	}
}

func (c *CLI) newDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <identifier>",
		Short: "Delete the first saved device whose identifier matches",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			device := model.NewDevice(args[0], "")

			if _, err := c.app().Commands.DeleteDevice.Handle(cmd.Context(), commands.DeleteDeviceCommand{Device: device}); err != nil {
				return err
			}

			NewRenderer(cmd.OutOrStdout()).Success("Deleted device %s", args[0])

			return nil
		},
	}
}

func (c *CLI) newClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all saved devices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			result, err := c.app().Commands.ClearDevices.Handle(cmd.Context(), commands.ClearDevicesCommand{})
			if err != nil {
				return err
			}

			renderer := NewRenderer(cmd.OutOrStdout())
			renderer.Success("Removed %d devices", result.Removed)

			if result.Remaining > 0 {
				renderer.Warning("%d devices without an identifier could not be removed", result.Remaining)
			}

			return nil
		},
	}
}

func (c *CLI) newOverviewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "overview",
		Short: "Show saved devices and whether this device is saved",
		Args:  cobra.NoArgs,
		RunE:  c.runOverview,
	}
}

func (c *CLI) newPingCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the device store is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			result, err := c.app().Queries.FetchReadiness.Execute(cmd.Context(), queries.FetchReadinessQuery{})
			if err != nil {
				return err
			}

			if !result.Ready {
				return fmt.Errorf("%w: %s", errStoreNotReady, result.Error)
			}

			NewRenderer(cmd.OutOrStdout()).Success("%s (%s)", result.Status, result.Latency.Round(time.Millisecond))

			return nil
		},
	}
}

func (c *CLI) runOverview(cmd *cobra.Command, _ []string) error {
	current, err := c.backend.CurrentDevice()
	if err != nil {
		return err
	}

	overview, err := c.app().Queries.FetchOverview.Execute(cmd.Context(), queries.FetchOverviewQuery{Current: current})
	if err != nil {
		return err
	}

	NewRenderer(cmd.OutOrStdout()).Overview(overview)

	return nil
}

func (c *CLI) targetDevice(args []string) (model.Device, error) {
	if len(args) == 1 {
		return model.NewDevice(args[0], ""), nil
	}

	return c.backend.CurrentDevice()
}
