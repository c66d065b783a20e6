package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/fitedit/internal/core/domain"
)

var configCmd = &cobra.Command{
	Use:         "config",
	Short:       "Show or change configuration",
	Long:        `View and change the settings stored in the fitedit config file.`,
	Annotations: map[string]string{annotationWire: wireSettings},
	RunE:        runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:         "show",
	Short:       "Show the effective configuration",
	Annotations: map[string]string{annotationWire: wireSettings},
	RunE:        runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one setting",
	Long: `Validates and stores one setting. Lists such as device.third_party take
comma-separated ids; pass an empty string to clear them. Run "fitedit config
keys" to list the keys.`,
	Args:        cobra.ExactArgs(2),
	Annotations: map[string]string{annotationWire: wireSettings},
	RunE:        runConfigSet,
}

var configKeysCmd = &cobra.Command{
	Use:         "keys",
	Short:       "List the settable keys",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{annotationWire: wireSettings},
	RunE: func(cmd *cobra.Command, _ []string) error {
		if settingsService == nil {
			return errors.New("settings service not configured")
		}
		for _, key := range settingsService.Keys() {
			cmd.Println(key)
		}
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configKeysCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	cfg, err := settingsService.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	cmd.Println(titleStyle.Render("Config file: " + settingsService.Path()))
	cmd.Println()

	cmd.Println("Garmin Connect:")
	cmd.Printf("  Username: %s\n", valueOrUnset(cfg.Garmin.Username))
	if cfg.Garmin.Password != "" {
		cmd.Printf("  Password: %s\n", maskSecret(cfg.Garmin.Password))
	} else {
		cmd.Printf("  Password: (not set)\n")
	}
	cmd.Printf("  Base URL: %s\n", cfg.Garmin.BaseURL)
	cmd.Printf("  Uploads per minute: %d\n", cfg.Garmin.UploadsPerMinute)
	cmd.Println()

	cmd.Println("Device:")
	cmd.Printf("  Manufacturer: %d\n", cfg.Device.Manufacturer)
	cmd.Printf("  Product: %d\n", cfg.Device.Product)
	cmd.Printf("  Third party: %s\n", joinIDs(cfg.Device.ThirdParty))
	cmd.Printf("  Dropped messages: %s\n", joinIDs(cfg.Rewrite.DropMessages))
	cmd.Println()

	cmd.Println("Monitor:")
	cmd.Printf("  Debounce: %s\n", cfg.Watch.Debounce)
	cmd.Printf("  Initial scan: %t\n", cfg.Watch.InitialScan)
	cmd.Printf("  Metrics: %s\n", valueOrUnset(cfg.Metrics.Addr))
	cmd.Println()

	cmd.Println("Paths:")
	cmd.Printf("  Data: %s\n", cfg.Paths.DataDir)
	cmd.Printf("  Temp: %s\n", valueOrUnset(cfg.Paths.TempDir))
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	if err := settingsService.Set(args[0], args[1]); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return err
		}
		return fmt.Errorf("save setting: %w", err)
	}

	value := args[1]
	if args[0] == "garmin.password" {
		value = maskSecret(value)
	}
	cmd.Printf("Set %s = %s\n", args[0], value)
	return nil
}

func valueOrUnset(v string) string {
	if v == "" {
		return "(not set)"
	}
	return v
}

func joinIDs[T ~uint16](ids []T) string {
	if len(ids) == 0 {
		return "(none)"
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprint(uint16(id))
	}
	return strings.Join(parts, ", ")
}
