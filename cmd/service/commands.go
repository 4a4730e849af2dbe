package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"esign-composer/internal/service"
	"esign-composer/internal/version"
)

// manager is the service control surface used by the commands.
type manager struct {
	executable func() (string, error)
	install    func(exePath string) error
	uninstall  func() error
	start      func() error
	stop       func() error
	isService  func() (bool, error)
	run        func(debug bool) error
}

func defaultManager() manager {
	return manager{
		executable: os.Executable,
		install:    service.InstallService,
		uninstall:  service.UninstallService,
		start:      service.StartService,
		stop:       service.StopService,
		isService:  service.IsWindowsService,
		run: func(debug bool) error {
			return service.RunService(debug, service.NewApplication())
		},
	}
}

func newRootCommand(m manager) *cobra.Command {
	root := &cobra.Command{
		Use:          "esign-service",
		Short:        "E-Sign Composer service",
		SilenceUsage: true,
	}

	root.AddCommand(
		newRunCommand(m),
		newInstallCommand(m),
		newUninstallCommand(m),
		newStartCommand(m),
		newStopCommand(m),
		newVersionCommand(),
	)
	return root
}

func newRunCommand(m manager) *cobra.Command {
	var debug bool
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the service in the foreground or under the service manager",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Config is looked up next to the executable
			if exePath, err := m.executable(); err == nil {
				if err := os.Chdir(filepath.Dir(exePath)); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "Warning: could not change to executable directory: %v\n", err)
				}
			}

			isService, err := m.isService()
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning: could not determine if running as service: %v\n", err)
			}

			if !isService && !debug {
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, service.ServiceDisplayName)
				fmt.Fprintf(out, "Version: %s\n", version.Version)
				fmt.Fprintln(out, "Running in console mode. Press Ctrl+C to stop.")
			}

			return m.run(debug && !isService)
		},
	}
	cmd.Flags().BoolVar(&debug, "debug", false, "run under the service debug runner")
	return cmd
}

func newInstallCommand(m manager) *cobra.Command {
	return &cobra.Command{
		Use:   "install",
		Short: "Install and start the Windows service",
		RunE: func(cmd *cobra.Command, args []string) error {
			exePath, err := m.executable()
			if err != nil {
				return fmt.Errorf("failed to locate executable: %w", err)
			}
			if err := m.install(exePath); err != nil {
				return fmt.Errorf("failed to install service: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Service installed successfully")

			if err := m.start(); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning: failed to start service: %v\n", err)
				fmt.Fprintln(cmd.OutOrStdout(), "You may need to start the service manually")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Service started")
			return nil
		},
	}
}

func newUninstallCommand(m manager) *cobra.Command {
	return &cobra.Command{
		Use:   "uninstall",
		Short: "Stop and remove the Windows service",
		RunE: func(cmd *cobra.Command, args []string) error {
			// not running is fine
			_ = m.stop()

			if err := m.uninstall(); err != nil {
				return fmt.Errorf("failed to uninstall service: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Service uninstalled successfully")
			return nil
		},
	}
}

func newStartCommand(m manager) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the Windows service",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := m.start(); err != nil {
				return fmt.Errorf("failed to start service: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Service started")
			return nil
		},
	}
}

func newStopCommand(m manager) *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the Windows service",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := m.stop(); err != nil {
				return fmt.Errorf("failed to stop service: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Service stopped")
			return nil
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the service version",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", service.ServiceDisplayName, version.Version)
			return err
		},
	}
}
