//go:build !windows

package service

import "errors"

// ErrNotSupported is returned by service manager operations outside Windows.
var ErrNotSupported = errors.New("service management is only supported on Windows")

// RunService runs the app in the foreground on non-Windows platforms
func RunService(isDebug bool, app *Application) error {
	return app.Run()
}

func InstallService(exePath string) error {
	return ErrNotSupported
}

func UninstallService() error {
	return ErrNotSupported
}

func StartService() error {
	return ErrNotSupported
}

func StopService() error {
	return ErrNotSupported
}

// IsWindowsService always returns false on non-Windows platforms
func IsWindowsService() (bool, error) {
	return false, nil
}
