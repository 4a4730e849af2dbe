//go:build windows

package catalog

import (
	"strings"

	"golang.org/x/sys/windows"
)

func isHidden(path string, name string) bool {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return strings.HasPrefix(name, ".")
	}
	attrs, err := windows.GetFileAttributes(p)
	if err != nil {
		return false
	}
	return attrs&windows.FILE_ATTRIBUTE_HIDDEN != 0
}
