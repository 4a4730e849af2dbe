//go:build !windows

package catalog

import "strings"

func isHidden(_ string, name string) bool {
	return strings.HasPrefix(name, ".")
}
