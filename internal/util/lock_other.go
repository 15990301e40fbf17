//go:build !windows

package util

func isSharingViolation(err error) bool {
	return false
}
