//go:build windows

package localfs

func isNotDir(err error) bool {
	return false
}
