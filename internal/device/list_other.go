//go:build !linux && !windows
// +build !linux,!windows

package device

func List() ([]Info, error) {
	return nil, ErrUnsupported
}
