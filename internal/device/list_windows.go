//go:build windows
// +build windows

package device

import "golang.org/x/sys/windows"

// List enumerates logical drives as raw volume paths.
func List() ([]Info, error) {
	mask, err := windows.GetLogicalDrives()
	if err != nil {
		return nil, err
	}

	var devices []Info
	for i := 0; i < 26; i++ {
		if mask&(1<<i) == 0 {
			continue
		}
		path := ResolvePath(string(rune('A'+i)) + ":")
		info := Info{Path: path}
		if v, err := openRaw(path); err == nil {
			if size, err := v.size(); err == nil {
				info.Size = size
			}
			v.Close()
		}
		devices = append(devices, info)
	}
	return devices, nil
}
