//go:build linux
// +build linux

package device

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// List enumerates block devices from /proc/partitions.
func List() ([]Info, error) {
	f, err := os.Open("/proc/partitions")
	if err != nil {
		return nil, fmt.Errorf("failed to read partition table: %w", err)
	}
	defer f.Close()
	return parsePartitions(f)
}

// parsePartitions reads the /proc/partitions table:
//
//	major minor  #blocks  name
//	   8     0  488386584 sda
//
// Block counts are 1 KiB units.
func parsePartitions(r io.Reader) ([]Info, error) {
	var devices []Info
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) != 4 || fields[0] == "major" {
			continue
		}
		blocks, err := strconv.ParseInt(fields[2], 10, 64)
		if err != nil {
			continue
		}
		devices = append(devices, Info{
			Path: "/dev/" + fields[3],
			Size: blocks * 1024,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return devices, nil
}
