// Package env provides information about the host a device runs on.
package env

import (
	"os"

	"github.com/denisbrodbeck/machineid"
	"github.com/golang/glog"
)

// AppID keys the protected machine ID so the raw ID never leaves the host.
const AppID = "safety.go"

// DeviceIDLength is the number of hex digits kept from the protected ID.
const DeviceIDLength = 12

// DeviceID returns a stable ID identifying this machine. It falls back to
// the host name when the machine ID is unavailable.
func DeviceID() string {
	id, err := machineid.ProtectedID(AppID)
	if err == nil {
		if len(id) > DeviceIDLength {
			id = id[:DeviceIDLength]
		}
		return id
	}
	glog.Warningf("machine ID unavailable: %v", err)
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "unknown"
}
