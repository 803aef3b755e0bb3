//go:build integration

package probe

import (
	"os"
	"strconv"
	"time"
)

const (
	dockerEnv = "/.dockerenv"
	podmanEnv = "/run/.containerenv"

	integrationTimeout = 5 * time.Second
)

// isContainerEnv reports whether the tests run inside a container, where
// backing services are reachable by their compose service names.
func isContainerEnv() bool {
	for _, marker := range []string{dockerEnv, podmanEnv} {
		if _, err := os.Stat(marker); err == nil {
			return true
		}
	}
	return false
}

func svcHost(hostAddr, containerAddr string) string {
	if isContainerEnv() {
		return containerAddr
	}
	return hostAddr
}

func svcPort(hostPort, containerPort uint) uint {
	if isContainerEnv() {
		return containerPort
	}
	return hostPort
}

func portString(port uint) string {
	return strconv.FormatUint(uint64(port), 10)
}
