package archive

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Overridable in tests.
var (
	OsReleaseFile   = "/etc/os-release"
	LsbCodenameFile = "/etc/lsb-release-codename"
)

// DetectSeries reads the release series (the distribution codename,
// e.g. "noble") from the running system. It checks VERSION_CODENAME in
// os-release first and falls back to the lsb codename file.
func DetectSeries() (string, error) {
	if series, ok := seriesFromOsRelease(); ok {
		return series, nil
	}

	if data, err := os.ReadFile(LsbCodenameFile); err == nil {
		if series := strings.TrimSpace(string(data)); series != "" {
			return series, nil
		}
	}

	return "", fmt.Errorf("release series not detectable from %s or %s", OsReleaseFile, LsbCodenameFile)
}

func seriesFromOsRelease() (string, bool) {
	file, err := os.Open(OsReleaseFile)
	if err != nil {
		return "", false
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "VERSION_CODENAME=") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		series := strings.Trim(strings.TrimSpace(parts[1]), "\"")
		if series != "" {
			return series, true
		}
	}
	return "", false
}
