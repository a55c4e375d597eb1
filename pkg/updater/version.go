// ABOUTME: Version normalization and the upgrade decision
// ABOUTME: Maps release strings to comparable integers and compares them
package updater

import (
	"fmt"
	"strconv"
	"strings"
)

// Decision is the outcome of comparing the installed version against the
// published one.
type Decision string

const (
	UpToDate         Decision = "up-to-date"
	UpgradeAvailable Decision = "upgrade-available"
)

// fieldWidth is the positional weight of one version field. Real
// platform-tools fields stay far below it, so normalized values order the
// same way the dotted strings do.
const fieldWidth = 1_000_000

// Normalize maps a release string to a single comparable integer:
// major*10^12 + minor*10^6 + patch. Leading non-numeric tag characters
// ("r34.0.1", "v1.2") are stripped, anything from the first dash on is
// ignored ("34.0.1-linux"), and missing trailing fields count as zero
// ("35.2" reads as 35.2.0). An error is returned when no numeric major
// field remains.
func Normalize(version string) (int64, error) {
	s := strings.TrimSpace(version)
	s, _, _ = strings.Cut(s, "-")
	for len(s) > 0 && (s[0] < '0' || s[0] > '9') {
		s = s[1:]
	}
	if s == "" {
		return 0, fmt.Errorf("no numeric component in version %q", version)
	}

	var parts [3]int64
	for i, field := range strings.SplitN(s, ".", 4) {
		if i == len(parts) {
			break
		}
		n, ok := leadingNumber(field)
		if !ok {
			break
		}
		parts[i] = n
	}

	return (parts[0]*fieldWidth+parts[1])*fieldWidth + parts[2], nil
}

// leadingNumber parses the digit prefix of a version field, so "1" and
// "1rc2" both read as 1.
func leadingNumber(field string) (int64, bool) {
	i := 0
	for i < len(field) && field[i] >= '0' && field[i] <= '9' {
		i++
	}
	if i == 0 {
		return 0, false
	}
	n, err := strconv.ParseInt(field[:i], 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Decide reports whether an upgrade should be offered. Only a strictly
// greater remote version counts; equal or older remotes leave the
// installation alone.
func Decide(local, remote int64) Decision {
	if local < remote {
		return UpgradeAvailable
	}
	return UpToDate
}
