package main

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// parseLogLevel maps the external --log-level vocabulary (spec.md §6:
// DEBUG|INFO|CRITICAL, case-insensitive) onto logrus's levels. logrus has
// no "critical" level of its own, so CRITICAL is mapped to its closest
// logrus equivalent, ErrorLevel; everything else is delegated to
// logrus.ParseLevel.
func parseLogLevel(s string) (logrus.Level, error) {
	switch strings.ToUpper(s) {
	case "CRITICAL":
		return logrus.ErrorLevel, nil
	case "":
		return logrus.InfoLevel, nil
	}
	level, err := logrus.ParseLevel(strings.ToLower(s))
	if err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}
