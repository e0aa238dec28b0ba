// Package logging is the colourised logging facade the Tube core and its
// transports log through. The distilled spec treats a full logging facade as
// an external collaborator; this is the minimal interface that resolves to,
// mirroring the five severities and coloured tags of the teacher pack's own
// CLI output (github.com/fatih/color, as used for rockstar-0000-aistore's
// cmd/cli).
package logging

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/relaysec/pwngo"
)

var (
	debugTag    = color.New(color.FgRed).SprintFunc()
	infoTag     = color.New(color.FgBlue).SprintFunc()
	warnTag     = color.New(color.FgYellow).SprintFunc()
	errorTag    = color.New(color.FgWhite, color.BgRed).SprintFunc()
	criticalTag = color.New(color.FgWhite, color.BgRed).SprintFunc()
)

func currentLevel() pwngo.LogLevel {
	var lvl pwngo.LogLevel
	pwngo.Access(func(s *pwngo.Settings) {
		lvl = s.LogLevel
	})
	return lvl
}

func shouldLog(level pwngo.LogLevel) bool {
	return level >= currentLevel()
}

// Debug logs msg at the Debug severity.
func Debug(msg string) {
	if shouldLog(pwngo.LogDebug) {
		fmt.Fprintf(os.Stdout, "[%s] %s\n", debugTag("DEBUG"), msg)
	}
}

// Info logs msg at the Info severity.
func Info(msg string) {
	if shouldLog(pwngo.LogInfo) {
		fmt.Fprintf(os.Stdout, "[%s] %s\n", infoTag("+"), msg)
	}
}

// Warn logs msg at the Warning severity.
func Warn(msg string) {
	if shouldLog(pwngo.LogWarning) {
		fmt.Fprintf(os.Stdout, "[%s] %s\n", warnTag("!"), msg)
	}
}

// Error logs msg at the Error severity.
func Error(msg string) {
	if shouldLog(pwngo.LogError) {
		fmt.Fprintf(os.Stdout, "[%s] %s\n", errorTag("ERROR"), msg)
	}
}

// Critical logs msg at the Critical severity.
func Critical(msg string) {
	if shouldLog(pwngo.LogCritical) {
		fmt.Fprintf(os.Stdout, "[%s] %s\n", criticalTag("CRITICAL"), msg)
	}
}
