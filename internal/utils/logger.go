package utils

import (
	"fmt"
	"log"
	"time"
)

const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorBlue   = "\033[34m"
	ColorPurple = "\033[35m"
	ColorCyan   = "\033[36m"
	ColorWhite  = "\033[37m"
	ColorGray   = "\033[90m"
)

// format applies args only when present so that messages containing a bare
// '%' (percent rates, LIKE patterns) survive untouched.
func format(message string, args []interface{}) string {
	if len(args) == 0 {
		return message
	}
	return fmt.Sprintf(message, args...)
}

func logLevel(level, color, component, message string) {
	log.Printf("%s[%s]%s %s[%s]%s %s",
		color, level, ColorReset,
		ColorCyan, component, ColorReset,
		message)
}

func LogInfo(component, message string, args ...interface{}) {
	logLevel("INFO", ColorBlue, component, format(message, args))
}

func LogSuccess(component, message string, args ...interface{}) {
	logLevel("SUCCESS", ColorGreen, component, format(message, args))
}

func LogWarning(component, message string, args ...interface{}) {
	logLevel("WARNING", ColorYellow, component, format(message, args))
}

func LogDebug(component, message string, args ...interface{}) {
	logLevel("DEBUG", ColorPurple, component, format(message, args))
}

func LogError(component, message string, err error) {
	if err == nil {
		logLevel("ERROR", ColorRed, component, message)
		return
	}
	logLevel("ERROR", ColorRed, component,
		fmt.Sprintf("%s: %s%v%s", message, ColorRed, err, ColorReset))
}

func LogRequest(method, path string) {
	log.Printf("%s[REQUEST]%s %s%s%s %s",
		ColorCyan, ColorReset,
		ColorWhite, method, ColorReset,
		path)
}

func LogResponse(path string, statusCode int, duration time.Duration) {
	color := ColorGreen
	switch {
	case statusCode >= 500:
		color = ColorRed
	case statusCode >= 400:
		color = ColorYellow
	}

	log.Printf("%s[RESPONSE]%s %s | Status: %s%d%s | Duration: %s%v%s",
		ColorGray, ColorReset,
		path,
		color, statusCode, ColorReset,
		ColorWhite, duration, ColorReset)
}

func LogDB(operation, query string) {
	log.Printf("%s[DB]%s %s[%s]%s %s",
		ColorGray, ColorReset,
		ColorWhite, operation, ColorReset,
		query)
}
