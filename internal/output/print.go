package output

import (
	"fmt"
	"os"
)

// PrintSuccess выводит сообщение об успехе операции
func PrintSuccess(useColors bool, format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	if useColors {
		fmt.Printf("\033[1;32m✓ %s\033[0m\n", message)
		return
	}
	fmt.Printf("✓ %s\n", message)
}

// PrintError выводит сообщение об ошибке в stderr
func PrintError(useColors bool, format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	if useColors {
		fmt.Fprintf(os.Stderr, "\033[1;31m✗ %s\033[0m\n", message)
		return
	}
	fmt.Fprintf(os.Stderr, "✗ %s\n", message)
}

// PrintWarning выводит предупреждение
func PrintWarning(useColors bool, format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	if useColors {
		fmt.Printf("\033[1;33m⚠ %s\033[0m\n", message)
		return
	}
	fmt.Printf("⚠ %s\n", message)
}
