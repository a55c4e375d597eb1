// ABOUTME: Interactive prompt UI functions for user input
// ABOUTME: Handles the default-affirmative yes/no confirmation
package ui

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/ptup/ptup/internal/config"
)

// ConfirmYesNo prompts for Y/n confirmation. Pressing Enter or typing
// "y" (any case) accepts; every other answer declines. A closed stdin
// means nobody can approve, so it declines too.
func ConfirmYesNo(prompt string) (bool, error) {
	if config.YesFlag {
		return true, nil
	}

	fmt.Printf("%s [Y/n] ", prompt)

	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil && strings.TrimSpace(input) == "" {
		fmt.Println()
		return false, nil
	}

	input = strings.TrimSpace(strings.ToLower(input))
	return input == "" || input == "y", nil
}
