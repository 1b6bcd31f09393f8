package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/danieljhkim/phpsweep/internal/planner"
)

// terminalConfirm reads a y/N answer from stdin for gated actions.
func terminalConfirm(prompt string) bool {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

// printConflicts reports every conflict the resolver recorded.
func printConflicts(conflicts []planner.ConflictRecord) {
	if len(conflicts) == 0 {
		return
	}

	PrintSection("Conflicts")
	for _, c := range conflicts {
		if c.Resolved {
			PrintWarning(fmt.Sprintf("%s %s: %s", c.Type, c.Source, c.Resolution))
		} else {
			PrintError(fmt.Sprintf("%s %s: %s (unresolved)", c.Type, c.Source, c.Resolution))
		}
	}
}
