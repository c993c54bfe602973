// internal/decision/prompt.go
package decision

import (
	"fmt"
	"math"
	"strings"
)

const systemPrompt = `You are a ship navigation officer. Make COLREGs-compliant decisions with your response in this format: Rule {} (situation description), Action: [Stand on, no action / Give-way, turn to starboard / Give-way, turn to port / Continue current maneuver], Explanation: ...`

const metersPerNmi = 1852.0

// BuildPrompt renders the situation for an interpreter backend. The
// core is SI throughout; nautical miles and degrees belong to this
// presentation boundary only.
func BuildPrompt(s Situation) string {
	var b strings.Builder
	b.WriteString(systemPrompt)
	b.WriteString("\n\n")

	worst, ok := s.HighestRisk()
	if !ok {
		b.WriteString("No vessels detected.")
		return b.String()
	}

	fmt.Fprintf(&b, "Maritime Situation Analysis:\n")
	fmt.Fprintf(&b, "- Number of vessels: %d\n", len(s.Vessels))
	fmt.Fprintf(&b, "- Highest risk vessel:\n")
	fmt.Fprintf(&b, "  * Risk Level: %.2f\n", worst.Risk)
	fmt.Fprintf(&b, "  * Distance: %.2f nautical miles\n", worst.Distance/metersPerNmi)
	fmt.Fprintf(&b, "  * Bearing: %.1f deg\n", worst.Bearing*180/math.Pi)
	fmt.Fprintf(&b, "  * DCPA: %.2f nautical miles\n", worst.DCPA/metersPerNmi)
	fmt.Fprintf(&b, "  * TCPA: %.1f seconds\n", worst.TCPA)
	b.WriteString("\nBased on COLREGs rules, what action should be taken?")
	return b.String()
}
