package planner

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

// Text renders the summary as a plain-text report.
func (s Summary) Text() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Total energy: %s\n", humanize.Comma(int64(s.TotalEnergy)))
	fmt.Fprintf(&b, "Total days:   %s\n", humanize.Comma(int64(s.TotalDays)))
	fmt.Fprintf(&b, "Battles:      %s\n", humanize.Comma(int64(s.TotalBattles)))
	if s.Partial {
		b.WriteString("Warning: estimate was cut short, totals are a lower bound\n")
	}

	if len(s.Materials) == 0 {
		return b.String()
	}

	b.WriteString("\nMaterials:\n")
	for _, m := range s.Materials {
		fmt.Fprintf(&b, "  %-28s left %-6s energy %-8s days %s",
			m.Label,
			humanize.Comma(int64(m.CountLeft)),
			humanize.Comma(int64(m.Energy)),
			humanize.Comma(int64(m.Days)),
		)
		if m.Missing != "" {
			fmt.Fprintf(&b, "  (locked: %s)", m.Missing)
		}
		b.WriteString("\n")
	}

	return b.String()
}
