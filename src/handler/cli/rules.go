package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func (h *Handler) rulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "List registered rules",
		Run: func(cmd *cobra.Command, args []string) {
			for _, p := range h.registry.Plugins() {
				fmt.Printf("Plugin %s %s (%s):\n", p.ID(), p.Version(), strings.Join(p.Extensions(), ", "))
				for _, impl := range p.Rules() {
					kind := "code"
					if impl.Data != nil {
						kind = "data"
					}
					state := "enabled"
					if !impl.Enabled() {
						state = "disabled"
					}
					fmt.Printf("  %-10s %-8s %-8s %-5s %s\n",
						impl.ID(), impl.Severity(), impl.Category(), kind, state)
				}
			}
		},
	}
}
