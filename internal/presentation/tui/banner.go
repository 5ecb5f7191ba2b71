package tui

import (
	"fmt"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the drumtwin ASCII banner.
func PrintBanner() {
	p := termenv.ColorProfile()
	// Ember-to-steam gradient
	s1 := termenv.String("      _                      _            _       ").Foreground(p.Color("#fb7185"))
	s2 := termenv.String("   __| |_ __ _   _ _ __ ___ | |___      _(_)_ __  ").Foreground(p.Color("#f472b6"))
	s3 := termenv.String("  / _` | '__| | | | '_ ` _ \\| __\\ \\ /\\ / / | '_ \\ ").Foreground(p.Color("#e879f9"))
	s4 := termenv.String(" | (_| | |  | |_| | | | | | | |_ \\ V  V /| | | | |").Foreground(p.Color("#c084fc"))
	s5 := termenv.String("  \\__,_|_|   \\__,_|_| |_| |_|\\__| \\_/\\_/ |_|_| |_|").Foreground(p.Color("#a78bfa"))

	fmt.Println()
	fmt.Println(s1)
	fmt.Println(s2)
	fmt.Println(s3)
	fmt.Println(s4)
	fmt.Println(s5)
	fmt.Println()
}
