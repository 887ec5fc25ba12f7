// Package ui holds the terminal styles shared by Gatehouse console output.
package ui

import (
	"os"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/fang"
)

// GetFangScheme returns the same light/dark-aware color scheme fang uses.
func GetFangScheme() fang.ColorScheme {
	// This mirrors fang.mustColorscheme(DefaultColorScheme)
	isDark := lipgloss.HasDarkBackground(os.Stdin, os.Stdout)
	return fang.DefaultColorScheme(lipgloss.LightDark(isDark))
}

// UI layout constants.
const defaultMargin = 2

// GetBannerStyles generates the styles for the gate failure banner: one for
// the banner headline and one for the itemized failure lines beneath it.
func GetBannerStyles() (lipgloss.Style, lipgloss.Style) {
	colorScheme := GetFangScheme()

	bannerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(colorScheme.Command).
		Transform(strings.ToUpper).
		Padding(0, 1)

	itemStyle := lipgloss.NewStyle().
		Foreground(colorScheme.Base).
		MarginLeft(defaultMargin)
	return bannerStyle, itemStyle
}
