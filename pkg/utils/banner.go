package utils

import "github.com/pterm/pterm"

// PrintBanner prints the Aristo banner
func PrintBanner(version string) {
	banner := pterm.DefaultBigText.WithLetters(
		pterm.NewLettersFromStringWithStyle("ARI", pterm.NewStyle(pterm.FgLightCyan)),
		pterm.NewLettersFromStringWithStyle("STO", pterm.NewStyle(pterm.FgLightMagenta)),
	)
	banner.Render()

	pterm.DefaultCenter.Printf("v%s - Unique Barcode Printer\n", version)
	pterm.DefaultCenter.Println(pterm.LightYellow("Generate | Sync with Drive | Print"))
	pterm.Println()
}

// PrintCompactBanner prints a compact banner for scripts and CI
func PrintCompactBanner(version string) {
	pterm.DefaultHeader.
		WithBackgroundStyle(pterm.NewStyle(pterm.BgDarkGray)).
		WithTextStyle(pterm.NewStyle(pterm.FgLightCyan, pterm.Bold)).
		Printf(" Aristo v%s ", version)
	pterm.Println()
}

// PrintSection prints a section header
func PrintSection(title string) {
	pterm.DefaultSection.Println(title)
}

// PrintAlert shows a warning box that stays on screen
func PrintAlert(title, msg string) {
	pterm.DefaultBox.
		WithTitle(pterm.LightRed(title)).
		WithBoxStyle(pterm.NewStyle(pterm.FgLightRed)).
		Println(msg)
	pterm.Println()
}
