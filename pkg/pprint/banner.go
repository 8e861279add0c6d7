// Package pprint: pluginhostctl ASCII banner.
package pprint

import "fmt"

// PrintBanner prints the pluginhostctl banner with version and tagline.
func PrintBanner(version, buildDate string) {
	line1 := StylePrimary.Render(" ██████╗ ██╗     ██╗   ██╗ ██████╗ ██╗███╗   ██╗")
	line2 := StylePrimary.Render(" ██╔══██╗██║     ██║   ██║██╔════╝ ██║████╗  ██║")
	line3 := StyleAccent.Render(" ██████╔╝██║     ██║   ██║██║  ███╗██║██╔██╗ ██║")
	line4 := StyleAccent.Render(" ██╔═══╝ ██║     ██║   ██║██║   ██║██║██║╚██╗██║")
	line5 := StyleText.Render(" ██║     ███████╗╚██████╔╝╚██████╔╝██║██║ ╚████║")
	line6 := StyleMuted.Render(" ╚═╝     ╚══════╝ ╚═════╝  ╚═════╝ ╚═╝╚═╝  ╚═══╝")

	fmt.Println()
	fmt.Println(line1)
	fmt.Println(line2)
	fmt.Println(line3)
	fmt.Println(line4)
	fmt.Println(line5)
	fmt.Println(line6)
	fmt.Println()

	tagline := StyleMuted.Render("  A host for native plugins")
	versionStr := StyleAccent.Render("  " + version)
	if buildDate != "" {
		versionStr += StyleMuted.Render("  built " + buildDate)
	}

	fmt.Println(tagline)
	fmt.Println(versionStr)
	fmt.Println()
}

// PrintBannerSmall prints a compact single-line brand prefix.
func PrintBannerSmall() {
	fmt.Print(StylePrimary.Render("◉ PLUGINHOST") + " ")
}
