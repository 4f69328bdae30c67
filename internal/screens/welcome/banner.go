package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizbook/internal/ui/theme"
)

const bannerArt = `  ___        _     _                 _
 / _ \ _   _(_)___| |__   ___   ___ | | __
| | | | | | | |_  / '_ \ / _ \ / _ \| |/ /
| |_| | |_| | |/ /| |_) | (_) | (_) |   <
 \__\_\\__,_|_/___|_.__/ \___/ \___/|_|\_\`

const bannerCompact = "Q · U · I · Z · B · O · O · K"

// BannerMinWidth is the narrowest width that fits the full banner.
const BannerMinWidth = 46

// Banner returns the unstyled banner text, compact below BannerMinWidth.
func Banner(width int) string {
	if width < BannerMinWidth {
		return bannerCompact
	}
	return bannerArt
}

// RenderBanner returns the banner styled in the given color.
func RenderBanner(width int) string {
	return lipgloss.NewStyle().
		Foreground(theme.ArcadeYellow).
		Bold(true).
		Render(Banner(width))
}
