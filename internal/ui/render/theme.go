package render

import (
	"github.com/gdamore/tcell/v2"

	"github.com/kk-code-lab/xv/internal/hexview"
	"github.com/kk-code-lab/xv/internal/highlight"
)

// ColorTheme defines application colors.
type ColorTheme struct {
	Name        string
	Background  tcell.Color
	Foreground  tcell.Color
	HeaderBg    tcell.Color
	HeaderFg    tcell.Color
	FooterBg    tcell.Color
	FooterFg    tcell.Color
	OffsetFg    tcell.Color
	SeparatorFg tcell.Color
	ErrorFg     tcell.Color
	PromptFg    tcell.Color

	// Byte colours, indexed by hexview.Category.
	Categories [4]tcell.Color

	PositiveBg tcell.Color
	PositiveFg tcell.Color
	NegativeBg tcell.Color
	NegativeFg tcell.Color
}

// DarkTheme is the default color scheme.
func DarkTheme() ColorTheme {
	return ColorTheme{
		Name:        "dark",
		Background:  tcell.ColorDefault,
		Foreground:  tcell.ColorDefault,
		HeaderBg:    tcell.Color236,
		HeaderFg:    tcell.Color252,
		FooterBg:    tcell.Color236,
		FooterFg:    tcell.Color250,
		OffsetFg:    tcell.Color244,
		SeparatorFg: tcell.Color240,
		ErrorFg:     tcell.Color203,
		PromptFg:    tcell.Color51,
		Categories: [4]tcell.Color{
			hexview.AsciiControl:    tcell.Color204, // pink for control bytes
			hexview.AsciiPrintable:  tcell.Color252,
			hexview.AsciiWhitespace: tcell.Color114,
			hexview.Other:           tcell.Color179, // amber for high bytes
		},
		PositiveBg: tcell.Color33,
		PositiveFg: tcell.ColorWhite,
		NegativeBg: tcell.Color160,
		NegativeFg: tcell.ColorWhite,
	}
}

// LightTheme suits terminals with a light background.
func LightTheme() ColorTheme {
	return ColorTheme{
		Name:        "light",
		Background:  tcell.ColorDefault,
		Foreground:  tcell.ColorDefault,
		HeaderBg:    tcell.Color254,
		HeaderFg:    tcell.Color235,
		FooterBg:    tcell.Color254,
		FooterFg:    tcell.Color238,
		OffsetFg:    tcell.Color245,
		SeparatorFg: tcell.Color250,
		ErrorFg:     tcell.Color124,
		PromptFg:    tcell.Color25,
		Categories: [4]tcell.Color{
			hexview.AsciiControl:    tcell.Color161,
			hexview.AsciiPrintable:  tcell.Color235,
			hexview.AsciiWhitespace: tcell.Color28,
			hexview.Other:           tcell.Color130,
		},
		PositiveBg: tcell.Color117,
		PositiveFg: tcell.Color16,
		NegativeBg: tcell.Color217,
		NegativeFg: tcell.Color16,
	}
}

// ThemeNamed returns the light theme for "light" and the dark theme otherwise.
func ThemeNamed(name string) ColorTheme {
	if name == "light" {
		return LightTheme()
	}
	return DarkTheme()
}

// byteStyles holds the style of every byte value for each highlight kind.
type byteStyles [3][256]tcell.Style

func newByteStyles(theme ColorTheme) *byteStyles {
	base := tcell.StyleDefault.Background(theme.Background)
	positive := base.Background(theme.PositiveBg).Foreground(theme.PositiveFg)
	negative := base.Background(theme.NegativeBg).Foreground(theme.NegativeFg).Bold(true)

	var s byteStyles
	for i := 0; i < 256; i++ {
		s[highlight.Neutral][i] = base.Foreground(theme.Categories[hexview.Categories[i]])
		s[highlight.Positive][i] = positive
		s[highlight.Negative][i] = negative
	}
	return &s
}

func (s *byteStyles) style(b byte, kind highlight.Kind) tcell.Style {
	if int(kind) >= len(s) {
		kind = highlight.Neutral
	}
	return s[kind][b]
}
