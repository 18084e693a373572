package nerdfonts

import "github.com/yijiazho/calendar/internal/backend"

// Calendar related symbols
const (
	Calendar      = "\uF073" // 
	CalendarCheck = "\uF274" // 
)

// Status symbols
const (
	InfoCircle          = "\uF05A" // 
	CheckCircle         = "\uF058" // 
	ExclamationCircle   = "\uF06A" // 
	ExclamationTriangle = "\uF071" // 
)

// Session and connection symbols
const (
	Key       = "\uF084" // 
	SignIn    = "\uF090" // 
	Link      = "\uF0C1" // 
	Server    = "\uF233" // 
	Globe     = "\uF0AC" // 
	Cog       = "\uF013" // 
	Google    = "\uF1A0" // 
	Microsoft = "\uF3CA" // 
)

// ProviderIcon returns the brand glyph for p, or Globe for anything else.
func ProviderIcon(p backend.Provider) string {
	switch p {
	case backend.ProviderGoogle:
		return Google
	case backend.ProviderOutlook:
		return Microsoft
	default:
		return Globe
	}
}
