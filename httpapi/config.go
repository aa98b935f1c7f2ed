package httpapi

import (
	"time"

	"pkt.systems/tally/internal/deferred"
	"pkt.systems/tally/internal/themecodec"
)

// Config defines HTTP UI settings.
type Config struct {
	Addr              string
	BaseURL           string
	BasePath          string
	Codec             themecodec.Codec
	AccentDelay       time.Duration
	StructuralClasses []string
	Clock             deferred.Clock
}
