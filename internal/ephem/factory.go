package ephem

import (
	"fmt"
	"time"

	"github.com/litescript/ls-natal/internal/logging"
)

// Config selects and parameterizes a provider.
type Config struct {
	Mode        Mode
	TableDir    string        // required for ModeTable
	HorizonsURL string        // optional override of HorizonsAPIURL
	Timeout     time.Duration // Horizons request timeout
	Logger      *logging.Logger
}

// New builds the provider for cfg.Mode.
//
//	kepler   offline elements
//	horizons Horizons for the planets, Kepler for the node
//	table    CSV tables from TableDir
//	auto     tables when TableDir is set, else Horizons, falling back to Kepler
func New(cfg Config) (Provider, error) {
	log := cfg.Logger
	if log == nil {
		log = logging.Discard()
	}

	kepler := NewKeplerProvider()
	horizons := func() Provider {
		return NewRouted(NewHorizonsProvider(WithBaseURL(cfg.HorizonsURL), WithTimeout(cfg.Timeout)), kepler)
	}

	switch cfg.Mode {
	case ModeKepler:
		return kepler, nil
	case ModeHorizons:
		return horizons(), nil
	case ModeTable:
		return NewTableProvider(cfg.TableDir)
	case ModeAuto:
		var primary Provider = horizons()
		if cfg.TableDir != "" {
			table, err := NewTableProvider(cfg.TableDir)
			if err != nil {
				return nil, err
			}
			primary = NewFallback(table, primary, log)
		}
		return NewFallback(primary, kepler, log), nil
	default:
		return nil, fmt.Errorf("unknown ephemeris mode %v", cfg.Mode)
	}
}
