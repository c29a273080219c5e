package response

import "runtime"

type config struct {
	minEnergy float64
	fwhm      float64
	workers   int
	normalize bool
	broaden   bool
}

// Option configures the builder.
type Option func(*config)

// WithMinEnergy sets the minimum reliably-modeled output energy in keV.
// Rows below it are zero-filled. Default is 30 keV.
func WithMinEnergy(keV float64) Option {
	return func(cfg *config) {
		if keV >= 0 {
			cfg.minEnergy = keV
		}
	}
}

// WithFWHM sets the experimental absolute detector FWHM in keV at the
// detector's reference point. Each calibration entry scales it by its
// relative-resolution column. Default is 2.0 keV.
func WithFWHM(keV float64) Option {
	return func(cfg *config) {
		if keV > 0 {
			cfg.fwhm = keV
		}
	}
}

// WithWorkers sets how many goroutines compute rows concurrently.
// Values below 1 select GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(cfg *config) {
		cfg.workers = n
	}
}

// WithoutRowNormalization keeps each assembled row as-is instead of
// rescaling it to unit sum. Useful for inspecting the raw region assembly.
func WithoutRowNormalization() Option {
	return func(cfg *config) {
		cfg.normalize = false
	}
}

// WithBroadening smears each produced row with the detector resolution
// before normalization.
func WithBroadening() Option {
	return func(cfg *config) {
		cfg.broaden = true
	}
}

func defaultConfig() config {
	return config{
		minEnergy: 30,
		fwhm:      2.0,
		normalize: true,
	}
}

func (c config) finalized() config {
	if c.workers < 1 {
		c.workers = runtime.GOMAXPROCS(0)
	}
	if c.fwhm <= 0 {
		c.fwhm = 2.0
	}
	return c
}
