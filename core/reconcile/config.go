package reconcile

// Config holds the tunables of the engine exposed through application config.
type Config struct {
	// Separators are stripped from part number, bin and reference before
	// comparison with scanned codes.
	Separators string `mapstructure:"separators" default:"- "`
}

// Options converts the configuration into session options.
func (c Config) Options() []Option {
	if c.Separators == "" {
		return nil
	}
	return []Option{WithSeparators(c.Separators)}
}
