package options

// Basic carries the WooCommerce endpoint and credentials.
type Basic struct {
	URL     string
	Key     string
	Secret  string
	Options Advanced
}

// Advanced tunes URL layout and authentication placement.
type Advanced struct {
	WPAPI           bool
	WPAPIPrefix     string
	Version         string
	QueryStringAuth bool
}

// Prefix returns the REST route prefix for the configured API flavour.
func (b Basic) Prefix() string {
	if b.Options.WPAPI {
		prefix := b.Options.WPAPIPrefix
		if prefix == "" {
			prefix = "/wp-json/"
		}
		return prefix
	}
	return "/wc-api/"
}
