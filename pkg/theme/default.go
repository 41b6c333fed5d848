package theme

// defaultConfig is the statically authored cafe configuration. It is never
// handed out directly; Default returns copies.
var defaultConfig = Config{
	Content: []GlobPattern{
		"./templates/**/*.html",
		"./pages/templates/**/*.html",
		"./accounts/templates/**/*.html",
		"./pages/**/*.py",
		"./accounts/**/*.py",
		"./cafeapp/**/*.py",
	},
	Theme: Theme{Extend: Extend{
		Colors: map[string]string{
			"cafe-brown":     "#432",
			"cafe-cyan":      "#0bd",
			"cafe-cyan-dark": "#0090aa",
			"cafe-bg":        "#FAF7F0",
		},
		FontFamily: map[string][]string{
			"philosopher": {"Philosopher", "serif"},
			"yugothic": {
				`"Yu Gothic Medium"`,
				`"游ゴシック Medium"`,
				"YuGothic",
				`"游ゴシック体"`,
				`"ヒラギノ角ゴ Pro W3"`,
				"sans-serif",
			},
			"yumincho": {`"Yu Mincho"`, "YuMincho", "serif"},
		},
		MaxWidth: map[string]string{
			"container": "1100px",
		},
	}},
	Plugins: []PluginRef{},
}

// Default returns the cafe theme configuration. It performs no I/O and
// every call returns an independent copy.
func Default() *Config {
	return defaultConfig.Clone()
}
