package scene

// Prefs are the user-adjustable rendering preferences the engine
// consumes. They are hot-swappable: applying new prefs never requires
// reloading the model. The engine never mutates them; they arrive from
// the surrounding application as a whole value.
type Prefs struct {
	ModelColor      string  `json:"modelColor" toml:"model_color"`
	BackgroundColor string  `json:"backgroundColor" toml:"background_color"`
	Metalness       float64 `json:"metalness" toml:"metalness"`
	Roughness       float64 `json:"roughness" toml:"roughness"`
	Exposure        float64 `json:"exposure" toml:"exposure"`
	Wireframe       bool    `json:"wireframe" toml:"wireframe"`
	ShowGrid        bool    `json:"showGrid" toml:"show_grid"`
}

// DefaultPrefs returns the compiled-in preference defaults.
func DefaultPrefs() Prefs {
	return Prefs{
		ModelColor:      "#8899AA",
		BackgroundColor: "#1E2228",
		Metalness:       0.2,
		Roughness:       0.6,
		Exposure:        1.0,
		ShowGrid:        true,
	}
}
