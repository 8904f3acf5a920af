// Package config handles viewer configuration loading and management.
package config

// Config holds all viewer settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Render   RenderConfig   `yaml:"render"`
	Camera   CameraConfig   `yaml:"camera"`
	Data     DataConfig     `yaml:"data"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds window settings.
type GraphicsConfig struct {
	Scale      int  `yaml:"scale"` // window pixels per framebuffer pixel
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	FPSLimit   int  `yaml:"fps_limit"`
}

// RenderConfig holds software renderer settings.
type RenderConfig struct {
	Width         int    `yaml:"width"`
	Height        int    `yaml:"height"`
	MaxVisplanes  int    `yaml:"max_visplanes"`
	ExtraLight    int    `yaml:"extra_light"`
	FixedColormap int    `yaml:"fixed_colormap"` // -1 disables the override
	StatsInterval int    `yaml:"stats_interval"` // frames between stat logs, 0 disables
	ClearColor    uint8  `yaml:"clear_color"`    // palette index behind the level
	SkyFlat       string `yaml:"sky_flat"`
}

// CameraConfig holds the start pose and fly speeds of the viewer camera.
type CameraConfig struct {
	X         int     `yaml:"x"`
	Y         int     `yaml:"y"`
	Angle     float64 `yaml:"angle"` // degrees, 0 = east
	EyeHeight int     `yaml:"eye_height"`
	MoveSpeed int     `yaml:"move_speed"` // map units per second
	TurnSpeed float64 `yaml:"turn_speed"` // degrees per second
}

// DataConfig holds file paths.
type DataConfig struct {
	LevelPath        string `yaml:"level_path"`
	ScreenshotDir    string `yaml:"screenshot_dir"`
	ScreenshotFormat string `yaml:"screenshot_format"` // png or bmp
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Scale:      3,
			Fullscreen: false,
			VSync:      true,
			FPSLimit:   0,
		},
		Render: RenderConfig{
			Width:         320,
			Height:        200,
			MaxVisplanes:  128,
			ExtraLight:    0,
			FixedColormap: -1,
			StatsInterval: 0,
			ClearColor:    0,
			SkyFlat:       "F_SKY1",
		},
		Camera: CameraConfig{
			X:         64,
			Y:         96,
			Angle:     0,
			EyeHeight: 41,
			MoveSpeed: 256,
			TurnSpeed: 120,
		},
		Data: DataConfig{
			LevelPath:        "level.yaml",
			ScreenshotDir:    "screenshots",
			ScreenshotFormat: "png",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
