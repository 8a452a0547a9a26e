package config

var DefaultConfig Config

func init() {
	DefaultConfig = Config{
		Mode:        "hvc",
		FirstPlayer: 1,
		Depth1:      1,
		Depth2:      1,
		MoveDelayMS: 1000,
		LogLevel:    "info",
		WindowScale: 1,
		Sound:       true,
	}
}
