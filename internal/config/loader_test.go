package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/vigil/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			// Clear any existing environment variables
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.MetricsAddr, convey.ShouldEqual, ":9090")
				convey.So(cfg.VideoSource, convey.ShouldEqual, "0")
				convey.So(cfg.Sensitivity, convey.ShouldEqual, "medium")
				convey.So(cfg.Confidence, convey.ShouldEqual, 0.3)
				convey.So(cfg.QueueCapacity, convey.ShouldEqual, 30)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("VIGIL_METRICS_ADDR", ":8080")
			_ = os.Setenv("VIGIL_VIDEO_SOURCE", "/tmp/clip.mp4")
			_ = os.Setenv("VIGIL_SENSITIVITY", "high")
			_ = os.Setenv("VIGIL_CONFIDENCE", "0.5")
			_ = os.Setenv("VIGIL_QUEUE_CAPACITY", "60")
			_ = os.Setenv("VIGIL_COOLDOWN_SECONDS", "1.5")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.MetricsAddr, convey.ShouldEqual, ":8080")
				convey.So(cfg.VideoSource, convey.ShouldEqual, "/tmp/clip.mp4")
				convey.So(cfg.Sensitivity, convey.ShouldEqual, "high")
				convey.So(cfg.Confidence, convey.ShouldEqual, 0.5)
				convey.So(cfg.QueueCapacity, convey.ShouldEqual, 60)
				convey.So(cfg.CooldownSeconds, convey.ShouldEqual, 1.5)
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
metrics_addr: ":9091"
video_source: "rtsp://camera.local/stream"
pose_endpoint: "http://pose.local:8500"
sensitivity: low
confidence: 0.4
smoothing_window: 7
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("VIGIL_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.MetricsAddr, convey.ShouldEqual, ":9091")
				convey.So(cfg.VideoSource, convey.ShouldEqual, "rtsp://camera.local/stream")
				convey.So(cfg.PoseEndpoint, convey.ShouldEqual, "http://pose.local:8500")
				convey.So(cfg.Sensitivity, convey.ShouldEqual, "low")
				convey.So(cfg.Confidence, convey.ShouldEqual, 0.4)
				convey.So(cfg.SmoothingWindow, convey.ShouldEqual, 7)
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
metrics_addr: ":9091"
video_source: "rtsp://camera.local/stream"
sensitivity: low
queue_capacity: 45
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("VIGIL_CONFIG", tmpFile)
			_ = os.Setenv("VIGIL_METRICS_ADDR", ":8080") // This should override the file
			_ = os.Setenv("VIGIL_SENSITIVITY", "high")   // This should override the file
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.MetricsAddr, convey.ShouldEqual, ":8080")                       // Overridden by env
				convey.So(cfg.Sensitivity, convey.ShouldEqual, "high")                        // Overridden by env
				convey.So(cfg.VideoSource, convey.ShouldEqual, "rtsp://camera.local/stream") // From file
				convey.So(cfg.QueueCapacity, convey.ShouldEqual, 45)                          // From file
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			invalidYaml := `invalid: yaml: content: [`
			tmpFile := createTempConfigFile(invalidYaml)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("VIGIL_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("VIGIL_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty video source", func() {
			_ = os.Setenv("VIGIL_VIDEO_SOURCE", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "video_source")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with an out-of-range confidence", func() {
			_ = os.Setenv("VIGIL_CONFIDENCE", "1.5")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with a zero smoothing window", func() {
			_ = os.Setenv("VIGIL_SMOOTHING_WINDOW", "0")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with partial YAML file", func() {
			yamlContent := `
sensitivity: high
smoothing_window: 9
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("VIGIL_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should merge with defaults for missing fields", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Sensitivity, convey.ShouldEqual, "high")    // From file
				convey.So(cfg.SmoothingWindow, convey.ShouldEqual, 9)     // From file
				convey.So(cfg.MetricsAddr, convey.ShouldEqual, ":9090")   // From defaults
				convey.So(cfg.VideoSource, convey.ShouldEqual, "0")       // From defaults
				convey.So(cfg.Confidence, convey.ShouldEqual, 0.3)        // From defaults
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("VIGIL_QUEUE_CAPACITY", "invalid")
			_ = os.Setenv("VIGIL_SMOOTHING_WINDOW", "not_a_number")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

func TestConfigLoaderEdgeCases(t *testing.T) {
	convey.Convey("Given config loader edge cases", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with a device index video source", func() {
			_ = os.Setenv("VIGIL_VIDEO_SOURCE", "2")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should keep the index as a string", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.VideoSource, convey.ShouldEqual, "2")
			})
		})

		convey.Convey("When loading config with an unknown sensitivity", func() {
			_ = os.Setenv("VIGIL_SENSITIVITY", "extreme")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load; the detector maps it to medium", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Sensitivity, convey.ShouldEqual, "extreme")
			})
		})

		convey.Convey("When loading config with YAML file containing comments", func() {
			yamlContent := `
# This is a comment
metrics_addr: ":9091"  # Inline comment
sensitivity: low
# Another comment
queue_capacity: 45
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("VIGIL_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should parse YAML with comments", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.MetricsAddr, convey.ShouldEqual, ":9091")
				convey.So(cfg.Sensitivity, convey.ShouldEqual, "low")
				convey.So(cfg.QueueCapacity, convey.ShouldEqual, 45)
			})
		})

		convey.Convey("When loading config with YAML file containing an empty source", func() {
			yamlContent := `
video_source: ""
queue_capacity: 45
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("VIGIL_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "video_source")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"VIGIL_CONFIG",
		"VIGIL_METRICS_ADDR",
		"VIGIL_VIDEO_SOURCE",
		"VIGIL_POSE_ENDPOINT",
		"VIGIL_SENSITIVITY",
		"VIGIL_CONFIDENCE",
		"VIGIL_COOLDOWN_SECONDS",
		"VIGIL_SMOOTHING_WINDOW",
		"VIGIL_QUEUE_CAPACITY",
		"VIGIL_READ_TIMEOUT_MS",
		"VIGIL_ENQUEUE_TIMEOUT_MS",
		"VIGIL_MAX_READ_MISSES",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "vigil-config-*.yaml")
	if err != nil {
		panic(err)
	}

	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}

	if err := tmpFile.Close(); err != nil {
		panic(err)
	}

	return tmpFile.Name()
}
