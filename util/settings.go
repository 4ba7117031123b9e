package util

import (
	"crypto/rand"
	"fmt"
	"reflect"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

const ENV_PREFIX = ""

var Config = viper.New()

var config_listeners []func()

func RegisterNewConfigListener(new_listener func()) {
	for _, listener := range config_listeners {
		if reflect.ValueOf(new_listener).Pointer() == reflect.ValueOf(listener).Pointer() {
			Logger.Warn().Msg("config listener already registered")
			return
		}
	}
	config_listeners = append(config_listeners, new_listener)
}

func OnNewConfig() {
	for _, listener := range config_listeners {
		listener()
	}
}

func GetRandString(n int) string {
	const letterBytes = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	b := make([]byte, n)
	for i := range b {
		randBytes := make([]byte, 1)
		if _, err := rand.Read(randBytes); err != nil {
			b[i] = letterBytes[i%len(letterBytes)]
		} else {
			b[i] = letterBytes[int(randBytes[0])%len(letterBytes)]
		}
	}
	return string(b)
}

func SetupConfig() {
	Config.SetEnvPrefix(ENV_PREFIX)
	// set defaults
	Config.SetDefault("log_level", "info")
	Config.SetDefault("calendars", []string{})
	Config.SetDefault("poll_interval", 60)
	Config.SetDefault("tick_interval", 60)
	Config.SetDefault("camera_poll_interval", 1)
	Config.SetDefault("camera_modules_path", "/proc/modules")
	Config.SetDefault("camera_module", "uvcvideo")
	Config.SetDefault("gcal_command", "gcalcli")
	Config.SetDefault("gcal_args", []string{"--nocolor", "agenda", "--tsv"})
	Config.SetDefault("gcal_timeout", 30)
	Config.SetDefault("light_command", "busylight-set")
	Config.SetDefault("details_port", 8087)
	// MQTT mirror is off unless a broker is configured
	Config.SetDefault("broker_uri", "")
	Config.SetDefault("cleansess", false)
	Config.SetDefault("id_base", "busylight")
	Config.SetDefault("username", "")
	Config.SetDefault("password", "")

	// config file
	Config.SetConfigName("busylight")
	Config.AddConfigPath("./")
	Config.AddConfigPath("./config")
	Config.AddConfigPath("$HOME/.config/busylight")
	Config.AddConfigPath("/etc")
	Config.AddConfigPath("/etc/busylight")

	err := Config.ReadInConfig()
	if err != nil {
		Logger.Warn().Msgf("unable to read config file: %v", fmt.Errorf("%v", err))
	}

	// environment variables
	Config.AutomaticEnv()

	// watch for changes
	Config.WatchConfig()
	Config.OnConfigChange(func(e fsnotify.Event) {
		Logger.Info().Msgf("Config file changed: %v", e.Name)
		Logger.Debug().Msgf("Config Additional Info: %v", e.String())
		OnNewConfig()
	})
}
