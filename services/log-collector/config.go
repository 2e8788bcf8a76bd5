package main

import "os"

// Config collectoru. Broker je povinný, bez MQTT nemá collector co dělat.
type Config struct {
	MQTTBroker   string
	MQTTClientID string

	// LogTopic: wildcard, pod kterým služby stanice publikují logy ("logs/<služba>").
	LogTopic string

	// LogDir: adresář pro <služba>.log, v Dockeru typicky namapovaný volume.
	LogDir string
}

func LoadConfig() Config {
	return Config{
		MQTTBroker:   getEnv("MQTT_BROKER", "tcp://mosquitto:1883"),
		MQTTClientID: getEnv("MQTT_CLIENT_ID", "log-collector"),
		LogTopic:     getEnv("LOG_TOPIC", "logs/#"),
		LogDir:       getEnv("LOG_DIR", "/var/log/forest-station"),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
