package util

import (
	"encoding/json"
	"fmt"

	MQTT "github.com/eclipse/paho.mqtt.golang"
)

type HAAvdvertisementAvailability struct {
	Topic               string `json:"topic"`
	PayloadAvailable    string `json:"payload_available"`
	PayloadNotAvailable string `json:"payload_not_available"`
}

type HADeviceSpec struct {
	Name        string   `json:"name"`
	Identifiers []string `json:"ids"`
}

type HAAdvertisement struct { //nolint:govet // struct layout optimized for JSON field order
	HAAvdvertisementAvailability []HAAvdvertisementAvailability `json:"availability"`
	Device                       HADeviceSpec                   `json:"device"`
	UniqueID                     string                         `json:"uniq_id"`
	Name                         string                         `json:"name"`
	StateTopic                   string                         `json:"state_topic"`
	PayloadOn                    string                         `json:"payload_on"`
	PayloadOff                   string                         `json:"payload_off"`
	ValueTemplate                string                         `json:"value_template,omitempty"`
	DeviceClass                  string                         `json:"device_class"`
	Platform                     string                         `json:"platform"`
	Qos                          int                            `json:"qos"`
}

func (ha HAAdvertisement) ToJson() string {
	data, err := json.Marshal(ha)
	if err != nil {
		Logger.Error().Msgf("Error marshalling HAAdvertisement: %v", err)
		return ""
	}
	return string(data)
}

// ConstructHAAdvertisement describes the indicator as a Home Assistant
// occupancy binary_sensor: "on" while the light shows busy.
func ConstructHAAdvertisement() HAAdvertisement {
	return HAAdvertisement{
		Name:       "In Meeting",
		StateTopic: StatusTopic,
		PayloadOn:  "busy",
		PayloadOff: "off",
		// status topic carries busy/free/off; fold free into off
		ValueTemplate: "{{ 'busy' if value == 'busy' else 'off' }}",
		HAAvdvertisementAvailability: []HAAvdvertisementAvailability{
			{
				Topic:               OnlineTopic,
				PayloadAvailable:    "online",
				PayloadNotAvailable: "offline",
			},
		},
		Qos:         0,
		UniqueID:    "busylight-in_meeting",
		DeviceClass: "occupancy",
		Platform:    "binary_sensor",
		Device: HADeviceSpec{
			Name:        "busylight",
			Identifiers: []string{"busylight"},
		},
	}
}

func AdvertiseHA(client MQTT.Client) {
	ha := ConstructHAAdvertisement()
	if token := client.Publish("homeassistant/binary_sensor/busylight/in_meeting/config", 0, false, ha.ToJson()); token.Wait() && token.Error() != nil {
		Logger.Error().Msgf("Error Publishing: %v", fmt.Errorf("%v", token.Error()))
	}
}
