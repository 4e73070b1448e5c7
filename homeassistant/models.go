package homeassistant

// DeviceConfiguration groups an entity under a device record in Home
// Assistant.
type DeviceConfiguration struct {
	Identifiers  []string `json:"identifiers"`
	Name         string   `json:"name"`
	Manufacturer string   `json:"manufacturer,omitempty"`
}

type FanConfiguration struct {
	UniqueId               string               `json:"unique_id"`
	Name                   string               `json:"name"`
	StateTopic             string               `json:"state_topic"`
	CommandTopic           string               `json:"command_topic"`
	PresetModeStateTopic   string               `json:"preset_mode_state_topic"`
	PresetModeCommandTopic string               `json:"preset_mode_command_topic"`
	PresetModes            []string             `json:"preset_modes"`
	PercentageStateTopic   string               `json:"percentage_state_topic"`
	PercentageCommandTopic string               `json:"percentage_command_topic"`
	JsonAttributesTopic    string               `json:"json_attributes_topic,omitempty"`
	Device                 *DeviceConfiguration `json:"device,omitempty"`
}
