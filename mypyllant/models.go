package mypyllant

import (
	"encoding/json"
	"fmt"
)

// VentilationOperationMode is the control state of a ventilation unit as
// reported by the vendor API. REDUCED and NORMAL form the discrete speed
// scale; OFF and TIME_CONTROLLED sit outside it.
type VentilationOperationMode string

const (
	OperationModeOff            VentilationOperationMode = "OFF"
	OperationModeTimeControlled VentilationOperationMode = "TIME_CONTROLLED"
	OperationModeReduced        VentilationOperationMode = "REDUCED"
	OperationModeNormal         VentilationOperationMode = "NORMAL"
)

// VentilationOperationModes lists every mode the API knows, in the order the
// vendor documents them. Used as the preset option list.
var VentilationOperationModes = []VentilationOperationMode{
	OperationModeOff,
	OperationModeTimeControlled,
	OperationModeReduced,
	OperationModeNormal,
}

func ParseVentilationOperationMode(s string) (VentilationOperationMode, error) {
	for _, m := range VentilationOperationModes {
		if string(m) == s {
			return m, nil
		}
	}

	return "", fmt.Errorf("invalid ventilation operation mode: %q", s)
}

func (m VentilationOperationMode) String() string {
	return string(m)
}

type Ventilation struct {
	// Index is the unit's own stable identifier within its system, assigned
	// by the vendor. Not to be confused with the unit's position in
	// System.Ventilation.
	Index                    int                      `json:"index"`
	SystemID                 string                   `json:"system_id"`
	OperationModeVentilation VentilationOperationMode `json:"operation_mode_ventilation"`
	TimeProgramVentilation   json.RawMessage          `json:"time_program_ventilation"`
}

type Device struct {
	Type        string `json:"type"`
	NameDisplay string `json:"name_display"`
}

// System is one polled snapshot of a physical heating system. The whole
// snapshot is replaced on every poll; nothing in it is mutated in place.
type System struct {
	ID          string        `json:"system_id"`
	BrandName   string        `json:"brand_name"`
	Ventilation []Ventilation `json:"ventilation"`
	Devices     []Device      `json:"devices"`
}
