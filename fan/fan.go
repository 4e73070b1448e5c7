package fan

import (
	"context"
	"fmt"

	"github.com/thomasgermain/go-mypyllant/config"
	"github.com/thomasgermain/go-mypyllant/mypyllant"
)

// Coordinator is the slice of the polling coordinator this adapter reads from
// and reports back to.
type Coordinator interface {
	Data() []mypyllant.System
	API() mypyllant.Client
	RequestDelayedRefresh()
}

// Feature flags advertised to the platform.
type Feature uint8

const (
	FeaturePresetMode Feature = 1 << iota
	FeatureSetSpeed
)

type DeviceInfo struct {
	Identifiers  [2]string
	Name         string
	Manufacturer string
}

// VentilationFan mirrors one ventilation unit of one heating system onto the
// generic fan abstraction. It owns no state of its own: every read re-derives
// from the coordinator's current snapshot through the two stored indices.
//
// Invariant: systemIndex and ventilationIndex must stay valid across polls.
// The snapshot is replaced wholesale on refresh, so lookups check bounds and
// fail explicitly instead of panicking on a shrunk or reordered snapshot.
type VentilationFan struct {
	systemIndex      int
	ventilationIndex int
	coordinator      Coordinator
}

func NewVentilationFan(systemIndex int, ventilationIndex int, coordinator Coordinator) *VentilationFan {
	return &VentilationFan{
		systemIndex:      systemIndex,
		ventilationIndex: ventilationIndex,
		coordinator:      coordinator,
	}
}

func (f *VentilationFan) EntityID() string {
	return fmt.Sprintf("ventilation_%v", f.ventilationIndex)
}

// UniqueID is the persisted identity of this entity. The "climate" substring
// predates the move to the fan platform; existing entity registries key on
// it, so it stays.
func (f *VentilationFan) UniqueID() string {
	return fmt.Sprintf("%v_climate_ventilation_%v", config.Domain, f.ventilationIndex)
}

func (f *VentilationFan) system() (mypyllant.System, error) {
	data := f.coordinator.Data()
	if f.systemIndex >= len(data) {
		return mypyllant.System{}, fmt.Errorf("no system at index %v", f.systemIndex)
	}

	return data[f.systemIndex], nil
}

func (f *VentilationFan) ventilation() (mypyllant.Ventilation, error) {
	system, err := f.system()
	if err != nil {
		return mypyllant.Ventilation{}, err
	}

	if f.ventilationIndex >= len(system.Ventilation) {
		return mypyllant.Ventilation{}, fmt.Errorf("no ventilation unit at index %v", f.ventilationIndex)
	}

	return system.Ventilation[f.ventilationIndex], nil
}

func (f *VentilationFan) DeviceInfo() (DeviceInfo, error) {
	system, err := f.system()
	if err != nil {
		return DeviceInfo{}, err
	}

	ventilation, err := f.ventilation()
	if err != nil {
		return DeviceInfo{}, err
	}

	name, err := f.Name()
	if err != nil {
		return DeviceInfo{}, err
	}

	return DeviceInfo{
		Identifiers:  [2]string{config.Domain, fmt.Sprintf("ventilation%v", ventilation.Index)},
		Name:         name,
		Manufacturer: system.BrandName,
	}, nil
}

// Name is the display name of the system's ventilation device descriptor.
// Precondition: every system exposing a ventilation unit also exposes a
// device descriptor of type "ventilation".
func (f *VentilationFan) Name() (string, error) {
	system, err := f.system()
	if err != nil {
		return "", err
	}

	for _, d := range system.Devices {
		if d.Type == "ventilation" {
			return d.NameDisplay, nil
		}
	}

	return "", fmt.Errorf("system %v has no ventilation device descriptor", f.systemIndex)
}

func (f *VentilationFan) ExtraStateAttributes() (map[string]interface{}, error) {
	ventilation, err := f.ventilation()
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"time_program_ventilation": ventilation.TimeProgramVentilation,
	}, nil
}

func (f *VentilationFan) SupportedFeatures() Feature {
	return FeaturePresetMode | FeatureSetSpeed
}

func (f *VentilationFan) IsOn() (bool, error) {
	ventilation, err := f.ventilation()
	if err != nil {
		return false, err
	}

	return ventilation.OperationModeVentilation != mypyllant.OperationModeOff, nil
}

// PresetMode returns the current operation mode as a preset label, or the
// empty string when the unit has not reported a mode yet.
func (f *VentilationFan) PresetMode() (string, error) {
	ventilation, err := f.ventilation()
	if err != nil {
		return "", err
	}

	return ventilation.OperationModeVentilation.String(), nil
}

// PresetModes lists every selectable preset.
func (f *VentilationFan) PresetModes() []string {
	modes := make([]string, 0, len(mypyllant.VentilationOperationModes))
	for _, m := range mypyllant.VentilationOperationModes {
		modes = append(modes, m.String())
	}

	return modes
}

func (f *VentilationFan) SpeedCount() int {
	return len(fanSpeedModes)
}

// Percentage reports the current speed: TIME_CONTROLLED counts as full speed,
// OFF as zero, and the scale modes map by their position. Any other mode has
// no percentage representation and errors out.
func (f *VentilationFan) Percentage() (int, error) {
	ventilation, err := f.ventilation()
	if err != nil {
		return 0, err
	}

	switch ventilation.OperationModeVentilation {
	case mypyllant.OperationModeTimeControlled:
		return 100, nil
	case mypyllant.OperationModeOff:
		return 0, nil
	default:
		return orderedModeToPercentage(fanSpeedModes, ventilation.OperationModeVentilation)
	}
}

func (f *VentilationFan) setOperationMode(ctx context.Context, mode mypyllant.VentilationOperationMode) error {
	ventilation, err := f.ventilation()
	if err != nil {
		return err
	}

	if err := f.coordinator.API().SetVentilationOperationMode(ctx, ventilation, mode); err != nil {
		return err
	}

	f.coordinator.RequestDelayedRefresh()

	return nil
}

// TurnOn switches the unit to the given preset, defaulting to TIME_CONTROLLED
// when none is given.
func (f *VentilationFan) TurnOn(ctx context.Context, presetMode string) error {
	if presetMode == "" {
		presetMode = mypyllant.OperationModeTimeControlled.String()
	}

	mode, err := mypyllant.ParseVentilationOperationMode(presetMode)
	if err != nil {
		return err
	}

	return f.setOperationMode(ctx, mode)
}

func (f *VentilationFan) TurnOff(ctx context.Context) error {
	return f.setOperationMode(ctx, mypyllant.OperationModeOff)
}

func (f *VentilationFan) SetPresetMode(ctx context.Context, presetMode string) error {
	mode, err := mypyllant.ParseVentilationOperationMode(presetMode)
	if err != nil {
		return err
	}

	return f.setOperationMode(ctx, mode)
}

// SetPercentage maps 0 to OFF and anything else onto the nearest step of the
// speed scale. Out-of-range values are not rejected here; whoever accepts the
// command owns that.
func (f *VentilationFan) SetPercentage(ctx context.Context, percentage int) error {
	if percentage == 0 {
		return f.setOperationMode(ctx, mypyllant.OperationModeOff)
	}

	return f.setOperationMode(ctx, percentageToOrderedMode(fanSpeedModes, percentage))
}
