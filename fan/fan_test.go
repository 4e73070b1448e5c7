package fan

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/thomasgermain/go-mypyllant/mypyllant"
)

type modeCall struct {
	ventilation mypyllant.Ventilation
	mode        mypyllant.VentilationOperationMode
}

type fakeAPI struct {
	calls []modeCall
	err   error
}

func (a *fakeAPI) GetSystems(_ context.Context) ([]mypyllant.System, error) {
	return nil, nil
}

func (a *fakeAPI) SetVentilationOperationMode(_ context.Context, ventilation mypyllant.Ventilation, mode mypyllant.VentilationOperationMode) error {
	a.calls = append(a.calls, modeCall{ventilation: ventilation, mode: mode})
	return a.err
}

type fakeCoordinator struct {
	data            []mypyllant.System
	api             *fakeAPI
	refreshRequests int
}

func (c *fakeCoordinator) Data() []mypyllant.System {
	return c.data
}

func (c *fakeCoordinator) API() mypyllant.Client {
	return c.api
}

func (c *fakeCoordinator) RequestDelayedRefresh() {
	c.refreshRequests++
}

func newFakeCoordinator(modes ...mypyllant.VentilationOperationMode) *fakeCoordinator {
	var ventilation []mypyllant.Ventilation
	for i, mode := range modes {
		ventilation = append(ventilation, mypyllant.Ventilation{
			Index:                    i,
			SystemID:                 "system-1",
			OperationModeVentilation: mode,
			TimeProgramVentilation:   json.RawMessage(`{"monday":[]}`),
		})
	}

	return &fakeCoordinator{
		data: []mypyllant.System{
			{
				ID:          "system-1",
				BrandName:   "Vaillant",
				Ventilation: ventilation,
				Devices: []mypyllant.Device{
					{Type: "boiler", NameDisplay: "Boiler"},
					{Type: "ventilation", NameDisplay: "Ventilation Unit"},
				},
			},
		},
		api: &fakeAPI{},
	}
}

func TestPercentage(t *testing.T) {
	cases := []struct {
		mode mypyllant.VentilationOperationMode
		want int
	}{
		{mypyllant.OperationModeOff, 0},
		{mypyllant.OperationModeTimeControlled, 100},
		{mypyllant.OperationModeReduced, 50},
		{mypyllant.OperationModeNormal, 100},
	}

	for _, c := range cases {
		f := NewVentilationFan(0, 0, newFakeCoordinator(c.mode))

		got, err := f.Percentage()
		if err != nil {
			t.Fatalf("Percentage() with mode %v: %v", c.mode, err)
		}
		if got != c.want {
			t.Errorf("Percentage() with mode %v = %v, want %v", c.mode, got, c.want)
		}
	}
}

func TestPercentageUnrepresentableMode(t *testing.T) {
	f := NewVentilationFan(0, 0, newFakeCoordinator("AUTO"))

	if _, err := f.Percentage(); err == nil {
		t.Error("expected error for mode without a percentage representation")
	}
}

func TestIsOn(t *testing.T) {
	cases := []struct {
		mode mypyllant.VentilationOperationMode
		want bool
	}{
		{mypyllant.OperationModeOff, false},
		{mypyllant.OperationModeTimeControlled, true},
		{mypyllant.OperationModeReduced, true},
		{mypyllant.OperationModeNormal, true},
	}

	for _, c := range cases {
		f := NewVentilationFan(0, 0, newFakeCoordinator(c.mode))

		got, err := f.IsOn()
		if err != nil {
			t.Fatalf("IsOn() with mode %v: %v", c.mode, err)
		}
		if got != c.want {
			t.Errorf("IsOn() with mode %v = %v, want %v", c.mode, got, c.want)
		}
	}
}

func TestName(t *testing.T) {
	f := NewVentilationFan(0, 0, newFakeCoordinator(mypyllant.OperationModeNormal))

	name, err := f.Name()
	if err != nil {
		t.Fatalf("Name(): %v", err)
	}
	if name != "Ventilation Unit" {
		t.Errorf("Name() = %q", name)
	}
}

func TestNameWithoutVentilationDevice(t *testing.T) {
	c := newFakeCoordinator(mypyllant.OperationModeNormal)
	c.data[0].Devices = []mypyllant.Device{{Type: "boiler", NameDisplay: "Boiler"}}

	f := NewVentilationFan(0, 0, c)

	if _, err := f.Name(); err == nil {
		t.Error("expected error when no ventilation device descriptor exists")
	}
}

func TestDeviceInfo(t *testing.T) {
	f := NewVentilationFan(0, 0, newFakeCoordinator(mypyllant.OperationModeNormal))

	info, err := f.DeviceInfo()
	if err != nil {
		t.Fatalf("DeviceInfo(): %v", err)
	}

	if info.Identifiers != [2]string{"mypyllant", "ventilation0"} {
		t.Errorf("Identifiers = %v", info.Identifiers)
	}
	if info.Manufacturer != "Vaillant" {
		t.Errorf("Manufacturer = %q", info.Manufacturer)
	}
	if info.Name != "Ventilation Unit" {
		t.Errorf("Name = %q", info.Name)
	}
}

func TestUniqueID(t *testing.T) {
	f := NewVentilationFan(0, 1, newFakeCoordinator(mypyllant.OperationModeNormal, mypyllant.OperationModeNormal))

	// The "climate" substring is part of the persisted id format and must
	// not change.
	if got := f.UniqueID(); got != "mypyllant_climate_ventilation_1" {
		t.Errorf("UniqueID() = %q", got)
	}
}

func TestExtraStateAttributes(t *testing.T) {
	f := NewVentilationFan(0, 0, newFakeCoordinator(mypyllant.OperationModeNormal))

	attributes, err := f.ExtraStateAttributes()
	if err != nil {
		t.Fatalf("ExtraStateAttributes(): %v", err)
	}

	program, ok := attributes["time_program_ventilation"].(json.RawMessage)
	if !ok {
		t.Fatalf("time_program_ventilation missing or wrong type: %v", attributes)
	}
	if string(program) != `{"monday":[]}` {
		t.Errorf("time_program_ventilation = %s", program)
	}
}

func TestSupportedFeatures(t *testing.T) {
	f := NewVentilationFan(0, 0, newFakeCoordinator(mypyllant.OperationModeNormal))

	features := f.SupportedFeatures()
	if features&FeaturePresetMode == 0 || features&FeatureSetSpeed == 0 {
		t.Errorf("SupportedFeatures() = %b", features)
	}
}

func TestTurnOnDefaultsToTimeControlled(t *testing.T) {
	c := newFakeCoordinator(mypyllant.OperationModeOff)
	f := NewVentilationFan(0, 0, c)

	if err := f.TurnOn(context.Background(), ""); err != nil {
		t.Fatalf("TurnOn(): %v", err)
	}

	if len(c.api.calls) != 1 {
		t.Fatalf("expected 1 API call, got %v", len(c.api.calls))
	}
	if c.api.calls[0].mode != mypyllant.OperationModeTimeControlled {
		t.Errorf("TurnOn issued %v", c.api.calls[0].mode)
	}
	if c.refreshRequests != 1 {
		t.Errorf("expected 1 delayed refresh request, got %v", c.refreshRequests)
	}
}

func TestTurnOff(t *testing.T) {
	c := newFakeCoordinator(mypyllant.OperationModeNormal)
	f := NewVentilationFan(0, 0, c)

	if err := f.TurnOff(context.Background()); err != nil {
		t.Fatalf("TurnOff(): %v", err)
	}

	if len(c.api.calls) != 1 || c.api.calls[0].mode != mypyllant.OperationModeOff {
		t.Errorf("TurnOff issued %v", c.api.calls)
	}
}

func TestSetPresetMode(t *testing.T) {
	c := newFakeCoordinator(mypyllant.OperationModeOff)
	f := NewVentilationFan(0, 0, c)

	if err := f.SetPresetMode(context.Background(), "REDUCED"); err != nil {
		t.Fatalf("SetPresetMode(): %v", err)
	}

	if len(c.api.calls) != 1 || c.api.calls[0].mode != mypyllant.OperationModeReduced {
		t.Errorf("SetPresetMode issued %v", c.api.calls)
	}
}

func TestSetPresetModeInvalid(t *testing.T) {
	c := newFakeCoordinator(mypyllant.OperationModeOff)
	f := NewVentilationFan(0, 0, c)

	if err := f.SetPresetMode(context.Background(), "invalid_value"); err == nil {
		t.Fatal("expected error for unknown preset mode")
	}

	if len(c.api.calls) != 0 {
		t.Errorf("expected no API calls, got %v", c.api.calls)
	}
	if c.refreshRequests != 0 {
		t.Errorf("expected no refresh requests, got %v", c.refreshRequests)
	}
}

func TestSetPercentage(t *testing.T) {
	cases := []struct {
		percentage int
		want       mypyllant.VentilationOperationMode
	}{
		{0, mypyllant.OperationModeOff},
		{50, mypyllant.OperationModeReduced},
		{100, mypyllant.OperationModeNormal},
	}

	for _, tc := range cases {
		c := newFakeCoordinator(mypyllant.OperationModeNormal)
		f := NewVentilationFan(0, 0, c)

		if err := f.SetPercentage(context.Background(), tc.percentage); err != nil {
			t.Fatalf("SetPercentage(%v): %v", tc.percentage, err)
		}

		if len(c.api.calls) != 1 || c.api.calls[0].mode != tc.want {
			t.Errorf("SetPercentage(%v) issued %v, want %v", tc.percentage, c.api.calls, tc.want)
		}
		if c.refreshRequests != 1 {
			t.Errorf("SetPercentage(%v): expected 1 refresh request, got %v", tc.percentage, c.refreshRequests)
		}
	}
}

func TestCommandsOnStaleIndices(t *testing.T) {
	c := newFakeCoordinator(mypyllant.OperationModeNormal)
	f := NewVentilationFan(0, 3, c)

	if err := f.TurnOff(context.Background()); err == nil {
		t.Error("expected error for out-of-range ventilation index")
	}
	if len(c.api.calls) != 0 {
		t.Errorf("expected no API calls, got %v", c.api.calls)
	}
}

func TestSetupWithoutData(t *testing.T) {
	c := &fakeCoordinator{api: &fakeAPI{}}

	if fans := Setup(c); len(fans) != 0 {
		t.Errorf("Setup() with no data returned %v fans", len(fans))
	}
}

func TestSetupRegistersOneFanPerUnit(t *testing.T) {
	c := newFakeCoordinator(mypyllant.OperationModeNormal, mypyllant.OperationModeOff)

	fans := Setup(c)
	if len(fans) != 2 {
		t.Fatalf("Setup() returned %v fans, want 2", len(fans))
	}

	// The second adapter must address the second unit, not the first.
	if err := fans[1].TurnOn(context.Background(), ""); err != nil {
		t.Fatalf("TurnOn(): %v", err)
	}

	if len(c.api.calls) != 1 {
		t.Fatalf("expected 1 API call, got %v", len(c.api.calls))
	}
	if c.api.calls[0].ventilation.Index != 1 {
		t.Errorf("command addressed unit %v, want 1", c.api.calls[0].ventilation.Index)
	}
	if c.api.calls[0].mode != mypyllant.OperationModeTimeControlled {
		t.Errorf("command issued %v, want TIME_CONTROLLED", c.api.calls[0].mode)
	}
}
