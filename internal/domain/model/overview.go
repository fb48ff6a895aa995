package model

// Overview is the saved-devices screen state: every stored device plus
// whether the device running the app is among them.
type Overview struct {
	Devices      []Device `json:"devices"`
	Current      Device   `json:"current"`
	CurrentSaved bool     `json:"current_saved"`
}

func NewOverview(devices DeviceSet, current Device, currentSaved bool) *Overview {
	return &Overview{
		Devices:      devices.Sorted(),
		Current:      current,
		CurrentSaved: currentSaved,
	}
}

func (o *Overview) Total() int {
	return len(o.Devices)
}

func (o *Overview) IsEmpty() bool {
	return len(o.Devices) == 0
}
