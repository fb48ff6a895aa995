package model

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// DeviceRecord is the mutable persisted form of a device. Both fields are
// nullable in storage; ID is assigned when the record is created.
type DeviceRecord struct {
	ID         string
	Identifier *string
	Model      *string
}

func NewRecordID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// SetIdentifier and SetModel copy the value so the record never aliases caller memory.
func (r *DeviceRecord) SetIdentifier(identifier string) {
	r.Identifier = &identifier
}

func (r *DeviceRecord) SetModel(model string) {
	r.Model = &model
}

func (r *DeviceRecord) IdentifierValue() string {
	if r == nil || r.Identifier == nil {
		return ""
	}

	return *r.Identifier
}

func (r *DeviceRecord) ModelValue() string {
	if r == nil || r.Model == nil {
		return ""
	}

	return *r.Model
}

// Clone returns a deep copy detached from any session.
func (r *DeviceRecord) Clone() *DeviceRecord {
	if r == nil {
		return nil
	}

	clone := &DeviceRecord{ID: r.ID}

	if r.Identifier != nil {
		clone.SetIdentifier(*r.Identifier)
	}

	if r.Model != nil {
		clone.SetModel(*r.Model)
	}

	return clone
}

// Device is an immutable snapshot of a stored device. Two devices are equal
// only when both fields match, so Device is safe to use as a map key.
type Device struct {
	Identifier string `json:"imei"`
	Model      string `json:"model"`
}

func NewDevice(identifier, model string) Device {
	return Device{
		Identifier: identifier,
		Model:      model,
	}
}

func DeviceFromRecord(record *DeviceRecord) Device {
	return Device{
		Identifier: record.IdentifierValue(),
		Model:      record.ModelValue(),
	}
}

func (d Device) String() string {
	return fmt.Sprintf("%s - %s", d.Model, d.Identifier)
}

// DeviceSet is an unordered collection of devices. Identical devices collapse
// into one entry.
type DeviceSet map[Device]struct{}

func NewDeviceSet(devices ...Device) DeviceSet {
	set := make(DeviceSet, len(devices))
	for _, device := range devices {
		set.Add(device)
	}

	return set
}

func (s DeviceSet) Add(device Device) {
	s[device] = struct{}{}
}

func (s DeviceSet) Contains(device Device) bool {
	_, ok := s[device]

	return ok
}

func (s DeviceSet) Len() int {
	return len(s)
}

func (s DeviceSet) IsEmpty() bool {
	return len(s) == 0
}

// Sorted returns the devices ordered by model, then identifier.
func (s DeviceSet) Sorted() []Device {
	devices := make([]Device, 0, len(s))
	for device := range s {
		devices = append(devices, device)
	}

	sort.Slice(devices, func(i, j int) bool {
		if devices[i].Model != devices[j].Model {
			return devices[i].Model < devices[j].Model
		}

		return devices[i].Identifier < devices[j].Identifier
	})

	return devices
}
