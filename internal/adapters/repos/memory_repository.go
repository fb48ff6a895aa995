package repos

import (
	"context"
	"fmt"
	"sync"

	"github.com/architeacher/mobile-devices/internal/domain/model"
)

// MemoryRepository is a process-local DeviceStorage with the same match,
// insert and deferred-removal semantics as DevicesRepository.
type MemoryRepository struct {
	mu      sync.Mutex
	policy  model.MatchPolicy
	devices []memoryEntry
	nextID  uint64
	removed map[uint64]struct{}
}

type memoryEntry struct {
	id     uint64
	device model.Device
}

func NewMemoryRepository(policy model.MatchPolicy) *MemoryRepository {
	return &MemoryRepository{
		policy:  policy,
		removed: make(map[uint64]struct{}),
	}
}

func (r *MemoryRepository) GetAll(_ context.Context) (model.DeviceSet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	devices := model.NewDeviceSet()
	for _, entry := range r.visible() {
		devices.Add(entry.device)
	}

	return devices, nil
}

func (r *MemoryRepository) FindByIdentifier(_ context.Context, identifier string) (model.Device, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.firstMatch(identifier)

	return entry.device, ok, nil
}

// Save commits pending removals along with the new device, like a session save.
func (r *MemoryRepository) Save(_ context.Context, device model.Device) (model.Device, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	r.devices = append(r.devices, memoryEntry{id: r.nextID, device: device})
	r.commit()

	return device, nil
}

func (r *MemoryRepository) Delete(_ context.Context, device model.Device) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.firstMatch(device.Identifier)
	if !ok {
		return fmt.Errorf("%w: %q", model.ErrDeviceNotFound, device.Identifier)
	}

	r.removed[entry.id] = struct{}{}

	return nil
}

func (r *MemoryRepository) Exists(ctx context.Context, device model.Device) (bool, error) {
	_, found, err := r.FindByIdentifier(ctx, device.Identifier)

	return found, err
}

func (r *MemoryRepository) Commit(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.commit()

	return nil
}

func (r *MemoryRepository) Ping(_ context.Context) error {
	return nil
}

func (r *MemoryRepository) visible() []memoryEntry {
	entries := make([]memoryEntry, 0, len(r.devices))
	for _, entry := range r.devices {
		if _, gone := r.removed[entry.id]; gone {
			continue
		}

		entries = append(entries, entry)
	}

	return entries
}

func (r *MemoryRepository) firstMatch(identifier string) (memoryEntry, bool) {
	for _, entry := range r.visible() {
		if r.policy.Matches(entry.device.Identifier, identifier) {
			return entry, true
		}
	}

	return memoryEntry{}, false
}

func (r *MemoryRepository) commit() {
	r.devices = r.visible()
	r.removed = make(map[uint64]struct{})
}
