package session

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/crewdesk/crewdesk-go/internal/common"
	"github.com/crewdesk/crewdesk-go/internal/logging"
	"github.com/crewdesk/crewdesk-go/internal/models"
	"github.com/crewdesk/crewdesk-go/internal/storage"
	"github.com/google/uuid"
)

// DeviceStore produces and persists a stable pseudo-random identifier for
// this machine/profile. The server uses it to scope and enumerate sessions;
// the client never bases security decisions on it. The identifier is
// regenerated only by Reset ("forget this device").
type DeviceStore struct {
	mu   sync.Mutex
	id   string
	repo storage.Repository
	log  logging.Logger
}

func NewDeviceStore(repo storage.Repository, log logging.Logger) *DeviceStore {
	return &DeviceStore{repo: repo, log: log}
}

// ID returns the device identifier, generating and persisting one on first
// use.
func (d *DeviceStore) ID(ctx context.Context) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.id != "" {
		return d.id, nil
	}

	if d.repo != nil {
		data, err := d.repo.Get(ctx, common.DeviceIDSlot)
		if err != nil {
			return "", err
		}
		if len(data) > 0 {
			d.id = string(data)
			return d.id, nil
		}
	}

	return d.generateLocked(ctx)
}

// Reset discards the current identifier and generates a fresh one, so the
// server sees this machine as a new device from the next login on.
func (d *DeviceStore) Reset(ctx context.Context) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.generateLocked(ctx)
}

func (d *DeviceStore) generateLocked(ctx context.Context) (string, error) {
	hostname, _ := os.Hostname()
	seed := fmt.Sprintf("%d|%s|%s|%s|%s",
		time.Now().UnixNano(), uuid.NewString(), hostname, runtime.GOOS, runtime.GOARCH)

	sum := sha256.Sum256([]byte(seed))
	id := hex.EncodeToString(sum[:])[:32]

	if d.repo != nil {
		if err := d.repo.Set(ctx, common.DeviceIDSlot, []byte(id)); err != nil {
			return "", fmt.Errorf("failed to persist device id: %w", err)
		}
	}

	d.id = id
	return id, nil
}

// Fingerprint assembles the coarse environment description sent with a
// login. Everything here is non-secret and advisory.
func (d *DeviceStore) Fingerprint(ctx context.Context) models.DeviceFingerprint {
	id, err := d.ID(ctx)
	if err != nil {
		d.log.Warn(ctx, "failed to load device id", "error", err)
	}

	hostname, _ := os.Hostname()
	zone, _ := time.Now().Zone()

	return models.DeviceFingerprint{
		DeviceID: id,
		Hostname: hostname,
		OS:       runtime.GOOS,
		Arch:     runtime.GOARCH,
		Locale:   os.Getenv("LANG"),
		Timezone: zone,
	}
}
