package transmission

import "github.com/matbott/spritmonitor-hass/internal/domain"

// Transmitter pushes a snapshot's metric values to a host display layer.
type Transmitter interface {
	Transmit(snap *domain.Snapshot) error
}
