// Package components defines the ECS components attached to arena entities.
package components

import "github.com/pthm-cable/arena/entity"

// Agent links an ECS entity to its kinematic body.
type Agent struct {
	ID   uint32 // stable spawn-order identifier
	Body *entity.Entity
}

// Sensing controls whether an entity runs the detection pass as an observer.
type Sensing struct {
	Enabled bool
}
