package script

import (
	"fmt"

	"github.com/google/uuid"
)

// Instance is a behavior attached to a host.
type Instance struct {
	behavior  Behavior
	base      *Base
	destroyed bool
}

// Attach assigns the behavior an ID and environment, then calls OnCreate.
func Attach(b Behavior, env Env) (*Instance, error) {
	eb, ok := b.(embedsBase)
	if !ok || eb.base() == nil {
		return nil, ErrNoBase
	}
	base := eb.base()
	base.id = uuid.New()
	base.env = env
	base.logger = nil

	inst := &Instance{behavior: b, base: base}
	b.OnCreate()
	base.Logger().Debug("script created")
	return inst, nil
}

// ID returns the instance identity.
func (i *Instance) ID() uuid.UUID { return i.base.id }

// Behavior returns the attached behavior.
func (i *Instance) Behavior() Behavior { return i.behavior }

// Destroyed reports whether Destroy has run.
func (i *Instance) Destroyed() bool { return i.destroyed }

// Update runs one frame: OnUpdate, then exactly one coroutine tick.
// A coroutine failure is returned as is, wrapped with the script ID.
func (i *Instance) Update(dt float64) error {
	if i.destroyed {
		return ErrDestroyed
	}
	i.behavior.OnUpdate(dt)
	if err := i.base.tick(); err != nil {
		return fmt.Errorf("script %s: %w", i.base.id, err)
	}
	return nil
}

// Destroy calls OnDestroy once, then cancels the script's coroutines so
// none of them is resumed again.
func (i *Instance) Destroy() {
	if i.destroyed {
		return
	}
	i.destroyed = true
	i.behavior.OnDestroy()
	i.base.StopAllCoroutines()
	i.base.Logger().Debug("script destroyed")
}
