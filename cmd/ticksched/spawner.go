package main

import (
	"iter"

	"nebulacoro/internal/job"
	"nebulacoro/internal/sched"
	"nebulacoro/internal/script"
)

// Spawner spawns enemies on a timer until MaxEnemies are alive, then waits
// for the count to drop again.
type Spawner struct {
	script.Base

	MaxEnemies int
	Interval   float64

	alive   int
	spawned int
	elapsed float64
}

func (s *Spawner) OnCreate() {
	s.Logger().Info("spawner initialized", "max", s.MaxEnemies)

	if _, err := s.StartRoutine(s.spawnLoop()); err != nil {
		s.Logger().Error("start spawn loop", "error", err)
	}

	// Enemies die off now and then.
	if _, err := s.StartCoroutine(&job.Repeat{
		Clock: s.Clock(),
		Every: 1.5,
		Fn: func(int) error {
			if s.alive > 0 {
				s.alive--
				s.Logger().Info("enemy died", "alive", s.alive)
			}
			return nil
		},
	}); err != nil {
		s.Logger().Error("start reaper", "error", err)
	}
}

func (s *Spawner) OnUpdate(dt float64) {
	s.elapsed += dt
}

func (s *Spawner) OnDestroy() {
	s.Logger().Info("spawner destroyed", "spawned", s.spawned, "elapsed", s.elapsed)
}

func (s *Spawner) spawnLoop() iter.Seq[sched.Condition] {
	return func(yield func(sched.Condition) bool) {
		room, err := sched.WaitUntilExpr("alive < max", func() any {
			return map[string]any{"alive": s.alive, "max": s.MaxEnemies}
		})
		if err != nil {
			s.Logger().Error("compile spawn gate", "error", err)
			return
		}
		for {
			if !yield(room) {
				return
			}
			s.alive++
			s.spawned++
			s.Logger().Info("spawned enemy", "id", s.spawned, "alive", s.alive)
			if !yield(s.WaitForSeconds(s.Interval)) {
				return
			}
		}
	}
}
