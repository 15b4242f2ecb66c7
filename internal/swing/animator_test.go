package swing

import (
	"testing"
	"time"

	"saberarena/server/internal/geom"
)

func TestTriggerRejectsMidSwing(t *testing.T) {
	a := NewAnimator(DefaultConfig())
	now := time.Unix(10, 0)

	if !a.Trigger(now) {
		t.Fatal("first trigger should start a swing")
	}
	if a.Trigger(now.Add(50 * time.Millisecond)) {
		t.Fatal("trigger must not restart mid-swing")
	}
	if !a.Trigger(now.Add(DefaultConfig().Duration)) {
		t.Fatal("trigger should work again once the arc completes")
	}
}

func TestPoseActiveOnlyDuringArc(t *testing.T) {
	a := NewAnimator(DefaultConfig())
	now := time.Unix(10, 0)
	origin := geom.Vec3{X: 0, Y: 1.7, Z: 0}

	rest := a.Pose(now, origin, 0)
	if rest.Active {
		t.Fatal("idle blade must not be active")
	}

	a.Trigger(now)
	mid := a.Pose(now.Add(100*time.Millisecond), origin, 0)
	if !mid.Active {
		t.Fatal("blade should be active mid-arc")
	}

	done := a.Pose(now.Add(DefaultConfig().Duration+time.Millisecond), origin, 0)
	if done.Active {
		t.Fatal("blade must deactivate when the arc completes")
	}
}

func TestPoseSweepsTipDownward(t *testing.T) {
	a := NewAnimator(DefaultConfig())
	now := time.Unix(10, 0)
	origin := geom.Vec3{X: 0, Y: 1.7, Z: 0}

	a.Trigger(now)
	early := a.Pose(now.Add(10*time.Millisecond), origin, 0)
	late := a.Pose(now.Add(250*time.Millisecond), origin, 0)
	if late.Tip.Y >= early.Tip.Y {
		t.Fatalf("tip should sweep downward through the arc: early %.3f late %.3f", early.Tip.Y, late.Tip.Y)
	}

	if got := early.Hilt.Distance(early.Tip); got < DefaultConfig().BladeLength-1e-9 || got > DefaultConfig().BladeLength+1e-9 {
		t.Fatalf("blade length should stay constant, got %v", got)
	}
}

func TestPoseYawRotatesArcPlane(t *testing.T) {
	a := NewAnimator(DefaultConfig())
	now := time.Unix(10, 0)
	origin := geom.Vec3{}

	ahead := a.Pose(now, origin, 0)
	turned := a.Pose(now, origin, 3.14159/2)
	if ahead.Tip == turned.Tip {
		t.Fatal("yaw should rotate the blade direction")
	}
}
