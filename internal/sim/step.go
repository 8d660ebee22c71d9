package sim

// Step advances prev by exactly one tick given both players' inputs. It is
// pure: it operates on a local copy of prev and returns a new value,
// touching no clock, no allocator beyond the copy, and no global state.
//
// Phases run in the documented order — frame increment, cooldown/hitstun
// ticking, attack start, movement, gravity, attack-window countdown, then
// simultaneous hit resolution — because later phases depend on the
// post-earlier-phase state of both players.
func Step(prev State, p1Input, p2Input Input) State {
	s := prev

	// A. Frame.
	s.Frame++

	// B. Counter tick.
	tickCounters(&s.P1)
	tickCounters(&s.P2)

	// C. Attack start.
	startAttack(&s.P1, p1Input)
	startAttack(&s.P2, p2Input)

	// D. Movement/jump.
	moveAndJump(&s.P1, p1Input)
	moveAndJump(&s.P2, p2Input)

	// E. Gravity + integrate.
	integrateGravity(&s.P1)
	integrateGravity(&s.P2)

	// F. Attack-window countdown.
	tickAttackWindow(&s.P1)
	tickAttackWindow(&s.P2)

	// G. Simultaneous hit resolution: both hit tests are evaluated against
	// the same post-F state before either is applied, so neither attacker
	// gets an ordering advantage over the other.
	p1Hits := canHit(&s.P1) && overlaps(attackerHitbox(&s.P1), defenderHurtbox(&s.P2))
	p2Hits := canHit(&s.P2) && overlaps(attackerHitbox(&s.P2), defenderHurtbox(&s.P1))
	if p1Hits {
		applyHit(&s.P1, &s.P2)
	}
	if p2Hits {
		applyHit(&s.P2, &s.P1)
	}

	return s
}

func tickCounters(p *Player) {
	if p.AttackCooldownFrames > 0 {
		p.AttackCooldownFrames--
	}
	if p.HitstunFrames > 0 {
		p.HitstunFrames--
		if p.HitstunFrames == 0 {
			p.Action = ActionIdle
		}
	}
}

func startAttack(p *Player, in Input) {
	if p.Action == ActionHitstun {
		return
	}
	if !in.has(ButtonAttack) || p.AttackCooldownFrames != 0 {
		return
	}
	p.Action = ActionAttack
	p.AttackActiveFrames = AttackActiveFrames
	p.AttackCooldownFrames = AttackCooldownFrames
	p.AttackHasHit = 0
}

func moveAndJump(p *Player, in Input) {
	if p.Action == ActionHitstun {
		clampX(p)
		return
	}

	right := in.has(ButtonRight)
	left := in.has(ButtonLeft)

	switch {
	case right:
		p.X += MoveSpeedPerTick
		p.Facing = 1
		if p.Action != ActionJump && p.Action != ActionAttack {
			p.Action = ActionRun
		}
	case left:
		p.X -= MoveSpeedPerTick
		p.Facing = -1
		if p.Action != ActionJump && p.Action != ActionAttack {
			p.Action = ActionRun
		}
	default:
		if p.Action == ActionRun {
			p.Action = ActionIdle
		}
	}

	if in.has(ButtonJump) && p.Y == GroundY && p.Action != ActionJump {
		p.Vy = JumpVelocityPerTick
		p.Action = ActionJump
	}

	clampX(p)
}

func clampX(p *Player) {
	if p.X < MinX {
		p.X = MinX
	}
	if p.X > MaxX-PlayerWidth {
		p.X = MaxX - PlayerWidth
	}
}

func integrateGravity(p *Player) {
	p.Vy += GravityPerTick
	p.Y += p.Vy
	if p.Y <= GroundY {
		p.Y = GroundY
		p.Vy = 0
		if p.Action == ActionJump {
			p.Action = ActionIdle
		}
	}
}

func tickAttackWindow(p *Player) {
	if p.AttackActiveFrames <= 0 {
		return
	}
	p.AttackActiveFrames--
	if p.AttackActiveFrames == 0 && p.Action == ActionAttack {
		p.Action = ActionIdle
	}
}

// aabb is an axis-aligned bounding box in fixed units, left/right/bottom/top.
type aabb struct {
	left, right, bottom, top int32
}

func canHit(p *Player) bool {
	return p.AttackActiveFrames > 0 && p.AttackHasHit == 0
}

func attackerHitbox(p *Player) aabb {
	var left, right int32
	if p.Facing >= 0 {
		left = p.X + PlayerWidth
		right = left + AttackHitboxWidth
	} else {
		right = p.X
		left = right - AttackHitboxWidth
	}
	return aabb{left: left, right: right, bottom: p.Y, top: p.Y + AttackHitboxHeight}
}

func defenderHurtbox(p *Player) aabb {
	return aabb{left: p.X, right: p.X + PlayerWidth, bottom: p.Y, top: p.Y + PlayerHeight}
}

// overlaps reports whether two AABBs intersect, using strict less-than on
// both axes: boxes that merely touch at an edge do not overlap.
func overlaps(a, b aabb) bool {
	return a.left < b.right && b.left < a.right && a.bottom < b.top && b.bottom < a.top
}

func applyHit(attacker, defender *Player) {
	attacker.AttackHasHit = 1
	defender.HP -= AttackDamage
	if defender.HP < 0 {
		defender.HP = 0
	}
	defender.HitstunFrames = HitstunFrames
	defender.Action = ActionHitstun
}
