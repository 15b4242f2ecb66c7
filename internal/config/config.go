// Package config loads and validates the arena server's tunables file.
// Every gameplay constant the combat session, pose mapper, bot, and swing
// animator consume is surfaced here rather than buried in code.
package config

import (
	"fmt"
	"math"
	"time"

	"saberarena/server/internal/arena"
	"saberarena/server/internal/combat"
	"saberarena/server/internal/pose"
	"saberarena/server/internal/swing"
)

// Config is the root of the tunables file. Durations are expressed in
// milliseconds, angles in degrees; conversion to runtime types happens in
// the section accessors.
type Config struct {
	Server  ServerConfig  `json:"server" yaml:"server"`
	Combat  CombatConfig  `json:"combat" yaml:"combat"`
	Pose    PoseConfig    `json:"pose" yaml:"pose"`
	Arena   ArenaConfig   `json:"arena" yaml:"arena"`
	Swing   SwingConfig   `json:"swing" yaml:"swing"`
	Logging LoggingConfig `json:"logging" yaml:"logging"`
}

// ServerConfig covers transport and loop pacing.
type ServerConfig struct {
	Addr     string `json:"addr" yaml:"addr"`
	TickRate int    `json:"tickRate" yaml:"tickRate"`
}

// CombatConfig mirrors combat.Config in file-friendly units.
type CombatConfig struct {
	CapsuleBottom         float64 `json:"capsuleBottom" yaml:"capsuleBottom"`
	CapsuleTop            float64 `json:"capsuleTop" yaml:"capsuleTop"`
	CapsuleRadius         float64 `json:"capsuleRadius" yaml:"capsuleRadius"`
	PlayerHitRadius       float64 `json:"playerHitRadius" yaml:"playerHitRadius"`
	PlayerCapsuleBottom   float64 `json:"playerCapsuleBottom" yaml:"playerCapsuleBottom"`
	PlayerCapsuleTop      float64 `json:"playerCapsuleTop" yaml:"playerCapsuleTop"`
	MinTipSpeed           float64 `json:"minTipSpeed" yaml:"minTipSpeed"`
	MaxEngagementDistance float64 `json:"maxEngagementDistance" yaml:"maxEngagementDistance"`
	SlashDamage           float64 `json:"slashDamage" yaml:"slashDamage"`
	BlockReduction        float64 `json:"blockReduction" yaml:"blockReduction"`
	PlayerHitCooldownMs   int64   `json:"playerHitCooldownMs" yaml:"playerHitCooldownMs"`
	OpponentHitCooldownMs int64   `json:"opponentHitCooldownMs" yaml:"opponentHitCooldownMs"`
	ClashRadius           float64 `json:"clashRadius" yaml:"clashRadius"`
	ClashCooldownMs       int64   `json:"clashCooldownMs" yaml:"clashCooldownMs"`
}

// PoseConfig mirrors pose.Config in file-friendly units.
type PoseConfig struct {
	LookSensitivity   float64 `json:"lookSensitivity" yaml:"lookSensitivity"`
	YawGain           float64 `json:"yawGain" yaml:"yawGain"`
	PitchGain         float64 `json:"pitchGain" yaml:"pitchGain"`
	MaxYawDeg         float64 `json:"maxYawDeg" yaml:"maxYawDeg"`
	MaxPitchDeg       float64 `json:"maxPitchDeg" yaml:"maxPitchDeg"`
	MoveGainX         float64 `json:"moveGainX" yaml:"moveGainX"`
	MoveGainZ         float64 `json:"moveGainZ" yaml:"moveGainZ"`
	WeaponOffsetGain  float64 `json:"weaponOffsetGain" yaml:"weaponOffsetGain"`
	WeaponOffsetRange float64 `json:"weaponOffsetRange" yaml:"weaponOffsetRange"`
	LookSmoothing     float64 `json:"lookSmoothing" yaml:"lookSmoothing"`
	WeaponSmoothing   float64 `json:"weaponSmoothing" yaml:"weaponSmoothing"`
	SwingSpeed        float64 `json:"swingSpeed" yaml:"swingSpeed"`
	SwingCooldownMs   int64   `json:"swingCooldownMs" yaml:"swingCooldownMs"`
	MaxFrameGapMs     int64   `json:"maxFrameGapMs" yaml:"maxFrameGapMs"`
	ArmRaiseMargin    float64 `json:"armRaiseMargin" yaml:"armRaiseMargin"`
	FistClose         float64 `json:"fistClose" yaml:"fistClose"`
	FistOpen          float64 `json:"fistOpen" yaml:"fistOpen"`
}

// ArenaConfig mirrors arena.Config.
type ArenaConfig struct {
	MaxHealth         float64            `json:"maxHealth" yaml:"maxHealth"`
	StunDurationMs    int64              `json:"stunDurationMs" yaml:"stunDurationMs"`
	DamageMultipliers map[string]float64 `json:"damageMultipliers" yaml:"damageMultipliers"`
}

// SwingConfig mirrors swing.Config.
type SwingConfig struct {
	DurationMs   int64   `json:"durationMs" yaml:"durationMs"`
	BladeLength  float64 `json:"bladeLength" yaml:"bladeLength"`
	ArcStartDeg  float64 `json:"arcStartDeg" yaml:"arcStartDeg"`
	ArcEndDeg    float64 `json:"arcEndDeg" yaml:"arcEndDeg"`
	RestPitchDeg float64 `json:"restPitchDeg" yaml:"restPitchDeg"`
}

// LoggingConfig selects sinks and severity.
type LoggingConfig struct {
	Sinks       []string `json:"sinks" yaml:"sinks"`
	MinSeverity string   `json:"minSeverity" yaml:"minSeverity"`
	JSONPath    string   `json:"jsonPath" yaml:"jsonPath"`
}

// Default returns the authored configuration, consistent with each
// package's own DefaultConfig.
func Default() Config {
	cb := combat.DefaultConfig()
	ps := pose.DefaultConfig()
	ar := arena.DefaultConfig()
	sw := swing.DefaultConfig()

	multipliers := make(map[string]float64, len(ar.DamageMultipliers))
	for k, v := range ar.DamageMultipliers {
		multipliers[string(k)] = v
	}

	return Config{
		Server: ServerConfig{Addr: ":8080", TickRate: 60},
		Combat: CombatConfig{
			CapsuleBottom:         cb.CapsuleBottom,
			CapsuleTop:            cb.CapsuleTop,
			CapsuleRadius:         cb.CapsuleRadius,
			PlayerHitRadius:       cb.PlayerHitRadius,
			PlayerCapsuleBottom:   cb.PlayerCapsuleBottom,
			PlayerCapsuleTop:      cb.PlayerCapsuleTop,
			MinTipSpeed:           cb.MinTipSpeed,
			MaxEngagementDistance: cb.MaxEngagementDistance,
			SlashDamage:           cb.SlashDamage,
			BlockReduction:        cb.BlockReduction,
			PlayerHitCooldownMs:   cb.PlayerHitCooldown.Milliseconds(),
			OpponentHitCooldownMs: cb.OpponentHitCooldown.Milliseconds(),
			ClashRadius:           cb.ClashRadius,
			ClashCooldownMs:       cb.ClashCooldown.Milliseconds(),
		},
		Pose: PoseConfig{
			LookSensitivity:   ps.LookSensitivity,
			YawGain:           ps.YawGain,
			PitchGain:         ps.PitchGain,
			MaxYawDeg:         radToDeg(ps.MaxYaw),
			MaxPitchDeg:       radToDeg(ps.MaxPitch),
			MoveGainX:         ps.MoveGainX,
			MoveGainZ:         ps.MoveGainZ,
			WeaponOffsetGain:  ps.WeaponOffsetGain,
			WeaponOffsetRange: ps.WeaponOffsetRange,
			LookSmoothing:     ps.LookSmoothing,
			WeaponSmoothing:   ps.WeaponSmoothing,
			SwingSpeed:        ps.SwingSpeed,
			SwingCooldownMs:   ps.SwingCooldownMs,
			MaxFrameGapMs:     ps.MaxFrameGapMs,
			ArmRaiseMargin:    ps.ArmRaiseMargin,
			FistClose:         ps.FistClose,
			FistOpen:          ps.FistOpen,
		},
		Arena: ArenaConfig{
			MaxHealth:         ar.MaxHealth,
			StunDurationMs:    ar.StunDuration.Milliseconds(),
			DamageMultipliers: multipliers,
		},
		Swing: SwingConfig{
			DurationMs:   sw.Duration.Milliseconds(),
			BladeLength:  sw.BladeLength,
			ArcStartDeg:  radToDeg(sw.ArcStart),
			ArcEndDeg:    radToDeg(sw.ArcEnd),
			RestPitchDeg: radToDeg(sw.RestPitch),
		},
		Logging: LoggingConfig{
			Sinks:       []string{"console"},
			MinSeverity: "info",
		},
	}
}

// Validate rejects configurations the runtime cannot operate with.
func (c Config) Validate() error {
	if c.Server.TickRate <= 0 || c.Server.TickRate > 1000 {
		return fmt.Errorf("server.tickRate must be in [1,1000], got %d", c.Server.TickRate)
	}
	if c.Combat.CapsuleRadius <= 0 {
		return fmt.Errorf("combat.capsuleRadius must be positive, got %v", c.Combat.CapsuleRadius)
	}
	if c.Combat.CapsuleTop <= c.Combat.CapsuleBottom {
		return fmt.Errorf("combat.capsuleTop (%v) must exceed capsuleBottom (%v)",
			c.Combat.CapsuleTop, c.Combat.CapsuleBottom)
	}
	if c.Combat.BlockReduction < 0 || c.Combat.BlockReduction > 1 {
		return fmt.Errorf("combat.blockReduction must be in [0,1], got %v", c.Combat.BlockReduction)
	}
	if c.Combat.MaxEngagementDistance <= 0 {
		return fmt.Errorf("combat.maxEngagementDistance must be positive, got %v", c.Combat.MaxEngagementDistance)
	}
	if c.Combat.PlayerHitRadius <= 0 {
		return fmt.Errorf("combat.playerHitRadius must be positive, got %v", c.Combat.PlayerHitRadius)
	}
	if c.Combat.SlashDamage <= 0 {
		return fmt.Errorf("combat.slashDamage must be positive, got %v", c.Combat.SlashDamage)
	}
	if c.Combat.ClashRadius <= 0 {
		return fmt.Errorf("combat.clashRadius must be positive, got %v", c.Combat.ClashRadius)
	}
	durations := []struct {
		name string
		ms   int64
	}{
		{"combat.playerHitCooldownMs", c.Combat.PlayerHitCooldownMs},
		{"combat.opponentHitCooldownMs", c.Combat.OpponentHitCooldownMs},
		{"combat.clashCooldownMs", c.Combat.ClashCooldownMs},
		{"pose.swingCooldownMs", c.Pose.SwingCooldownMs},
		{"arena.stunDurationMs", c.Arena.StunDurationMs},
	}
	for _, d := range durations {
		if d.ms < 0 {
			return fmt.Errorf("%s must not be negative, got %d", d.name, d.ms)
		}
	}
	if c.Pose.MaxFrameGapMs <= 0 {
		return fmt.Errorf("pose.maxFrameGapMs must be positive, got %d", c.Pose.MaxFrameGapMs)
	}
	if c.Pose.SwingSpeed <= 0 {
		return fmt.Errorf("pose.swingSpeed must be positive, got %v", c.Pose.SwingSpeed)
	}
	if c.Pose.FistClose >= c.Pose.FistOpen {
		return fmt.Errorf("pose.fistClose (%v) must be below fistOpen (%v) for hysteresis to hold",
			c.Pose.FistClose, c.Pose.FistOpen)
	}
	if c.Pose.LookSmoothing <= 0 || c.Pose.LookSmoothing > 1 {
		return fmt.Errorf("pose.lookSmoothing must be in (0,1], got %v", c.Pose.LookSmoothing)
	}
	if c.Arena.MaxHealth <= 0 {
		return fmt.Errorf("arena.maxHealth must be positive, got %v", c.Arena.MaxHealth)
	}
	if c.Swing.DurationMs <= 0 {
		return fmt.Errorf("swing.durationMs must be positive, got %d", c.Swing.DurationMs)
	}
	if c.Swing.BladeLength <= 0 {
		return fmt.Errorf("swing.bladeLength must be positive, got %v", c.Swing.BladeLength)
	}
	return nil
}

// CombatRuntime converts to the combat package's config type.
func (c Config) CombatRuntime() combat.Config {
	return combat.Config{
		CapsuleBottom:         c.Combat.CapsuleBottom,
		CapsuleTop:            c.Combat.CapsuleTop,
		CapsuleRadius:         c.Combat.CapsuleRadius,
		PlayerHitRadius:       c.Combat.PlayerHitRadius,
		PlayerCapsuleBottom:   c.Combat.PlayerCapsuleBottom,
		PlayerCapsuleTop:      c.Combat.PlayerCapsuleTop,
		MinTipSpeed:           c.Combat.MinTipSpeed,
		MaxEngagementDistance: c.Combat.MaxEngagementDistance,
		SlashDamage:           c.Combat.SlashDamage,
		BlockReduction:        c.Combat.BlockReduction,
		PlayerHitCooldown:     time.Duration(c.Combat.PlayerHitCooldownMs) * time.Millisecond,
		OpponentHitCooldown:   time.Duration(c.Combat.OpponentHitCooldownMs) * time.Millisecond,
		ClashRadius:           c.Combat.ClashRadius,
		ClashCooldown:         time.Duration(c.Combat.ClashCooldownMs) * time.Millisecond,
	}
}

// PoseRuntime converts to the pose package's config type.
func (c Config) PoseRuntime() pose.Config {
	return pose.Config{
		LookSensitivity:   c.Pose.LookSensitivity,
		YawGain:           c.Pose.YawGain,
		PitchGain:         c.Pose.PitchGain,
		MaxYaw:            degToRad(c.Pose.MaxYawDeg),
		MaxPitch:          degToRad(c.Pose.MaxPitchDeg),
		MoveGainX:         c.Pose.MoveGainX,
		MoveGainZ:         c.Pose.MoveGainZ,
		WeaponOffsetGain:  c.Pose.WeaponOffsetGain,
		WeaponOffsetRange: c.Pose.WeaponOffsetRange,
		LookSmoothing:     c.Pose.LookSmoothing,
		WeaponSmoothing:   c.Pose.WeaponSmoothing,
		SwingSpeed:        c.Pose.SwingSpeed,
		SwingCooldownMs:   c.Pose.SwingCooldownMs,
		MaxFrameGapMs:     c.Pose.MaxFrameGapMs,
		ArmRaiseMargin:    c.Pose.ArmRaiseMargin,
		FistClose:         c.Pose.FistClose,
		FistOpen:          c.Pose.FistOpen,
	}
}

// ArenaRuntime converts to the arena package's config type.
func (c Config) ArenaRuntime() arena.Config {
	multipliers := make(map[arena.Difficulty]float64, len(c.Arena.DamageMultipliers))
	for k, v := range c.Arena.DamageMultipliers {
		multipliers[arena.Difficulty(k)] = v
	}
	return arena.Config{
		MaxHealth:         c.Arena.MaxHealth,
		StunDuration:      time.Duration(c.Arena.StunDurationMs) * time.Millisecond,
		DamageMultipliers: multipliers,
	}
}

// SwingRuntime converts to the swing package's config type.
func (c Config) SwingRuntime() swing.Config {
	cfg := swing.DefaultConfig()
	cfg.Duration = time.Duration(c.Swing.DurationMs) * time.Millisecond
	cfg.BladeLength = c.Swing.BladeLength
	cfg.ArcStart = degToRad(c.Swing.ArcStartDeg)
	cfg.ArcEnd = degToRad(c.Swing.ArcEndDeg)
	cfg.RestPitch = degToRad(c.Swing.RestPitchDeg)
	return cfg
}

func radToDeg(rad float64) float64 { return rad * 180 / math.Pi }
func degToRad(deg float64) float64 { return deg * math.Pi / 180 }
