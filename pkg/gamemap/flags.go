package gamemap

// Speed is the game speed setting.
type Speed int

const (
	SpeedSlow   Speed = 1
	SpeedNormal Speed = 2
	SpeedFast   Speed = 3
)

// Visibility is the fog of war setting.
type Visibility int

const (
	VisibilityHideTerrain   Visibility = 1
	VisibilityExplored      Visibility = 2
	VisibilityAlwaysVisible Visibility = 3
	VisibilityDefault       Visibility = 4
)

// Observers is the observer and referee setting.
type Observers int

const (
	ObserversNone     Observers = 1
	ObserversOnDefeat Observers = 2
	ObserversAllowed  Observers = 3
	ObserversReferees Observers = 4
)

// TeamFlags are the combinable team, unit and race options.
type TeamFlags uint32

const (
	FlagTeamsTogether TeamFlags = 1 << iota
	FlagFixedTeams
	FlagUnitShare
	FlagRandomHero
	FlagRandomRaces
)

// Options are map options read from the map's info file.
type Options uint32

const (
	OptHideMinimap             Options = 1 << 0
	OptModifyAllyPriorities    Options = 1 << 1
	OptMelee                   Options = 1 << 2
	OptRevealTerrain           Options = 1 << 4
	OptFixedPlayerSettings     Options = 1 << 5
	OptCustomForces            Options = 1 << 6
	OptCustomTechTree          Options = 1 << 7
	OptCustomAbilities         Options = 1 << 8
	OptCustomUpgrades          Options = 1 << 9
	OptWaterWavesOnCliffShores Options = 1 << 11
	OptWaterWavesOnSlopeShores Options = 1 << 12
)

// Game flag bits as sent in the stat string.
const (
	gameFlagSpeedNormal       = 0x00000001
	gameFlagSpeedFast         = 0x00000002
	gameFlagHideTerrain       = 0x00000100
	gameFlagExplored          = 0x00000200
	gameFlagAlwaysVisible     = 0x00000400
	gameFlagDefaultVisibility = 0x00000800
	gameFlagObsOnDefeat       = 0x00002000
	gameFlagObsAllowed        = 0x00003000
	gameFlagTeamsTogether     = 0x00004000
	gameFlagFixedTeams        = 0x00060000
	gameFlagUnitShare         = 0x01000000
	gameFlagRandomHero        = 0x02000000
	gameFlagRandomRaces       = 0x04000000
	gameFlagReferees          = 0x40000000
)

// GameFlags folds the speed, visibility, observer and team settings into
// the 32-bit flags word. Speed and visibility default to fast and default
// visibility when unset.
func (m Map) GameFlags() uint32 {
	var flags uint32

	switch m.Speed {
	case SpeedSlow:
	case SpeedNormal:
		flags = gameFlagSpeedNormal
	default:
		flags = gameFlagSpeedFast
	}

	switch m.Visibility {
	case VisibilityHideTerrain:
		flags |= gameFlagHideTerrain
	case VisibilityExplored:
		flags |= gameFlagExplored
	case VisibilityAlwaysVisible:
		flags |= gameFlagAlwaysVisible
	default:
		flags |= gameFlagDefaultVisibility
	}

	switch m.Observers {
	case ObserversOnDefeat:
		flags |= gameFlagObsOnDefeat
	case ObserversAllowed:
		flags |= gameFlagObsAllowed
	case ObserversReferees:
		flags |= gameFlagReferees
	}

	if m.Flags&FlagTeamsTogether != 0 {
		flags |= gameFlagTeamsTogether
	}
	if m.Flags&FlagFixedTeams != 0 {
		flags |= gameFlagFixedTeams
	}
	if m.Flags&FlagUnitShare != 0 {
		flags |= gameFlagUnitShare
	}
	if m.Flags&FlagRandomHero != 0 {
		flags |= gameFlagRandomHero
	}
	if m.Flags&FlagRandomRaces != 0 {
		flags |= gameFlagRandomRaces
	}

	return flags
}

// Filter holds the game list filter categories of a map.
type Filter struct {
	Maker     int `yaml:"maker"`
	Type      int `yaml:"type"`
	Size      int `yaml:"size"`
	Observers int `yaml:"observers"`
}

const (
	FilterMakerUser     = 1
	FilterMakerBlizzard = 2

	FilterTypeMelee    = 1
	FilterTypeScenario = 2

	FilterSizeSmall  = 1
	FilterSizeMedium = 2
	FilterSizeLarge  = 4

	FilterObsFull    = 1
	FilterObsOnDeath = 2
	FilterObsNone    = 4
)

// Game type bits used when advertising a game.
const (
	TypeUnknown0      = 1
	TypeSavedGame     = 1 << 9
	TypePrivateGame   = 1 << 11
	TypeMakerUser     = 1 << 13
	TypeMakerBlizzard = 1 << 14
	TypeMelee         = 1 << 15
	TypeScenario      = 1 << 16
	TypeSizeSmall     = 1 << 17
	TypeSizeMedium    = 1 << 18
	TypeSizeLarge     = 1 << 19
	TypeObsFull       = 1 << 20
	TypeObsOnDeath    = 1 << 21
	TypeObsNone       = 1 << 22
)

// GameType returns the advertised game type bits for the map's filter
// settings. TypeUnknown0 is always set.
func (m Map) GameType() uint32 {
	t := uint32(TypeUnknown0)

	if m.Filter.Maker&FilterMakerUser != 0 {
		t |= TypeMakerUser
	}
	if m.Filter.Maker&FilterMakerBlizzard != 0 {
		t |= TypeMakerBlizzard
	}
	if m.Filter.Type&FilterTypeMelee != 0 {
		t |= TypeMelee
	}
	if m.Filter.Type&FilterTypeScenario != 0 {
		t |= TypeScenario
	}
	if m.Filter.Size&FilterSizeSmall != 0 {
		t |= TypeSizeSmall
	}
	if m.Filter.Size&FilterSizeMedium != 0 {
		t |= TypeSizeMedium
	}
	if m.Filter.Size&FilterSizeLarge != 0 {
		t |= TypeSizeLarge
	}
	if m.Filter.Observers&FilterObsFull != 0 {
		t |= TypeObsFull
	}
	if m.Filter.Observers&FilterObsOnDeath != 0 {
		t |= TypeObsOnDeath
	}
	if m.Filter.Observers&FilterObsNone != 0 {
		t |= TypeObsNone
	}

	return t
}
