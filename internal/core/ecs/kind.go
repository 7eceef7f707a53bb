package ecs

import "fmt"

// Kind names a typed slot an entity may hold. The set is closed: every kind
// is declared here together with its value type and default.
type Kind uint8

const (
	KindInvalid Kind = iota

	KindXPosition
	KindYPosition
	KindXVelocity
	KindYVelocity
	KindXAcceleration
	KindYAcceleration
	KindWidth
	KindHeight
	KindHealth
	KindLives
	KindScore
	KindDamage
	KindTimer

	KindName
	KindGroup
	KindImage
	KindSound
	KindSprite

	KindCollidable
	KindDestroy
	KindWin
	KindLose
	KindSaveGame

	KindLeftCollision
	KindRightCollision
	KindTopCollision
	KindBottomCollision
	KindAnyCollision

	KindAddEntity
	KindAssociated

	kindCount
)

// ValueType is the Go type family stored by a kind.
type ValueType uint8

const (
	ValueNumber   ValueType = iota // float64
	ValueString                    // string
	ValueBool                      // bool
	ValueEntities                  // []*Entity
	ValueTemplate                  // *Entity, copied on spawn
	ValueRef                       // *Entity, live reference
)

func (v ValueType) String() string {
	switch v {
	case ValueNumber:
		return "number"
	case ValueString:
		return "string"
	case ValueBool:
		return "bool"
	case ValueEntities:
		return "entities"
	case ValueTemplate:
		return "template"
	case ValueRef:
		return "ref"
	}
	return fmt.Sprintf("ValueType(%d)", uint8(v))
}

// KindInfo describes one kind.
type KindInfo struct {
	Name  string
	Value ValueType
	// History kinds remember the value before the latest Set.
	History bool
	// Presentation kinds are stripped from saved snapshots.
	Presentation bool
	// NoDefault kinds cannot be auto-attached.
	NoDefault bool
}

var kindInfos = [kindCount]KindInfo{
	KindXPosition:     {Name: "x_position", Value: ValueNumber, History: true},
	KindYPosition:     {Name: "y_position", Value: ValueNumber, History: true},
	KindXVelocity:     {Name: "x_velocity", Value: ValueNumber},
	KindYVelocity:     {Name: "y_velocity", Value: ValueNumber},
	KindXAcceleration: {Name: "x_acceleration", Value: ValueNumber},
	KindYAcceleration: {Name: "y_acceleration", Value: ValueNumber},
	KindWidth:         {Name: "width", Value: ValueNumber},
	KindHeight:        {Name: "height", Value: ValueNumber},
	KindHealth:        {Name: "health", Value: ValueNumber},
	KindLives:         {Name: "lives", Value: ValueNumber},
	KindScore:         {Name: "score", Value: ValueNumber},
	KindDamage:        {Name: "damage", Value: ValueNumber},
	KindTimer:         {Name: "timer", Value: ValueNumber},

	KindName:   {Name: "name", Value: ValueString},
	KindGroup:  {Name: "group", Value: ValueString},
	KindImage:  {Name: "image", Value: ValueString},
	KindSound:  {Name: "sound", Value: ValueString},
	KindSprite: {Name: "sprite", Value: ValueString, Presentation: true},

	KindCollidable: {Name: "collidable", Value: ValueBool},
	KindDestroy:    {Name: "destroy", Value: ValueBool},
	KindWin:        {Name: "win", Value: ValueBool},
	KindLose:       {Name: "lose", Value: ValueBool},
	KindSaveGame:   {Name: "save_game", Value: ValueBool},

	KindLeftCollision:   {Name: "left_collision", Value: ValueEntities, Presentation: true},
	KindRightCollision:  {Name: "right_collision", Value: ValueEntities, Presentation: true},
	KindTopCollision:    {Name: "top_collision", Value: ValueEntities, Presentation: true},
	KindBottomCollision: {Name: "bottom_collision", Value: ValueEntities, Presentation: true},
	KindAnyCollision:    {Name: "any_collision", Value: ValueEntities, Presentation: true},

	KindAddEntity:  {Name: "add_entity", Value: ValueTemplate, NoDefault: true},
	KindAssociated: {Name: "associated", Value: ValueRef, NoDefault: true},
}

var kindsByName = func() map[string]Kind {
	m := make(map[string]Kind, kindCount)
	for k := KindXPosition; k < kindCount; k++ {
		m[kindInfos[k].Name] = k
	}
	return m
}()

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool { return k > KindInvalid && k < kindCount }

// Info returns the declaration of k. Invalid kinds return a zero KindInfo.
func (k Kind) Info() KindInfo {
	if !k.Valid() {
		return KindInfo{}
	}
	return kindInfos[k]
}

func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
	return kindInfos[k].Name
}

// ParseKind looks up a kind by its declared name.
func ParseKind(name string) (Kind, error) {
	k, ok := kindsByName[name]
	if !ok {
		return KindInvalid, fmt.Errorf("unknown component kind %q", name)
	}
	return k, nil
}

// AllKinds returns every declared kind in declaration order.
func AllKinds() []Kind {
	out := make([]Kind, 0, kindCount-1)
	for k := KindXPosition; k < kindCount; k++ {
		out = append(out, k)
	}
	return out
}

// CollisionKinds are the per-frame collision record kinds.
var CollisionKinds = []Kind{
	KindLeftCollision,
	KindRightCollision,
	KindTopCollision,
	KindBottomCollision,
	KindAnyCollision,
}
