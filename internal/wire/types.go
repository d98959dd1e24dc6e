// Package wire implements the TLV message container: the fixed-size
// Message record, its field layout, and the append/extract/reserve/
// constrict/walk operations and validity invariants. It has no knowledge
// of agents, names, or peer representation — those are layered on top in
// pkg/agent, internal/registry, and internal/represent (applied through
// pkg/message) respectively.
package wire

import (
	"math"
	"strings"
)

// AgentKey identifies one queue endpoint.
type AgentKey uint32

// ResourceKey identifies a resource (field name).
type ResourceKey uint32

// MaxKey bounds the assignable key space, leaving enough headroom below
// the type's numeric maximum for the sentinel keys defined below (MaxKey+1
// through MaxKey+100). The registry never assigns a hashed key in
// [MaxKey, math.MaxUint32]; only its two hard-coded resource keys
// (MaxKey+1 and MaxKey+2) lie in that range.
const MaxKey ResourceKey = math.MaxUint32 - 1000

// NotAnAgent is the reserved sentinel AgentKey meaning "no such agent".
const NotAnAgent AgentKey = AgentKey(MaxKey)

// Reserved ResourceKey sentinels, per the data model.
const (
	NotAResource        ResourceKey = MaxKey
	ResourceAgentName   ResourceKey = MaxKey + 1
	ResourceAgentKey    ResourceKey = MaxKey + 2
	ResourceResourceName ResourceKey = MaxKey + 3
	ResourceResourceKey ResourceKey = MaxKey + 4
	ResourceBang        ResourceKey = MaxKey + 5
	NoMoreResources     ResourceKey = MaxKey + 100
)

// ResourceType is the closed set of semantic types a resource may carry.
type ResourceType int

const (
	UnknownType ResourceType = iota
	OctetStr
	Boolean
	Integer
	Unsigned
	ObjectID
	Counter64
	Counter
	UInteger
	IPAddress
	TimeTicks
	Gauge
	Opaque
	ResourceKeyType
)

var typeNames = map[ResourceType]string{
	OctetStr:        "OCTET_STR",
	Boolean:         "BOOLEAN",
	Integer:         "INTEGER",
	Unsigned:        "UNSIGNED",
	ObjectID:        "OBJECT_ID",
	Counter64:       "COUNTER64",
	Counter:         "COUNTER",
	UInteger:        "UINTEGER",
	IPAddress:       "IPADDRESS",
	TimeTicks:       "TIMETICKS",
	Gauge:           "GAUGE",
	Opaque:          "OPAQUE",
	ResourceKeyType: "RESOURCE_KEY",
	UnknownType:     "UNKNOWN_TYPE",
}

var namesToType = func() map[string]ResourceType {
	m := make(map[string]ResourceType, len(typeNames))
	for t, n := range typeNames {
		m[n] = t
	}
	return m
}()

// String renders the canonical spelling of t.
func (t ResourceType) String() string {
	if n, ok := typeNames[t]; ok {
		return n
	}
	return "UNKNOWN_TYPE"
}

// ParseResourceType maps a case-insensitive type spelling from a config
// file to its ResourceType, reporting ok=false for unrecognized spellings
// (callers fall back to Opaque per the registry's config-loading rule).
func ParseResourceType(spelling string) (ResourceType, bool) {
	t, ok := namesToType[strings.ToUpper(spelling)]
	return t, ok
}

// Verb is the REST-inspired intent carried by a Message.
type Verb uint32

const (
	Get Verb = iota
	Set
	Create
	Delete
	Ack
)

func (v Verb) String() string {
	switch v {
	case Get:
		return "GET"
	case Set:
		return "SET"
	case Create:
		return "CREATE"
	case Delete:
		return "DELETE"
	case Ack:
		return "ACK"
	default:
		return "ACK"
	}
}

// ParseVerb maps a CLI-style verb string to a Verb, defaulting to Ack for
// any value other than create/delete/get/set, per the external interface.
func ParseVerb(s string) Verb {
	switch s {
	case "create":
		return Create
	case "delete":
		return Delete
	case "get":
		return Get
	case "set":
		return Set
	default:
		return Ack
	}
}

const (
	// Cap is the inline body capacity in bytes (8 KiB).
	Cap = 8192
	// LFieldMax is the maximum per-field value length in bytes.
	LFieldMax = 256
	// validMagic is the byte value of a valid message's valid field.
	validMagic byte = 0x2A

	// keyWidth is sizeof(ResourceKey) on the wire.
	keyWidth = 4
	// lengthWidth is sizeof(size) on the wire.
	lengthWidth = 8
	// fieldHeaderWidth is the number of bytes preceding a field's value.
	fieldHeaderWidth = keyWidth + lengthWidth
)
