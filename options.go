package jsoncore

// The kind of a JSON value as seen by one of the three representations.
// NUMBER only appears on lazy values (the concrete numeric kind isn't
// known until the number is scanned); INT and FLOAT only appear on
// binary values, which classify numbers eagerly at write time.
type Kind int

// Possible value kinds.
const (
	KindNull Kind = iota
	KindTrue
	KindFalse
	KindInt
	KindFloat
	KindString
	KindObject
	KindArray
	KindNumber
	numKinds
)

var kindStrings = [numKinds]string{
	"<null>",
	"<true>",
	"<false>",
	"<int>",
	"<float>",
	"<string>",
	"<object>",
	"<array>",
	"<number>",
}

// String returns a human-readable name for the kind, used in error
// messages and trace logs.
func (k Kind) String() string {
	if k < 0 || k >= numKinds {
		return "<unknown>"
	}
	return kindStrings[k]
}

// IsScalar reports whether a kind can never contain a child value.
func (k Kind) IsScalar() bool {
	switch k {
	case KindObject, KindArray:
		return false
	default:
		return true
	}
}

// Options configures every parsing, writing, and materializing call.
// It is carried immutably through every sub-parse: lazy.go and
// binary.go both thread a copy rather than mutate a shared instance.
type Options struct {
	// Float64 forces every JSON number to parse as a 64-bit float and
	// legalizes NaN, Inf, -Inf, and a leading '+' sign.
	Float64 bool
	// JSONLines treats the top-level input as an implicit array
	// delimited by \n, \r, or \r\n.
	JSONLines bool
	// Trace optionally receives structural events from the binary
	// writer and the record materializer. Nil disables tracing.
	Trace *TraceLogger
}

// ObjectBuilder is the "add" hook the generic materializer uses to
// accumulate object members into a caller-chosen container.
type ObjectBuilder interface {
	Set(key string, value any)
}

// SequenceBuilder is the "add" hook the generic materializer uses to
// accumulate array elements into a caller-chosen container. Sets are
// permitted: any type satisfying this interface is sequence-shaped as
// far as the materializer is concerned.
type SequenceBuilder interface {
	Push(value any)
}

// Types lets a caller override the default containers the generic
// materializer builds. A zero Types{} uses Map, *Sequence, and plain
// Go strings.
type Types struct {
	NewObject   func() ObjectBuilder
	NewSequence func() SequenceBuilder
	NewString   func(string) any
}

func (t Types) newObject() ObjectBuilder {
	if t.NewObject != nil {
		return t.NewObject()
	}
	return make(Map)
}

func (t Types) newSequence() SequenceBuilder {
	if t.NewSequence != nil {
		return t.NewSequence()
	}
	return &Sequence{}
}

func (t Types) newString(s string) any {
	if t.NewString != nil {
		return t.NewString(s)
	}
	return s
}

// Map is the default generic object container.
type Map map[string]any

// Set implements ObjectBuilder. Duplicate keys resolve last-write-wins.
func (m Map) Set(key string, value any) { m[key] = value }

// Sequence is the default generic array container.
type Sequence struct {
	Items []any
}

// Push implements SequenceBuilder.
func (s *Sequence) Push(value any) { s.Items = append(s.Items, value) }

// absentKind distinguishes the two ways a union-typed field can fail
// to carry a value: JSON null vs. the member being missing entirely.
type absentKind int

const (
	absentNull absentKind = iota
	absentMissing
)

// Absent is the sentinel the generic materializer and record
// materializer use for a union-typed slot that has no concrete value.
// It replaces the source library's singleton "nothing" plus optional
// Missing with an explicit two-valued tag, per spec §9's neutral
// strategy (Absent | Null | Value(x)).
type Absent struct {
	kind absentKind
}

// IsNull reports whether this absent value came from a JSON null.
func (a Absent) IsNull() bool { return a.kind == absentNull }

// IsMissing reports whether this absent value came from a missing member.
func (a Absent) IsMissing() bool { return a.kind == absentMissing }

// Null is the Absent value produced for JSON null when the static
// target does not admit a distinct Missing state.
var Null = Absent{kind: absentNull}

// Missing is the Absent value produced for JSON null (when the
// target admits Missing) and for object members that never arrived.
var Missing = Absent{kind: absentMissing}
