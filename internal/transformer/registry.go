package transformer

import (
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/aneroid/ergast-f1db-extra/internal/transformer/builtin"
)

// FileID enumerates the files of the f1db dump.
type FileID int

const (
	Unknown FileID = iota
	Circuits
	ConstructorResults
	ConstructorStandings
	Constructors
	DriverStandings
	Drivers
	LapTimes
	PitStops
	Qualifying
	Races
	Results
	Seasons
	Status
)

var fileIDNames = map[FileID]string{
	Circuits:             "circuits",
	ConstructorResults:   "constructor_results",
	ConstructorStandings: "constructor_standings",
	Constructors:         "constructors",
	DriverStandings:      "driver_standings",
	Drivers:              "drivers",
	LapTimes:             "lap_times",
	PitStops:             "pit_stops",
	Qualifying:           "qualifying",
	Races:                "races",
	Results:              "results",
	Seasons:              "seasons",
	Status:               "status",
}

var fileIDsByName = func() map[string]FileID {
	m := make(map[string]FileID, len(fileIDNames))
	for id, name := range fileIDNames {
		m[name] = id
	}
	return m
}()

func (f FileID) String() string {
	if name, ok := fileIDNames[f]; ok {
		return name
	}
	return "unknown"
}

// NormalizeName derives the identifier of a file name: the extension is
// stripped and every rune that is not a letter or digit becomes '_'.
func NormalizeName(filename string) string {
	base := filepath.Base(filename)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = norm.NFC.String(base)
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return '_'
	}, base)
}

// Identify maps a file name to its FileID, or Unknown.
func Identify(filename string) FileID {
	return fileIDsByName[NormalizeName(filename)]
}

// Registry maps files to their standardisation hook.
type Registry struct {
	hooks map[FileID]Transformer
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{hooks: make(map[FileID]Transformer)}
}

// DefaultRegistry returns the hooks for the f1db file set.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(Drivers, builtin.Date{Column: "dob"})
	r.Register(Races, Chain{
		builtin.Date{Column: "date"},
		builtin.TimeOfDay{Column: "time"},
	})
	r.Register(Qualifying, builtin.Durations{Pairs: []builtin.Pair{
		{Src: "q1", Dst: "q1ms"},
		{Src: "q2", Dst: "q2ms"},
		{Src: "q3", Dst: "q3ms"},
	}})
	r.Register(Results, builtin.Durations{Pairs: []builtin.Pair{
		{Src: "fastestLapTime", Dst: "fastestLapTime_ms"},
	}})
	r.Register(LapTimes, builtin.Durations{Pairs: []builtin.Pair{
		{Src: "time", Dst: "time_ms"},
	}})
	r.Register(PitStops, Chain{
		builtin.Durations{Pairs: []builtin.Pair{{Src: "duration", Dst: "duration_ms"}}},
		builtin.TimeOfDay{Column: "time"},
	})
	return r
}

// Register binds t to id, replacing any earlier hook.
func (r *Registry) Register(id FileID, t Transformer) {
	r.hooks[id] = t
}

// For returns the hook of id. Files without a hook get Identity.
func (r *Registry) For(id FileID) Transformer {
	if t, ok := r.hooks[id]; ok {
		return t
	}
	return Identity
}

// Lookup resolves filename to its hook. Unregistered files get Identity.
func (r *Registry) Lookup(filename string) Transformer {
	return r.For(Identify(filename))
}
