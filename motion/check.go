package motion

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

const timeEpsilon = 1e-5

type IssueKind int

const (
	IssueLengthMismatch IssueKind = iota
	IssueTimeNotAscending
	IssueStartTimeMismatch
	IssueEndTimeMismatch
)

func (k IssueKind) String() string {
	switch k {
	case IssueLengthMismatch:
		return "times and values length mismatch"
	case IssueTimeNotAscending:
		return "time not ascending"
	case IssueStartTimeMismatch:
		return "start time mismatch"
	case IssueEndTimeMismatch:
		return "end time mismatch"
	default:
		return fmt.Sprintf("issue %d", int(k))
	}
}

type IntegrityIssue struct {
	Channel string // joint, morph or float
	Name    string
	Track   string // position, rotation, scale or value
	Kind    IssueKind
	// offending key index
	Index  int
	Detail string
}

func (i IntegrityIssue) String() string {
	return fmt.Sprintf("%s %q %s: %v at key %d: %s", i.Channel, i.Name, i.Track, i.Kind, i.Index, i.Detail)
}

// IntegrityError lists every broken invariant found in motion
type IntegrityError struct {
	Issues []IntegrityIssue
}

func (e *IntegrityError) Error() string {
	lines := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		lines[i] = issue.String()
	}
	return fmt.Sprintf("motion integrity check failed (%d issues): %s", len(e.Issues), strings.Join(lines, "; "))
}

type integrityChecker struct {
	issues []IntegrityIssue

	haveRange  bool
	start, end float32
	// track which established reference range
	reference string
}

func (c *integrityChecker) check(channel, name, track string, times []float32, numValues int) {
	report := func(kind IssueKind, index int, format string, a ...interface{}) {
		c.issues = append(c.issues, IntegrityIssue{
			Channel: channel,
			Name:    name,
			Track:   track,
			Kind:    kind,
			Index:   index,
			Detail:  fmt.Sprintf(format, a...),
		})
	}

	if len(times) != numValues {
		report(IssueLengthMismatch, 0, "%d times, %d values", len(times), numValues)
	}
	if len(times) == 0 {
		return
	}

	ascending := true
	for i := 1; i < len(times); i++ {
		if times[i] < times[i-1] {
			report(IssueTimeNotAscending, i, "time %v after %v", times[i], times[i-1])
			ascending = false
		}
	}
	if !ascending {
		return
	}

	start, end := times[0], times[len(times)-1]
	if !c.haveRange {
		c.haveRange = true
		c.start, c.end = start, end
		c.reference = fmt.Sprintf("%s %q %s", channel, name, track)
		return
	}
	if mgl32.Abs(start-c.start) > timeEpsilon {
		report(IssueStartTimeMismatch, 0, "starts at %v, %s starts at %v", start, c.reference, c.start)
	}
	if mgl32.Abs(end-c.end) > timeEpsilon {
		report(IssueEndTimeMismatch, len(times)-1, "ends at %v, %s ends at %v", end, c.reference, c.end)
	}
}

// Verify checks invariants of every track.
// Returns *IntegrityError, motion is never repaired.
func (m *Motion) Verify() error {
	var c integrityChecker

	for _, jc := range m.Joints {
		c.check("joint", jc.Name, "position", jc.Position.Times, len(jc.Position.Values))
		c.check("joint", jc.Name, "rotation", jc.Rotation.Times, len(jc.Rotation.Values))
		if m.ScaleEnabled {
			c.check("joint", jc.Name, "scale", jc.Scale.Times, len(jc.Scale.Values))
		}
	}
	for _, sc := range m.Morphs {
		c.check("morph", sc.Name, "value", sc.Track.Times, len(sc.Track.Values))
	}
	for _, sc := range m.Floats {
		c.check("float", sc.Name, "value", sc.Track.Times, len(sc.Track.Values))
	}

	if len(c.issues) != 0 {
		return &IntegrityError{Issues: c.issues}
	}
	return nil
}
