package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/num/quat"

	"go.viam.com/fab/spatialmath"
)

// printf prints a line to w.
func printf(w io.Writer, format string, a ...interface{}) {
	//nolint:errcheck
	fmt.Fprintf(w, format+"\n", a...)
}

// infof prints a line to w prefixed with a bold "Info:".
func infof(w io.Writer, format string, a ...interface{}) {
	//nolint:errcheck
	fmt.Fprintf(w, color.New(color.Bold, color.FgCyan).Sprint("Info: ")+format+"\n", a...)
}

// warningf prints a line to w prefixed with a bold yellow "Warning:".
func warningf(w io.Writer, format string, a ...interface{}) {
	//nolint:errcheck
	fmt.Fprintf(w, color.New(color.Bold, color.FgYellow).Sprint("Warning: ")+format+"\n", a...)
}

// parseFloats parses a comma separated list of numbers.
func parseFloats(s string) ([]float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, errors.Wrapf(err, "value %d", i)
		}
		out = append(out, v)
	}
	return out, nil
}

// parseNames parses a comma separated list of names, dropping empty entries.
func parseNames(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parseFrame parses "x,y,z" as a translated world frame or "x,y,z,qw,qx,qy,qz" as a frame with an
// orientation.
func parseFrame(s string) (spatialmath.Frame, error) {
	values, err := parseFloats(s)
	if err != nil {
		return spatialmath.Frame{}, errors.Wrap(err, "invalid frame")
	}
	switch len(values) {
	case 3:
		return spatialmath.NewFrameFromPoint(r3.Vector{X: values[0], Y: values[1], Z: values[2]}), nil
	case 7:
		point := r3.Vector{X: values[0], Y: values[1], Z: values[2]}
		return spatialmath.FrameFromQuaternion(point, quat.Number{Real: values[3], Imag: values[4], Jmag: values[5], Kmag: values[6]})
	default:
		return spatialmath.Frame{}, errors.Errorf("a frame needs 3 or 7 values, got %d", len(values))
	}
}

// frameList collects the values of a repeatable frame flag. Unlike a string slice flag it does
// not split values on commas, which separate the numbers of a single frame.
type frameList struct {
	frames []spatialmath.Frame
	raw    []string
}

// Set parses one frame.
func (fl *frameList) Set(value string) error {
	f, err := parseFrame(value)
	if err != nil {
		return err
	}
	fl.frames = append(fl.frames, f)
	fl.raw = append(fl.raw, value)
	return nil
}

func (fl *frameList) String() string {
	if fl == nil {
		return ""
	}
	return strings.Join(fl.raw, " ")
}

// formatFrame prints a frame as its point and its quaternion.
func formatFrame(f spatialmath.Frame) string {
	q := f.Quaternion()
	return fmt.Sprintf("point=(%.6f, %.6f, %.6f) quaternion=(%.6f, %.6f, %.6f, %.6f)",
		f.Point.X, f.Point.Y, f.Point.Z, q.Real, q.Imag, q.Jmag, q.Kmag)
}
