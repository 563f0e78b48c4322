package animation

import (
	"fmt"
	"math"
	"strings"
)

// Easing maps linear progress in [0,1] to eased progress.
type Easing func(t float64) float64

func Linear(t float64) float64 { return t }

func InOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - math.Pow(-2*t+2, 3)/2
}

func OutCubic(t float64) float64 {
	return 1 - math.Pow(1-t, 3)
}

// OutBack overshoots slightly before settling on the target.
func OutBack(t float64) float64 {
	const c1 = 1.70158
	const c3 = c1 + 1
	return 1 + c3*math.Pow(t-1, 3) + c1*math.Pow(t-1, 2)
}

var easings = map[string]Easing{
	"linear":       Linear,
	"in-out-cubic": InOutCubic,
	"out-cubic":    OutCubic,
	"out-back":     OutBack,
}

// EasingNames lists the accepted easing names.
func EasingNames() []string {
	return []string{"linear", "in-out-cubic", "out-cubic", "out-back"}
}

// ParseEasing resolves an easing curve by name. The empty name selects
// in-out-cubic.
func ParseEasing(name string) (Easing, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return InOutCubic, nil
	}
	e, ok := easings[name]
	if !ok {
		return nil, fmt.Errorf("unknown easing %q (valid: %s)", name, strings.Join(EasingNames(), ", "))
	}
	return e, nil
}
