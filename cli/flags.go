package cli

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"
)

const (
	flagModel    = "model"
	flagTree     = "tree"
	flagEnd      = "end"
	flagQ        = "q"
	flagTarget   = "target"
	flagJSON     = "json"
	flagDebug    = "debug"
	flagSeed     = "seed"
	flagRestarts = "restarts"
	flagOptions  = "options"
	flagAxes     = "axes"
)

// jointVectors collects every occurrence of a repeated flag, each a comma separated vector.
type jointVectors struct {
	vectors [][]float64
}

func (v *jointVectors) Set(value string) error {
	vec, err := parseFloats(value)
	if err != nil {
		return err
	}
	v.vectors = append(v.vectors, vec)
	return nil
}

func (v *jointVectors) String() string {
	return strings.Join(lo.Map(v.vectors, func(vec []float64, _ int) string { return formatFloats(vec) }), " ")
}

func parseFloats(value string) ([]float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return []float64{}, nil
	}
	parts := strings.Split(value, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, errors.Wrapf(err, "cannot parse %q as a list of numbers", value)
		}
		out = append(out, f)
	}
	return out, nil
}

func formatFloats(vec []float64) string {
	return strings.Join(lo.Map(vec, func(f float64, _ int) string { return strconv.FormatFloat(f, 'g', -1, 64) }), ",")
}
