package main

import (
	"image/color"
	"math/rand/v2"
	"time"

	"heatcal/heatmap"
)

// sampleActivity returns stable pseudo-random values in 0..99 for every day
// of the month, seeded by the month so navigation shows the same data again.
func sampleActivity(year int, month time.Month) heatmap.ActivityData {
	seed := uint64(year)*12 + uint64(month)
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	days, err := heatmap.DaysInMonth(year, month)
	if err != nil {
		return heatmap.ActivityData{}
	}
	data := make(heatmap.ActivityData, days)
	for day := 1; day <= days; day++ {
		data[day] = rng.IntN(100)
	}
	return data
}

// sampleEvaluator scales each channel of a random gray-ish tint by the value,
// so busier days come out brighter.
func sampleEvaluator(seed uint64) namedEvaluator {
	rng := rand.New(rand.NewPCG(seed, seed))
	r, g, b := rng.IntN(256), rng.IntN(256), rng.IntN(256)
	return namedEvaluator{
		name: "random",
		eval: heatmap.EvaluatorFunc(func(value int) color.NRGBA {
			value = min(max(value, 0), 100)
			return color.NRGBA{
				R: uint8(value * r / 100),
				G: uint8(value * g / 100),
				B: uint8(value * b / 100),
				A: 0xff,
			}
		}),
	}
}
