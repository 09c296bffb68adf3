package common

import (
	"path"

	"github.com/zeu5/easy21-rl/util"
)

type Flags struct {
	LearnerFlags
	SavePath string
	RunFlags
	Parallelism int
	Debug       bool
	// DebugFromEpisode is the first episode whose trace is written when Debug is set
	DebugFromEpisode int
}

type LearnerFlags struct {
	N0     float64
	Lambda float64
	// LambdaSteps is the number of evenly spaced lambda values swept over [0, 1]
	LambdaSteps int
	// ReferenceEpisodes is the length of the Monte Carlo run the sweep compares against
	ReferenceEpisodes int
}

type RunFlags struct {
	NumRuns     int
	Episodes    int
	ReportEvery int
	Seed        uint64
}

func DefaultFlags() *Flags {
	return &Flags{
		LearnerFlags: LearnerFlags{
			N0:                100,
			Lambda:            0.5,
			LambdaSteps:       11,
			ReferenceEpisodes: 1000000,
		},
		SavePath: "results",
		RunFlags: RunFlags{
			NumRuns:     1,
			Episodes:    100000,
			ReportEvery: 1000,
			Seed:        0,
		},
		Parallelism:      4,
		Debug:            false,
		DebugFromEpisode: 0,
	}
}

func (f *Flags) Record() error {
	return util.SaveJson(path.Join(f.SavePath, "config.json"), f)
}
